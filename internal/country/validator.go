package country

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	maxRegionLen   = 100
	maxCurrencyLen = 10
	maxSortLen     = 32
	maxNameLen     = 200
)

// ValidationError collects field level messages for a rejected request.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidateListQuery checks the raw list query parameters. Empty values mean "not provided".
func ValidateListQuery(region, currency, sortBy string) error {
	verr := &ValidationError{}
	if utf8.RuneCountInString(region) > maxRegionLen {
		verr.add("region", fmt.Sprintf("must be at most %d characters", maxRegionLen))
	}
	if utf8.RuneCountInString(currency) > maxCurrencyLen {
		verr.add("currency", fmt.Sprintf("must be at most %d characters", maxCurrencyLen))
	}
	if utf8.RuneCountInString(sortBy) > maxSortLen {
		verr.add("sort", fmt.Sprintf("must be at most %d characters", maxSortLen))
	}
	return verr.orNil()
}

func ValidateName(name string) error {
	verr := &ValidationError{}
	switch {
	case strings.TrimSpace(name) == "":
		verr.add("name", "is required")
	case utf8.RuneCountInString(name) > maxNameLen:
		verr.add("name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
	return verr.orNil()
}
