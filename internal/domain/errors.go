package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCountryNotFound    = errors.New("country not found")
	ErrInternalProcessing = errors.New("internal processing during refresh")
	ErrImageNotFound      = errors.New("summary image not found")
)

const (
	SourceCountries     = "Countries API"
	SourceExchangeRates = "Exchange Rates API"
)

// UpstreamError reports a failed fetch from one of the external sources.
// Source is used verbatim in API responses.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("could not fetch data from %s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
