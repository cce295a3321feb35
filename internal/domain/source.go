package domain

import (
	"bytes"
	"encoding/json"
)

// RawCountry is one element of the countries source document.
// Population and Currencies stay raw: malformed values must not fail the whole document.
type RawCountry struct {
	Name       *string         `json:"name"`
	Capital    *string         `json:"capital"`
	Region     *string         `json:"region"`
	Population json.RawMessage `json:"population"`
	Flag       *string         `json:"flag"`
	Currencies json.RawMessage `json:"currencies"`
}

// UnmarshalJSON decodes a record field by field. Numbers and booleans in text fields
// are kept as their literal text; objects and arrays become null. An element that is
// not an object decodes to an empty record, which the merger skips.
func (c *RawCountry) UnmarshalJSON(data []byte) error {
	*c = RawCountry{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	c.Name = lenientText(fields["name"])
	c.Capital = lenientText(fields["capital"])
	c.Region = lenientText(fields["region"])
	c.Flag = lenientText(fields["flag"])
	c.Population = fields["population"]
	c.Currencies = fields["currencies"]
	return nil
}

func lenientText(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return &s
	case '{', '[', 'n':
		return nil
	default:
		s := string(raw)
		return &s
	}
}

type RawCurrency struct {
	Code *string `json:"code"`
}

// RatesDocument is the exchange rates source document. Rates is expected to be
// an object of currency code to number (or numeric string).
type RatesDocument struct {
	Rates json.RawMessage `json:"rates"`
}
