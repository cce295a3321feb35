package country

import (
	"countryfx/internal/domain"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// MergeRecord computes the fields persisted for one source record. The second return value
// is false when the record has no usable name and must be skipped.
//
// GDP rules:
//   - no currency: exchange rate null, GDP 0
//   - currency with rate r: exchange rate r, GDP = population * m / r (null when r is 0)
//   - currency missing from the table: both null
func MergeRecord(raw domain.RawCountry, rates RateTable, multipliers MultiplierSource) (domain.CountryFields, bool) {
	if raw.Name == nil || strings.TrimSpace(*raw.Name) == "" {
		return domain.CountryFields{}, false
	}

	fields := domain.CountryFields{
		Name:         *raw.Name,
		Capital:      raw.Capital,
		Region:       raw.Region,
		Population:   parsePopulation(raw.Population),
		CurrencyCode: firstCurrencyCode(raw.Currencies),
		FlagURL:      raw.Flag,
	}

	if fields.CurrencyCode == nil {
		fields.EstimatedGDP = decimal.NewNullDecimal(decimal.Zero)
		return fields, true
	}

	rate, ok := rates.Lookup(*fields.CurrencyCode)
	if !ok {
		return fields, true
	}

	fields.ExchangeRate = decimal.NewNullDecimal(rate)
	m := multipliers.Next()
	if rate.IsZero() {
		return fields, true
	}
	gdp := decimal.NewFromInt(fields.Population).Mul(decimal.NewFromInt(m)).Div(rate)
	fields.EstimatedGDP = decimal.NewNullDecimal(gdp)
	return fields, true
}

// parsePopulation returns 0 for missing, negative or non-numeric values.
// Fractional values are truncated.
func parsePopulation(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	d, ok := parseDecimal(raw)
	if !ok || d.IsNegative() {
		return 0
	}
	whole := d.Truncate(0)
	if !whole.BigInt().IsInt64() {
		return 0
	}
	return whole.IntPart()
}

// firstCurrencyCode looks only at the first element of the currencies list.
func firstCurrencyCode(raw json.RawMessage) *string {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return nil
	}

	var first domain.RawCurrency
	if err := json.Unmarshal(list[0], &first); err != nil {
		return nil
	}
	if first.Code == nil || strings.TrimSpace(*first.Code) == "" {
		return nil
	}
	return first.Code
}
