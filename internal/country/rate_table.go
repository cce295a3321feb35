package country

import (
	"bytes"
	"countryfx/internal/domain"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable maps a currency code to its exchange rate. Codes are compared case-insensitively.
type RateTable struct {
	rates map[string]decimal.Decimal
}

// BuildRateTable reads the "rates" object of the document. Entries whose value is not a
// decimal number are skipped. A missing or non-object "rates" yields an empty table.
// When two keys differ only by case the later one in the document wins.
func BuildRateTable(doc domain.RatesDocument) RateTable {
	table := RateTable{rates: make(map[string]decimal.Decimal)}

	dec := json.NewDecoder(bytes.NewReader(doc.Rates))
	tok, err := dec.Token()
	if err != nil {
		return table
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return table
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return table
		}
		code, _ := keyTok.(string)

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return table
		}
		if rate, ok := parseDecimal(raw); ok {
			table.rates[normalizeCode(code)] = rate
		}
	}
	return table
}

func (t RateTable) Lookup(code string) (decimal.Decimal, bool) {
	rate, ok := t.rates[normalizeCode(code)]
	return rate, ok
}

func (t RateTable) Len() int { return len(t.rates) }

func normalizeCode(code string) string { return strings.ToUpper(code) }

// parseDecimal accepts a JSON number or a string holding a number.
func parseDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, false
		}
		text = strings.TrimSpace(s)
	}
	if text == "" || text == "null" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
