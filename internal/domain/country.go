package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Country struct {
	ID              int64
	Name            string
	Capital         *string
	Region          *string
	Population      int64
	CurrencyCode    *string
	ExchangeRate    decimal.NullDecimal
	EstimatedGDP    decimal.NullDecimal
	FlagURL         *string
	LastRefreshedAt time.Time
}

// CountryFields are the values written by one upsert. Name is the business key.
type CountryFields struct {
	Name         string
	Capital      *string
	Region       *string
	Population   int64
	CurrencyCode *string
	ExchangeRate decimal.NullDecimal
	EstimatedGDP decimal.NullDecimal
	FlagURL      *string
}

type SortOrder string

const (
	SortDefault  SortOrder = ""
	SortGDPDesc  SortOrder = "gdp_desc"
	SortGDPAsc   SortOrder = "gdp_asc"
	SortNameDesc SortOrder = "name_desc"
	SortNameAsc  SortOrder = "name_asc"
)

// ParseSortOrder maps a raw query value onto a SortOrder.
// Empty input keeps the id ordering, anything unrecognized sorts by name ascending.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(raw) {
	case SortDefault:
		return SortDefault
	case SortGDPDesc, SortGDPAsc, SortNameDesc:
		return SortOrder(raw)
	default:
		return SortNameAsc
	}
}

type ListFilter struct {
	Region   *string
	Currency *string
	Sort     SortOrder
}

type Status struct {
	TotalCountries  int64
	LastRefreshedAt *time.Time
}
