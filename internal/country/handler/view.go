package handler

import (
	"countryfx/internal/domain"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type CountryResponse struct {
	ID              int64        `json:"id" example:"1"`
	Name            string       `json:"name" example:"Nigeria"`
	Capital         *string      `json:"capital" example:"Abuja"`
	Region          *string      `json:"region" example:"Africa"`
	Population      int64        `json:"population" example:"206139589"`
	CurrencyCode    *string      `json:"currency_code" example:"NGN"`
	ExchangeRate    *json.Number `json:"exchange_rate" swaggertype:"number" example:"1600.23"`
	EstimatedGDP    *json.Number `json:"estimated_gdp" swaggertype:"number" example:"25767448125.2"`
	FlagURL         *string      `json:"flag_url" example:"https://flagcdn.com/ng.svg"`
	LastRefreshedAt time.Time    `json:"last_refreshed_at" example:"2025-10-22T18:00:00Z"`
}

func toCountryResponse(c domain.Country) CountryResponse {
	return CountryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    decimalNumber(c.ExchangeRate),
		EstimatedGDP:    decimalNumber(c.EstimatedGDP),
		FlagURL:         c.FlagURL,
		LastRefreshedAt: c.LastRefreshedAt.UTC(),
	}
}

// decimalNumber keeps the exact decimal digits in the JSON output.
func decimalNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.String())
	return &n
}
