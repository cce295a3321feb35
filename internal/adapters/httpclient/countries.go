package httpclient

import (
	"context"
	"countryfx/internal/domain"
	"fmt"
	"net/http"
)

type CountriesClient struct {
	http *http.Client
	url  string
}

func (c *CountriesClient) FetchCountries(ctx context.Context) ([]domain.RawCountry, error) {
	var body []domain.RawCountry
	if err := getJSON(ctx, c.http, c.url, &body); err != nil {
		return nil, fmt.Errorf("countries source: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("countries source: document is not a list")
	}
	return body, nil
}

func NewCountriesClient(httpClient *http.Client, url string) *CountriesClient {
	return &CountriesClient{http: httpClient, url: url}
}
