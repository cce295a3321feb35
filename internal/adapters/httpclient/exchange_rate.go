package httpclient

import (
	"context"
	"countryfx/internal/domain"
	"fmt"
	"net/http"
)

type ExchangeRateClient struct {
	http *http.Client
	url  string
}

func (c *ExchangeRateClient) FetchRates(ctx context.Context) (domain.RatesDocument, error) {
	var body domain.RatesDocument
	if err := getJSON(ctx, c.http, c.url, &body); err != nil {
		return domain.RatesDocument{}, fmt.Errorf("exchange rates source: %w", err)
	}
	return body, nil
}

func NewExchangeRateClient(httpClient *http.Client, url string) *ExchangeRateClient {
	return &ExchangeRateClient{http: httpClient, url: url}
}
