package adapters

import (
	"context"
	"countryfx/internal/domain"
	"time"
)

type CountriesClient interface {
	FetchCountries(ctx context.Context) ([]domain.RawCountry, error)
}

type RatesClient interface {
	FetchRates(ctx context.Context) (domain.RatesDocument, error)
}

// CountryStore is the persistence handle shared by the refresh pipeline and the read endpoints.
// Implementations rely on the database for isolation; callers take no locks.
type CountryStore interface {
	BeginRefresh(ctx context.Context) (RefreshBatch, error)
	Count(ctx context.Context) (int64, error)
	MaxRefreshedAt(ctx context.Context) (*time.Time, error)
	TopByGDP(ctx context.Context, n int) ([]domain.Country, error)
	FindByName(ctx context.Context, name string) (domain.Country, error)
	DeleteByName(ctx context.Context, name string) (domain.Country, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Country, error)
}

// RefreshBatch accumulates the upserts of one refresh cycle.
type RefreshBatch interface {
	Upsert(ctx context.Context, fields domain.CountryFields, now time.Time) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type SummaryRenderer interface {
	Render(ctx context.Context, total int64, top []domain.Country, refreshedAt time.Time) error
}

type ImageCache interface {
	Get() ([]byte, domain.ImageVersion, bool)
	Set(png []byte, version domain.ImageVersion)
	Invalidate()
}
