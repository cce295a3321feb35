package country

import (
	"context"
	"countryfx/internal/adapters"
	"countryfx/internal/domain"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- Testify mocks ---

type MockCountriesClient struct{ mock.Mock }

func (m *MockCountriesClient) FetchCountries(ctx context.Context) ([]domain.RawCountry, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.RawCountry)
	return list, args.Error(1)
}

type MockRatesClient struct{ mock.Mock }

func (m *MockRatesClient) FetchRates(ctx context.Context) (domain.RatesDocument, error) {
	args := m.Called(ctx)
	doc, _ := args.Get(0).(domain.RatesDocument)
	return doc, args.Error(1)
}

type MockCountryStore struct{ mock.Mock }

func (m *MockCountryStore) BeginRefresh(ctx context.Context) (adapters.RefreshBatch, error) {
	args := m.Called(ctx)
	batch, _ := args.Get(0).(adapters.RefreshBatch)
	return batch, args.Error(1)
}

func (m *MockCountryStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockCountryStore) MaxRefreshedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).(*time.Time)
	return ts, args.Error(1)
}

func (m *MockCountryStore) TopByGDP(ctx context.Context, n int) ([]domain.Country, error) {
	args := m.Called(ctx, n)
	list, _ := args.Get(0).([]domain.Country)
	return list, args.Error(1)
}

func (m *MockCountryStore) FindByName(ctx context.Context, name string) (domain.Country, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(domain.Country)
	return c, args.Error(1)
}

func (m *MockCountryStore) DeleteByName(ctx context.Context, name string) (domain.Country, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(domain.Country)
	return c, args.Error(1)
}

func (m *MockCountryStore) List(ctx context.Context, filter domain.ListFilter) ([]domain.Country, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Country)
	return list, args.Error(1)
}

type MockRefreshBatch struct{ mock.Mock }

func (m *MockRefreshBatch) Upsert(ctx context.Context, fields domain.CountryFields, now time.Time) error {
	args := m.Called(ctx, fields, now)
	return args.Error(0)
}

func (m *MockRefreshBatch) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRefreshBatch) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSummaryRenderer struct{ mock.Mock }

func (m *MockSummaryRenderer) Render(ctx context.Context, total int64, top []domain.Country, refreshedAt time.Time) error {
	args := m.Called(ctx, total, top, refreshedAt)
	return args.Error(0)
}

type MockImageCache struct{ mock.Mock }

func (m *MockImageCache) Get() ([]byte, domain.ImageVersion, bool) {
	args := m.Called()
	b, _ := args.Get(0).([]byte)
	v, _ := args.Get(1).(domain.ImageVersion)
	return b, v, args.Bool(2)
}

func (m *MockImageCache) Set(png []byte, version domain.ImageVersion) {
	m.Called(png, version)
}

func (m *MockImageCache) Invalidate() {
	m.Called()
}

// fixedMultiplier always returns the same value.
type fixedMultiplier int64

func (f fixedMultiplier) Next() int64 { return int64(f) }

// countingMultiplier records how many draws were made.
type countingMultiplier struct {
	value int64
	calls int
}

func (c *countingMultiplier) Next() int64 {
	c.calls++
	return c.value
}

func strPtr(s string) *string { return &s }
