package postgres

import (
	"context"
	"countryfx/internal/adapters"
	"countryfx/internal/domain"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var countryColumns = []string{
	"id", "name", "capital", "region", "population", "currency_code",
	"exchange_rate", "estimated_gdp", "flag_url", "last_refreshed_at",
}

type CountryRepository struct {
	pool *pgxpool.Pool
}

// BeginRefresh opens the transaction that carries one refresh cycle.
func (r *CountryRepository) BeginRefresh(ctx context.Context) (adapters.RefreshBatch, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	return &refreshBatch{tx: tx}, nil
}

func (r *CountryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `select count(*) from countries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return n, nil
}

func (r *CountryRepository) MaxRefreshedAt(ctx context.Context) (*time.Time, error) {
	var ts *time.Time
	if err := r.pool.QueryRow(ctx, `select max(last_refreshed_at) from countries`).Scan(&ts); err != nil {
		return nil, fmt.Errorf("failed to select last refresh time: %w", err)
	}
	if ts != nil {
		utc := ts.UTC()
		ts = &utc
	}
	return ts, nil
}

func (r *CountryRepository) TopByGDP(ctx context.Context, n int) ([]domain.Country, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(countryColumns...)
	sb.From("countries")
	sb.Where(sb.IsNotNull("estimated_gdp"))
	sb.OrderBy("estimated_gdp DESC", "id ASC")
	sb.Limit(n)

	query, args := sb.Build()
	return r.query(ctx, query, args...)
}

func (r *CountryRepository) FindByName(ctx context.Context, name string) (domain.Country, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(countryColumns...)
	sb.From("countries")
	sb.Where(sb.Equal("lower(name)", strings.ToLower(name)))
	sb.Limit(1)

	query, args := sb.Build()
	c, err := scanCountry(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Country{}, domain.ErrCountryNotFound
		}
		return domain.Country{}, fmt.Errorf("failed to select country %q: %w", name, err)
	}
	return c, nil
}

func (r *CountryRepository) DeleteByName(ctx context.Context, name string) (domain.Country, error) {
	q := `delete from countries where lower(name) = lower($1) returning ` + strings.Join(countryColumns, ", ")

	c, err := scanCountry(r.pool.QueryRow(ctx, q, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Country{}, domain.ErrCountryNotFound
		}
		return domain.Country{}, fmt.Errorf("failed to delete country %q: %w", name, err)
	}
	return c, nil
}

// List applies the optional filters. GDP sorts put null values last in both directions.
func (r *CountryRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Country, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(countryColumns...)
	sb.From("countries")

	var where []string
	if filter.Region != nil {
		where = append(where, sb.Equal("region", *filter.Region))
	}
	if filter.Currency != nil {
		where = append(where, sb.Equal("upper(currency_code)", strings.ToUpper(*filter.Currency)))
	}
	if len(where) > 0 {
		sb.Where(where...)
	}
	sb.OrderBy(orderBy(filter.Sort)...)

	query, args := sb.Build()
	return r.query(ctx, query, args...)
}

func orderBy(sort domain.SortOrder) []string {
	switch sort {
	case domain.SortDefault:
		return []string{"id ASC"}
	case domain.SortGDPDesc:
		return []string{"estimated_gdp DESC NULLS LAST", "id ASC"}
	case domain.SortGDPAsc:
		return []string{"estimated_gdp ASC NULLS LAST", "id ASC"}
	case domain.SortNameDesc:
		return []string{"name DESC", "id ASC"}
	default:
		return []string{"name ASC", "id ASC"}
	}
}

func (r *CountryRepository) query(ctx context.Context, query string, args ...any) ([]domain.Country, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select countries: %w", err)
	}
	defer rows.Close()

	countries := make([]domain.Country, 0)
	for rows.Next() {
		c, scanErr := scanCountry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan country: %w", scanErr)
		}
		countries = append(countries, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate countries: %w", err)
	}
	return countries, nil
}

func scanCountry(row pgx.Row) (domain.Country, error) {
	var c domain.Country
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Capital,
		&c.Region,
		&c.Population,
		&c.CurrencyCode,
		&c.ExchangeRate,
		&c.EstimatedGDP,
		&c.FlagURL,
		&c.LastRefreshedAt,
	); err != nil {
		return domain.Country{}, err
	}
	c.LastRefreshedAt = c.LastRefreshedAt.UTC()
	return c, nil
}

// refreshBatch upserts into one transaction. The unique index on lower(name) resolves
// duplicates, so repeated names within a cycle end as last write wins.
type refreshBatch struct {
	tx pgx.Tx
}

func (b *refreshBatch) Upsert(ctx context.Context, f domain.CountryFields, now time.Time) error {
	const q = `
		insert into countries (name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		on conflict ((lower(name))) do update set
			capital           = excluded.capital,
			region            = excluded.region,
			population        = excluded.population,
			currency_code     = excluded.currency_code,
			exchange_rate     = excluded.exchange_rate,
			estimated_gdp     = excluded.estimated_gdp,
			flag_url          = excluded.flag_url,
			last_refreshed_at = excluded.last_refreshed_at;
	`

	if _, err := b.tx.Exec(ctx, q,
		f.Name,
		f.Capital,
		f.Region,
		f.Population,
		f.CurrencyCode,
		f.ExchangeRate,
		f.EstimatedGDP,
		f.FlagURL,
		now,
	); err != nil {
		return fmt.Errorf("failed to upsert country %q: %w", f.Name, err)
	}
	return nil
}

func (b *refreshBatch) Commit(ctx context.Context) error {
	return b.tx.Commit(ctx)
}

// Rollback is a no-op once the batch was committed.
func (b *refreshBatch) Rollback(ctx context.Context) error {
	if err := b.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func NewCountryRepository(pool *pgxpool.Pool) *CountryRepository {
	return &CountryRepository{pool: pool}
}
