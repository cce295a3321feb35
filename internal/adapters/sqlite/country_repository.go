package sqlite

import (
	"context"
	"countryfx/internal/adapters"
	"countryfx/internal/domain"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// countryRow is the gorm model of the countries table.
type countryRow struct {
	ID              int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string              `gorm:"column:name;not null"`
	Capital         *string             `gorm:"column:capital"`
	Region          *string             `gorm:"column:region;index"`
	Population      int64               `gorm:"column:population;not null;default:0"`
	CurrencyCode    *string             `gorm:"column:currency_code"`
	ExchangeRate    decimal.NullDecimal `gorm:"column:exchange_rate;type:numeric"`
	EstimatedGDP    decimal.NullDecimal `gorm:"column:estimated_gdp;type:numeric"`
	FlagURL         *string             `gorm:"column:flag_url"`
	LastRefreshedAt time.Time           `gorm:"column:last_refreshed_at;not null"`
}

func (countryRow) TableName() string { return "countries" }

func (r countryRow) toDomain() domain.Country {
	return domain.Country{
		ID:              r.ID,
		Name:            r.Name,
		Capital:         r.Capital,
		Region:          r.Region,
		Population:      r.Population,
		CurrencyCode:    r.CurrencyCode,
		ExchangeRate:    r.ExchangeRate,
		EstimatedGDP:    r.EstimatedGDP,
		FlagURL:         r.FlagURL,
		LastRefreshedAt: r.LastRefreshedAt.UTC(),
	}
}

func (r *countryRow) apply(f domain.CountryFields, now time.Time) {
	r.Capital = f.Capital
	r.Region = f.Region
	r.Population = f.Population
	r.CurrencyCode = f.CurrencyCode
	r.ExchangeRate = f.ExchangeRate
	r.EstimatedGDP = f.EstimatedGDP
	r.FlagURL = f.FlagURL
	r.LastRefreshedAt = now.UTC()
}

// Migrate creates the countries table and the case-insensitive name index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&countryRow{}); err != nil {
		return fmt.Errorf("failed to migrate countries: %w", err)
	}
	if err := db.Exec(`create unique index if not exists countries_name_lower_uidx on countries (lower(name))`).Error; err != nil {
		return fmt.Errorf("failed to create name index: %w", err)
	}
	return nil
}

// CountryRepository stores countries through gorm. SQLite keeps numeric columns as REAL,
// so decimals lose precision past about 15 significant digits.
type CountryRepository struct {
	db *gorm.DB
}

func (r *CountryRepository) BeginRefresh(ctx context.Context) (adapters.RefreshBatch, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", tx.Error)
	}
	return &refreshBatch{tx: tx}, nil
}

func (r *CountryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&countryRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return n, nil
}

func (r *CountryRepository) MaxRefreshedAt(ctx context.Context) (*time.Time, error) {
	var row countryRow
	err := r.db.WithContext(ctx).
		Order("last_refreshed_at DESC").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select last refresh time: %w", err)
	}
	ts := row.LastRefreshedAt.UTC()
	return &ts, nil
}

func (r *CountryRepository) TopByGDP(ctx context.Context, n int) ([]domain.Country, error) {
	var rows []countryRow
	err := r.db.WithContext(ctx).
		Where("estimated_gdp IS NOT NULL").
		Order("estimated_gdp DESC").
		Order("id ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select top countries: %w", err)
	}
	return toDomainList(rows), nil
}

func (r *CountryRepository) FindByName(ctx context.Context, name string) (domain.Country, error) {
	row, err := findByName(r.db.WithContext(ctx), name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Country{}, domain.ErrCountryNotFound
		}
		return domain.Country{}, fmt.Errorf("failed to select country %q: %w", name, err)
	}
	return row.toDomain(), nil
}

func (r *CountryRepository) DeleteByName(ctx context.Context, name string) (domain.Country, error) {
	var deleted countryRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findByName(tx, name)
		if err != nil {
			return err
		}
		if err = tx.Delete(&countryRow{}, row.ID).Error; err != nil {
			return err
		}
		deleted = row
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Country{}, domain.ErrCountryNotFound
		}
		return domain.Country{}, fmt.Errorf("failed to delete country %q: %w", name, err)
	}
	return deleted.toDomain(), nil
}

// List applies the optional filters. GDP sorts put null values last in both directions.
func (r *CountryRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Country, error) {
	q := r.db.WithContext(ctx).Model(&countryRow{})
	if filter.Region != nil {
		q = q.Where("region = ?", *filter.Region)
	}
	if filter.Currency != nil {
		q = q.Where("upper(currency_code) = ?", strings.ToUpper(*filter.Currency))
	}
	for _, clause := range orderBy(filter.Sort) {
		q = q.Order(clause)
	}

	var rows []countryRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to select countries: %w", err)
	}
	return toDomainList(rows), nil
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

func findByName(db *gorm.DB, name string) (countryRow, error) {
	var row countryRow
	err := db.Where("lower(name) = lower(?)", name).Take(&row).Error
	return row, err
}

func toDomainList(rows []countryRow) []domain.Country {
	out := make([]domain.Country, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// refreshBatch looks each name up inside the transaction, then updates or creates the row.
type refreshBatch struct {
	tx   *gorm.DB
	done bool
}

func (b *refreshBatch) Upsert(_ context.Context, f domain.CountryFields, now time.Time) error {
	row, err := findByName(b.tx, f.Name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = countryRow{Name: f.Name}
		row.apply(f, now)
		err = b.tx.Create(&row).Error
	case err == nil:
		row.apply(f, now)
		err = b.tx.Save(&row).Error
	}
	if err != nil {
		return fmt.Errorf("failed to upsert country %q: %w", f.Name, err)
	}
	return nil
}

func (b *refreshBatch) Commit(_ context.Context) error {
	if b.done {
		return errors.New("refresh batch already closed")
	}
	b.done = true
	return b.tx.Commit().Error
}

func (b *refreshBatch) Rollback(_ context.Context) error {
	if b.done {
		return nil
	}
	b.done = true
	return b.tx.Rollback().Error
}

func NewCountryRepository(db *gorm.DB) *CountryRepository {
	return &CountryRepository{db: db}
}
