package country

import (
	"context"
	"countryfx/internal/adapters"
	"countryfx/internal/domain"
	"countryfx/internal/metrics"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	summaryTopN         = 5
)

// Refresher runs one refresh cycle: fetch countries, fetch rates, merge and upsert,
// commit, then render the summary image.
//
// Concurrent cycles are not coordinated. Upserts of two overlapping cycles interleave and
// the last write wins per row; readers may see a table where only part of the rows carry
// the newest timestamp. Isolation is whatever the store's transaction gives.
type Refresher struct {
	countries    adapters.CountriesClient
	rates        adapters.RatesClient
	store        adapters.CountryStore
	renderer     adapters.SummaryRenderer
	images       adapters.ImageCache
	multipliers  MultiplierSource
	fetchTimeout time.Duration
	now          func() time.Time
}

type fetchStep struct {
	source  string
	outcome string
	fetch   func(ctx context.Context) error
}

func (r *Refresher) Refresh(ctx context.Context) error {
	execID := uuid.NewString()
	log := logrus.WithField("exec_id", execID)
	start := time.Now()
	defer func() { metrics.RefreshDuration.Observe(time.Since(start).Seconds()) }()

	var (
		rawCountries []domain.RawCountry
		ratesDoc     domain.RatesDocument
	)
	steps := []fetchStep{
		{
			source:  domain.SourceCountries,
			outcome: metrics.OutcomeCountriesAPI,
			fetch: func(ctx context.Context) (err error) {
				rawCountries, err = r.countries.FetchCountries(ctx)
				return err
			},
		},
		{
			source:  domain.SourceExchangeRates,
			outcome: metrics.OutcomeRatesAPI,
			fetch: func(ctx context.Context) (err error) {
				ratesDoc, err = r.rates.FetchRates(ctx)
				return err
			},
		},
	}

	// STEP 1: fetching both documents, in order, no retries
	for _, step := range steps {
		if err := r.runFetch(ctx, step); err != nil {
			log.WithError(err).WithField("source", step.source).Warn("Refresh aborted, upstream unavailable")
			metrics.RefreshesTotal.WithLabelValues(step.outcome).Inc()
			return &domain.UpstreamError{Source: step.source, Err: err}
		}
	}
	log.Infof("Fetched %d country records", len(rawCountries))

	// STEP 2: merge, persist and render behind one error boundary. The cause is only logged.
	if err := r.apply(ctx, log, rawCountries, ratesDoc); err != nil {
		log.WithError(err).Error("Refresh failed during internal processing")
		metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeInternalError).Inc()
		return domain.ErrInternalProcessing
	}

	metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Infof("Refresh completed in %s", time.Since(start))
	return nil
}

func (r *Refresher) runFetch(ctx context.Context, step fetchStep) error {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	start := time.Now()
	err := step.fetch(fetchCtx)
	metrics.FetchDuration.WithLabelValues(step.source).Observe(time.Since(start).Seconds())
	return err
}

func (r *Refresher) apply(ctx context.Context, log *logrus.Entry, rawCountries []domain.RawCountry, ratesDoc domain.RatesDocument) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while refreshing: %v", p)
		}
	}()

	// one timestamp for the whole cycle
	now := r.now().UTC().Truncate(time.Microsecond)
	table := BuildRateTable(ratesDoc)
	log.Debugf("Rate table built with %d currencies", table.Len())

	batch, err := r.store.BeginRefresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin refresh batch: %w", err)
	}
	defer func() { _ = batch.Rollback(ctx) }()

	upserted, skipped := 0, 0
	for _, raw := range rawCountries {
		fields, ok := MergeRecord(raw, table, r.multipliers)
		if !ok {
			skipped++
			continue
		}
		if err = batch.Upsert(ctx, fields, now); err != nil {
			return err
		}
		upserted++
	}

	if err = batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit refresh batch: %w", err)
	}
	metrics.RecordsTotal.WithLabelValues("upserted").Add(float64(upserted))
	metrics.RecordsTotal.WithLabelValues("skipped").Add(float64(skipped))
	log.Infof("%d countries upserted, %d records skipped", upserted, skipped)

	total, err := r.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	top, err := r.store.TopByGDP(ctx, summaryTopN)
	if err != nil {
		return fmt.Errorf("failed to query top countries: %w", err)
	}
	if err = r.renderer.Render(ctx, total, top, now); err != nil {
		return fmt.Errorf("failed to render summary image: %w", err)
	}
	if r.images != nil {
		r.images.Invalidate()
	}
	return nil
}

// NewRefresher wires the pipeline. A nil multiplier source draws from math/rand,
// a non-positive timeout falls back to DefaultFetchTimeout.
func NewRefresher(
	countries adapters.CountriesClient,
	rates adapters.RatesClient,
	store adapters.CountryStore,
	renderer adapters.SummaryRenderer,
	images adapters.ImageCache,
	multipliers MultiplierSource,
	fetchTimeout time.Duration,
) *Refresher {
	if multipliers == nil {
		multipliers = RandomMultiplier{}
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Refresher{
		countries:    countries,
		rates:        rates,
		store:        store,
		renderer:     renderer,
		images:       images,
		multipliers:  multipliers,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}
