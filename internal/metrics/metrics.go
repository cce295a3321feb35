// Package metrics provides Prometheus metrics for the refresh pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess       = "success"
	OutcomeCountriesAPI  = "countries_api"
	OutcomeRatesAPI      = "exchange_rates_api"
	OutcomeInternalError = "internal"
)

var (
	// RefreshesTotal tracks refresh cycles by outcome
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "countryfx",
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Total number of refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	// RefreshDuration tracks the duration of a refresh cycle in seconds
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "countryfx",
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Duration of refresh cycles in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	// FetchDuration tracks upstream fetch duration by source
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "countryfx",
			Subsystem: "upstream",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// RecordsTotal tracks merged source records by result
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "countryfx",
			Subsystem: "refresh",
			Name:      "records_total",
			Help:      "Total number of source records processed by result",
		},
		[]string{"result"},
	)
)
