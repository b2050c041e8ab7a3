// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess           = "success"
	OutcomeSourceUnavailable = "source_unavailable"
	OutcomeStorageError      = "storage_error"
	OutcomeError             = "error"
)

var (
	// RefreshRuns counts refresh runs by outcome.
	RefreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "countries",
		Name:      "refresh_runs_total",
		Help:      "Refresh runs by outcome.",
	}, []string{"outcome"})

	// UpstreamFetchDuration observes each upstream GET.
	UpstreamFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "countries",
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Latency of upstream country and exchange rate requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source", "outcome"})

	// CountriesWritten is the number of records written by the last successful refresh.
	CountriesWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "countries",
		Name:      "last_refresh_written",
		Help:      "Countries written by the last successful refresh.",
	})

	// SummaryImageFailures counts best-effort image renders that failed.
	SummaryImageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "countries",
		Name:      "summary_image_failures_total",
		Help:      "Summary image renders that failed after a refresh.",
	})

	// SourceUp is 1 when the last health probe reached the source.
	SourceUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "countries",
		Name:      "source_up",
		Help:      "Whether the last health probe reached the upstream source.",
	}, []string{"source"})
)
