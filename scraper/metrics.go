package scraper

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for an extraction run.
type Metrics struct {
	Registry            *prometheus.Registry
	ListingsTotal       *prometheus.CounterVec
	FailuresTotal       *prometheus.CounterVec
	RecordsWrittenTotal prometheus.Counter
	LoadDuration        prometheus.Histogram
	RunDuration         prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	listings := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extract_listings_total",
			Help: "Listing nodes visited, by outcome.",
		},
		[]string{"outcome"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extract_failures_total",
			Help: "Listings skipped during extraction, by reason.",
		},
		[]string{"reason"},
	)
	written := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extract_records_written_total",
			Help: "Book records handed to the output writer.",
		},
	)
	loadDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extract_document_load_duration_seconds",
			Help:    "Time spent loading the input document.",
			Buckets: prometheus.DefBuckets,
		},
	)
	runDuration := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "extract_run_duration_seconds",
			Help: "Wall time of the last extraction run.",
		},
	)

	registry.MustRegister(listings, failures, written, loadDuration, runDuration)

	return &Metrics{
		Registry:            registry,
		ListingsTotal:       listings,
		FailuresTotal:       failures,
		RecordsWrittenTotal: written,
		LoadDuration:        loadDuration,
		RunDuration:         runDuration,
	}
}

// IncListing counts one visited listing with the given outcome.
func (m *Metrics) IncListing(outcome string) {
	if m == nil {
		return
	}
	m.ListingsTotal.WithLabelValues(outcome).Inc()
}

// IncFailure counts one skipped listing by reason.
func (m *Metrics) IncFailure(reason string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(reason).Inc()
}

// AddWritten adds n records to the written counter.
func (m *Metrics) AddWritten(n int) {
	if m == nil {
		return
	}
	m.RecordsWrittenTotal.Add(float64(n))
}

// ObserveLoad records how long loading the document took.
func (m *Metrics) ObserveLoad(d time.Duration) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(d.Seconds())
}

// SetRunDuration records the wall time of the whole run.
func (m *Metrics) SetRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Set(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format, suitable
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(filename string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(filename, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
