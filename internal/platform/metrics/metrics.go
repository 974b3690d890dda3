// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics holds the Prometheus instruments shared by the catalogue packages.
//
// Instruments are registered against an injected [prometheus.Registerer] so that
// tests can build as many instances as they like. Passing nil yields unregistered,
// fully functional instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CollectionsRequests *prometheus.CounterVec
	CollectionsLatency  *prometheus.HistogramVec

	RecordsCreated  *prometheus.CounterVec
	RecordsDeleted  *prometheus.CounterVec
	FormatConflicts prometheus.Counter

	IndexDocuments       prometheus.Gauge
	IndexRebuildDuration prometheus.Histogram
	IndexRebuilds        *prometheus.CounterVec
	IndexSearches        *prometheus.CounterVec
	IndexState           prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		CollectionsRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "avisbase_collections_requests_total",
			Help: "Requests sent to the Collections catalogue store, by operation and outcome",
		}, []string{"operation", "outcome"}),
		CollectionsLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "avisbase_collections_request_duration_seconds",
			Help:    "Latency of Collections catalogue store requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "avisbase_records_created_total",
			Help: "Catalogue records created, by record kind",
		}, []string{"kind"}),
		RecordsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "avisbase_records_deleted_total",
			Help: "Catalogue records deleted, by record kind",
		}, []string{"kind"}),
		FormatConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "avisbase_item_format_conflicts_total",
			Help: "Item creations rejected because the manifestation already holds that format",
		}),
		IndexDocuments: factory.NewGauge(prometheus.GaugeOpts{
			Name: "avisbase_title_index_documents",
			Help: "Titles visible to search readers",
		}),
		IndexRebuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "avisbase_title_index_rebuild_duration_seconds",
			Help:    "Wall time of full title index rebuilds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		IndexRebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "avisbase_title_index_rebuilds_total",
			Help: "Full title index rebuilds, by outcome (ok, error, skipped)",
		}, []string{"outcome"}),
		IndexSearches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "avisbase_title_index_searches_total",
			Help: "Title searches, by outcome",
		}, []string{"outcome"}),
		IndexState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "avisbase_title_index_state",
			Help: "Title index state (0 uninitialized, 1 indexing, 2 ready)",
		}),
	}
}

// ObserveCollections records one Collections round trip.
func (m *Metrics) ObserveCollections(operation string, seconds float64, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.CollectionsRequests.WithLabelValues(operation, outcome).Inc()
	m.CollectionsLatency.WithLabelValues(operation).Observe(seconds)
}
