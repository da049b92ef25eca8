package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/observability"
)

const namespace = "graphit"

// Metrics collects Prometheus metrics for the API. It implements
// [observability.DocumentHooks] and [observability.StoreHooks] so the
// document service and the store report into the same registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	DocOperations *prometheus.CounterVec
	DocDuration   *prometheus.HistogramVec
	DocNodes      *prometheus.HistogramVec
	SavedBytes    prometheus.Histogram
	SearchResults prometheus.Histogram
	StoreOps      *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
}

// NewMetrics creates a collector with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DocOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "document_operations_total",
				Help:      "Total number of document operations",
			},
			[]string{"operation", "result"},
		),
		DocDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_operation_duration_seconds",
				Help:      "Document operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DocNodes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_nodes",
				Help:      "Node count of loaded and merged documents",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"operation"},
		),
		SavedBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_saved_bytes",
				Help:      "Size of serialized documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
		),
		SearchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of nodes returned by label search",
				Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
			},
		),
		StoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of document store operations",
			},
			[]string{"backend", "operation", "result"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Document store operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.DocOperations,
		m.DocDuration,
		m.DocNodes,
		m.SavedBytes,
		m.SearchResults,
		m.StoreOps,
		m.StoreDuration,
	)
	return m
}

// Registry returns the Prometheus registry for this collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns observability hooks backed by m.
func (m *Metrics) Hooks() observability.Hooks {
	return observability.Hooks{Document: m, Store: m}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnLoad(_ context.Context, nodes, _ int, d time.Duration, err error) {
	m.observeDoc("load", nodes, d, err)
}

func (m *Metrics) OnMerge(_ context.Context, nodes, _ int, d time.Duration, err error) {
	m.observeDoc("merge", nodes, d, err)
}

func (m *Metrics) OnSave(_ context.Context, size int, d time.Duration, err error) {
	m.DocOperations.WithLabelValues("save", result(err)).Inc()
	m.DocDuration.WithLabelValues("save").Observe(d.Seconds())
	if err == nil {
		m.SavedBytes.Observe(float64(size))
	}
}

func (m *Metrics) OnSearch(_ context.Context, results int, d time.Duration) {
	m.DocOperations.WithLabelValues("search", "ok").Inc()
	m.DocDuration.WithLabelValues("search").Observe(d.Seconds())
	m.SearchResults.Observe(float64(results))
}

func (m *Metrics) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	res := result(err)
	if errors.Is(err, errors.ErrCodeNotFound) {
		res = "not_found"
	}
	m.StoreOps.WithLabelValues(backend, op, res).Inc()
	m.StoreDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

func (m *Metrics) observeDoc(op string, nodes int, d time.Duration, err error) {
	m.DocOperations.WithLabelValues(op, result(err)).Inc()
	m.DocDuration.WithLabelValues(op).Observe(d.Seconds())
	if err == nil {
		m.DocNodes.WithLabelValues(op).Observe(float64(nodes))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
