package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	opCreate = "create"
	opList   = "list"
	opFetch  = "fetch"
	opInsert = "insert"
	opRemove = "remove"
	opSearch = "search"
	opDelete = "delete"
)

// Metrics are the service's Prometheus collectors, kept on their own
// registry so several services can live in one process.
type Metrics struct {
	registry    *prometheus.Registry
	ops         *prometheus.CounterVec
	trees       prometheus.Gauge
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treeservice",
			Name:      "operations_total",
			Help:      "Tree operations by kind and outcome.",
		}, []string{"op", "result"}),
		trees: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "treeservice",
			Name:      "trees",
			Help:      "Number of hosted trees.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "treeservice",
			Name:      "cache_hits_total",
			Help:      "Live tree cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "treeservice",
			Name:      "cache_misses_total",
			Help:      "Live tree cache misses.",
		}),
	}
	m.registry.MustRegister(m.ops, m.trees, m.cacheHits, m.cacheMisses)
	return m
}

func (m *Metrics) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
