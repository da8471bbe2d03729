// Package metrics instruments the compiler pipeline with Prometheus
// collectors: a private registry plus a handful of named
// Counter/Histogram fields, narrowed to what a compile job actually
// emits.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors triadc registers for one process.
type Metrics struct {
	compilesTotal    *prometheus.CounterVec
	compileDuration  *prometheus.HistogramVec
	registerSpills   prometheus.Counter
	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter

	registry *prometheus.Registry
}

// Config is a namespace/subsystem pair used to build every
// collector's fully qualified name.
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig returns triadc's default metric naming.
func DefaultConfig() Config {
	return Config{Namespace: "triadc", Subsystem: "compiler"}
}

// New creates and registers every collector against a fresh registry.
func New(config Config) *Metrics {
	if config.Namespace == "" {
		config = DefaultConfig()
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{registry: registry}

	m.compilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "compiles_total",
		Help:      "Total number of compile attempts by outcome.",
	}, []string{"outcome"}) // outcome: success | error

	m.compileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "compile_duration_seconds",
		Help:      "Wall-clock duration of a full compile, by phase.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase"}) // phase: callers record only "total"

	m.registerSpills = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "register_spills_total",
		Help:      "Total number of register allocator spill events across all compiles.",
	})

	m.cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of compile-artifact cache hits.",
	})
	m.cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of compile-artifact cache misses.",
	})

	registry.MustRegister(
		m.compilesTotal,
		m.compileDuration,
		m.registerSpills,
		m.cacheHitsTotal,
		m.cacheMissesTotal,
	)

	return m
}

// Handler returns the promhttp handler for this registry, wired into
// pkg/server under /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCompile records one compile's outcome and phase duration.
func (m *Metrics) ObserveCompile(outcome, phase string, seconds float64) {
	m.compilesTotal.WithLabelValues(outcome).Inc()
	m.compileDuration.WithLabelValues(phase).Observe(seconds)
}

// RecordSpill increments the allocator spill counter by one. The
// driver does not subscribe to asmgen spill events, so no compile path
// calls it.
func (m *Metrics) RecordSpill() {
	m.registerSpills.Inc()
}

// RecordCacheHit and RecordCacheMiss track pkg/cache lookups.
func (m *Metrics) RecordCacheHit()  { m.cacheHitsTotal.Inc() }
func (m *Metrics) RecordCacheMiss() { m.cacheMissesTotal.Inc() }
