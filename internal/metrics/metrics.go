// Package metrics defines the Prometheus collectors instrumenting kernel
// invocations. Unlike a request-serving process, nothing here is exposed
// over HTTP: there is no listener in this repository, so callers embedding
// the kernel expose each Kernel's own Registry on their own scrape path.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Kernel holds the Prometheus collectors for a single kernel instance,
// registered against its own Registry rather than the global default one.
// Each Pipeline owns one Kernel, so constructing several pipelines (one
// per test case, one per worker) never collides over collector names.
type Kernel struct {
	Registry *prometheus.Registry

	PostingsProcessedTotal *prometheus.CounterVec
	CrossProductRowsTotal  *prometheus.CounterVec
	TopKEvictionsTotal     *prometheus.CounterVec
	ContextsMatchedTotal   *prometheus.CounterVec
	CallDuration           *prometheus.HistogramVec
}

// New creates and registers all kernel Prometheus collectors on a fresh
// registry.
func New() *Kernel {
	m := &Kernel{
		Registry: prometheus.NewRegistry(),
		PostingsProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fts_kernel_postings_processed_total",
				Help: "Total postings consumed, by component.",
			},
			[]string{"component"},
		),
		CrossProductRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fts_kernel_cross_product_rows_total",
				Help: "Total output rows materialized by cross-product appenders.",
			},
			[]string{"variant"},
		),
		TopKEvictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fts_kernel_topk_evictions_total",
				Help: "Total eviction events in the top-k ordered-set aggregator.",
			},
			[]string{"component"},
		),
		ContextsMatchedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fts_kernel_contexts_matched_total",
				Help: "Total distinct contexts surviving a join stage.",
			},
			[]string{"stage"},
		),
		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fts_kernel_call_duration_seconds",
				Help:    "Wall-clock duration of a single kernel component call.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"component"},
		),
	}

	m.Registry.MustRegister(
		m.PostingsProcessedTotal,
		m.CrossProductRowsTotal,
		m.TopKEvictionsTotal,
		m.ContextsMatchedTotal,
		m.CallDuration,
	)

	return m
}
