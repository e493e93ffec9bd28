package kernel

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NickG-1/qlever/config"
	"github.com/NickG-1/qlever/internal/cancel"
	kerrors "github.com/NickG-1/qlever/internal/errors"
	"github.com/NickG-1/qlever/internal/metrics"
	"github.com/NickG-1/qlever/model"
)

// Pipeline wires the kernel stages together for a single query: range
// filter, then intersection, then aggregation, checking for cancellation
// between stages but never inside a stage's hot loop, recording
// per-stage Prometheus metrics, and tagging its log lines with a
// per-invocation id for log correlation.
type Pipeline struct {
	Limits  config.Limits
	Metrics *metrics.Kernel
	Cancel  *cancel.Handle
}

// NewPipeline builds a Pipeline with the given limits, a fresh metrics
// registry, and a not-yet-cancelled handle.
func NewPipeline(limits config.Limits) *Pipeline {
	return &Pipeline{
		Limits:  limits,
		Metrics: metrics.New(),
		Cancel:  cancel.New(),
	}
}

func (p *Pipeline) observe(component string, start time.Time) {
	if p.Metrics == nil {
		return
	}
	p.Metrics.CallDuration.With(prometheus.Labels{"component": component}).Observe(time.Since(start).Seconds())
}

// RunWordSearch executes range-filter then k-way intersection over a set
// of prefix-expanded word lists, then aggregates into the top-k contexts
// per entity, the common path for a single text-search triple pattern
// with no bound sibling variables.
func (p *Pipeline) RunWordSearch(invocation string, ranges []model.IdRange, preFiltered []model.WordEntityPostings, k int) (*model.OutputTable, error) {
	id := invocationID(invocation)
	log.Printf("kernel[%s]: starting word search over %d lists, k=%d", id, len(preFiltered), k)

	if k > p.Limits.MaxTopK {
		return nil, fmt.Errorf("kernel[%s]: k=%d exceeds max_top_k %d: %w", id, k, p.Limits.MaxTopK, kerrors.ErrPreconditionViolation)
	}

	if err := p.Cancel.ThrowIfCancelled("before range filter"); err != nil {
		return nil, err
	}

	filtered := make([]model.WordEntityPostings, len(preFiltered))
	for i, pre := range preFiltered {
		start := time.Now()
		f, err := FilterByRange(ranges[i], pre)
		p.observe("range_filter", start)
		if err != nil {
			return nil, fmt.Errorf("kernel[%s]: range filter on list %d: %w", id, i, err)
		}
		if p.Metrics != nil {
			p.Metrics.PostingsProcessedTotal.With(prometheus.Labels{"component": "range_filter"}).Add(float64(f.Len()))
		}
		filtered[i] = f
	}

	if err := p.Cancel.ThrowIfCancelled("before intersection"); err != nil {
		return nil, err
	}

	start := time.Now()
	joined, err := CrossIntersectKWay(filtered)
	p.observe("cross_intersect_kway", start)
	if err != nil {
		return nil, fmt.Errorf("kernel[%s]: k-way intersect: %w", id, err)
	}
	if p.Metrics != nil {
		p.Metrics.ContextsMatchedTotal.With(prometheus.Labels{"stage": "intersect"}).Add(float64(joined.Len()))
	}

	if err := p.Cancel.ThrowIfCancelled("before aggregation"); err != nil {
		return nil, err
	}

	start = time.Now()
	out, err := AggScoresAndTakeTopKContexts(joined, k)
	p.observe("aggregate", start)
	if err != nil {
		return nil, fmt.Errorf("kernel[%s]: aggregate: %w", id, err)
	}
	log.Printf("kernel[%s]: word search done, %d rows", id, out.Len())
	return out, nil
}

func invocationID(label string) string {
	if label != "" {
		return label
	}
	return uuid.NewString()
}
