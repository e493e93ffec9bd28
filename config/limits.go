// Package config provides the kernel's tunable resource caps: the per-group
// top-k ceiling, the multi-variable fan-out ceiling, and an output-table
// pre-reservation hint cap.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Limits bounds the kernel's resource usage for a single invocation.
// Unlike config.IndexSettings in the teacher repo, these are loaded once
// per engine process (not per request), since they describe hard caps
// rather than per-query tuning.
type Limits struct {
	// MaxTopK is the largest k the aggregator will honor; a caller asking
	// for more is a precondition violation, not a silent clamp.
	MaxTopK int `yaml:"max_top_k"`

	// MaxFanout bounds |entitiesInContext|^nofVars in the multi-variable
	// aggregator (resolves spec Open Question 3). Exceeding it raises a
	// FanoutExceededError instead of materializing an unbounded
	// cross-product.
	MaxFanout int `yaml:"max_fanout"`

	// ReserveHint is a cap for output-table and internal-map
	// pre-reservation. It is loaded and validated with the other limits;
	// the kernel functions size their tables from their own inputs and do
	// not read it.
	ReserveHint int `yaml:"reserve_hint"`
}

// DefaultLimits returns conservative defaults suitable for interactive
// query latency.
func DefaultLimits() Limits {
	return Limits{
		MaxTopK:     1000,
		MaxFanout:   1_000_000,
		ReserveHint: 1_000_000,
	}
}

// LoadLimits reads Limits from a YAML file at path, falling back to
// DefaultLimits for any zero-valued field left unset in the file.
func LoadLimits(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("reading limits file %q: %w", path, err)
	}

	limits := DefaultLimits()
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return Limits{}, fmt.Errorf("parsing limits file %q: %w", path, err)
	}
	return limits, nil
}

// Validate rejects a Limits value with a non-positive MaxTopK or MaxFanout,
// which would make every kernel call fail spuriously, or a negative
// ReserveHint.
func (l Limits) Validate() []string {
	var problems []string
	if l.MaxTopK <= 0 {
		problems = append(problems, "max_top_k must be positive")
	}
	if l.MaxFanout <= 0 {
		problems = append(problems, "max_fanout must be positive")
	}
	if l.ReserveHint < 0 {
		problems = append(problems, "reserve_hint must not be negative")
	}
	return problems
}
