package types

import (
	"fmt"
	"math"
)

// Metric names used as weight-map keys and breakdown keys
const (
	MetricStructural = "structural"
	MetricSemantic   = "semantic"
	MetricCochange   = "cochange"
	MetricCallgraph  = "callgraph"
)

// MetricNames lists the known metrics in canonical order
var MetricNames = []string{MetricStructural, MetricSemantic, MetricCochange, MetricCallgraph}

// Weights maps metric name to its configured weight. A missing key counts as
// zero, and a zero weight disables the metric's computation entirely.
type Weights map[string]float64

// Get returns the weight for a metric, zero when unset
func (w Weights) Get(metric string) float64 {
	return w[metric]
}

// Active reports whether the metric participates in scoring
func (w Weights) Active(metric string) bool {
	return w[metric] > 0
}

// AnyActive reports whether at least one metric has a positive weight
func (w Weights) AnyActive() bool {
	for _, name := range MetricNames {
		if w[name] > 0 {
			return true
		}
	}
	return false
}

// Edge is a scored, undirected relationship between two chunks in the same
// partition. Weight is the weighted combination of the per-metric scores;
// Breakdown keeps the unweighted scores for inspection.
type Edge struct {
	A      string // Chunk ID, always < B
	B      string
	Weight float64
	// Breakdown maps metric name to its pre-weight score in [0,1].
	// Only metrics with a positive configured weight appear.
	Breakdown map[string]float64
}

// NewEdge creates an edge with the pair normalized to A < B
func NewEdge(a, b string, weight float64, breakdown map[string]float64) *Edge {
	if b < a {
		a, b = b, a
	}
	return &Edge{A: a, B: b, Weight: weight, Breakdown: breakdown}
}

// PairKey returns the canonical key for the unordered chunk pair
func (e *Edge) PairKey() string {
	return PairKey(e.A, e.B)
}

// PairKey builds the canonical unordered-pair key for two chunk IDs
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Validate checks the edge invariants against the configured weights:
// the weight lies in [0,1] and equals the weighted breakdown sum.
func (e *Edge) Validate(weights Weights) error {
	if e.A == "" || e.B == "" || e.A == e.B {
		return fmt.Errorf("invalid edge pair (%q, %q)", e.A, e.B)
	}
	if e.Weight < 0 || e.Weight > 1 {
		return fmt.Errorf("edge weight %f out of range", e.Weight)
	}
	var sum float64
	for metric, score := range e.Breakdown {
		if score < 0 || score > 1 {
			return fmt.Errorf("metric %s score %f out of range", metric, score)
		}
		sum += weights.Get(metric) * score
	}
	if math.Abs(sum-e.Weight) > 1e-9 {
		return fmt.Errorf("edge weight %f does not match breakdown sum %f", e.Weight, sum)
	}
	return nil
}
