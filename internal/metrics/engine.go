package metrics

import (
	"path"
	"sort"
	"strings"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

const (
	// DefaultMinEdgeWeight is the combined-weight cutoff below which no edge
	// is emitted
	DefaultMinEdgeWeight = 0.05

	// DefaultMaxCommits bounds how much git history the co-change metric scans
	DefaultMaxCommits = 500

	// stopwordRatio marks a token as a stopword when it appears in more than
	// this share of a partition's chunks
	stopwordRatio = 0.4
)

// Options configures a metric engine
type Options struct {
	Weights       types.Weights
	MinEdgeWeight float64 // Defaults to DefaultMinEdgeWeight when zero
	RepoRoot      string  // Empty disables the co-change metric's git scan
	MaxCommits    int     // Defaults to DefaultMaxCommits when zero
}

// Engine scores candidate chunk pairs within one partition using up to four
// independently weighted metrics. Metrics with zero weight are skipped
// entirely, not computed.
type Engine struct {
	weights    types.Weights
	minWeight  float64
	repoRoot   string
	maxCommits int
	history    *cochangeIndex
}

// New creates a metric engine from the given options
func New(opts *Options) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	e := &Engine{
		weights:    opts.Weights,
		minWeight:  opts.MinEdgeWeight,
		repoRoot:   opts.RepoRoot,
		maxCommits: opts.MaxCommits,
	}
	if e.weights == nil {
		e.weights = types.Weights{}
	}
	if e.minWeight <= 0 {
		e.minWeight = DefaultMinEdgeWeight
	}
	if e.maxCommits <= 0 {
		e.maxCommits = DefaultMaxCommits
	}
	return e
}

// Score computes edges for one partition. The returned edges are sorted by
// pair key so identical inputs always produce identical output.
func (e *Engine) Score(part *types.Partition) []*types.Edge {
	chunks := part.Chunks
	if len(chunks) < 2 || !e.weights.AnyActive() {
		return nil
	}

	filtered := removeStopwords(chunks)

	var graph *callGraph
	var distances map[pair]int
	if e.weights.Active(types.MetricCallgraph) {
		graph = buildCallGraph(chunks)
		distances = graph.pairDistances(maxCallDepth)
	}

	var edges []*types.Edge
	for i := 0; i < len(chunks); i++ {
		for j := i + 1; j < len(chunks); j++ {
			if !e.isCandidate(chunks, filtered, distances, i, j) {
				continue
			}
			if edge := e.scorePair(chunks, filtered, distances, i, j); edge != nil {
				edges = append(edges, edge)
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].PairKey() < edges[j].PairKey()
	})
	return edges
}

// isCandidate gates which pairs are scored at all: the pair must share a
// post-stopword token, sit in the same/parent/child directory, or be
// connected in the call graph
func (e *Engine) isCandidate(chunks []*types.Chunk, filtered []types.StringSet, distances map[pair]int, i, j int) bool {
	if filtered[i].Intersects(filtered[j]) {
		return true
	}
	if adjacentDirs(chunks[i].Path, chunks[j].Path) {
		return true
	}
	if distances != nil {
		if _, ok := distances[pair{i, j}]; ok {
			return true
		}
	}
	return false
}

// scorePair computes the weighted combination of the active metrics, returning
// nil when the combined weight misses the minimum
func (e *Engine) scorePair(chunks []*types.Chunk, filtered []types.StringSet, distances map[pair]int, i, j int) *types.Edge {
	a, b := chunks[i], chunks[j]
	breakdown := make(map[string]float64)

	if e.weights.Active(types.MetricStructural) {
		breakdown[types.MetricStructural] = structuralScore(a.Path, b.Path)
	}
	if e.weights.Active(types.MetricSemantic) {
		breakdown[types.MetricSemantic] = jaccard(filtered[i], filtered[j])
	}
	if e.weights.Active(types.MetricCochange) {
		breakdown[types.MetricCochange] = e.history.score(a.Path, b.Path)
	}
	if e.weights.Active(types.MetricCallgraph) {
		breakdown[types.MetricCallgraph] = callScore(distances, i, j)
	}

	var weight float64
	for metric, score := range breakdown {
		weight += e.weights.Get(metric) * score
	}
	if weight < e.minWeight {
		return nil
	}
	return types.NewEdge(a.ID, b.ID, weight, breakdown)
}

// structuralScore is the shared leading path-segment count over the deeper
// path's depth. Chunks in the same file score 1.0.
func structuralScore(pathA, pathB string) float64 {
	if pathA == pathB {
		return 1.0
	}
	segsA := strings.Split(pathA, "/")
	segsB := strings.Split(pathB, "/")

	common := 0
	for common < len(segsA) && common < len(segsB) && segsA[common] == segsB[common] {
		common++
	}
	depth := len(segsA)
	if len(segsB) > depth {
		depth = len(segsB)
	}
	return float64(common) / float64(depth)
}

// jaccard is set intersection over union; two empty sets score 0
func jaccard(a, b types.StringSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	shared := 0
	for v := range small {
		if large.Has(v) {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// removeStopwords drops tokens present in more than stopwordRatio of the
// partition's chunks; what remains is each chunk's discriminative token set
func removeStopwords(chunks []*types.Chunk) []types.StringSet {
	counts := make(map[string]int)
	for _, c := range chunks {
		for tok := range c.Tokens {
			counts[tok]++
		}
	}

	cutoff := stopwordRatio * float64(len(chunks))
	filtered := make([]types.StringSet, len(chunks))
	for i, c := range chunks {
		kept := types.NewStringSet()
		for tok := range c.Tokens {
			if float64(counts[tok]) <= cutoff {
				kept.Add(tok)
			}
		}
		filtered[i] = kept
	}
	return filtered
}

// adjacentDirs reports whether the two paths share a directory or sit in a
// direct parent/child pair of directories
func adjacentDirs(pathA, pathB string) bool {
	dirA := path.Dir(pathA)
	dirB := path.Dir(pathB)
	return dirA == dirB || path.Dir(dirA) == dirB || path.Dir(dirB) == dirA
}
