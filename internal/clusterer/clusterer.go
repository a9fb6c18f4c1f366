package clusterer

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"github.com/dshills/gocluster-mcp/internal/disjointset"
	"github.com/dshills/gocluster-mcp/pkg/types"
)

const (
	// DefaultThreshold is the average-linkage weight below which clusters are
	// not merged
	DefaultThreshold = 0.15

	// smallPartitionSize is the chunk count at or below which a partition
	// bypasses agglomeration and becomes a single cluster
	smallPartitionSize = 3

	// repushEpsilon is the allowed drift between a heap-popped weight and the
	// recomputed average linkage before the pair is requeued at its corrected
	// priority instead of merged. Tunable; results stay deterministic for a
	// fixed input.
	repushEpsilon = 0.01
)

// Builder merges one partition's chunks into clusters by average-linkage
// agglomerative clustering over the scored edge set
type Builder struct {
	threshold float64
}

// New creates a Builder. A negative threshold selects DefaultThreshold.
func New(threshold float64) *Builder {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Builder{threshold: threshold}
}

// Build clusters a partition's eligible chunks. The result is sorted by
// descending member count and covers every eligible chunk exactly once.
// Cluster IDs are partition-local; Finalize renumbers them globally.
func (b *Builder) Build(part *types.Partition, edges []*types.Edge) []*types.Cluster {
	var eligible []*types.Chunk
	for _, c := range part.Chunks {
		if c.Clusterable() {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	if len(eligible) <= smallPartitionSize {
		cluster := newCluster("c1", part.Name, eligible)
		return []*types.Cluster{cluster}
	}

	index := make(map[string]int, len(eligible))
	for i, c := range eligible {
		index[c.ID] = i
	}

	// Known edge weights; absent pairs weigh 0 in average linkage
	weights := make(map[pairKey]float64)
	h := &mergeHeap{}
	for _, e := range edges {
		i, okA := index[e.A]
		j, okB := index[e.B]
		if !okA || !okB {
			continue
		}
		weights[orderPair(i, j)] = e.Weight
		heap.Push(h, mergeCandidate{weight: e.Weight, a: i, b: j, key: e.PairKey()})
	}

	ds := disjointset.New(len(eligible))
	members := make(map[int][]int, len(eligible))
	for i := range eligible {
		members[i] = []int{i}
	}

	for h.Len() > 0 {
		cand := heap.Pop(h).(mergeCandidate)
		// The heap drains in descending order: everything left is below the
		// threshold too
		if cand.weight < b.threshold {
			break
		}

		ra, rb := ds.Find(cand.a), ds.Find(cand.b)
		if ra == rb {
			continue
		}

		// Membership may have changed since this candidate was queued; the
		// queued weight is only a priority hint
		current := averageLinkage(members[ra], members[rb], weights)
		if current < b.threshold {
			continue
		}
		if math.Abs(current-cand.weight) > repushEpsilon {
			heap.Push(h, mergeCandidate{weight: current, a: cand.a, b: cand.b, key: cand.key})
			continue
		}

		ds.Union(ra, rb)
		root := ds.Find(ra)
		merged := append(members[ra], members[rb]...)
		sort.Ints(merged)
		delete(members, ra)
		delete(members, rb)
		members[root] = merged

		for other, otherMembers := range members {
			if other == root {
				continue
			}
			w := averageLinkage(merged, otherMembers, weights)
			if w >= b.threshold {
				a, c := merged[0], otherMembers[0]
				heap.Push(h, mergeCandidate{
					weight: w,
					a:      a,
					b:      c,
					key:    types.PairKey(eligible[a].ID, eligible[c].ID),
				})
			}
		}
	}

	return b.collect(part.Name, eligible, members)
}

// collect turns the surviving disjoint sets into named, size-sorted clusters
func (b *Builder) collect(partition string, eligible []*types.Chunk, members map[int][]int) []*types.Cluster {
	groups := make([][]int, 0, len(members))
	for _, m := range members {
		groups = append(groups, m)
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return eligible[groups[i][0]].ID < eligible[groups[j][0]].ID
	})

	clusters := make([]*types.Cluster, 0, len(groups))
	for n, group := range groups {
		chunks := make([]*types.Chunk, len(group))
		for i, idx := range group {
			chunks[i] = eligible[idx]
		}
		clusters = append(clusters, newCluster(fmt.Sprintf("c%d", n+1), partition, chunks))
	}
	return clusters
}

// averageLinkage is the mean edge weight over every cross-group member pair,
// with missing pairs counted as 0
func averageLinkage(a, b []int, weights map[pairKey]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var sum float64
	for _, i := range a {
		for _, j := range b {
			sum += weights[orderPair(i, j)]
		}
	}
	return sum / float64(len(a)*len(b))
}

// newCluster builds a cluster record with sorted member IDs, a derived name,
// and a derived description
func newCluster(id, partition string, chunks []*types.Chunk) *types.Cluster {
	ids := make([]string, len(chunks))
	files := types.NewStringSet()
	for i, c := range chunks {
		ids[i] = c.ID
		files.Add(c.Path)
	}
	sort.Strings(ids)

	return &types.Cluster{
		ID:          id,
		Partition:   partition,
		Name:        deriveName(chunks, "cluster-"+id),
		Description: fmt.Sprintf("%d chunks across %d files", len(chunks), files.Len()),
		ChunkIDs:    ids,
	}
}

// pairKey indexes an unordered member pair
type pairKey struct{ i, j int }

// orderPair normalizes an unordered index pair
func orderPair(i, j int) pairKey {
	if j < i {
		i, j = j, i
	}
	return pairKey{i, j}
}

// mergeCandidate is a prioritized pair of chunks whose clusters may merge
type mergeCandidate struct {
	weight float64
	a, b   int
	key    string
}

// mergeHeap is a max-heap over candidate weight with a lexicographic
// tie-break, so the pop order is a strict total order and runs are repeatable
type mergeHeap []mergeCandidate

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight > h[j].weight
	}
	return h[i].key < h[j].key
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(mergeCandidate)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
