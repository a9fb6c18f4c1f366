package clusterer

import (
	"container/heap"
	"testing"

	"github.com/dshills/gocluster-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(id, path string, tokens ...string) *types.Chunk {
	return &types.Chunk{
		ID:     id,
		Kind:   types.KindFile,
		Path:   path,
		Tokens: types.NewStringSet(tokens...),
	}
}

func dirChunk(dir string) *types.Chunk {
	return &types.Chunk{
		ID:   types.DirectoryID(dir),
		Kind: types.KindDirectory,
		Path: dir,
	}
}

func edge(a, b string, weight float64) *types.Edge {
	return types.NewEdge(a, b, weight, map[string]float64{types.MetricSemantic: weight})
}

func part(name string, chunks ...*types.Chunk) *types.Partition {
	return &types.Partition{Name: name, Chunks: chunks}
}

func TestBuild_Empty(t *testing.T) {
	b := New(DefaultThreshold)
	assert.Nil(t, b.Build(part("code/x"), nil))
}

func TestBuild_SmallPartition(t *testing.T) {
	b := New(DefaultThreshold)
	clusters := b.Build(part("docs",
		chunk("README.md", "README.md", "readme"),
		chunk("docs/guide.md", "docs/guide.md", "guide"),
	), nil)

	require.Len(t, clusters, 1)
	c := clusters[0]
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "docs", c.Partition)
	assert.Equal(t, []string{"README.md", "docs/guide.md"}, c.ChunkIDs)
}

func TestBuild_DirectoryChunksExcluded(t *testing.T) {
	b := New(DefaultThreshold)
	clusters := b.Build(part("code/x",
		chunk("x/a.go", "x/a.go"),
		dirChunk("x"),
	), nil)

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"x/a.go"}, clusters[0].ChunkIDs)
}

func TestBuild_MergesAboveThreshold(t *testing.T) {
	chunks := []*types.Chunk{
		chunk("p/a.go", "p/a.go"),
		chunk("p/b.go", "p/b.go"),
		chunk("p/c.go", "p/c.go"),
		chunk("q/d.go", "q/d.go"),
		chunk("q/e.go", "q/e.go"),
	}
	edges := []*types.Edge{
		edge("p/a.go", "p/b.go", 0.8),
		edge("p/b.go", "p/c.go", 0.8),
		edge("p/a.go", "p/c.go", 0.8),
		edge("q/d.go", "q/e.go", 0.7),
	}

	b := New(DefaultThreshold)
	clusters := b.Build(part("code/p", chunks...), edges)

	require.Len(t, clusters, 2)
	// Sorted by size descending
	assert.Equal(t, []string{"p/a.go", "p/b.go", "p/c.go"}, clusters[0].ChunkIDs)
	assert.Equal(t, []string{"q/d.go", "q/e.go"}, clusters[1].ChunkIDs)
	assert.Equal(t, "c1", clusters[0].ID)
	assert.Equal(t, "c2", clusters[1].ID)
}

func TestBuild_NoEdges_AllSingletons(t *testing.T) {
	chunks := []*types.Chunk{
		chunk("a.go", "a.go"),
		chunk("b.go", "b.go"),
		chunk("c.go", "c.go"),
		chunk("d.go", "d.go"),
	}

	b := New(DefaultThreshold)
	clusters := b.Build(part("code/root", chunks...), nil)

	require.Len(t, clusters, 4)
	for _, c := range clusters {
		assert.Equal(t, 1, c.Size())
	}
	// Equal sizes break ties on smallest member ID
	assert.Equal(t, []string{"a.go"}, clusters[0].ChunkIDs)
	assert.Equal(t, []string{"d.go"}, clusters[3].ChunkIDs)
}

func TestBuild_AverageLinkageBlocksWeakMerge(t *testing.T) {
	// a-b strongly linked; c touches only b. Average linkage of {a,b} to {c}
	// is (0 + 0.2) / 2 = 0.1, below the threshold, so c stays out.
	chunks := []*types.Chunk{
		chunk("a.go", "a.go"),
		chunk("b.go", "b.go"),
		chunk("c.go", "c.go"),
		chunk("d.go", "d.go"),
	}
	edges := []*types.Edge{
		edge("a.go", "b.go", 0.9),
		edge("b.go", "c.go", 0.2),
	}

	b := New(DefaultThreshold)
	clusters := b.Build(part("code/root", chunks...), edges)

	require.Len(t, clusters, 3)
	assert.Equal(t, []string{"a.go", "b.go"}, clusters[0].ChunkIDs)
}

func TestBuild_ThresholdMonotonicity(t *testing.T) {
	chunks := func() []*types.Chunk {
		return []*types.Chunk{
			chunk("a.go", "a.go"),
			chunk("b.go", "b.go"),
			chunk("c.go", "c.go"),
			chunk("d.go", "d.go"),
		}
	}
	edges := func() []*types.Edge {
		return []*types.Edge{
			edge("a.go", "b.go", 0.5),
			edge("c.go", "d.go", 0.3),
		}
	}

	loose := New(0.2).Build(part("code/root", chunks()...), edges())
	strict := New(0.4).Build(part("code/root", chunks()...), edges())

	assert.LessOrEqual(t, len(loose), len(strict))
	require.Len(t, loose, 2)
	require.Len(t, strict, 3)
}

func TestBuild_Deterministic(t *testing.T) {
	mk := func() (*types.Partition, []*types.Edge) {
		chunks := []*types.Chunk{
			chunk("a.go", "a.go"),
			chunk("b.go", "b.go"),
			chunk("c.go", "c.go"),
			chunk("d.go", "d.go"),
		}
		edges := []*types.Edge{
			edge("a.go", "b.go", 0.5),
			edge("c.go", "d.go", 0.5),
			edge("b.go", "c.go", 0.5),
		}
		return part("code/root", chunks...), edges
	}

	b := New(DefaultThreshold)
	p1, e1 := mk()
	p2, e2 := mk()
	first := b.Build(p1, e1)
	second := b.Build(p2, e2)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ChunkIDs, second[i].ChunkIDs)
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}

func TestDeriveName(t *testing.T) {
	chunks := []*types.Chunk{
		chunk("pkg/auth/token.go", "pkg/auth/token.go", "token", "verify"),
		chunk("pkg/auth/session.go", "pkg/auth/session.go", "token", "session"),
	}
	name := deriveName(chunks, "cluster-c1")
	assert.Equal(t, "pkg/auth (token, session, verify)", name)
}

func TestDeriveName_NoPrefix(t *testing.T) {
	chunks := []*types.Chunk{
		chunk("a.go", "a.go", "alpha"),
		chunk("b.go", "b.go", "alpha"),
	}
	assert.Equal(t, "alpha", deriveName(chunks, "cluster-c1"))
}

func TestDeriveName_Fallback(t *testing.T) {
	chunks := []*types.Chunk{
		chunk("a.go", "a.go", "ab"),
	}
	// Root-level paths give no prefix; the only token is too short
	assert.Equal(t, "cluster-c1", deriveName(chunks, "cluster-c1"))
}

func TestTopTokens(t *testing.T) {
	chunks := []*types.Chunk{
		chunk("a.go", "a.go", "token", "verify", "xx"),
		chunk("b.go", "b.go", "token", "session"),
		chunk("c.go", "c.go", "token", "session", "verify", "extra"),
	}
	// Frequency order, alphabetical ties, short tokens dropped
	assert.Equal(t, []string{"token", "session", "verify"}, topTokens(chunks, 3))
}

func TestCommonDirPrefix(t *testing.T) {
	assert.Equal(t, "pkg/auth", commonDirPrefix([]*types.Chunk{
		chunk("pkg/auth/a.go", "pkg/auth/a.go"),
		chunk("pkg/auth/b.go", "pkg/auth/b.go"),
	}))
	assert.Equal(t, "pkg", commonDirPrefix([]*types.Chunk{
		chunk("pkg/auth/a.go", "pkg/auth/a.go"),
		chunk("pkg/render/b.go", "pkg/render/b.go"),
	}))
	assert.Equal(t, "", commonDirPrefix([]*types.Chunk{
		chunk("pkg/auth/a.go", "pkg/auth/a.go"),
		chunk("root.go", "root.go"),
	}))
}

func TestFinalize(t *testing.T) {
	p1 := []*types.Cluster{
		{ID: "c1", Partition: "code/app", Name: "app (run, serve, main)"},
		{ID: "c2", Partition: "code/app", Name: "cluster-c2"},
	}
	p2 := []*types.Cluster{
		{ID: "c1", Partition: "docs", Name: "docs (guide, setup, usage)"},
	}

	all := Finalize([][]*types.Cluster{p1, p2})
	require.Len(t, all, 3)

	assert.Equal(t, "c1", all[0].ID)
	assert.Equal(t, "code/app: app (run, serve, main)", all[0].Name)

	// Fallback names track the new global ID
	assert.Equal(t, "c2", all[1].ID)
	assert.Equal(t, "cluster-c2", all[1].Name)

	assert.Equal(t, "c3", all[2].ID)
	assert.Equal(t, "docs: docs (guide, setup, usage)", all[2].Name)
}

func TestHeapOrdering(t *testing.T) {
	h := &mergeHeap{}
	heap.Push(h, mergeCandidate{weight: 0.5, key: "b"})
	heap.Push(h, mergeCandidate{weight: 0.5, key: "a"})
	heap.Push(h, mergeCandidate{weight: 0.9, key: "z"})

	// Weight descending, lexicographic key on ties
	assert.Equal(t, "z", heap.Pop(h).(mergeCandidate).key)
	assert.Equal(t, "a", heap.Pop(h).(mergeCandidate).key)
	assert.Equal(t, "b", heap.Pop(h).(mergeCandidate).key)
}
