package metrics

import (
	"testing"

	"github.com/dshills/gocluster-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fnChunk(path, name string, calls ...string) *types.Chunk {
	return &types.Chunk{
		ID:      types.FunctionID(path, name),
		Kind:    types.KindFunction,
		Path:    path,
		Name:    name,
		Tokens:  types.NewStringSet(),
		Imports: types.NewStringSet(),
		Calls:   types.NewStringSet(calls...),
	}
}

func TestBuildCallGraph_Direct(t *testing.T) {
	chunks := []*types.Chunk{
		fnChunk("a.go", "Handler", "Process"),
		fnChunk("b.go", "Process"),
	}

	g := buildCallGraph(chunks)
	require.Len(t, g.adj[0], 1)
	assert.Equal(t, 1, g.adj[0][0])
	assert.Empty(t, g.adj[1])
}

func TestBuildCallGraph_PrefersSameFile(t *testing.T) {
	chunks := []*types.Chunk{
		fnChunk("a.go", "caller", "helper"),
		fnChunk("a.go", "helper"),
		fnChunk("b.go", "helper"),
	}

	g := buildCallGraph(chunks)
	assert.Equal(t, []int{1}, g.adj[0])
}

func TestBuildCallGraph_MethodByTrailingName(t *testing.T) {
	chunks := []*types.Chunk{
		fnChunk("a.go", "run", "Get"),
		fnChunk("b.go", "Store.Get"),
	}

	g := buildCallGraph(chunks)
	assert.Equal(t, []int{1}, g.adj[0])
}

func TestPairDistances(t *testing.T) {
	// 0 -> 1 -> 2, chain depth 2
	chunks := []*types.Chunk{
		fnChunk("a.go", "first", "second"),
		fnChunk("b.go", "second", "third"),
		fnChunk("c.go", "third"),
	}

	g := buildCallGraph(chunks)
	distances := g.pairDistances(maxCallDepth)

	assert.Equal(t, 1, distances[pair{0, 1}])
	assert.Equal(t, 2, distances[pair{0, 2}])
	assert.Equal(t, 1, distances[pair{1, 2}])
}

func TestPairDistances_DepthBound(t *testing.T) {
	// Chain of 8 functions; pairs beyond the BFS ceiling stay unscored
	var chunks []*types.Chunk
	names := []string{"fa", "fb", "fc", "fd", "fe", "ff", "fg", "fh"}
	for i, name := range names {
		var calls []string
		if i+1 < len(names) {
			calls = []string{names[i+1]}
		}
		chunks = append(chunks, fnChunk("chain.go", name, calls...))
	}

	g := buildCallGraph(chunks)
	distances := g.pairDistances(maxCallDepth)

	assert.Equal(t, maxCallDepth, distances[pair{0, maxCallDepth}])
	_, beyond := distances[pair{0, maxCallDepth + 1}]
	assert.False(t, beyond)
}

func TestCallScore(t *testing.T) {
	distances := map[pair]int{{0, 1}: 1, {0, 2}: 4}

	assert.InDelta(t, 0.5, callScore(distances, 0, 1), 1e-9)
	assert.InDelta(t, 0.5, callScore(distances, 1, 0), 1e-9)
	assert.InDelta(t, 0.2, callScore(distances, 0, 2), 1e-9)
	assert.InDelta(t, 0.0, callScore(distances, 1, 2), 1e-9)
}
