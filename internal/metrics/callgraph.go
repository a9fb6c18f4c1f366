package metrics

import (
	"strings"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

// maxCallDepth is the BFS ceiling; pairs further apart score 0
const maxCallDepth = 5

// pair indexes an unordered chunk pair within one partition, i < j
type pair struct{ i, j int }

// callGraph is the directed caller-to-callee graph over one partition's
// chunks, built by heuristic name matching (no type-aware resolution)
type callGraph struct {
	adj [][]int
}

// buildCallGraph resolves each chunk's recorded call names to chunk indexes.
// Targets are matched by declared name or, for methods named "Recv.Method",
// by the trailing name. Same-file matches win over global matches.
func buildCallGraph(chunks []*types.Chunk) *callGraph {
	byName := make(map[string][]int)
	register := func(name string, idx int) {
		byName[name] = append(byName[name], idx)
	}
	for i, c := range chunks {
		if c.Kind != types.KindFunction && c.Kind != types.KindClass {
			continue
		}
		register(c.Name, i)
		if dot := strings.LastIndexByte(c.Name, '.'); dot >= 0 {
			register(c.Name[dot+1:], i)
		}
	}

	g := &callGraph{adj: make([][]int, len(chunks))}
	for i, c := range chunks {
		targets := types.NewStringSet()
		for call := range c.Calls {
			for _, t := range resolve(chunks, byName, i, call) {
				if t != i && !targets.Has(chunks[t].ID) {
					targets.Add(chunks[t].ID)
					g.adj[i] = append(g.adj[i], t)
				}
			}
		}
	}
	return g
}

// resolve returns the chunk indexes a call name refers to, preferring
// declarations in the caller's own file over global matches
func resolve(chunks []*types.Chunk, byName map[string][]int, caller int, call string) []int {
	candidates := byName[call]
	if len(candidates) == 0 {
		return nil
	}

	var local []int
	for _, idx := range candidates {
		if chunks[idx].Path == chunks[caller].Path {
			local = append(local, idx)
		}
	}
	if len(local) > 0 {
		return local
	}
	return candidates
}

// pairDistances runs a bounded BFS from every chunk with outgoing calls and
// records, per unordered pair, the shortest call distance in either direction
func (g *callGraph) pairDistances(maxDepth int) map[pair]int {
	distances := make(map[pair]int)
	for start := range g.adj {
		if len(g.adj[start]) == 0 {
			continue
		}
		g.bfs(start, maxDepth, distances)
	}
	return distances
}

// bfs walks outward from start up to maxDepth, keeping the minimum distance
// seen for each pair
func (g *callGraph) bfs(start, maxDepth int, distances map[pair]int) {
	visited := map[int]int{start: 0}
	queue := []int{start}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		depth := visited[node]
		if depth >= maxDepth {
			continue
		}
		for _, next := range g.adj[node] {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = depth + 1
			queue = append(queue, next)

			key := orderedPair(start, next)
			if prev, ok := distances[key]; !ok || depth+1 < prev {
				distances[key] = depth + 1
			}
		}
	}
}

// callScore converts a call distance into a proximity score
func callScore(distances map[pair]int, i, j int) float64 {
	d, ok := distances[orderedPair(i, j)]
	if !ok {
		return 0
	}
	return 1.0 / float64(1+d)
}

// orderedPair normalizes an unordered index pair
func orderedPair(i, j int) pair {
	if j < i {
		i, j = j, i
	}
	return pair{i, j}
}
