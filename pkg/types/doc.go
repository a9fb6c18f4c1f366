// Package types provides shared type definitions for the GoCluster MCP server.
//
// This package defines the domain values that flow through the clustering
// pipeline: chunks, edges, partitions, and clusters.
//
// # Core Types
//
// Chunk is the smallest clustering unit, extracted from a repository:
//
//	chunk := &types.Chunk{
//	    ID:     "internal/parser/parser.go::ParseFile",
//	    Kind:   types.KindFunction,
//	    Path:   "internal/parser/parser.go",
//	    Name:   "ParseFile",
//	    Tokens: types.NewStringSet("fset", "token", "result"),
//	}
//
// Edge is a scored, undirected relationship between two chunks. Its Weight is
// the weighted sum of up to four metric scores, with the unweighted scores
// kept in Breakdown:
//
//	edge := types.NewEdge(a.ID, b.ID, 0.42, map[string]float64{
//	    types.MetricSemantic:  0.6,
//	    types.MetricCallgraph: 0.5,
//	})
//
// Cluster is a cohesive group of chunks discovered within one partition.
// Clusters expose the sorted, deduplicated set of file paths their members
// contribute:
//
//	files := cluster.Files(chunkMap)
//
// # Validation
//
// The domain types implement validation methods to ensure invariants hold:
//
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Edge validation checks weight == sum(weight[m] * breakdown[m])
//	if err := edge.Validate(weights); err != nil {
//	    log.Fatal(err)
//	}
//
// All scores and weights are normalized to the [0, 1] range.
package types
