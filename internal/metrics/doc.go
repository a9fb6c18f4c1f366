// Package metrics scores similarity edges between chunk pairs.
//
// Four metrics contribute to each edge, combined as a weighted sum:
//   - structural: directory-path proximity
//   - semantic: Jaccard similarity over identifier tokens
//   - cochange: how often two files change in the same git commit
//   - callgraph: BFS distance in the resolved call graph
//
// # Basic Usage
//
//	eng := metrics.New(metrics.Options{
//	    Weights:  types.Weights{"semantic": 0.6, "structural": 0.4},
//	    RepoRoot: "/path/to/repo",
//	})
//	if err := eng.LoadHistory(ctx); err != nil {
//	    // co-change degrades gracefully, the run continues
//	    log.Printf("no git history: %v", err)
//	}
//	edges := eng.Score(part)
//
// # Candidate Filtering
//
// Scoring every pair is quadratic, so pairs are scored only when they share
// a filtered token, sit in the same or adjacent directories, or are
// connected in the call graph. Tokens that appear in more than 40% of a
// partition's chunks are treated as stopwords and ignored for both
// candidate selection and the semantic score.
//
// Edges below the minimum weight (default 0.05) are discarded. Metrics with
// weight zero are never computed.
//
// # Determinism
//
// Edge output is sorted by pair key. Scoring the same partition twice
// yields byte-identical edges, which keeps downstream clustering
// reproducible.
package metrics
