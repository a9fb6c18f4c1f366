// Package engine orchestrates the clustering pipeline.
//
// A run extracts chunks, splits them into partitions, scores similarity
// edges, and builds clusters, in that order:
//
//	eng := engine.New(cfg)
//	result, err := eng.Analyze(ctx, "/path/to/repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range result.Clusters {
//	    fmt.Printf("%s: %s (%d chunks)\n", c.ID, c.Name, c.Size())
//	}
//
// Partitions are independent, so scoring and clustering run concurrently
// across partitions via errgroup, bounded by GOMAXPROCS. Results are
// written to indexed slots and finalized in partition order, keeping
// output deterministic regardless of goroutine scheduling.
//
// Every run rebuilds from scratch; there is no incremental state between
// runs. Degraded inputs (no git history, unparseable files) are reported
// in Result.Stats.Notes rather than failing the run.
package engine
