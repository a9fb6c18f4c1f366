package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/gocluster-mcp/internal/clusterer"
	"github.com/dshills/gocluster-mcp/internal/config"
	"github.com/dshills/gocluster-mcp/internal/extractor"
	"github.com/dshills/gocluster-mcp/internal/metrics"
	"github.com/dshills/gocluster-mcp/internal/partition"
	"github.com/dshills/gocluster-mcp/pkg/types"
)

// Engine coordinates the clustering pipeline:
// extract -> partition -> per-partition score+cluster -> finalize
type Engine struct {
	cfg *config.Config
}

// Statistics summarizes one Analyze call
type Statistics struct {
	FilesScanned    int
	FilesSkipped    int
	FilesFellBack   int
	ChunksExtracted int
	Partitions      int
	EdgesScored     int
	ClustersBuilt   int
	Duration        time.Duration
	// Notes records non-fatal degradations, such as missing git history
	Notes []string
}

// Result is the output contract handed to external formatters: the finalized
// clusters, the partitions they came from, and the full chunk map
type Result struct {
	RootPath   string
	Partitions []*types.Partition
	Clusters   []*types.Cluster
	Chunks     map[string]*types.Chunk
	Stats      Statistics
}

// New creates an engine. A nil config selects the defaults.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{cfg: cfg}
}

// Analyze runs the full pipeline on a repository root. The only fatal inputs
// are a nonexistent root and an invalid configuration; everything else
// degrades per component (skipped files, missing git history, empty
// partitions).
//
// Partitions are scored and clustered concurrently: they share no state, so
// this is purely a throughput optimization. Results are merged in sorted
// partition order, keeping output identical run to run.
func (e *Engine) Analyze(ctx context.Context, root string) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	start := time.Now()

	ext := extractor.New(&extractor.Options{
		Include: e.cfg.Include,
		Exclude: e.cfg.Exclude,
	})
	chunks, err := ext.ExtractRepo(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	partitions := partition.Split(chunks)

	metricEngine := metrics.New(&metrics.Options{
		Weights:       e.cfg.Weights,
		MinEdgeWeight: e.cfg.MinEdgeWeight,
		RepoRoot:      root,
		MaxCommits:    e.cfg.MaxCommits,
	})

	result := &Result{
		RootPath:   root,
		Partitions: partitions,
		Chunks:     make(map[string]*types.Chunk, len(chunks)),
	}
	for _, c := range chunks {
		result.Chunks[c.ID] = c
	}

	// One bounded subprocess call per run; failure means no co-change signal
	if err := metricEngine.LoadHistory(ctx); err != nil {
		result.Stats.Notes = append(result.Stats.Notes,
			fmt.Sprintf("co-change history unavailable: %v", err))
	}

	builder := clusterer.New(e.cfg.Threshold)
	perPartition := make([][]*types.Cluster, len(partitions))
	edgeCounts := make([]int, len(partitions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, part := range partitions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			edges := metricEngine.Score(part)
			edgeCounts[i] = len(edges)
			perPartition[i] = builder.Build(part, edges)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	result.Clusters = clusterer.Finalize(perPartition)

	extStats := ext.Stats()
	result.Stats.FilesScanned = extStats.FilesScanned
	result.Stats.FilesSkipped = extStats.FilesSkipped
	result.Stats.FilesFellBack = extStats.FilesFellBack
	result.Stats.ChunksExtracted = len(chunks)
	result.Stats.Partitions = len(partitions)
	for _, n := range edgeCounts {
		result.Stats.EdgesScored += n
	}
	result.Stats.ClustersBuilt = len(result.Clusters)
	result.Stats.Duration = time.Since(start)

	return result, nil
}
