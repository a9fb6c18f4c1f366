package storage

import (
	"context"
	"time"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

// Storage defines the interface for persisting and querying clustering results
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// Analysis operations. ReplaceAnalysis swaps a project's chunks and
	// clusters atomically: every run rebuilds from scratch, nothing is
	// carried across runs.
	ReplaceAnalysis(ctx context.Context, projectID int64, chunks []*types.Chunk, clusters []*types.Cluster) error

	// Query operations
	ListClusters(ctx context.Context, projectID int64) ([]*Cluster, error)
	GetCluster(ctx context.Context, projectID int64, clusterKey string) (*Cluster, error)
	GetChunk(ctx context.Context, projectID int64, chunkKey string) (*Chunk, error)

	// Database operations
	Close() error
}

// Project represents an analyzed repository
type Project struct {
	ID             int64
	RootPath       string
	TotalFiles     int
	TotalChunks    int
	TotalClusters  int
	EngineVersion  string
	LastAnalyzedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Chunk is the persisted form of a types.Chunk. Signal sets are not stored;
// they only exist for the duration of a run.
type Chunk struct {
	ID        int64
	ProjectID int64
	ChunkKey  string // The run-scoped chunk ID, e.g. "pkg/a.go::New"
	Kind      string
	Path      string
	Name      string
	StartLine int
	EndLine   int
}

// Cluster is the persisted form of a types.Cluster
type Cluster struct {
	ID          int64
	ProjectID   int64
	ClusterKey  string // The finalized global cluster ID, e.g. "c3"
	Partition   string
	Name        string
	Description string
	ChunkCount  int
	// Members holds the member chunk keys, sorted. Populated by GetCluster;
	// ListClusters leaves it nil.
	Members []string
}
