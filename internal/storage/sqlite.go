package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Project operations

// CreateProject inserts a new project record
func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (root_path, engine_version, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query,
		project.RootPath, project.EngineVersion, now, now)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

// GetProject retrieves a project by repository root path
func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	query := `
		SELECT id, root_path, total_files, total_chunks, total_clusters,
		       engine_version, last_analyzed_at, created_at, updated_at
		FROM projects
		WHERE root_path = ?
	`
	var project Project
	var lastAnalyzedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, rootPath).Scan(
		&project.ID, &project.RootPath, &project.TotalFiles, &project.TotalChunks,
		&project.TotalClusters, &project.EngineVersion,
		&lastAnalyzedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastAnalyzedAt.Valid {
		project.LastAnalyzedAt = lastAnalyzedAt.Time
	}
	return &project, nil
}

// UpdateProject writes a project's mutable fields
func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET total_files = ?, total_chunks = ?, total_clusters = ?,
		    engine_version = ?, last_analyzed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := s.db.ExecContext(ctx, query,
		project.TotalFiles, project.TotalChunks, project.TotalClusters,
		project.EngineVersion, project.LastAnalyzedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	project.UpdatedAt = now
	return nil
}

// Analysis operations

// ReplaceAnalysis atomically swaps a project's chunks and clusters with a
// fresh run's output
func (s *SQLiteStorage) ReplaceAnalysis(ctx context.Context, projectID int64, chunks []*types.Chunk, clusters []*types.Cluster) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM clusters WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("failed to clear clusters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}

	insertChunk := `
		INSERT INTO chunks (project_id, chunk_key, kind, path, name, start_line, end_line)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, c := range chunks {
		if _, err := tx.ExecContext(ctx, insertChunk,
			projectID, c.ID, string(c.Kind), c.Path, c.Name, c.StartLine, c.EndLine); err != nil {
			return fmt.Errorf("failed to store chunk %s: %w", c.ID, err)
		}
	}

	insertCluster := `
		INSERT INTO clusters (project_id, cluster_key, partition_name, name, description, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	insertMember := `INSERT INTO cluster_members (cluster_id, chunk_key) VALUES (?, ?)`
	for _, c := range clusters {
		result, err := tx.ExecContext(ctx, insertCluster,
			projectID, c.ID, c.Partition, c.Name, c.Description, len(c.ChunkIDs))
		if err != nil {
			return fmt.Errorf("failed to store cluster %s: %w", c.ID, err)
		}
		clusterID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		for _, chunkKey := range c.ChunkIDs {
			if _, err := tx.ExecContext(ctx, insertMember, clusterID, chunkKey); err != nil {
				return fmt.Errorf("failed to store cluster member %s: %w", chunkKey, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit analysis: %w", err)
	}
	return nil
}

// Query operations

// ListClusters returns a project's clusters ordered by descending size
func (s *SQLiteStorage) ListClusters(ctx context.Context, projectID int64) ([]*Cluster, error) {
	query := `
		SELECT id, project_id, cluster_key, partition_name, name, description, chunk_count
		FROM clusters
		WHERE project_id = ?
		ORDER BY chunk_count DESC, cluster_key ASC
	`
	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clusters []*Cluster
	for rows.Next() {
		var c Cluster
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.ClusterKey, &c.Partition,
			&c.Name, &c.Description, &c.ChunkCount); err != nil {
			return nil, err
		}
		clusters = append(clusters, &c)
	}
	return clusters, rows.Err()
}

// GetCluster returns one cluster with its member chunk keys
func (s *SQLiteStorage) GetCluster(ctx context.Context, projectID int64, clusterKey string) (*Cluster, error) {
	query := `
		SELECT id, project_id, cluster_key, partition_name, name, description, chunk_count
		FROM clusters
		WHERE project_id = ? AND cluster_key = ?
	`
	var c Cluster
	err := s.db.QueryRowContext(ctx, query, projectID, clusterKey).Scan(
		&c.ID, &c.ProjectID, &c.ClusterKey, &c.Partition,
		&c.Name, &c.Description, &c.ChunkCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT chunk_key FROM cluster_members WHERE cluster_id = ? ORDER BY chunk_key", c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cluster members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		c.Members = append(c.Members, key)
	}
	return &c, rows.Err()
}

// GetChunk returns one chunk record by its run-scoped key
func (s *SQLiteStorage) GetChunk(ctx context.Context, projectID int64, chunkKey string) (*Chunk, error) {
	query := `
		SELECT id, project_id, chunk_key, kind, path, name, start_line, end_line
		FROM chunks
		WHERE project_id = ? AND chunk_key = ?
	`
	var c Chunk
	err := s.db.QueryRowContext(ctx, query, projectID, chunkKey).Scan(
		&c.ID, &c.ProjectID, &c.ChunkKey, &c.Kind, &c.Path, &c.Name,
		&c.StartLine, &c.EndLine)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
