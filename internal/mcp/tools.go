package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/gocluster-mcp/internal/config"
	"github.com/dshills/gocluster-mcp/internal/engine"
	"github.com/dshills/gocluster-mcp/internal/storage"
	"github.com/dshills/gocluster-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotAnalyzed   = -32001 // Repository has not been analyzed yet
	ErrorCodeRunInProgress = -32002 // Another clustering run is already running
	ErrorCodeNotFound      = -32003 // Requested cluster or chunk does not exist
)

// handleClusterRepository handles the cluster_repository tool invocation
func (s *Server) handleClusterRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid repository config", map[string]interface{}{
			"error": err.Error(),
		})
	}
	applyOverrides(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid parameters", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if !s.runLock.TryAcquire() {
		return nil, newMCPError(ErrorCodeRunInProgress, "another clustering run is in progress", nil)
	}
	defer s.runLock.Release()

	result, err := engine.New(cfg).Analyze(ctx, path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "clustering failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	project, err := s.getOrCreateProject(ctx, path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get or create project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := s.persistResult(ctx, project, result); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to store results", map[string]interface{}{
			"error": err.Error(),
		})
	}

	partitions := make([]map[string]interface{}, 0, len(result.Partitions))
	for _, p := range result.Partitions {
		partitions = append(partitions, map[string]interface{}{
			"name":   p.Name,
			"chunks": len(p.Chunks),
		})
	}

	response := map[string]interface{}{
		"analyzed":         true,
		"files_scanned":    result.Stats.FilesScanned,
		"files_skipped":    result.Stats.FilesSkipped,
		"chunks_extracted": result.Stats.ChunksExtracted,
		"edges_scored":     result.Stats.EdgesScored,
		"partitions":       partitions,
		"clusters_built":   result.Stats.ClustersBuilt,
		"duration_ms":      result.Stats.Duration.Milliseconds(),
	}
	if len(result.Stats.Notes) > 0 {
		response["notes"] = result.Stats.Notes
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListClusters handles the list_clusters tool invocation
func (s *Server) handleListClusters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, args, mcpErr := s.projectFromRequest(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	clusters, err := s.storage.ListClusters(ctx, project.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list clusters", map[string]interface{}{
			"error": err.Error(),
		})
	}

	partitionFilter := getStringDefault(args, "partition", "")
	list := make([]map[string]interface{}, 0, len(clusters))
	for _, c := range clusters {
		if partitionFilter != "" && c.Partition != partitionFilter {
			continue
		}
		list = append(list, map[string]interface{}{
			"id":          c.ClusterKey,
			"partition":   c.Partition,
			"name":        c.Name,
			"description": c.Description,
			"chunk_count": c.ChunkCount,
		})
	}

	response := map[string]interface{}{
		"path":             project.RootPath,
		"last_analyzed_at": project.LastAnalyzedAt.Format("2006-01-02T15:04:05Z07:00"),
		"clusters":         list,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetCluster handles the get_cluster tool invocation
func (s *Server) handleGetCluster(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, args, mcpErr := s.projectFromRequest(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	clusterKey, ok := args["cluster"].(string)
	if !ok || clusterKey == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "cluster parameter is required", map[string]interface{}{
			"param":  "cluster",
			"reason": "missing or empty",
		})
	}

	cluster, err := s.storage.GetCluster(ctx, project.ID, clusterKey)
	if err == storage.ErrNotFound {
		return nil, newMCPError(ErrorCodeNotFound, "cluster not found", map[string]interface{}{
			"cluster": clusterKey,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get cluster", map[string]interface{}{
			"error": err.Error(),
		})
	}

	members := make([]map[string]interface{}, 0, len(cluster.Members))
	files := types.NewStringSet()
	for _, chunkKey := range cluster.Members {
		chunk, err := s.storage.GetChunk(ctx, project.ID, chunkKey)
		if err != nil {
			continue
		}
		files.Add(chunk.Path)
		members = append(members, map[string]interface{}{
			"key":  chunk.ChunkKey,
			"kind": chunk.Kind,
			"path": chunk.Path,
			"name": chunk.Name,
		})
	}

	response := map[string]interface{}{
		"id":          cluster.ClusterKey,
		"partition":   cluster.Partition,
		"name":        cluster.Name,
		"description": cluster.Description,
		"chunk_count": cluster.ChunkCount,
		"chunks":      members,
		"files":       files.Sorted(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetChunk handles the get_chunk tool invocation
func (s *Server) handleGetChunk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, args, mcpErr := s.projectFromRequest(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	chunkKey, ok := args["chunk"].(string)
	if !ok || chunkKey == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "chunk parameter is required", map[string]interface{}{
			"param":  "chunk",
			"reason": "missing or empty",
		})
	}

	chunk, err := s.storage.GetChunk(ctx, project.ID, chunkKey)
	if err == storage.ErrNotFound {
		return nil, newMCPError(ErrorCodeNotFound, "chunk not found", map[string]interface{}{
			"chunk": chunkKey,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get chunk", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"key":        chunk.ChunkKey,
		"kind":       chunk.Kind,
		"path":       chunk.Path,
		"name":       chunk.Name,
		"start_line": chunk.StartLine,
		"end_line":   chunk.EndLine,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Persistence helpers

// getOrCreateProject retrieves an existing project record or creates one
func (s *Server) getOrCreateProject(ctx context.Context, rootPath string) (*storage.Project, error) {
	project, err := s.storage.GetProject(ctx, rootPath)
	if err == nil {
		return project, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	project = &storage.Project{
		RootPath:      rootPath,
		EngineVersion: ServerVersion,
	}
	if err := s.storage.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// persistResult replaces the project's stored analysis with a fresh run
func (s *Server) persistResult(ctx context.Context, project *storage.Project, result *engine.Result) error {
	ids := make([]string, 0, len(result.Chunks))
	for id := range result.Chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	chunks := make([]*types.Chunk, 0, len(ids))
	for _, id := range ids {
		chunks = append(chunks, result.Chunks[id])
	}

	if err := s.storage.ReplaceAnalysis(ctx, project.ID, chunks, result.Clusters); err != nil {
		return err
	}

	project.TotalFiles = result.Stats.FilesScanned - result.Stats.FilesSkipped
	project.TotalChunks = result.Stats.ChunksExtracted
	project.TotalClusters = result.Stats.ClustersBuilt
	project.EngineVersion = ServerVersion
	project.LastAnalyzedAt = time.Now().UTC()
	return s.storage.UpdateProject(ctx, project)
}

// projectFromRequest validates the path argument and loads its project record
func (s *Server) projectFromRequest(ctx context.Context, request mcp.CallToolRequest) (*storage.Project, map[string]interface{}, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	project, err := s.storage.GetProject(ctx, path)
	if err == storage.ErrNotFound {
		return nil, nil, newMCPError(ErrorCodeNotAnalyzed, "repository not analyzed", map[string]interface{}{
			"path":    path,
			"message": "Use the cluster_repository tool first.",
		})
	}
	if err != nil {
		return nil, nil, newMCPError(ErrorCodeInternalError, "failed to load project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return project, args, nil
}

// applyOverrides folds optional tool arguments over the repository config
func applyOverrides(cfg *config.Config, args map[string]interface{}) {
	if raw, ok := args["weights"].(map[string]interface{}); ok {
		weights := types.Weights{}
		for metric, v := range raw {
			if f, ok := v.(float64); ok {
				weights[metric] = f
			}
		}
		cfg.Weights = weights
	}
	if v, ok := args["threshold"].(float64); ok {
		cfg.Threshold = v
	}
	if v, ok := args["max_commits"].(float64); ok {
		cfg.MaxCommits = int(v)
	}
	if patterns, ok := stringSlice(args["include"]); ok {
		cfg.Include = patterns
	}
	if patterns, ok := stringSlice(args["exclude"]); ok {
		cfg.Exclude = patterns
	}
}

// stringSlice converts a JSON array argument to []string
func stringSlice(v interface{}) ([]string, bool) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and is an accessible directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
