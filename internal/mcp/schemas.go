package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// clusterRepositoryTool returns the tool definition for cluster_repository
func clusterRepositoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "cluster_repository",
		Description: "Analyze a repository and group its files and functions into feature clusters",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the repository root",
				},
				"weights": map[string]interface{}{
					"type":        "object",
					"description": "Metric weights; metrics left out (or 0) are disabled entirely",
					"properties": map[string]interface{}{
						"structural": map[string]interface{}{
							"type":        "number",
							"description": "Weight for shared path-prefix similarity",
							"minimum":     0.0,
							"maximum":     1.0,
						},
						"semantic": map[string]interface{}{
							"type":        "number",
							"description": "Weight for token-set Jaccard similarity",
							"minimum":     0.0,
							"maximum":     1.0,
						},
						"cochange": map[string]interface{}{
							"type":        "number",
							"description": "Weight for git co-change history",
							"minimum":     0.0,
							"maximum":     1.0,
						},
						"callgraph": map[string]interface{}{
							"type":        "number",
							"description": "Weight for call-graph proximity",
							"minimum":     0.0,
							"maximum":     1.0,
						},
					},
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Average-linkage merge threshold (0.0-1.0)",
					"minimum":     0.0,
					"maximum":     1.0,
				},
				"max_commits": map[string]interface{}{
					"type":        "integer",
					"description": "How many recent commits the co-change metric scans",
					"minimum":     0,
				},
				"include": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns; when set, only matching files are analyzed",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"exclude": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns for files to skip",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"path"},
		},
	}
}

// listClustersTool returns the tool definition for list_clusters
func listClustersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_clusters",
		Description: "List the stored feature clusters for an analyzed repository, largest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the analyzed repository",
				},
				"partition": map[string]interface{}{
					"type":        "string",
					"description": "Optional partition name filter, e.g. \"docs\" or \"code/internal\"",
				},
			},
			Required: []string{"path"},
		},
	}
}

// getClusterTool returns the tool definition for get_cluster
func getClusterTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_cluster",
		Description: "Fetch one feature cluster with its member chunks and file list",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the analyzed repository",
				},
				"cluster": map[string]interface{}{
					"type":        "string",
					"description": "Cluster ID, e.g. \"c3\"",
				},
			},
			Required: []string{"path", "cluster"},
		},
	}
}

// getChunkTool returns the tool definition for get_chunk
func getChunkTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_chunk",
		Description: "Fetch one extracted chunk record by its key",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the analyzed repository",
				},
				"chunk": map[string]interface{}{
					"type":        "string",
					"description": "Chunk key, e.g. \"internal/parser/parser.go::ParseFile\"",
				},
			},
			Required: []string{"path", "chunk"},
		},
	}
}
