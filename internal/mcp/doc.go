// Package mcp implements the Model Context Protocol (MCP) server for GoCluster.
//
// The MCP server exposes four tools to AI coding assistants:
//   - cluster_repository: Run clustering over a repository
//   - list_clusters: List clusters from the last run
//   - get_cluster: Get one cluster with its members
//   - get_chunk: Get metadata for one chunk
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output, so
// all logging goes to stderr.
//
// # Error Codes
//
// Standard JSON-RPC codes plus application codes:
//   - -32602: invalid parameters
//   - -32603: internal error
//   - -32001: repository not analyzed yet
//   - -32002: another clustering run in progress
//   - -32003: cluster or chunk not found
//
// # Concurrency
//
// A single RunLock serializes cluster_repository calls. A second call while
// a run is active fails fast with -32002 instead of queueing; read tools
// are never blocked.
package mcp
