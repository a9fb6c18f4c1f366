// Package storage provides SQLite-based persistence for clustering results.
//
// The storage layer manages:
//   - Project metadata (root path, run statistics)
//   - Extracted chunks
//   - Built clusters and their member lists
//
// # Database Schema
//
// Tables:
//   - projects: one row per analyzed repository root
//   - chunks: extracted chunks, unique per (project, chunk key)
//   - clusters: built clusters, unique per (project, cluster key)
//   - cluster_members: cluster-to-chunk membership
//   - schema_version: applied migrations, ordered by semver
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.gocluster/indices/gocluster.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.ReplaceAnalysis(ctx, projectID, chunks, clusters)
//
// ReplaceAnalysis swaps a project's stored analysis atomically in one
// transaction: prior chunks and clusters are deleted, then the fresh run
// is inserted. Readers never observe a half-replaced analysis.
//
// # Build Tags
//
// Two build configurations select the SQLite driver:
//
//   - cgo_sqlite: github.com/mattn/go-sqlite3, requires a C compiler
//   - default: modernc.org/sqlite, pure Go
//
// The schema and queries are identical under both drivers.
package storage
