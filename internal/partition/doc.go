// Package partition splits a repository's chunks into independent groups
// that are clustered separately.
//
// Documentation files (markdown, restructured text, etc.) form one
// partition, configuration files another, and code is grouped by top-level
// directory. Code groups whose files import across directory boundaries are
// merged with union-find, so a `cmd/` package importing `internal/` lands
// in the same partition as the code it depends on.
//
// Partition boundaries are hard: no metric edge is ever scored between
// chunks in different partitions.
package partition
