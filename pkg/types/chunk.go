package types

import (
	"errors"
	"fmt"
	"sort"
)

// ChunkKind classifies the granularity of a chunk
type ChunkKind string

const (
	// KindFunction is a top-level function or method
	KindFunction ChunkKind = "function"
	// KindClass is a top-level type declaration (struct, interface, alias)
	KindClass ChunkKind = "class"
	// KindFile is a whole source file
	KindFile ChunkKind = "file"
	// KindDirectory aggregates the file chunks below one directory.
	// Directory chunks are reporting metadata and never enter clustering.
	KindDirectory ChunkKind = "directory"
)

// StringSet is a deduplicated collection of token-like strings
type StringSet map[string]struct{}

// NewStringSet creates a set from the given values
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts a value into the set. Empty strings are ignored.
func (s StringSet) Add(v string) {
	if v == "" {
		return
	}
	s[v] = struct{}{}
}

// Has reports whether the set contains v
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members
func (s StringSet) Len() int { return len(s) }

// Sorted returns the members in lexicographic order
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Intersects reports whether the two sets share at least one member
func (s StringSet) Intersects(other StringSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for v := range small {
		if large.Has(v) {
			return true
		}
	}
	return false
}

// Chunk is the smallest clustering unit: one file, one top-level
// function/class, or one directory. Chunks are constructed by extraction and
// read-only afterwards.
type Chunk struct {
	// ID is unique within a run: "path::name" for functions and classes,
	// "path" for files, "dir/" for directories.
	ID   string
	Kind ChunkKind
	Path string // Slash-separated, relative to the repository root
	Name string

	// StartLine and EndLine hold the 1-based source range when the chunk
	// came from a real parse; both are 0 for token-fallback chunks.
	StartLine int
	EndLine   int

	// Tokens are identifier and string-literal signals used for
	// bag-of-words similarity.
	Tokens StringSet
	// Imports are the import paths recorded for file chunks.
	Imports StringSet
	// Calls are heuristically collected call names, unresolved at this stage.
	Calls StringSet

	// Children holds child chunk IDs in source order (file chunks list
	// their functions/classes, directory chunks list their files).
	Children []string
}

// FunctionID builds the chunk ID for a named declaration inside a file
func FunctionID(path, name string) string {
	return fmt.Sprintf("%s::%s", path, name)
}

// DirectoryID builds the chunk ID for a directory path
func DirectoryID(dir string) string {
	return dir + "/"
}

// Clusterable reports whether the chunk may enter clustering.
// Directory chunks are metadata-only.
func (c *Chunk) Clusterable() bool {
	return c.Kind != KindDirectory
}

// Validate checks structural invariants on the chunk
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return ErrEmptyChunkID
	}
	switch c.Kind {
	case KindFunction, KindClass, KindFile, KindDirectory:
	default:
		return fmt.Errorf("invalid chunk kind %q", c.Kind)
	}
	if c.Kind != KindDirectory && c.Path == "" {
		return errors.New("non-directory chunk requires a path")
	}
	if c.StartLine < 0 || c.EndLine < 0 || c.StartLine > c.EndLine {
		return errors.New("invalid line range")
	}
	return nil
}
