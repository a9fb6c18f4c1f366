package types

import (
	"errors"
	"sort"
)

// Partition is a pre-clustering group of chunks. Chunk pairs are only ever
// compared within one partition.
type Partition struct {
	Name   string
	Chunks []*Chunk
}

// ChunkIDs returns the member chunk IDs in partition order
func (p *Partition) ChunkIDs() []string {
	ids := make([]string, len(p.Chunks))
	for i, c := range p.Chunks {
		ids[i] = c.ID
	}
	return ids
}

// Cluster is a cohesive group of chunks discovered inside one partition.
// The builder assigns partition-local IDs; the orchestrating caller finalizes
// them into a single globally numbered list.
type Cluster struct {
	ID          string
	Partition   string
	Name        string
	Description string
	ChunkIDs    []string // Sorted
}

// Size returns the member count
func (c *Cluster) Size() int { return len(c.ChunkIDs) }

// Files returns the sorted, deduplicated file paths contributed by the
// cluster's member chunks, resolved through the given chunk map. Members
// missing from the map are skipped.
func (c *Cluster) Files(chunks map[string]*Chunk) []string {
	seen := make(StringSet)
	for _, id := range c.ChunkIDs {
		if ch, ok := chunks[id]; ok {
			seen.Add(ch.Path)
		}
	}
	return seen.Sorted()
}

// Validate checks the cluster invariants
func (c *Cluster) Validate() error {
	if c.ID == "" {
		return errors.New("cluster ID cannot be empty")
	}
	if len(c.ChunkIDs) == 0 {
		return errors.New("cluster cannot be empty")
	}
	if !sort.StringsAreSorted(c.ChunkIDs) {
		return errors.New("cluster chunk IDs must be sorted")
	}
	for i := 1; i < len(c.ChunkIDs); i++ {
		if c.ChunkIDs[i] == c.ChunkIDs[i-1] {
			return errors.New("cluster chunk IDs must be unique")
		}
	}
	return nil
}
