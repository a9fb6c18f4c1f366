package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClusterValidate(t *testing.T) {
	tests := []struct {
		name    string
		cluster Cluster
		wantErr bool
	}{
		{
			name:    "valid",
			cluster: Cluster{ID: "c1", Partition: "code/internal", ChunkIDs: []string{"a.go", "b.go"}},
		},
		{
			name:    "single member",
			cluster: Cluster{ID: "c2", ChunkIDs: []string{"a.go"}},
		},
		{
			name:    "empty ID",
			cluster: Cluster{ChunkIDs: []string{"a.go"}},
			wantErr: true,
		},
		{
			name:    "no members",
			cluster: Cluster{ID: "c1"},
			wantErr: true,
		},
		{
			name:    "unsorted members",
			cluster: Cluster{ID: "c1", ChunkIDs: []string{"b.go", "a.go"}},
			wantErr: true,
		},
		{
			name:    "duplicate members",
			cluster: Cluster{ID: "c1", ChunkIDs: []string{"a.go", "a.go", "b.go"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cluster.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPartitionChunkIDs(t *testing.T) {
	p := Partition{
		Name: "code/internal",
		Chunks: []*Chunk{
			{ID: "b.go", Kind: KindFile, Path: "b.go"},
			{ID: "a.go", Kind: KindFile, Path: "a.go"},
		},
	}
	assert.Equal(t, []string{"b.go", "a.go"}, p.ChunkIDs())
}
