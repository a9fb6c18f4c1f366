package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkValidate(t *testing.T) {
	tests := []struct {
		name    string
		chunk   Chunk
		wantErr bool
	}{
		{
			name:  "valid function",
			chunk: Chunk{ID: "a.go::Run", Kind: KindFunction, Path: "a.go", Name: "Run", StartLine: 3, EndLine: 10},
		},
		{
			name:  "valid directory without path",
			chunk: Chunk{ID: "pkg/", Kind: KindDirectory, Name: "pkg"},
		},
		{
			name:  "fallback chunk with zero lines",
			chunk: Chunk{ID: "README.md", Kind: KindFile, Path: "README.md"},
		},
		{
			name:    "empty ID",
			chunk:   Chunk{Kind: KindFile, Path: "a.go"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			chunk:   Chunk{ID: "a.go", Kind: ChunkKind("module"), Path: "a.go"},
			wantErr: true,
		},
		{
			name:    "file without path",
			chunk:   Chunk{ID: "a.go", Kind: KindFile},
			wantErr: true,
		},
		{
			name:    "inverted line range",
			chunk:   Chunk{ID: "a.go::Run", Kind: KindFunction, Path: "a.go", StartLine: 10, EndLine: 3},
			wantErr: true,
		},
		{
			name:    "negative line",
			chunk:   Chunk{ID: "a.go", Kind: KindFile, Path: "a.go", StartLine: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chunk.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChunkValidate_EmptyIDSentinel(t *testing.T) {
	c := Chunk{Kind: KindFile, Path: "a.go"}
	require.ErrorIs(t, c.Validate(), ErrEmptyChunkID)
}
