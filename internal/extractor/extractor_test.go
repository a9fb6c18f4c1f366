package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/gocluster-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func chunkIndex(chunks []*types.Chunk) map[string]*types.Chunk {
	byID := make(map[string]*types.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}
	return byID
}

func TestExtractRepo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() { run() }\n")
	writeFile(t, root, "internal/app/run.go", "package app\n\nfunc Run() {}\n")
	writeFile(t, root, "README.md", "# Demo\n\nRuns the demo application.\n")

	ex := New(nil)
	chunks, err := ex.ExtractRepo(context.Background(), root)
	require.NoError(t, err)

	byID := chunkIndex(chunks)

	// Go files produce file plus declaration chunks
	require.Contains(t, byID, "main.go")
	require.Contains(t, byID, "main.go::main")
	require.Contains(t, byID, "internal/app/run.go::Run")

	// Non-Go files fall through to token extraction
	readme := byID["README.md"]
	require.NotNil(t, readme)
	assert.Equal(t, types.KindFile, readme.Kind)
	assert.True(t, readme.Tokens.Has("Demo"))

	// One directory chunk per directory with files
	rootDir := byID["./"]
	require.NotNil(t, rootDir)
	assert.Equal(t, types.KindDirectory, rootDir.Kind)
	assert.False(t, rootDir.Clusterable())
	assert.Contains(t, rootDir.Children, "README.md")
	assert.Contains(t, rootDir.Children, "main.go")

	appDir := byID["internal/app/"]
	require.NotNil(t, appDir)
	assert.Equal(t, []string{"internal/app/run.go"}, appDir.Children)
	assert.True(t, appDir.Tokens.Has("Run"))

	stats := ex.Stats()
	assert.Equal(t, 3, stats.FilesScanned)
	assert.Equal(t, 0, stats.FilesSkipped)
}

func TestExtractRepo_MissingRoot(t *testing.T) {
	ex := New(nil)
	_, err := ex.ExtractRepo(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestExtractRepo_EmptyRepo(t *testing.T) {
	ex := New(nil)
	chunks, err := ex.ExtractRepo(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestExtractRepo_SkipsBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.bin", "prefix\x00suffix")
	writeFile(t, root, "ok.txt", "plain text content here\n")

	ex := New(nil)
	chunks, err := ex.ExtractRepo(context.Background(), root)
	require.NoError(t, err)

	byID := chunkIndex(chunks)
	assert.NotContains(t, byID, "data.bin")
	assert.Contains(t, byID, "ok.txt")
	assert.Equal(t, 1, ex.Stats().FilesSkipped)
}

func TestExtractRepo_SkipsOversized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", strings.Repeat("padding words here\n", MaxFileSize/18+1))
	writeFile(t, root, "small.txt", "tiny file contents\n")

	ex := New(nil)
	chunks, err := ex.ExtractRepo(context.Background(), root)
	require.NoError(t, err)

	byID := chunkIndex(chunks)
	assert.NotContains(t, byID, "big.txt")
	assert.Contains(t, byID, "small.txt")
}

func TestExtractRepo_IncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "package keep\n")
	writeFile(t, root, "skip.md", "# Skipped readme file\n")

	ex := New(&Options{Include: []string{"*.go"}})
	chunks, err := ex.ExtractRepo(context.Background(), root)
	require.NoError(t, err)
	byID := chunkIndex(chunks)
	assert.Contains(t, byID, "keep.go")
	assert.NotContains(t, byID, "skip.md")

	ex = New(&Options{Exclude: []string{"*.md"}})
	chunks, err = ex.ExtractRepo(context.Background(), root)
	require.NoError(t, err)
	byID = chunkIndex(chunks)
	assert.Contains(t, byID, "keep.go")
	assert.NotContains(t, byID, "skip.md")
}

func TestExtractRepo_FallbackOnBadGo(t *testing.T) {
	root := t.TempDir()
	// No package clause: the deep parse yields nothing usable
	writeFile(t, root, "scratch.go", "not golang at all, just words\n")

	ex := New(nil)
	chunks, err := ex.ExtractRepo(context.Background(), root)
	require.NoError(t, err)

	byID := chunkIndex(chunks)
	chunk := byID["scratch.go"]
	require.NotNil(t, chunk)
	assert.Equal(t, types.KindFile, chunk.Kind)
	assert.True(t, chunk.Tokens.Has("golang"))
	assert.Equal(t, 1, ex.Stats().FilesFellBack)
}

func TestMatchAny(t *testing.T) {
	assert.True(t, matchAny([]string{"*.md"}, "docs/guide.md"))
	assert.True(t, matchAny([]string{"docs/*"}, "docs/guide.md"))
	assert.False(t, matchAny([]string{"*.go"}, "docs/guide.md"))
	assert.False(t, matchAny(nil, "anything"))
}
