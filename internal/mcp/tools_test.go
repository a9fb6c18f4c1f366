package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/gocluster-mcp/internal/config"
	"github.com/dshills/gocluster-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes_Unique(t *testing.T) {
	codes := []int{
		ErrorCodeInvalidParams,
		ErrorCodeInternalError,
		ErrorCodeNotAnalyzed,
		ErrorCodeRunInProgress,
		ErrorCodeNotFound,
	}
	seen := make(map[int]bool)
	for _, code := range codes {
		assert.Negative(t, code)
		assert.False(t, seen[code], "duplicate error code %d", code)
		seen[code] = true
	}
}

func TestMCPError(t *testing.T) {
	err := newMCPError(ErrorCodeInvalidParams, "invalid params", nil)
	assert.Equal(t, "MCP error -32602: invalid params", err.Error())

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestValidatePath(t *testing.T) {
	tmpDir := t.TempDir()

	assert.NoError(t, validatePath(tmpDir))
	assert.ErrorIs(t, validatePath(""), ErrPathRequired)
	assert.ErrorIs(t, validatePath("relative/path"), ErrPathNotAbsolute)
	assert.ErrorIs(t, validatePath(filepath.Join(tmpDir, "absent")), ErrPathNotFound)

	file := filepath.Join(tmpDir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.ErrorIs(t, validatePath(file), ErrNotDirectory)
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	applyOverrides(cfg, map[string]interface{}{
		"threshold":   0.3,
		"max_commits": float64(50),
		"weights": map[string]interface{}{
			"semantic": 0.9,
		},
		"exclude": []interface{}{"vendor/*"},
	})

	assert.InDelta(t, 0.3, cfg.Threshold, 1e-9)
	assert.Equal(t, 50, cfg.MaxCommits)
	assert.Equal(t, []string{"vendor/*"}, cfg.Exclude)
	// Weights replace the defaults wholesale
	assert.Len(t, cfg.Weights, 1)
	assert.InDelta(t, 0.9, cfg.Weights[types.MetricSemantic], 1e-9)
}

func TestApplyOverrides_NoArgs(t *testing.T) {
	cfg := config.Default()
	applyOverrides(cfg, map[string]interface{}{})
	assert.Equal(t, config.Default(), cfg)
}

func TestStringSlice(t *testing.T) {
	got, ok := stringSlice([]interface{}{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = stringSlice([]interface{}{"a", 3})
	assert.False(t, ok)

	_, ok = stringSlice("not a slice")
	assert.False(t, ok)
}

func TestGetStringDefault(t *testing.T) {
	args := map[string]interface{}{"partition": "docs", "count": 3}

	assert.Equal(t, "docs", getStringDefault(args, "partition", ""))
	assert.Equal(t, "fallback", getStringDefault(args, "missing", "fallback"))
	assert.Equal(t, "fallback", getStringDefault(args, "count", "fallback"))
}

func TestFormatJSON(t *testing.T) {
	out := formatJSON(map[string]interface{}{"clusters_built": 3})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.InDelta(t, 3, decoded["clusters_built"].(float64), 1e-9)
}
