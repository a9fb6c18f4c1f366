package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/gocluster-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.InDelta(t, 0.15, cfg.Threshold, 1e-9)
	assert.InDelta(t, 0.05, cfg.MinEdgeWeight, 1e-9)
	assert.Equal(t, 500, cfg.MaxCommits)
	assert.Len(t, cfg.Weights, 4)
	assert.InDelta(t, 0.4, cfg.Weights[types.MetricSemantic], 1e-9)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	root := t.TempDir()
	content := `threshold: 0.25
max_commits: 100
exclude:
  - "vendor/*"
  - "*.pb.go"
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, cfg.Threshold, 1e-9)
	assert.Equal(t, 100, cfg.MaxCommits)
	assert.Equal(t, []string{"vendor/*", "*.pb.go"}, cfg.Exclude)
	// Untouched keys keep their defaults
	assert.InDelta(t, 0.05, cfg.MinEdgeWeight, 1e-9)
	assert.Len(t, cfg.Weights, 4)
}

func TestLoad_WeightsReplaceWholesale(t *testing.T) {
	root := t.TempDir()
	content := `weights:
  semantic: 1.0
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Len(t, cfg.Weights, 1)
	assert.InDelta(t, 1.0, cfg.Weights[types.MetricSemantic], 1e-9)
	assert.False(t, cfg.Weights.Active(types.MetricCochange))
}

func TestLoad_Malformed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(":\n  bad yaml ["), 0644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"threshold too high", func(c *Config) { c.Threshold = 1.5 }, true},
		{"negative threshold", func(c *Config) { c.Threshold = -0.1 }, true},
		{"negative commits", func(c *Config) { c.MaxCommits = -1 }, true},
		{"unknown metric", func(c *Config) { c.Weights["embedding"] = 0.5 }, true},
		{"weight out of range", func(c *Config) { c.Weights[types.MetricSemantic] = 2.0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
