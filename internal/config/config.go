package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

// FileName is the optional per-repository configuration file
const FileName = ".gocluster.yml"

// Config holds the tunable parameters of a clustering run
type Config struct {
	// Weights maps metric name to weight. Metrics absent from the map weigh
	// zero and are never computed.
	Weights types.Weights `yaml:"weights"`

	// Threshold is the average-linkage merge cutoff, in [0,1]
	Threshold float64 `yaml:"threshold"`

	// MinEdgeWeight drops scored pairs below this combined weight
	MinEdgeWeight float64 `yaml:"min_edge_weight"`

	// MaxCommits bounds the git history window for the co-change metric
	MaxCommits int `yaml:"max_commits"`

	// Include and Exclude are glob patterns applied during file discovery
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Default returns the standard configuration
func Default() *Config {
	return &Config{
		Weights: types.Weights{
			types.MetricStructural: 0.2,
			types.MetricSemantic:   0.4,
			types.MetricCochange:   0.2,
			types.MetricCallgraph:  0.2,
		},
		Threshold:     0.15,
		MinEdgeWeight: 0.05,
		MaxCommits:    500,
	}
}

// fileConfig mirrors Config with optional scalars so an on-disk file can
// override only the keys it names
type fileConfig struct {
	Weights       types.Weights `yaml:"weights"`
	Threshold     *float64      `yaml:"threshold"`
	MinEdgeWeight *float64      `yaml:"min_edge_weight"`
	MaxCommits    *int          `yaml:"max_commits"`
	Include       []string      `yaml:"include"`
	Exclude       []string      `yaml:"exclude"`
}

// Load returns the defaults overlaid with the repository's .gocluster.yml
// when one exists. A missing file is not an error; a malformed one is.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", FileName, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", FileName, err)
	}

	// A weights section replaces the default map wholesale: metrics left out
	// are disabled, not defaulted
	if fc.Weights != nil {
		cfg.Weights = fc.Weights
	}
	if fc.Threshold != nil {
		cfg.Threshold = *fc.Threshold
	}
	if fc.MinEdgeWeight != nil {
		cfg.MinEdgeWeight = *fc.MinEdgeWeight
	}
	if fc.MaxCommits != nil {
		cfg.MaxCommits = *fc.MaxCommits
	}
	if fc.Include != nil {
		cfg.Include = fc.Include
	}
	if fc.Exclude != nil {
		cfg.Exclude = fc.Exclude
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", FileName, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %f must be between 0 and 1", c.Threshold)
	}
	if c.MinEdgeWeight < 0 || c.MinEdgeWeight > 1 {
		return fmt.Errorf("min_edge_weight %f must be between 0 and 1", c.MinEdgeWeight)
	}
	if c.MaxCommits < 0 {
		return fmt.Errorf("max_commits %d cannot be negative", c.MaxCommits)
	}
	for metric, weight := range c.Weights {
		switch metric {
		case types.MetricStructural, types.MetricSemantic, types.MetricCochange, types.MetricCallgraph:
		default:
			return fmt.Errorf("%w: %s", types.ErrUnknownMetric, metric)
		}
		if weight < 0 || weight > 1 {
			return fmt.Errorf("%w: %s=%f", types.ErrInvalidWeight, metric, weight)
		}
	}
	return nil
}
