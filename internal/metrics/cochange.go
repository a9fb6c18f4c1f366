package metrics

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

const (
	// gitLogTimeout bounds the single git subprocess call per run
	gitLogTimeout = 60 * time.Second

	// maxFilesPerCommit excludes bulk commits (renames, vendoring, formatting
	// sweeps) from the co-change signal
	maxFilesPerCommit = 50

	// commitMarker separates commits in the git log output
	commitMarker = "__commit__"
)

// cochangeIndex holds pairwise co-occurrence counts of files in recent
// commits. A nil index scores every pair 0.
type cochangeIndex struct {
	counts   map[string]int
	maxCount int
}

// LoadHistory scans the repository's recent commits and builds the co-change
// index. It is called once per run, before partitions are scored. Any git
// failure (missing binary, not a repository, timeout) leaves the index empty
// and returns the cause so the caller can surface a degradation note; it is
// never fatal.
func (e *Engine) LoadHistory(ctx context.Context) error {
	if !e.weights.Active(types.MetricCochange) || e.repoRoot == "" {
		return nil
	}

	idx, err := loadCochange(ctx, e.repoRoot, e.maxCommits)
	if err != nil {
		return err
	}
	e.history = idx
	return nil
}

// loadCochange runs git log --name-only over the last maxCommits commits and
// counts file-pair co-occurrences
func loadCochange(ctx context.Context, root string, maxCommits int) (*cochangeIndex, error) {
	ctx, cancel := context.WithTimeout(ctx, gitLogTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", root, "log",
		"--name-only",
		"--pretty=format:"+commitMarker,
		"-n", strconv.Itoa(maxCommits))
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	idx := &cochangeIndex{counts: make(map[string]int)}
	var commitFiles []string
	flush := func() {
		idx.addCommit(commitFiles)
		commitFiles = commitFiles[:0]
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == commitMarker:
			flush()
		case line != "":
			commitFiles = append(commitFiles, line)
		}
	}
	flush()

	return idx, nil
}

// addCommit folds one commit's touched files into the pair counts
func (idx *cochangeIndex) addCommit(files []string) {
	if len(files) < 2 || len(files) > maxFilesPerCommit {
		return
	}
	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			key := types.PairKey(files[i], files[j])
			idx.counts[key]++
			if idx.counts[key] > idx.maxCount {
				idx.maxCount = idx.counts[key]
			}
		}
	}
}

// score normalizes the pair's co-occurrence count by the highest observed
// count, capped at 1. The pair is keyed by the chunks' containing files.
func (idx *cochangeIndex) score(fileA, fileB string) float64 {
	if idx == nil || idx.maxCount == 0 || fileA == fileB {
		return 0
	}
	count := idx.counts[types.PairKey(fileA, fileB)]
	return math.Min(float64(count)/float64(idx.maxCount), 1.0)
}
