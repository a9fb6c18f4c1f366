package clusterer

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

const (
	// nameTokenCount is how many high-frequency tokens a cluster name carries
	nameTokenCount = 3

	// minNameTokenLen filters short tokens out of cluster names
	minNameTokenLen = 3
)

// deriveName labels a cluster with the common directory prefix of its member
// paths plus its most frequent tokens, "prefix (tok1, tok2, tok3)". With no
// path or token signal at all it falls back to the given default.
func deriveName(chunks []*types.Chunk, fallback string) string {
	prefix := commonDirPrefix(chunks)
	tokens := topTokens(chunks, nameTokenCount)

	switch {
	case prefix == "" && len(tokens) == 0:
		return fallback
	case len(tokens) == 0:
		return prefix
	case prefix == "":
		return strings.Join(tokens, ", ")
	default:
		return fmt.Sprintf("%s (%s)", prefix, strings.Join(tokens, ", "))
	}
}

// commonDirPrefix returns the longest shared leading directory path of the
// members, empty when they only share the repository root
func commonDirPrefix(chunks []*types.Chunk) string {
	var prefix []string
	for i, c := range chunks {
		dir := path.Dir(c.Path)
		if dir == "." {
			return ""
		}
		segs := strings.Split(dir, "/")
		if i == 0 {
			prefix = segs
			continue
		}
		n := 0
		for n < len(prefix) && n < len(segs) && prefix[n] == segs[n] {
			n++
		}
		prefix = prefix[:n]
		if len(prefix) == 0 {
			return ""
		}
	}
	return strings.Join(prefix, "/")
}

// topTokens picks the n most frequent tokens of minNameTokenLen or more
// characters across the members, ties broken alphabetically
func topTokens(chunks []*types.Chunk, n int) []string {
	counts := make(map[string]int)
	for _, c := range chunks {
		for tok := range c.Tokens {
			if len(tok) >= minNameTokenLen {
				counts[tok]++
			}
		}
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}
