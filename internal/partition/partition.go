package partition

import (
	"path"
	"sort"
	"strings"

	"github.com/dshills/gocluster-mcp/internal/disjointset"
	"github.com/dshills/gocluster-mcp/pkg/types"
)

// Content categories for file chunks
const (
	categoryDocs   = "docs"
	categoryConfig = "config"
	categoryCode   = "code"
)

// docExtensions marks documentation files
var docExtensions = map[string]struct{}{
	".md": {}, ".txt": {}, ".tex": {}, ".rst": {}, ".adoc": {},
}

// configExtensions marks configuration files
var configExtensions = map[string]struct{}{
	".toml": {}, ".yaml": {}, ".yml": {}, ".json": {}, ".cfg": {}, ".ini": {},
}

// configFilenames is the fixed allowlist of extensionless or specially named
// configuration files
var configFilenames = map[string]struct{}{
	".gitignore": {}, ".gitattributes": {}, ".editorconfig": {}, ".dockerignore": {},
	"Dockerfile": {}, "Makefile": {}, "LICENSE": {}, "NOTICE": {},
	"go.mod": {}, "go.sum": {},
}

// Split groups chunks into partitions: one for docs, one for config, and one
// per import-connected set of top-level code directories. Every file chunk
// lands in exactly one partition together with its function/class children;
// directory chunks are excluded entirely.
//
// Docs and config stay undivided: their content is too heterogeneous to
// cluster meaningfully and cheap to present as a single group. Code splits by
// first path component, then groups merge when either side imports a name
// matching the other side's directory (exact, or with "-" replaced by "_" to
// catch package-naming conventions).
func Split(chunks []*types.Chunk) []*types.Partition {
	childrenByPath := make(map[string][]*types.Chunk)
	var fileChunks []*types.Chunk
	for _, c := range chunks {
		switch c.Kind {
		case types.KindFile:
			fileChunks = append(fileChunks, c)
		case types.KindFunction, types.KindClass:
			childrenByPath[c.Path] = append(childrenByPath[c.Path], c)
		}
	}

	var docs, config []*types.Chunk
	codeGroups := make(map[string][]*types.Chunk)
	for _, fc := range fileChunks {
		members := append([]*types.Chunk{fc}, childrenByPath[fc.Path]...)
		switch classify(fc.Path) {
		case categoryDocs:
			docs = append(docs, members...)
		case categoryConfig:
			config = append(config, members...)
		default:
			dir := topDir(fc.Path)
			codeGroups[dir] = append(codeGroups[dir], members...)
		}
	}

	var partitions []*types.Partition
	if len(docs) > 0 {
		partitions = append(partitions, newPartition(categoryDocs, docs))
	}
	if len(config) > 0 {
		partitions = append(partitions, newPartition(categoryConfig, config))
	}
	partitions = append(partitions, mergeCodeGroups(codeGroups)...)

	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].Name < partitions[j].Name
	})
	return partitions
}

// mergeCodeGroups unions top-level directory groups connected by imports in
// either direction and names the resulting partitions
func mergeCodeGroups(groups map[string][]*types.Chunk) []*types.Partition {
	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	ds := disjointset.New(len(dirs))
	for i, a := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			b := dirs[j]
			if importsDirectory(groups[a], b) || importsDirectory(groups[b], a) {
				ds.Union(i, j)
			}
		}
	}

	var partitions []*types.Partition
	for _, members := range groupsInOrder(ds) {
		var names []string
		var chunks []*types.Chunk
		for _, idx := range members {
			names = append(names, displayDir(dirs[idx]))
			chunks = append(chunks, groups[dirs[idx]]...)
		}
		sort.Strings(names)
		name := categoryCode + "/" + strings.Join(names, "+")
		partitions = append(partitions, newPartition(name, chunks))
	}
	return partitions
}

// importsDirectory reports whether any chunk in the group imports a name
// equal to dir, exactly or after substituting "-" with "_"
func importsDirectory(chunks []*types.Chunk, dir string) bool {
	if dir == "" {
		return false
	}
	underscored := strings.ReplaceAll(dir, "-", "_")
	for _, c := range chunks {
		for imp := range c.Imports {
			for _, segment := range strings.Split(imp, "/") {
				if segment == dir || segment == underscored {
					return true
				}
			}
		}
	}
	return false
}

// groupsInOrder returns disjoint-set groups ordered by smallest member index
func groupsInOrder(ds *disjointset.Set) [][]int {
	groups := ds.Groups()
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return groups[roots[i]][0] < groups[roots[j]][0]
	})

	out := make([][]int, 0, len(roots))
	for _, root := range roots {
		out = append(out, groups[root])
	}
	return out
}

// newPartition builds a partition with its chunks in deterministic ID order
func newPartition(name string, chunks []*types.Chunk) *types.Partition {
	sorted := make([]*types.Chunk, len(chunks))
	copy(sorted, chunks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &types.Partition{Name: name, Chunks: sorted}
}

// classify decides the content category for a file path
func classify(filePath string) string {
	base := path.Base(filePath)
	if _, ok := configFilenames[base]; ok {
		return categoryConfig
	}
	ext := strings.ToLower(path.Ext(base))
	if _, ok := docExtensions[ext]; ok {
		return categoryDocs
	}
	if _, ok := configExtensions[ext]; ok {
		return categoryConfig
	}
	return categoryCode
}

// topDir returns the first path component, empty for root-level files
func topDir(filePath string) string {
	if idx := strings.IndexByte(filePath, '/'); idx >= 0 {
		return filePath[:idx]
	}
	return ""
}

// displayDir names a top-level directory in partition names
func displayDir(dir string) string {
	if dir == "" {
		return "root"
	}
	return dir
}
