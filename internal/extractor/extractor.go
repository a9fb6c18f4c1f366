package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/gocluster-mcp/internal/parser"
	"github.com/dshills/gocluster-mcp/pkg/types"
)

const (
	// MaxFileSize is the largest file the extractor will read
	MaxFileSize = 500 * 1024

	// binarySniffLen is how many leading bytes are checked for a NUL byte
	binarySniffLen = 8 * 1024
)

// Parser extracts chunks from one repository file. Match gates which paths a
// parser handles; the registry consults parsers in order and the last entry
// accepts everything.
type Parser interface {
	Match(relPath string) bool
	Extract(root, relPath string) ([]*types.Chunk, error)
}

// Options configures file selection
type Options struct {
	Include []string // Glob patterns; when non-empty, a file must match one
	Exclude []string // Glob patterns; a matching file is skipped
}

// Statistics reports what one extraction pass saw
type Statistics struct {
	FilesScanned  int
	FilesSkipped  int
	FilesFellBack int // Deep parse failed, token fallback used
}

// Extractor walks a repository and turns its tracked files into chunks
type Extractor struct {
	parsers  []Parser
	fallback Parser
	opts     Options
	stats    Statistics
}

// New creates an Extractor with the default parser registry: the Go deep
// parser plus the token fallback for everything else
func New(opts *Options) *Extractor {
	if opts == nil {
		opts = &Options{}
	}
	return &Extractor{
		parsers:  []Parser{parser.NewGo()},
		fallback: parser.NewToken(),
		opts:     *opts,
	}
}

// Stats returns the counters from the most recent ExtractRepo call
func (e *Extractor) Stats() Statistics { return e.stats }

// ExtractRepo enumerates the repository's files and extracts all chunks:
// file chunks, their function/class children, and one metadata directory
// chunk per directory holding at least one file chunk.
//
// A nonexistent root is the only fatal condition. Unreadable, oversized, and
// binary files are skipped silently; an empty repository yields an empty
// chunk list.
func (e *Extractor) ExtractRepo(ctx context.Context, root string) ([]*types.Chunk, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("repository root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository root %s is not a directory", root)
	}

	e.stats = Statistics{}

	files, err := e.listFiles(ctx, root)
	if err != nil {
		return nil, err
	}

	var chunks []*types.Chunk
	fileChunksByDir := make(map[string][]*types.Chunk)

	for _, relPath := range files {
		e.stats.FilesScanned++
		if e.skipFile(root, relPath) {
			e.stats.FilesSkipped++
			continue
		}

		fileChunks := e.extractFile(root, relPath)
		if len(fileChunks) == 0 {
			e.stats.FilesSkipped++
			continue
		}
		chunks = append(chunks, fileChunks...)

		dir := path.Dir(relPath)
		fileChunksByDir[dir] = append(fileChunksByDir[dir], fileChunks[0])
	}

	chunks = append(chunks, directoryChunks(fileChunksByDir)...)
	return chunks, nil
}

// extractFile dispatches one file through the registry. A deep parser failure
// falls back to token extraction; a fallback failure means the file is
// unreadable and it is skipped.
func (e *Extractor) extractFile(root, relPath string) []*types.Chunk {
	for _, p := range e.parsers {
		if !p.Match(relPath) {
			continue
		}
		chunks, err := p.Extract(root, relPath)
		if err == nil {
			return chunks
		}
		e.stats.FilesFellBack++
		break
	}

	chunks, err := e.fallback.Extract(root, relPath)
	if err != nil {
		return nil
	}
	return chunks
}

// listFiles returns the repository's version-controlled files as sorted
// slash-separated relative paths, falling back to a filesystem walk when the
// root is not a git repository.
func (e *Extractor) listFiles(ctx context.Context, root string) ([]string, error) {
	if files, err := gitListFiles(ctx, root); err == nil {
		return files, nil
	}
	return walkFiles(root)
}

// gitListFiles shells out to git ls-files. Read-only; any failure (no git
// binary, not a repository) reports an error so the caller can fall back.
func gitListFiles(ctx context.Context, root string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", root, "ls-files", "-z")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var files []string
	for _, name := range strings.Split(string(out), "\x00") {
		if name != "" {
			files = append(files, filepath.ToSlash(name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// walkFiles recursively enumerates regular files, skipping hidden
// directories (including .git)
func walkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk repository: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// skipFile applies glob filters plus the size and binary heuristics
func (e *Extractor) skipFile(root, relPath string) bool {
	if len(e.opts.Include) > 0 && !matchAny(e.opts.Include, relPath) {
		return true
	}
	if matchAny(e.opts.Exclude, relPath) {
		return true
	}

	absPath := filepath.Join(root, filepath.FromSlash(relPath))
	info, err := os.Stat(absPath)
	if err != nil || !info.Mode().IsRegular() {
		return true
	}
	if info.Size() > MaxFileSize {
		return true
	}
	return looksBinary(absPath)
}

// looksBinary reports whether the file's first bytes contain a NUL
func looksBinary(absPath string) bool {
	f, err := os.Open(absPath)
	if err != nil {
		return true
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, binarySniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

// matchAny tests patterns against both the full relative path and its base
// name, so "*.md" and "docs/*" both behave as expected
func matchAny(patterns []string, relPath string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// directoryChunks builds one metadata chunk per directory with file chunks,
// aggregating the children's tokens. "." holds root-level files.
func directoryChunks(byDir map[string][]*types.Chunk) []*types.Chunk {
	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	chunks := make([]*types.Chunk, 0, len(dirs))
	for _, dir := range dirs {
		children := byDir[dir]
		chunk := &types.Chunk{
			ID:      types.DirectoryID(dir),
			Kind:    types.KindDirectory,
			Path:    dir,
			Name:    path.Base(dir),
			Tokens:  types.NewStringSet(),
			Imports: types.NewStringSet(),
			Calls:   types.NewStringSet(),
		}
		for _, child := range children {
			chunk.Children = append(chunk.Children, child.ID)
			for tok := range child.Tokens {
				chunk.Tokens.Add(tok)
			}
		}
		sort.Strings(chunk.Children)
		chunks = append(chunks, chunk)
	}
	return chunks
}
