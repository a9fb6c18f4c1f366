// Package extractor walks a repository and turns its files into chunks.
//
// The extractor prefers `git ls-files` for file discovery so ignored and
// untracked build artifacts never reach the parsers, falling back to a
// filesystem walk for plain directories.
//
// # Basic Usage
//
//	ex := extractor.New(nil)
//	chunks, err := ex.ExtractRepo(ctx, "/path/to/repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stats := ex.Stats()
//	fmt.Printf("Extracted %d chunks from %d files\n",
//	    len(chunks), stats.FilesScanned-stats.FilesSkipped)
//
// # Parser Fallback
//
// Each file is offered to the registered deep parsers first (Go sources get
// full AST extraction). When no deep parser matches, or a deep parse fails,
// the file falls back to token-level extraction so every readable text file
// still produces at least one chunk. Files that fail both paths are skipped
// and counted, never fatal.
//
// # Skip Rules
//
// Files are skipped when they:
//   - Match an exclude glob (or miss every include glob, if any are set)
//   - Exceed the size limit (500 KB)
//   - Look binary (NUL byte in the first 8 KB)
//
// # Directory Chunks
//
// After file extraction, one metadata chunk is emitted per directory that
// contains file chunks. Directory chunks aggregate their files' tokens and
// never join clusters themselves.
package extractor
