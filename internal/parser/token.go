package parser

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

// tokenPattern matches identifier-like words of three or more characters
var tokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]{2,}`)

// TokenParser is the generic fallback extractor. It tokenizes a whole file
// with a word regex and emits a single file-level chunk, with no import or
// call signal. It backs every file type the deep parser does not handle, and
// any deep parse that fails.
type TokenParser struct{}

// NewToken creates a new TokenParser instance
func NewToken() *TokenParser {
	return &TokenParser{}
}

// Match accepts every path; the fallback is always applicable
func (p *TokenParser) Match(relPath string) bool { return true }

// Extract reads the file and returns one file chunk carrying its word tokens
func (p *TokenParser) Extract(root, relPath string) ([]*types.Chunk, error) {
	absPath := filepath.Join(root, filepath.FromSlash(relPath))
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return []*types.Chunk{{
		ID:      relPath,
		Kind:    types.KindFile,
		Path:    relPath,
		Name:    path.Base(relPath),
		Tokens:  Tokenize(string(content)),
		Imports: types.NewStringSet(),
		Calls:   types.NewStringSet(),
	}}, nil
}

// Tokenize extracts identifier-like words from raw text
func Tokenize(text string) types.StringSet {
	tokens := types.NewStringSet()
	for _, word := range tokenPattern.FindAllString(text, -1) {
		tokens.Add(word)
	}
	return tokens
}
