package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

// minLiteralLen is the shortest string literal kept as a semantic token
const minLiteralLen = 3

// GoParser extracts clustering chunks from Go source files using AST parsing.
// It produces one file-level chunk plus one chunk per top-level function,
// method, and type declaration.
type GoParser struct {
	fset *token.FileSet
}

// NewGo creates a new GoParser instance
func NewGo() *GoParser {
	return &GoParser{
		fset: token.NewFileSet(),
	}
}

// Match reports whether the parser handles the given repository-relative path
func (p *GoParser) Match(relPath string) bool {
	return strings.HasSuffix(relPath, ".go")
}

// Extract parses one Go file and returns its chunks. The file chunk comes
// first, followed by declaration chunks in source order; the file chunk's
// Children records the declaration chunk IDs.
//
// A syntax error is tolerated as long as the partial AST still yields at
// least one declaration chunk; a parse that recovers nothing is an error.
func (p *GoParser) Extract(root, relPath string) ([]*types.Chunk, error) {
	absPath := filepath.Join(root, filepath.FromSlash(relPath))
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	file, parseErr := parser.ParseFile(p.fset, absPath, content, 0)
	if file == nil {
		// Nothing to work with; the caller falls back to token extraction
		return nil, fmt.Errorf("parse failed: %w", parseErr)
	}

	fileChunk := &types.Chunk{
		ID:        relPath,
		Kind:      types.KindFile,
		Path:      relPath,
		Name:      path.Base(relPath),
		StartLine: 1,
		EndLine:   p.fset.Position(file.End()).Line,
		Tokens:    types.NewStringSet(),
		Imports:   types.NewStringSet(),
		Calls:     types.NewStringSet(),
	}
	if file.Name != nil {
		fileChunk.Tokens.Add(file.Name.Name)
	}
	for _, imp := range file.Imports {
		fileChunk.Imports.Add(strings.Trim(imp.Path.Value, `"`))
	}

	chunks := []*types.Chunk{fileChunk}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			chunk := p.extractFunction(relPath, d)
			chunks = append(chunks, chunk)
			fileChunk.Children = append(fileChunk.Children, chunk.ID)
			mergeSignals(fileChunk, chunk)
		case *ast.GenDecl:
			typeChunks := p.extractGenDecl(relPath, d)
			for _, chunk := range typeChunks {
				chunks = append(chunks, chunk)
				fileChunk.Children = append(fileChunk.Children, chunk.ID)
				mergeSignals(fileChunk, chunk)
			}
			if len(typeChunks) == 0 && d.Tok != token.IMPORT {
				// Top-level const/var signals belong to the file chunk
				tokens, calls := collectSignals(d)
				unionInto(fileChunk.Tokens, tokens)
				unionInto(fileChunk.Calls, calls)
			}
		}
	}

	// A partial AST that recovered no declarations carries no usable signal
	// (e.g. a missing package clause turns every declaration into a BadDecl);
	// report the failure so the caller falls back to token extraction
	if parseErr != nil && len(fileChunk.Children) == 0 {
		return nil, fmt.Errorf("parse failed: %w", parseErr)
	}

	return chunks, nil
}

// extractFunction builds a chunk for a function or method declaration.
// Method chunks are named "Receiver.Method" so two methods with the same name
// on different receivers get distinct chunk IDs.
func (p *GoParser) extractFunction(relPath string, funcDecl *ast.FuncDecl) *types.Chunk {
	name := funcDecl.Name.Name
	if recv := receiverTypeName(funcDecl); recv != "" {
		name = recv + "." + name
	}

	tokens, calls := collectSignals(funcDecl)
	return &types.Chunk{
		ID:        types.FunctionID(relPath, name),
		Kind:      types.KindFunction,
		Path:      relPath,
		Name:      name,
		StartLine: p.fset.Position(funcDecl.Pos()).Line,
		EndLine:   p.fset.Position(funcDecl.End()).Line,
		Tokens:    tokens,
		Imports:   types.NewStringSet(),
		Calls:     calls,
	}
}

// extractGenDecl builds class chunks for the type specs in a declaration
func (p *GoParser) extractGenDecl(relPath string, genDecl *ast.GenDecl) []*types.Chunk {
	if genDecl.Tok != token.TYPE {
		return nil
	}

	var chunks []*types.Chunk
	for _, spec := range genDecl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		tokens, calls := collectSignals(typeSpec)
		chunks = append(chunks, &types.Chunk{
			ID:        types.FunctionID(relPath, typeSpec.Name.Name),
			Kind:      types.KindClass,
			Path:      relPath,
			Name:      typeSpec.Name.Name,
			StartLine: p.fset.Position(typeSpec.Pos()).Line,
			EndLine:   p.fset.Position(typeSpec.End()).Line,
			Tokens:    tokens,
			Imports:   types.NewStringSet(),
			Calls:     calls,
		})
	}
	return chunks
}

// collectSignals walks a subtree gathering referenced identifiers, string
// literals of minLiteralLen or more characters, and call names. Call names are
// matched heuristically later: a plain identifier call records the identifier,
// a selector call records the selected name.
func collectSignals(node ast.Node) (tokens, calls types.StringSet) {
	tokens = types.NewStringSet()
	calls = types.NewStringSet()

	ast.Inspect(node, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.Ident:
			tokens.Add(v.Name)
		case *ast.BasicLit:
			if v.Kind == token.STRING {
				if lit := unquote(v.Value); len(lit) >= minLiteralLen {
					tokens.Add(lit)
				}
			}
		case *ast.CallExpr:
			switch fn := v.Fun.(type) {
			case *ast.Ident:
				calls.Add(fn.Name)
			case *ast.SelectorExpr:
				calls.Add(fn.Sel.Name)
			}
		}
		return true
	})

	return tokens, calls
}

// mergeSignals folds a declaration chunk's signals into its file chunk
func mergeSignals(file, decl *types.Chunk) {
	unionInto(file.Tokens, decl.Tokens)
	unionInto(file.Calls, decl.Calls)
}

// unionInto adds every member of src to dst
func unionInto(dst, src types.StringSet) {
	for v := range src {
		dst.Add(v)
	}
}

// receiverTypeName extracts the receiver type name from a method declaration
func receiverTypeName(funcDecl *ast.FuncDecl) string {
	if funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
		return ""
	}
	expr := funcDecl.Recv.List[0].Type
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr: // Generic receiver
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

// unquote strips quoting from a string literal, tolerating raw strings
func unquote(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.Trim(lit, "`\"")
}
