// Package parser turns source files into chunks.
//
// Go files get full AST extraction via the standard library (go/parser,
// go/ast, go/token): one chunk per file plus one per top-level function,
// method, and type declaration, each carrying identifier tokens, imports,
// and call targets.
//
// # Basic Usage
//
//	p := parser.NewGo()
//	if p.Match("internal/auth/token.go") {
//	    chunks, err := p.Extract(root, "internal/auth/token.go")
//	    // ...
//	}
//
// # Token Fallback
//
// Everything else (and any Go file that fails to parse) goes through the
// TokenParser, which produces a single file chunk from a regex scan for
// identifier-like tokens of three or more characters. A shell script, a
// YAML file, and a README all cluster on token overlap alone.
//
// # Chunk Identity
//
// Chunk IDs are stable across runs:
//   - files: the relative path ("internal/auth/token.go")
//   - declarations: path plus name ("internal/auth/token.go::Verify"),
//     methods qualified by receiver ("token.go::Store.Get")
package parser
