// Package dialect declares the contract a SQL dialect implements: which
// words are keywords, how to lex dialect-specific tokens, and how to
// parse dialect-specific prefix/infix expressions with their precedence.
package dialect

import (
	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/token"
)

// Parser is the minimal surface a Dialect needs from the parser driving
// it, avoiding a cyclic import between dialect and parser.
type Parser interface {
	Next() token.Token
	Peek() token.Token
	ParseExpr(precedence int) (ast.Expr, error)
	Literal(tok token.Token) ast.Expr
	Registry() *token.Registry
}

// Dialect is implemented by each SQL flavor the tokenizer/parser support.
// A concrete dialect composes a base dialect by holding it as a field
// and delegating to it explicitly, rather than through embedding-as-
// inheritance, so overrides stay visible at the call site.
type Dialect interface {
	// Keywords returns the set of reserved words this dialect adds
	// beyond the identifiers a bare tokenizer would recognize.
	Keywords() map[string]bool

	// IsKeyword reports whether word (case-insensitive) is reserved in
	// this dialect. Satisfies token.Dialect so the tokenizer can
	// classify identifiers without importing this package.
	IsKeyword(word string) bool

	// NextToken gives the dialect first refusal on the character at the
	// cursor; handled is false if the dialect has no special handling
	// and the tokenizer should fall through to its generic scanners.
	NextToken(c *token.Cursor, reg *token.Registry) (tok token.Token, handled bool, err error)

	// ParsePrefix parses a prefix (nud) expression starting at the
	// parser's current token.
	ParsePrefix(p Parser) (ast.Expr, error)

	// ParseInfix parses an infix (led) continuation given the
	// already-parsed left operand and the minimum binding precedence.
	ParseInfix(p Parser, left ast.Expr, precedence int) (ast.Expr, error)

	// Precedence returns the binding power of tok in infix position, or
	// 0 if tok cannot appear there.
	Precedence(tok token.Token) int
}
