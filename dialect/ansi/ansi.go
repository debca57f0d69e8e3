// Package ansi implements the core ANSI SQL dialect: standard keywords,
// operator precedence, and the Pratt prefix/infix parse rules every
// other dialect builds on.
package ansi

import (
	"strings"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/dialect"
	"github.com/agildata/zeroproxy/token"
	"github.com/agildata/zeroproxy/zerror"
)

// Precedence levels, kept numerically identical to the reference
// implementation this parser's operator table was ported from.
const (
	PrecUnknown     = 0
	PrecUnion       = 3
	PrecJoin        = 5
	PrecAs          = 6
	PrecOr          = 7
	PrecAnd         = 9
	PrecEquals      = 11
	PrecComparison  = 20
	PrecAdditive    = 33
	PrecMultiplicative = 40
)

var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "BY": true,
	"HAVING": true, "ORDER": true, "LIMIT": true, "AS": true, "DISTINCT": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true, "SET": true,
	"DELETE": true, "JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true,
	"OUTER": true, "CROSS": true, "ON": true, "UNION": true, "ALL": true,
	"ASC": true, "DESC": true, "NULL": true, "TRUE": true, "FALSE": true,
	"AND": true, "OR": true, "NOT": true, "IN": true, "LIKE": true, "IS": true,
	"BETWEEN": true, "EXISTS": true, "CASE": true, "WHEN": true, "THEN": true,
	"ELSE": true, "END": true,
}

// Dialect implements dialect.Dialect for plain ANSI SQL. MySQL-flavored
// dialects hold this by value and delegate to it for everything ANSI
// already knows how to do.
type Dialect struct{}

func New() Dialect { return Dialect{} }

func (Dialect) Keywords() map[string]bool { return keywords }

func (Dialect) IsKeyword(word string) bool {
	return keywords[strings.ToUpper(word)]
}

// NextToken has no ANSI-specific lexing beyond the tokenizer's generic
// scanners (double-quoted identifiers are the one ANSI-only wrinkle).
func (Dialect) NextToken(c *token.Cursor, reg *token.Registry) (token.Token, bool, error) {
	r, ok := c.Peek()
	if !ok || r != '"' {
		return token.Token{}, false, nil
	}
	start := c.Pos()
	c.Next()
	var sb strings.Builder
	for {
		r, ok := c.Next()
		if !ok {
			return token.Token{}, true, zerror.NewParseError("1064", "unterminated quoted identifier starting at position %d", start)
		}
		if r == '"' {
			break
		}
		sb.WriteRune(r)
	}
	return token.Token{Kind: token.Identifier, Text: sb.String(), Pos: start}, true, nil
}

func (Dialect) Precedence(tok token.Token) int {
	switch tok.Kind {
	case token.Operator:
		switch strings.ToUpper(tok.Text) {
		case "OR":
			return PrecOr
		case "AND":
			return PrecAnd
		case "=", "<>", "!=":
			return PrecEquals
		case "<", "<=", ">", ">=", "IN", "LIKE", "IS", "BETWEEN", "NOT":
			return PrecComparison
		case "+", "-":
			return PrecAdditive
		case "*", "/", "%":
			return PrecMultiplicative
		}
	case token.Keyword:
		switch strings.ToUpper(tok.Text) {
		case "UNION":
			return PrecUnion
		case "JOIN", "INNER", "LEFT", "RIGHT", "OUTER", "CROSS":
			return PrecJoin
		case "AS":
			return PrecAs
		}
	}
	return PrecUnknown
}

// ParsePrefix implements the nud half of the Pratt parser for every
// ANSI-core expression form: literals, identifiers, unary operators,
// parenthesized groups, and function calls.
func (d Dialect) ParsePrefix(p dialect.Parser) (ast.Expr, error) {
	tok := p.Next()

	switch tok.Kind {
	case token.Literal:
		return p.Literal(tok), nil

	case token.BoundParam:
		if tok.Text == "?" {
			return &ast.BoundParam{}, nil
		}
		return &ast.BoundParam{Name: tok.Text}, nil

	case token.Identifier:
		return d.parseIdentOrCall(p, tok)

	case token.Operator:
		switch strings.ToUpper(tok.Text) {
		case "NOT", "-", "+":
			inner, err := p.ParseExpr(PrecComparison)
			if err != nil {
				return nil, err
			}
			return &ast.UnaryExpr{Op: strings.ToUpper(tok.Text), Expr: inner}, nil
		case "*":
			return &ast.Wildcard{}, nil
		}

	case token.Punctuator:
		if tok.Text == "(" {
			return d.parseParenGroup(p)
		}
		if tok.Text == "*" {
			return &ast.Wildcard{}, nil
		}

	case token.Keyword:
		if strings.ToUpper(tok.Text) == "SELECT" {
			return nil, zerror.NewParseError("1064", "subselects must be parsed by the statement parser, not ParsePrefix")
		}
	}

	return nil, zerror.NewParseError("1064", "unexpected token %s at position %d", tok, tok.Pos)
}

func (d Dialect) parseIdentOrCall(p dialect.Parser, first token.Token) (ast.Expr, error) {
	parts := []string{first.Text}

	for {
		next := p.Peek()
		if next.Kind == token.Punctuator && next.Text == "." {
			p.Next()
			ident := p.Next()
			if ident.Kind == token.Operator && ident.Text == "*" {
				return &ast.Wildcard{Qualifier: strings.Join(parts, ".")}, nil
			}
			if ident.Kind != token.Identifier && ident.Kind != token.Keyword {
				return nil, zerror.NewParseError("1064", "expected identifier after '.' at position %d", ident.Pos)
			}
			parts = append(parts, ident.Text)
			continue
		}
		break
	}

	if next := p.Peek(); next.Kind == token.Punctuator && next.Text == "(" && len(parts) == 1 {
		p.Next()
		args, err := d.parseExprListUntilClose(p)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionCall{Name: parts[0], Args: args}, nil
	}

	return &ast.Ident{Parts: parts}, nil
}

func (d Dialect) parseParenGroup(p dialect.Parser) (ast.Expr, error) {
	items, err := d.parseExprListUntilClose(p)
	if err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return &ast.Nested{Inner: items[0]}, nil
	}
	return &ast.ExprList{Items: items}, nil
}

func (d Dialect) parseExprListUntilClose(p dialect.Parser) ([]ast.Expr, error) {
	var items []ast.Expr
	if next := p.Peek(); next.Kind == token.Punctuator && next.Text == ")" {
		p.Next()
		return items, nil
	}
	for {
		e, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, e)

		next := p.Next()
		if next.Kind == token.Punctuator && next.Text == "," {
			continue
		}
		if next.Kind == token.Punctuator && next.Text == ")" {
			break
		}
		return nil, zerror.NewParseError("1064", "expected ',' or ')' at position %d, got %s", next.Pos, next)
	}
	return items, nil
}

// ParseInfix implements the led half of the Pratt parser: binary
// operators and the "AS alias" suffix.
func (d Dialect) ParseInfix(p dialect.Parser, left ast.Expr, precedence int) (ast.Expr, error) {
	tok := p.Next()

	if tok.Kind == token.Keyword && strings.ToUpper(tok.Text) == "AS" {
		aliasTok := p.Next()
		return &ast.AliasExpr{Expr: left, Alias: aliasTok.Text}, nil
	}

	opText := strings.ToUpper(tok.Text)
	right, err := p.ParseExpr(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Left: left, Op: opText, Right: right}, nil
}
