// Package mysql implements the MySQL SQL dialect by composing the ansi
// dialect: it adds MySQL's backtick-quoted identifiers, its superset of
// keywords (datatypes, table options, key definitions), and delegates
// everything else to the embedded ansi.Dialect.
package mysql

import (
	"strings"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/dialect"
	"github.com/agildata/zeroproxy/dialect/ansi"
	"github.com/agildata/zeroproxy/token"
	"github.com/agildata/zeroproxy/zerror"
)

var extraKeywords = map[string]bool{
	"CREATE": true, "TABLE": true, "USE": true, "PRIMARY": true, "KEY": true,
	"UNIQUE": true, "FOREIGN": true, "FULLTEXT": true, "INDEX": true,
	"CONSTRAINT": true, "REFERENCES": true, "AUTO_INCREMENT": true,
	"ENGINE": true, "CHARSET": true, "COLLATE": true, "COMMENT": true,
	"SIGNED": true, "UNSIGNED": true, "NATIONAL": true,

	"BIT": true, "TINYINT": true, "SMALLINT": true, "MEDIUMINT": true,
	"INT": true, "INTEGER": true, "BIGINT": true, "DECIMAL": true, "DEC": true,
	"FLOAT": true, "DOUBLE": true, "BOOL": true, "BOOLEAN": true,
	"DATE": true, "DATETIME": true, "TIMESTAMP": true, "TIME": true, "YEAR": true,
	"CHAR": true, "NCHAR": true, "VARCHAR": true, "NVARCHAR": true,
	"BINARY": true, "VARBINARY": true, "TINYBLOB": true, "TINYTEXT": true,
	"MEDIUMBLOB": true, "MEDIUMTEXT": true, "LONGBLOB": true, "LONGTEXT": true,
	"BLOB": true, "TEXT": true, "ENUM": true, "SET": true,
}

// Dialect composes ansi.Dialect by value and delegates to it for every
// ANSI-core concern (operator precedence, expression parsing); it only
// overrides keyword classification and adds backtick-quoted identifiers.
type Dialect struct {
	ansi.Dialect
}

func New() Dialect {
	return Dialect{Dialect: ansi.New()}
}

func (d Dialect) Keywords() map[string]bool {
	merged := make(map[string]bool, len(extraKeywords))
	for k, v := range d.Dialect.Keywords() {
		merged[k] = v
	}
	for k, v := range extraKeywords {
		merged[k] = v
	}
	return merged
}

func (d Dialect) IsKeyword(word string) bool {
	up := strings.ToUpper(word)
	if extraKeywords[up] {
		return true
	}
	return d.Dialect.IsKeyword(word)
}

// NextToken adds backtick-quoted identifier lexing on top of whatever
// ansi.Dialect already handles (double-quoted identifiers).
func (d Dialect) NextToken(c *token.Cursor, reg *token.Registry) (token.Token, bool, error) {
	r, ok := c.Peek()
	if ok && r == '`' {
		start := c.Pos()
		c.Next()
		var sb strings.Builder
		for {
			r, ok := c.Next()
			if !ok {
				return token.Token{}, true, zerror.NewParseError("1064", "unterminated backtick identifier starting at position %d", start)
			}
			if r == '`' {
				if next, ok := c.Peek(); ok && next == '`' {
					c.Next()
					sb.WriteRune('`')
					continue
				}
				break
			}
			sb.WriteRune(r)
		}
		return token.Token{Kind: token.Identifier, Text: sb.String(), Pos: start}, true, nil
	}
	return d.Dialect.NextToken(c, reg)
}

func (d Dialect) ParsePrefix(p dialect.Parser) (ast.Expr, error) {
	return d.Dialect.ParsePrefix(p)
}

func (d Dialect) ParseInfix(p dialect.Parser, left ast.Expr, precedence int) (ast.Expr, error) {
	return d.Dialect.ParseInfix(p, left, precedence)
}

func (d Dialect) Precedence(tok token.Token) int {
	return d.Dialect.Precedence(tok)
}
