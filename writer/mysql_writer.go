package writer

import (
	"strings"

	"github.com/agildata/zeroproxy/ast"
)

// mysqlWriter claims the MySQL-only statement forms ANSI SQL has no
// opinion on; every other node falls through to the ansiWriter.
type mysqlWriter struct{}

func (w *mysqlWriter) Write(sb *strings.Builder, node ast.Node, ctx *Context) (bool, error) {
	switch n := node.(type) {
	case *ast.UseStmt:
		sb.WriteString("USE ")
		sb.WriteString(quoteIdent(n.Schema))
		return true, nil
	default:
		return false, nil
	}
}
