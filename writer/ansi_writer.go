package writer

import (
	"strings"

	"github.com/agildata/zeroproxy/ast"
)

// ansiWriter renders the expression and SELECT/INSERT/UPDATE/DELETE
// grammar common to every dialect. It is the second-to-last variant
// tried, after the MySQL-specific writer has had a chance to claim its
// own statement forms.
type ansiWriter struct{}

func (w *ansiWriter) Write(sb *strings.Builder, node ast.Node, ctx *Context) (bool, error) {
	switch n := node.(type) {
	case *ast.SelectStmt:
		return true, w.writeSelect(sb, n, ctx)
	case *ast.Ident:
		parts := make([]string, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = quoteIdent(p)
		}
		sb.WriteString(strings.Join(parts, "."))
		return true, nil
	case *ast.BinaryExpr:
		if err := ctx.Emit(sb, n.Left); err != nil {
			return true, err
		}
		sb.WriteString(" ")
		sb.WriteString(n.Op)
		sb.WriteString(" ")
		return true, ctx.Emit(sb, n.Right)
	case *ast.UnaryExpr:
		sb.WriteString(n.Op)
		sb.WriteString(" ")
		return true, ctx.Emit(sb, n.Expr)
	case *ast.Nested:
		sb.WriteString("(")
		if err := ctx.Emit(sb, n.Inner); err != nil {
			return true, err
		}
		sb.WriteString(")")
		return true, nil
	case *ast.ExprList:
		sb.WriteString("(")
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := ctx.Emit(sb, item); err != nil {
				return true, err
			}
		}
		sb.WriteString(")")
		return true, nil
	case *ast.FunctionCall:
		sb.WriteString(n.Name)
		sb.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := ctx.Emit(sb, a); err != nil {
				return true, err
			}
		}
		sb.WriteString(")")
		return true, nil
	case *ast.Wildcard:
		if n.Qualifier != "" {
			sb.WriteString(quoteIdent(n.Qualifier))
			sb.WriteString(".")
		}
		sb.WriteString("*")
		return true, nil
	case *ast.AliasExpr:
		if err := ctx.Emit(sb, n.Expr); err != nil {
			return true, err
		}
		sb.WriteString(" AS ")
		sb.WriteString(quoteIdent(n.Alias))
		return true, nil
	case *ast.JoinExpr:
		return true, w.writeJoin(sb, n, ctx)
	case *ast.SubqueryExpr:
		sb.WriteString("(")
		if err := ctx.Emit(sb, n.Select); err != nil {
			return true, err
		}
		sb.WriteString(")")
		return true, nil
	case *ast.InsertStmt:
		return true, w.writeInsert(sb, n, ctx)
	case *ast.UpdateStmt:
		return true, w.writeUpdate(sb, n, ctx)
	case *ast.DeleteStmt:
		return true, w.writeDelete(sb, n, ctx)
	default:
		return false, nil
	}
}

func (w *ansiWriter) writeSelect(sb *strings.Builder, s *ast.SelectStmt, ctx *Context) error {
	sb.WriteString("SELECT ")
	for i, p := range s.Projection {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := ctx.Emit(sb, p); err != nil {
			return err
		}
	}
	if s.From != nil {
		sb.WriteString(" FROM ")
		if err := ctx.Emit(sb, s.From); err != nil {
			return err
		}
	}
	if s.Where != nil {
		sb.WriteString(" WHERE ")
		if err := ctx.Emit(sb, s.Where); err != nil {
			return err
		}
	}
	if len(s.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		for i, g := range s.GroupBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := ctx.Emit(sb, g); err != nil {
				return err
			}
		}
	}
	if s.Having != nil {
		sb.WriteString(" HAVING ")
		if err := ctx.Emit(sb, s.Having); err != nil {
			return err
		}
	}
	if len(s.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := ctx.Emit(sb, o.Expr); err != nil {
				return err
			}
			if o.Desc {
				sb.WriteString(" DESC")
			}
		}
	}
	if s.Limit != nil {
		sb.WriteString(" LIMIT ")
		if err := ctx.Emit(sb, s.Limit); err != nil {
			return err
		}
	}
	if s.Union != nil {
		sb.WriteString(" UNION ")
		if s.UnionAll {
			sb.WriteString("ALL ")
		}
		if err := ctx.Emit(sb, s.Union); err != nil {
			return err
		}
	}
	return nil
}

func (w *ansiWriter) writeJoin(sb *strings.Builder, j *ast.JoinExpr, ctx *Context) error {
	if err := ctx.Emit(sb, j.Left); err != nil {
		return err
	}
	switch j.Kind {
	case "LEFT":
		sb.WriteString(" LEFT JOIN ")
	case "RIGHT":
		sb.WriteString(" RIGHT JOIN ")
	case "CROSS":
		sb.WriteString(" CROSS JOIN ")
	default:
		sb.WriteString(" JOIN ")
	}
	if err := ctx.Emit(sb, j.Right); err != nil {
		return err
	}
	if j.On != nil {
		sb.WriteString(" ON ")
		return ctx.Emit(sb, j.On)
	}
	return nil
}

func (w *ansiWriter) writeInsert(sb *strings.Builder, ins *ast.InsertStmt, ctx *Context) error {
	sb.WriteString("INSERT INTO ")
	if err := ctx.Emit(sb, ins.Table); err != nil {
		return err
	}
	if len(ins.Columns) > 0 {
		sb.WriteString(" (")
		for i, c := range ins.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteIdent(c))
		}
		sb.WriteString(")")
	}
	sb.WriteString(" VALUES ")
	for i, row := range ins.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			if err := ctx.Emit(sb, v); err != nil {
				return err
			}
		}
		sb.WriteString(")")
	}
	return nil
}

func (w *ansiWriter) writeUpdate(sb *strings.Builder, upd *ast.UpdateStmt, ctx *Context) error {
	sb.WriteString("UPDATE ")
	if err := ctx.Emit(sb, upd.Table); err != nil {
		return err
	}
	sb.WriteString(" SET ")
	for i, a := range upd.Set {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteIdent(a.Column))
		sb.WriteString(" = ")
		if err := ctx.Emit(sb, a.Value); err != nil {
			return err
		}
	}
	if upd.Where != nil {
		sb.WriteString(" WHERE ")
		if err := ctx.Emit(sb, upd.Where); err != nil {
			return err
		}
	}
	return nil
}

func (w *ansiWriter) writeDelete(sb *strings.Builder, del *ast.DeleteStmt, ctx *Context) error {
	sb.WriteString("DELETE FROM ")
	if err := ctx.Emit(sb, del.Table); err != nil {
		return err
	}
	if del.Where != nil {
		sb.WriteString(" WHERE ")
		if err := ctx.Emit(sb, del.Where); err != nil {
			return err
		}
	}
	return nil
}
