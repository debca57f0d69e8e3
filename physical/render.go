package physical

import (
	"fmt"
	"strings"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/planner"
	"github.com/agildata/zeroproxy/token"
)

// render produces a human-readable rendering of rex for use inside
// error messages; it is not required to be valid SQL, only legible.
func render(rex planner.Rex, reg *token.Registry) string {
	switch v := rex.(type) {
	case *planner.RexIdentifier:
		return v.Name
	case *planner.RexLiteral:
		if reg == nil {
			return "?"
		}
		body := reg.Get(v.Index)
		if v.Kind == ast.LitString {
			return "'" + body + "'"
		}
		return body
	case *planner.RexBoundParam:
		if v.Name != "" {
			return ":" + v.Name
		}
		return "?"
	case *planner.RexBinary:
		return fmt.Sprintf("%s %s %s", render(v.Left, reg), v.Op, render(v.Right, reg))
	case *planner.RexUnary:
		return fmt.Sprintf("%s %s", v.Op, render(v.Expr, reg))
	case *planner.RexNested:
		return "(" + render(v.Inner, reg) + ")"
	case *planner.RexExprList:
		parts := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			parts = append(parts, render(it, reg))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *planner.RexFunctionCall:
		parts := make([]string, 0, len(v.Args))
		for _, a := range v.Args {
			parts = append(parts, render(a, reg))
		}
		return v.Name + "(" + strings.Join(parts, ", ") + ")"
	case *planner.RexRelational:
		return "(subquery)"
	case *planner.RexWildcard:
		if v.Qualifier != "" {
			return v.Qualifier + ".*"
		}
		return "*"
	default:
		return "?"
	}
}
