package planner

import (
	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/zerror"
)

// LogicalPlanner turns an AST statement into a Rel tree, resolving every
// column reference against table metadata pulled from a SchemaProvider.
type LogicalPlanner struct {
	Provider     SchemaProvider
	DefaultSchema string
}

func NewLogicalPlanner(provider SchemaProvider, defaultSchema string) *LogicalPlanner {
	return &LogicalPlanner{Provider: provider, DefaultSchema: defaultSchema}
}

// Plan builds the logical Rel tree for stmt.
func (lp *LogicalPlanner) Plan(stmt ast.Stmt) (Rel, error) {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		return lp.planSelect(s)
	case *ast.InsertStmt:
		return lp.planInsert(s)
	case *ast.UpdateStmt:
		return lp.planUpdate(s)
	case *ast.DeleteStmt:
		return lp.planDelete(s)
	case *ast.CreateTableStmt:
		return &CreateTableRel{Stmt: s}, nil
	default:
		return nil, zerror.NewParseError("1064", "unsupported statement type %T", stmt)
	}
}

func (lp *LogicalPlanner) resolveTable(parts []string) (*TableScan, error) {
	schema := lp.DefaultSchema
	table := parts[len(parts)-1]
	if len(parts) > 1 {
		schema = parts[len(parts)-2]
	}
	meta, err := lp.Provider.GetTableMeta(schema, table)
	if err != nil {
		return nil, zerror.NewSchemaError("1146", "error resolving table %s.%s: %v", schema, table, err)
	}
	if meta == nil {
		return nil, zerror.NewSchemaError("1146", "table %s.%s does not exist", schema, table)
	}
	return &TableScan{Schema: schema, Table: table, Alias: table, Meta: meta}, nil
}

func (lp *LogicalPlanner) planFrom(e ast.Expr) (Rel, error) {
	switch f := e.(type) {
	case *ast.Ident:
		return lp.resolveTable(f.Parts)

	case *ast.AliasExpr:
		inner, err := lp.planFrom(f.Expr)
		if err != nil {
			return nil, err
		}
		if ts, ok := inner.(*TableScan); ok {
			ts.Alias = f.Alias
			return ts, nil
		}
		return &AliasedRel{Input: inner, Alias: f.Alias}, nil

	case *ast.JoinExpr:
		left, err := lp.planFrom(f.Left)
		if err != nil {
			return nil, err
		}
		right, err := lp.planFrom(f.Right)
		if err != nil {
			return nil, err
		}
		joined := &Join{Left: left, Right: right, Kind: f.Kind}
		if f.On != nil {
			tuple := joined.Type()
			on, err := lp.planExpr(f.On, tuple)
			if err != nil {
				return nil, err
			}
			joined.On = on
		}
		return joined, nil

	case *ast.SubqueryExpr:
		return lp.planSelect(f.Select)

	default:
		return nil, zerror.NewParseError("1064", "unsupported FROM expression %T", e)
	}
}

func (lp *LogicalPlanner) planSelect(s *ast.SelectStmt) (Rel, error) {
	var input Rel = Dual{}
	if s.From != nil {
		var err error
		input, err = lp.planFrom(s.From)
		if err != nil {
			return nil, err
		}
	}

	tuple := input.Type()

	var exprs []Rex
	var aliases []string
	var cols []ColumnMeta
	for _, item := range s.Projection {
		switch it := item.(type) {
		case *ast.Wildcard:
			for _, c := range tuple.Columns {
				exprs = append(exprs, &RexIdentifier{Name: c.Name, Resolved: true, Meta: c})
				aliases = append(aliases, c.Name)
				cols = append(cols, c)
			}
		case *ast.AliasExpr:
			rex, err := lp.planExpr(it.Expr, tuple)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, rex)
			aliases = append(aliases, it.Alias)
			cols = append(cols, rexColumnMeta(rex, it.Alias))
		default:
			rex, err := lp.planExpr(item, tuple)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, rex)
			name := exprLabel(item)
			aliases = append(aliases, name)
			cols = append(cols, rexColumnMeta(rex, name))
		}
	}

	proj := &Projection{Input: input, Exprs: exprs, Aliases: aliases, Tuple: TupleType{Columns: cols}}

	var result Rel = proj
	if s.Where != nil {
		where, err := lp.planExpr(s.Where, tuple)
		if err != nil {
			return nil, err
		}
		// Selection wraps the pre-projection input in physical planning
		// order: WHERE sees the scan's full tuple, not the projected one.
		result = &Projection{Input: &Selection{Input: input, Expr: where}, Exprs: exprs, Aliases: aliases, Tuple: proj.Tuple}
	}

	return result, nil
}

func exprLabel(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Ident:
		return v.Parts[len(v.Parts)-1]
	case *ast.FunctionCall:
		return v.Name
	default:
		return ""
	}
}

func rexColumnMeta(r Rex, name string) ColumnMeta {
	if ident, ok := r.(*RexIdentifier); ok && ident.Resolved {
		meta := ident.Meta
		meta.Name = name
		return meta
	}
	return ColumnMeta{Name: name}
}

func (lp *LogicalPlanner) planExpr(e ast.Expr, tuple TupleType) (Rex, error) {
	switch v := e.(type) {
	case *ast.Ident:
		name := v.Parts[len(v.Parts)-1]
		if meta, ok := tuple.Column(name); ok {
			return &RexIdentifier{Name: name, Resolved: true, Meta: meta}, nil
		}
		return &RexIdentifier{Name: name, Resolved: false}, nil

	case *ast.Literal:
		return &RexLiteral{Kind: v.Kind, Index: v.Index}, nil

	case *ast.BoundParam:
		return &RexBoundParam{Name: v.Name}, nil

	case *ast.BinaryExpr:
		left, err := lp.planExpr(v.Left, tuple)
		if err != nil {
			return nil, err
		}
		right, err := lp.planExpr(v.Right, tuple)
		if err != nil {
			return nil, err
		}
		return &RexBinary{Left: left, Op: v.Op, Right: right}, nil

	case *ast.UnaryExpr:
		inner, err := lp.planExpr(v.Expr, tuple)
		if err != nil {
			return nil, err
		}
		return &RexUnary{Op: v.Op, Expr: inner}, nil

	case *ast.Nested:
		inner, err := lp.planExpr(v.Inner, tuple)
		if err != nil {
			return nil, err
		}
		return &RexNested{Inner: inner}, nil

	case *ast.ExprList:
		items := make([]Rex, 0, len(v.Items))
		for _, it := range v.Items {
			r, err := lp.planExpr(it, tuple)
			if err != nil {
				return nil, err
			}
			items = append(items, r)
		}
		return &RexExprList{Items: items}, nil

	case *ast.FunctionCall:
		args := make([]Rex, 0, len(v.Args))
		for _, a := range v.Args {
			r, err := lp.planExpr(a, tuple)
			if err != nil {
				return nil, err
			}
			args = append(args, r)
		}
		return &RexFunctionCall{Name: v.Name, Args: args}, nil

	case *ast.Wildcard:
		return &RexWildcard{Qualifier: v.Qualifier}, nil

	case *ast.AliasExpr:
		return lp.planExpr(v.Expr, tuple)

	case *ast.SubqueryExpr:
		rel, err := lp.planSelect(v.Select)
		if err != nil {
			return nil, err
		}
		if len(rel.Type().Columns) != 1 {
			return nil, zerror.NewParseError("1064", "subquery must return exactly one column")
		}
		return &RexRelational{Rel: rel}, nil

	default:
		return nil, zerror.NewParseError("1064", "unsupported expression type %T", e)
	}
}

func (lp *LogicalPlanner) planInsert(s *ast.InsertStmt) (Rel, error) {
	table, err := lp.resolveTable(s.Table.Parts)
	if err != nil {
		return nil, err
	}
	tuple := table.Type()

	rows := make([][]Rex, 0, len(s.Values))
	for _, row := range s.Values {
		r := make([]Rex, 0, len(row))
		for _, v := range row {
			rex, err := lp.planExpr(v, tuple)
			if err != nil {
				return nil, err
			}
			r = append(r, rex)
		}
		rows = append(rows, r)
	}

	return &InsertRel{Table: table, Columns: s.Columns, Values: rows}, nil
}

func (lp *LogicalPlanner) planUpdate(s *ast.UpdateStmt) (Rel, error) {
	table, err := lp.resolveTable(s.Table.Parts)
	if err != nil {
		return nil, err
	}
	tuple := table.Type()

	assigns := make([]RexAssignment, 0, len(s.Set))
	for _, a := range s.Set {
		meta, _ := tuple.Column(a.Column)
		val, err := lp.planExpr(a.Value, tuple)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, RexAssignment{Column: a.Column, Meta: meta, Value: val})
	}

	upd := &UpdateRel{Table: table, Assignments: assigns}
	if s.Where != nil {
		where, err := lp.planExpr(s.Where, tuple)
		if err != nil {
			return nil, err
		}
		upd.Where = where
	}
	return upd, nil
}

func (lp *LogicalPlanner) planDelete(s *ast.DeleteStmt) (Rel, error) {
	table, err := lp.resolveTable(s.Table.Parts)
	if err != nil {
		return nil, err
	}
	tuple := table.Type()

	del := &DeleteRel{Table: table}
	if s.Where != nil {
		where, err := lp.planExpr(s.Where, tuple)
		if err != nil {
			return nil, err
		}
		del.Where = where
	}
	return del, nil
}
