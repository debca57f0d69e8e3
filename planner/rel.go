package planner

import "github.com/agildata/zeroproxy/ast"

// TupleType is the column list a Rel node produces, each column carrying
// the encryption metadata the physical planner needs.
type TupleType struct {
	Columns []ColumnMeta
}

// Column looks up a projected column by case-insensitive name.
func (t TupleType) Column(name string) (ColumnMeta, bool) {
	tm := TableMeta{Columns: t.Columns}
	return tm.Column(name)
}

// Rel is a node of the logical relational tree: a projection, selection,
// join, table scan, or DML/DDL root.
type Rel interface {
	Type() TupleType
}

// Rex is a node of the logical row-expression tree nested inside a Rel
// (WHERE/SET/VALUES/projection expressions).
type Rex interface {
	rex()
}

// TableScan is a leaf Rel reading directly from a configured table.
type TableScan struct {
	Schema string
	Table  string
	Alias  string
	Meta   *TableMeta
}

func (s *TableScan) Type() TupleType { return TupleType{Columns: s.Meta.Columns} }

// Dual is the empty-row source for SELECTs with no FROM clause.
type Dual struct{}

func (Dual) Type() TupleType { return TupleType{} }

// Projection narrows/renames an input Rel's columns.
type Projection struct {
	Input   Rel
	Exprs   []Rex
	Aliases []string
	Tuple   TupleType
}

func (p *Projection) Type() TupleType { return p.Tuple }

// Selection applies a WHERE predicate without changing the tuple shape.
type Selection struct {
	Input Rel
	Expr  Rex
}

func (s *Selection) Type() TupleType { return s.Input.Type() }

// Join combines two Rels under an ON predicate (Kind "CROSS" has no ON,
// so On is nil).
type Join struct {
	Left  Rel
	Right Rel
	Kind  string
	On    Rex
}

func (j *Join) Type() TupleType {
	left := j.Left.Type()
	right := j.Right.Type()
	cols := make([]ColumnMeta, 0, len(left.Columns)+len(right.Columns))
	cols = append(cols, left.Columns...)
	cols = append(cols, right.Columns...)
	return TupleType{Columns: cols}
}

// AliasedRel renames a Rel's exposed table/alias without altering its
// tuple type.
type AliasedRel struct {
	Input Rel
	Alias string
}

func (a *AliasedRel) Type() TupleType { return a.Input.Type() }

// InsertRel is the logical root for INSERT statements: one value list
// per row, zipped against the target table's columns by the physical
// planner.
type InsertRel struct {
	Table   *TableScan
	Columns []string
	Values  [][]Rex
}

func (i *InsertRel) Type() TupleType { return i.Table.Type() }

// UpdateRel is the logical root for UPDATE statements.
type UpdateRel struct {
	Table       *TableScan
	Assignments []RexAssignment
	Where       Rex
}

func (u *UpdateRel) Type() TupleType { return u.Table.Type() }

// RexAssignment is one "col = expr" pair of an UpdateRel's SET clause.
type RexAssignment struct {
	Column string
	Meta   ColumnMeta
	Value  Rex
}

// DeleteRel is the logical root for DELETE statements.
type DeleteRel struct {
	Table *TableScan
	Where Rex
}

func (d *DeleteRel) Type() TupleType { return d.Table.Type() }

// CreateTableRel wraps a parsed CREATE TABLE statement. The physical
// planner builds an empty plan for it; the writer renders the
// statement's own column definitions directly.
type CreateTableRel struct {
	Stmt *ast.CreateTableStmt
}

func (c *CreateTableRel) Type() TupleType { return TupleType{} }

// ---- Rex nodes ----

// RexIdentifier is a resolved column reference, carrying the column's
// encryption metadata if one could be resolved from the input tuple type.
type RexIdentifier struct {
	Name     string
	Resolved bool
	Meta     ColumnMeta
}

func (*RexIdentifier) rex() {}

// RexLiteral is a literal value, still addressed by index into the
// statement's literal Registry.
type RexLiteral struct {
	Kind  ast.LiteralKind
	Index int
}

func (*RexLiteral) rex() {}

// RexBoundParam is a `?`/named bind placeholder.
type RexBoundParam struct {
	Name  string
	Index int
}

func (*RexBoundParam) rex() {}

// RexBinary is a binary operator expression.
type RexBinary struct {
	Left  Rex
	Op    string
	Right Rex
}

func (*RexBinary) rex() {}

// RexUnary is a prefix operator expression.
type RexUnary struct {
	Op   string
	Expr Rex
}

func (*RexUnary) rex() {}

// RexNested preserves an explicitly parenthesized sub-expression.
type RexNested struct {
	Inner Rex
}

func (*RexNested) rex() {}

// RexExprList is a comma-separated list, e.g. the right side of an IN.
type RexExprList struct {
	Items []Rex
}

func (*RexExprList) rex() {}

// RexFunctionCall is a scalar function invocation.
type RexFunctionCall struct {
	Name string
	Args []Rex
}

func (*RexFunctionCall) rex() {}

// RexRelational wraps a subquery's logical plan for use in expression
// position (IN-list subqueries, scalar subqueries).
type RexRelational struct {
	Rel Rel
}

func (*RexRelational) rex() {}

// RexWildcard is the "*" or "table.*" projection item. The logical
// planner does not expand it; the physical planner receives it as is.
type RexWildcard struct {
	Qualifier string
}

func (*RexWildcard) rex() {}
