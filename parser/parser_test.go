package parser_test

import (
	"testing"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/dialect/mysql"
	"github.com/agildata/zeroproxy/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSelect(t *testing.T) {
	d := mysql.New()
	stmt, reg, err := parser.Parse("SELECT id, name FROM users WHERE id = 1", d)
	require.NoError(t, err)

	sel, ok := stmt.(*ast.SelectStmt)
	require.True(t, ok)
	require.Len(t, sel.Projection, 2)

	from, ok := sel.From.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "users", from.String())

	where, ok := sel.Where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "=", where.Op)

	lit, ok := where.Right.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "1", reg.Get(lit.Index))
}

func TestParseJoin(t *testing.T) {
	d := mysql.New()
	stmt, _, err := parser.Parse(
		"SELECT o.id FROM orders o JOIN users u ON o.user_id = u.id WHERE u.id = 5", d)
	require.NoError(t, err)

	sel := stmt.(*ast.SelectStmt)
	join, ok := sel.From.(*ast.JoinExpr)
	require.True(t, ok)
	assert.Equal(t, "INNER", join.Kind)
	require.NotNil(t, join.On)
}

func TestParseInsert(t *testing.T) {
	d := mysql.New()
	stmt, _, err := parser.Parse("INSERT INTO users (id, ssn) VALUES (1, '123-45-6789')", d)
	require.NoError(t, err)

	ins := stmt.(*ast.InsertStmt)
	assert.Equal(t, "users", ins.Table.String())
	assert.Equal(t, []string{"id", "ssn"}, ins.Columns)
	require.Len(t, ins.Values, 1)
	require.Len(t, ins.Values[0], 2)
}

func TestParseUpdate(t *testing.T) {
	d := mysql.New()
	stmt, _, err := parser.Parse("UPDATE users SET ssn = '999-99-9999' WHERE id = 1", d)
	require.NoError(t, err)

	upd := stmt.(*ast.UpdateStmt)
	assert.Equal(t, "users", upd.Table.String())
	require.Len(t, upd.Set, 1)
	assert.Equal(t, "ssn", upd.Set[0].Column)
}

func TestParseDelete(t *testing.T) {
	d := mysql.New()
	stmt, _, err := parser.Parse("DELETE FROM users WHERE id = 1", d)
	require.NoError(t, err)

	del := stmt.(*ast.DeleteStmt)
	assert.Equal(t, "users", del.Table.String())
	require.NotNil(t, del.Where)
}

func TestParseCreateTable(t *testing.T) {
	d := mysql.New()
	stmt, _, err := parser.Parse(
		"CREATE TABLE users (id BIGINT PRIMARY KEY, ssn VARCHAR(20) NOT NULL) ENGINE=InnoDB", d)
	require.NoError(t, err)

	ct := stmt.(*ast.CreateTableStmt)
	assert.Equal(t, "users", ct.Table.String())
	require.Len(t, ct.Columns, 2)
	assert.True(t, ct.Columns[0].PrimaryKey)
	assert.Equal(t, ast.TypeBigInt, ct.Columns[0].DataType.Kind)
	assert.Equal(t, ast.TypeVarchar, ct.Columns[1].DataType.Kind)
	assert.Equal(t, 20, ct.Columns[1].DataType.Length)
	assert.True(t, ct.Columns[1].NotNull)
}

func TestOperatorPrecedence(t *testing.T) {
	d := mysql.New()
	stmt, _, err := parser.Parse("SELECT * FROM t WHERE a = 1 AND b = 2 OR c = 3", d)
	require.NoError(t, err)

	sel := stmt.(*ast.SelectStmt)
	or, ok := sel.Where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "OR", or.Op)

	and, ok := or.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "AND", and.Op)
}

func TestParseUseStatement(t *testing.T) {
	d := mysql.New()
	stmt, _, err := parser.Parse("USE zero", d)
	require.NoError(t, err)
	use := stmt.(*ast.UseStmt)
	assert.Equal(t, "zero", use.Schema)
}
