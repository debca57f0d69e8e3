package writer_test

import (
	"testing"

	"github.com/agildata/zeroproxy/dialect/mysql"
	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/parser"
	"github.com/agildata/zeroproxy/physical"
	"github.com/agildata/zeroproxy/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlainSelectRoundTrips(t *testing.T) {
	d := mysql.New()
	stmt, reg, err := parser.Parse("SELECT id, name FROM users WHERE id = 1", d)
	require.NoError(t, err)

	out, err := writer.Render(stmt, reg, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "WHERE")
	assert.Contains(t, out, "1")
}

func TestRenderEncryptsLiteralAsHexString(t *testing.T) {
	d := mysql.New()
	stmt, reg, err := parser.Parse("SELECT id FROM users WHERE ssn = '123-45-6789'", d)
	require.NoError(t, err)

	key, err := encrypt.ParseKey("6162636465666768696a6b6c6d6e6f707172737475767778797a303132333435")
	require.NoError(t, err)

	plan := &physical.Plan{Literals: map[int]physical.PlanEntry{
		0: {Encryption: encrypt.AES, NativeType: encrypt.TVarchar, Key: key},
	}}

	out, err := writer.Render(stmt, reg, plan)
	require.NoError(t, err)
	assert.Contains(t, out, "X'")
	assert.NotContains(t, out, "123-45-6789")
}

func TestRenderCreateTable(t *testing.T) {
	d := mysql.New()
	stmt, reg, err := parser.Parse(
		"CREATE TABLE users (id BIGINT PRIMARY KEY, ssn VARCHAR(20) NOT NULL) ENGINE=InnoDB", d)
	require.NoError(t, err)

	out, err := writer.Render(stmt, reg, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")
	assert.Contains(t, out, "BIGINT")
	assert.Contains(t, out, "PRIMARY KEY")
	assert.Contains(t, out, "ENGINE=InnoDB")
}

func TestRenderUseStatement(t *testing.T) {
	d := mysql.New()
	stmt, reg, err := parser.Parse("USE zero", d)
	require.NoError(t, err)

	out, err := writer.Render(stmt, reg, nil)
	require.NoError(t, err)
	assert.Equal(t, "USE `zero`", out)
}
