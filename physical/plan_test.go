package physical_test

import (
	"testing"

	"github.com/agildata/zeroproxy/dialect/mysql"
	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/parser"
	"github.com/agildata/zeroproxy/physical"
	"github.com/agildata/zeroproxy/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = mustKey("6162636465666768696a6b6c6d6e6f707172737475767778797a303132333435")

func mustKey(hexKey string) encrypt.Key {
	k, err := encrypt.ParseKey(hexKey)
	if err != nil {
		panic(err)
	}
	return k
}

func testProvider() *planner.StaticProvider {
	p := planner.NewStaticProvider()
	p.Add(&planner.TableMeta{
		Schema: "zero",
		Table:  "users",
		Columns: []planner.ColumnMeta{
			{Name: "id", NativeType: encrypt.TI64},
			{Name: "first_name", NativeType: encrypt.TVarchar},
			{Name: "ssn", NativeType: encrypt.TVarchar, Encryption: encrypt.AES, Key: testKey},
			{Name: "credit_card", NativeType: encrypt.TVarchar, Encryption: encrypt.AESGCM, Key: testKey},
		},
	})
	p.Add(&planner.TableMeta{
		Schema: "zero",
		Table:  "user_purchases",
		Columns: []planner.ColumnMeta{
			{Name: "id", NativeType: encrypt.TI64},
			{Name: "user_id", NativeType: encrypt.TI64},
			{Name: "item", NativeType: encrypt.TVarchar},
		},
	})
	return p
}

func plan(t *testing.T, sql string) (*physical.Plan, error) {
	t.Helper()
	d := mysql.New()
	stmt, reg, err := parser.Parse(sql, d)
	require.NoError(t, err)

	lp := planner.NewLogicalPlanner(testProvider(), "zero")
	rel, err := lp.Plan(stmt)
	require.NoError(t, err)

	pp := physical.NewPlanner(reg)
	return pp.Plan(rel)
}

func TestPlanUnencryptedEquality(t *testing.T) {
	p, err := plan(t, "SELECT id FROM users WHERE first_name = 'bob'")
	require.NoError(t, err)
	assert.Empty(t, p.Literals)
}

func TestPlanAESEqualityEncryptsLiteral(t *testing.T) {
	p, err := plan(t, "SELECT id FROM users WHERE ssn = '123-45-6789'")
	require.NoError(t, err)
	require.Len(t, p.Literals, 1)
	for _, entry := range p.Literals {
		assert.Equal(t, encrypt.AES, entry.Encryption)
	}
}

func TestPlanAESGCMEqualityRejected(t *testing.T) {
	_, err := plan(t, "SELECT id FROM users WHERE credit_card = '4111111111111111'")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AES_GCM")
}

func TestPlanMixedEncryptedUnencryptedRejected(t *testing.T) {
	_, err := plan(t, "SELECT id FROM users WHERE ssn = first_name")
	require.Error(t, err)
}

func TestPlanInsertEncryptsConfiguredColumn(t *testing.T) {
	p, err := plan(t, "INSERT INTO users (id, first_name, ssn) VALUES (1, 'bob', '123-45-6789')")
	require.NoError(t, err)
	require.Len(t, p.Literals, 1)
}

func TestPlanNonEqualityOnEncryptedColumnRejected(t *testing.T) {
	_, err := plan(t, "SELECT id FROM users WHERE ssn > '000-00-0000'")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported operation on encrypted column")
}

func TestPlanSelectResultColumnsCarryEncryption(t *testing.T) {
	p, err := plan(t, "SELECT ssn FROM users")
	require.NoError(t, err)
	require.Len(t, p.ResultColumns, 1)
	assert.Equal(t, encrypt.AES, p.ResultColumns[0].Encryption)
}
