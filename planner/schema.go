// Package planner builds a logical relational tree from the AST, typing
// every projected column with its encryption metadata so the physical
// planner can decide what needs encrypting, decrypting, or rejecting.
package planner

import (
	"strings"

	"github.com/agildata/zeroproxy/encrypt"
)

// ColumnMeta describes one column's native type and, if configured, the
// encryption scheme and key protecting it.
type ColumnMeta struct {
	Name       string
	NativeType encrypt.NativeType
	Encryption encrypt.EncryptionType
	Key        encrypt.Key
}

// TableMeta describes a table's column set as resolved from its
// CREATE TABLE definition plus the configured encryption map.
type TableMeta struct {
	Schema  string
	Table   string
	Columns []ColumnMeta
}

// Column looks up a column by case-insensitive name.
func (t *TableMeta) Column(name string) (ColumnMeta, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColumnMeta{}, false
}

// SchemaProvider resolves table metadata by schema and table name. A nil
// *TableMeta with a nil error means "not found" (the planner should
// raise a table-not-found error, not treat it as trapped plumbing).
type SchemaProvider interface {
	GetTableMeta(schema, table string) (*TableMeta, error)
}

// StaticProvider is an in-memory SchemaProvider, primarily useful for
// tests that need deterministic table metadata without a live upstream
// connection.
type StaticProvider struct {
	tables map[string]*TableMeta
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{tables: map[string]*TableMeta{}}
}

func (p *StaticProvider) Add(meta *TableMeta) {
	key := strings.ToLower(meta.Schema) + "." + strings.ToLower(meta.Table)
	p.tables[key] = meta
}

func (p *StaticProvider) GetTableMeta(schema, table string) (*TableMeta, error) {
	key := strings.ToLower(schema) + "." + strings.ToLower(table)
	meta, ok := p.tables[key]
	if !ok {
		return nil, nil
	}
	return meta, nil
}
