// Package schema implements planner.SchemaProvider against a live
// upstream MySQL connection: it discovers a table's columns via
// SHOW CREATE TABLE, then overlays the configured encryption map onto
// whichever columns the configuration names.
package schema

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/conf"
	"github.com/agildata/zeroproxy/dialect/mysql"
	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/parser"
	"github.com/agildata/zeroproxy/planner"
	"github.com/agildata/zeroproxy/zerror"
)

// Provider resolves table metadata from the upstream connection named in
// cfg.Connection, caching results by lowercased "schema.table". The
// cache mutex is held across the round-trip to the upstream server: two
// goroutines racing to resolve the same never-seen table serialize on
// the query rather than both issuing it, trading a little latency for
// never double-querying upstream.
type Provider struct {
	db  *sql.DB
	cfg *conf.Cfg

	mu    sync.Mutex
	cache map[string]*planner.TableMeta
}

// New opens (lazily; database/sql defers the actual dial) a connection
// pool to the configured upstream and returns a Provider backed by it.
func New(cfg *conf.Cfg) (*Provider, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		cfg.Connection.User, cfg.Connection.Password,
		cfg.Connection.Host, cfg.Connection.Port, cfg.Connection.DB)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, zerror.NewSchemaError("2002", "cannot open upstream connection: %v", err)
	}
	return &Provider{db: db, cfg: cfg, cache: map[string]*planner.TableMeta{}}, nil
}

// Close releases the upstream connection pool.
func (p *Provider) Close() error {
	return p.db.Close()
}

// GetTableMeta implements planner.SchemaProvider.
func (p *Provider) GetTableMeta(schema, table string) (*planner.TableMeta, error) {
	key := strings.ToLower(schema) + "." + strings.ToLower(table)

	p.mu.Lock()
	defer p.mu.Unlock()

	if meta, ok := p.cache[key]; ok {
		return meta, nil
	}

	meta, err := p.loadTableMeta(schema, table)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}
	p.cache[key] = meta
	return meta, nil
}

// Invalidate drops a table's cached metadata, e.g. after a DDL
// statement for it has been forwarded.
func (p *Provider) Invalidate(schema, table string) {
	key := strings.ToLower(schema) + "." + strings.ToLower(table)
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, key)
}

func (p *Provider) loadTableMeta(schema, table string) (*planner.TableMeta, error) {
	var exists string
	row := p.db.QueryRow(fmt.Sprintf("SHOW TABLES IN `%s` LIKE '%s'", escapeIdent(schema), escapeLike(table)))
	if err := row.Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, zerror.NewSchemaError("1146", "error checking table %s.%s: %v", schema, table, err)
	}

	var tableName, ddl string
	row = p.db.QueryRow(fmt.Sprintf("SHOW CREATE TABLE `%s`.`%s`", escapeIdent(schema), escapeIdent(table)))
	if err := row.Scan(&tableName, &ddl); err != nil {
		return nil, zerror.NewSchemaError("1146", "error describing table %s.%s: %v", schema, table, err)
	}

	d := mysql.New()
	stmt, _, err := parser.Parse(ddl, d)
	if err != nil {
		return nil, zerror.NewSchemaError("1064", "cannot parse upstream DDL for %s.%s: %v", schema, table, err)
	}
	ct, ok := stmt.(*ast.CreateTableStmt)
	if !ok {
		return nil, zerror.NewSchemaError("1064", "expected CREATE TABLE DDL for %s.%s", schema, table)
	}

	return p.buildTableMeta(schema, table, ct)
}

func (p *Provider) buildTableMeta(schema, table string, ct *ast.CreateTableStmt) (*planner.TableMeta, error) {
	colConfig := map[string]conf.ColumnConfig{}
	if sc, ok := p.cfg.Schemas[strings.ToLower(schema)]; ok {
		for _, tc := range sc.Tables {
			if strings.EqualFold(tc.Name, table) {
				for _, cc := range tc.Columns {
					colConfig[strings.ToLower(cc.Name)] = cc
				}
			}
		}
	}

	meta := &planner.TableMeta{Schema: schema, Table: table}
	for _, col := range ct.Columns {
		cm := planner.ColumnMeta{Name: col.Name, NativeType: nativeTypeFromDDL(col.DataType)}

		if cc, ok := colConfig[strings.ToLower(col.Name)]; ok && cc.Encryption != "" {
			scheme, err := encrypt.ParseEncryptionType(cc.Encryption)
			if err != nil {
				return nil, zerror.NewSchemaError("1105", "column %s.%s.%s: %v", schema, table, col.Name, err)
			}
			cm.Encryption = scheme
			if scheme != encrypt.NA {
				key, err := encrypt.ParseKey(cc.Key)
				if err != nil {
					return nil, zerror.NewSchemaError("1105", "column %s.%s.%s: %v", schema, table, col.Name, err)
				}
				cm.Key = key
			}
			if cc.NativeType != "" {
				if nt, err := encrypt.ParseNativeType(cc.NativeType); err == nil {
					cm.NativeType = nt
				}
			}
		}

		meta.Columns = append(meta.Columns, cm)
	}

	return meta, nil
}

func nativeTypeFromDDL(dt ast.DataType) encrypt.NativeType {
	switch dt.Kind {
	case ast.TypeBigInt:
		if dt.Unsigned {
			return encrypt.TU64
		}
		return encrypt.TI64
	case ast.TypeTinyInt, ast.TypeSmallInt, ast.TypeMediumInt, ast.TypeInt:
		return encrypt.TI64
	case ast.TypeFloat, ast.TypeDouble:
		return encrypt.TF64
	case ast.TypeDecimal:
		return encrypt.TD128
	case ast.TypeBool:
		return encrypt.TBool
	case ast.TypeDateTime:
		return encrypt.TDateTime
	case ast.TypeTimestamp:
		return encrypt.TTimestamp
	case ast.TypeDate:
		return encrypt.TDate
	case ast.TypeTime:
		return encrypt.TTime
	case ast.TypeYear:
		return encrypt.TYear
	case ast.TypeChar:
		return encrypt.TChar
	case ast.TypeVarchar:
		return encrypt.TVarchar
	case ast.TypeBinary:
		return encrypt.TFixedBinary
	case ast.TypeVarBinary:
		return encrypt.TVarBinary
	case ast.TypeLongBlob, ast.TypeBlob, ast.TypeTinyBlob, ast.TypeMediumBlob:
		return encrypt.TLongBlob
	case ast.TypeLongText, ast.TypeText, ast.TypeTinyText, ast.TypeMediumText:
		return encrypt.TLongText
	default:
		return encrypt.TVarchar
	}
}

func escapeIdent(s string) string {
	return strings.ReplaceAll(s, "`", "``")
}

func escapeLike(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
