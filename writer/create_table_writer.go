package writer

import (
	"fmt"
	"strings"

	"github.com/agildata/zeroproxy/ast"
)

// createTableWriter renders a CREATE TABLE statement's MySQL-flavored
// grammar: column types, key definitions, and table options. It runs
// before the generic dialect writers so CREATE TABLE (which ANSI SQL
// does not define a grammar for) is fully handled here.
type createTableWriter struct{}

func (w *createTableWriter) Write(sb *strings.Builder, node ast.Node, ctx *Context) (bool, error) {
	ct, ok := node.(*ast.CreateTableStmt)
	if !ok {
		return false, nil
	}

	sb.WriteString("CREATE TABLE ")
	if err := ctx.Emit(sb, ct.Table); err != nil {
		return true, err
	}
	sb.WriteString(" (")

	first := true
	for _, col := range ct.Columns {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		w.writeColumnDef(sb, col)
	}
	for _, key := range ct.Keys {
		sb.WriteString(", ")
		w.writeKeyDef(sb, key)
	}
	sb.WriteString(")")

	for _, opt := range []string{"ENGINE", "DEFAULT_CHARACTER SET", "DEFAULT_CHARSET", "COLLATE", "AUTO_INCREMENT", "COMMENT"} {
		if v, ok := ct.TableOptions[opt]; ok {
			sb.WriteString(fmt.Sprintf(" %s=%s", strings.TrimPrefix(opt, "DEFAULT_"), v))
		}
	}

	return true, nil
}

func (w *createTableWriter) writeColumnDef(sb *strings.Builder, col ast.ColumnDef) {
	sb.WriteString(quoteIdent(col.Name))
	sb.WriteString(" ")
	sb.WriteString(renderDataType(col.DataType))
	if col.Unique {
		sb.WriteString(" UNIQUE")
	}
	if col.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if col.AutoIncr {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if col.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if col.Comment != "" {
		sb.WriteString(fmt.Sprintf(" COMMENT '%s'", col.Comment))
	}
}

func (w *createTableWriter) writeKeyDef(sb *strings.Builder, key ast.KeyDef) {
	switch key.Kind {
	case "PRIMARY":
		sb.WriteString("PRIMARY KEY ")
	case "UNIQUE":
		sb.WriteString("UNIQUE KEY ")
		if key.Name != "" {
			sb.WriteString(quoteIdent(key.Name))
			sb.WriteString(" ")
		}
	case "FOREIGN":
		sb.WriteString("FOREIGN KEY ")
	default:
		sb.WriteString("KEY ")
		if key.Name != "" {
			sb.WriteString(quoteIdent(key.Name))
			sb.WriteString(" ")
		}
	}
	sb.WriteString("(")
	for i, c := range key.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteIdent(c))
	}
	sb.WriteString(")")
}

// renderDataType translates a parsed DataType back into MySQL column
// DDL. Encrypted columns keep their declared native type here: the
// ciphertext's on-wire length is a wire/schema-layer concern, not a
// concern of the rendered DDL text.
func renderDataType(dt ast.DataType) string {
	name := dataTypeName(dt.Kind)
	switch dt.Kind {
	case ast.TypeDecimal:
		if dt.Precision > 0 {
			return fmt.Sprintf("%s(%d,%d)", name, dt.Precision, dt.Scale)
		}
	case ast.TypeDateTime, ast.TypeTimestamp, ast.TypeTime:
		if dt.FSP > 0 {
			return fmt.Sprintf("%s(%d)", name, dt.FSP)
		}
	case ast.TypeEnum, ast.TypeSet:
		quoted := make([]string, len(dt.Values))
		for i, v := range dt.Values {
			quoted[i] = quoteString(v)
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(quoted, ", "))
	default:
		if dt.Length > 0 {
			return fmt.Sprintf("%s(%d)", name, dt.Length)
		}
	}
	if dt.Unsigned {
		return name + " UNSIGNED"
	}
	return name
}

func dataTypeName(kind ast.DataTypeKind) string {
	switch kind {
	case ast.TypeBit:
		return "BIT"
	case ast.TypeTinyInt:
		return "TINYINT"
	case ast.TypeSmallInt:
		return "SMALLINT"
	case ast.TypeMediumInt:
		return "MEDIUMINT"
	case ast.TypeInt:
		return "INT"
	case ast.TypeBigInt:
		return "BIGINT"
	case ast.TypeDecimal:
		return "DECIMAL"
	case ast.TypeFloat:
		return "FLOAT"
	case ast.TypeDouble:
		return "DOUBLE"
	case ast.TypeBool:
		return "BOOL"
	case ast.TypeDate:
		return "DATE"
	case ast.TypeDateTime:
		return "DATETIME"
	case ast.TypeTimestamp:
		return "TIMESTAMP"
	case ast.TypeTime:
		return "TIME"
	case ast.TypeYear:
		return "YEAR"
	case ast.TypeChar:
		return "CHAR"
	case ast.TypeVarchar:
		return "VARCHAR"
	case ast.TypeBinary:
		return "BINARY"
	case ast.TypeVarBinary:
		return "VARBINARY"
	case ast.TypeTinyBlob:
		return "TINYBLOB"
	case ast.TypeTinyText:
		return "TINYTEXT"
	case ast.TypeMediumBlob:
		return "MEDIUMBLOB"
	case ast.TypeMediumText:
		return "MEDIUMTEXT"
	case ast.TypeLongBlob:
		return "LONGBLOB"
	case ast.TypeLongText:
		return "LONGTEXT"
	case ast.TypeBlob:
		return "BLOB"
	case ast.TypeText:
		return "TEXT"
	case ast.TypeEnum:
		return "ENUM"
	case ast.TypeSet:
		return "SET"
	default:
		return "VARCHAR"
	}
}
