package writer

import (
	"strconv"
	"strings"
	"time"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/zerror"
	"github.com/shopspring/decimal"
)

// literalEncryptingWriter is the highest-priority variant: it claims
// every *ast.Literal and *ast.BoundParam node, rewriting those the
// physical plan marked for encryption into X'hex' byte-string literals
// and leaving everything else to render as a plain literal.
type literalEncryptingWriter struct{}

func (w *literalEncryptingWriter) Write(sb *strings.Builder, node ast.Node, ctx *Context) (bool, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return true, w.writeLiteral(sb, n, ctx)
	case *ast.BoundParam:
		return true, w.writeBoundParam(sb, n, ctx)
	default:
		return false, nil
	}
}

func (w *literalEncryptingWriter) writeLiteral(sb *strings.Builder, lit *ast.Literal, ctx *Context) error {
	if ctx.Plan != nil {
		if entry, ok := ctx.Plan.Literals[lit.Index]; ok {
			return optionallyEncryptLiteral(sb, lit.Kind, ctx.Registry.Get(lit.Index), entry.Encryption, entry.NativeType, entry.Key)
		}
	}
	return w.writePlain(sb, lit.Kind, ctx.Registry.Get(lit.Index))
}

func (w *literalEncryptingWriter) writeBoundParam(sb *strings.Builder, bp *ast.BoundParam, ctx *Context) error {
	if bp.Name != "" {
		sb.WriteString(":")
		sb.WriteString(bp.Name)
		return nil
	}
	sb.WriteString("?")
	return nil
}

func (w *literalEncryptingWriter) writePlain(sb *strings.Builder, kind ast.LiteralKind, body string) error {
	switch kind {
	case ast.LitString:
		sb.WriteString(quoteString(body))
	case ast.LitLong:
		sb.WriteString(body)
	case ast.LitDouble:
		sb.WriteString(formatFloat(body))
	case ast.LitBool:
		sb.WriteString(body)
	case ast.LitNull:
		sb.WriteString("NULL")
	}
	return nil
}

// optionallyEncryptLiteral encodes body per nativeType and seals it
// under scheme/key, emitting X'hex'; it is the concrete implementation
// invoked from writeLiteral once the plan entry's fields are known.
func optionallyEncryptLiteral(sb *strings.Builder, kind ast.LiteralKind, body string, scheme encrypt.EncryptionType, nativeType encrypt.NativeType, key encrypt.Key) error {
	value, err := literalValue(kind, body, nativeType)
	if err != nil {
		return err
	}
	plaintext, err := encrypt.Encode(nativeType, value)
	if err != nil {
		return zerror.NewEncryptionError("1064", "cannot encode literal for encryption: %v", err)
	}
	ciphertext, err := encrypt.Encrypt(scheme, key, plaintext)
	if err != nil {
		return err
	}
	sb.WriteString("X'")
	sb.WriteString(toHexString(ciphertext))
	sb.WriteString("'")
	return nil
}

func literalValue(kind ast.LiteralKind, body string, nativeType encrypt.NativeType) (interface{}, error) {
	switch nativeType {
	case encrypt.TBool:
		return strings.EqualFold(body, "TRUE"), nil
	case encrypt.TU64:
		v, err := strconv.ParseUint(body, 10, 64)
		return v, err
	case encrypt.TI64, encrypt.TYear:
		v, err := strconv.ParseInt(body, 10, 64)
		return v, err
	case encrypt.TF64:
		v, err := strconv.ParseFloat(body, 64)
		return v, err
	case encrypt.TD128:
		d, err := decimal.NewFromString(body)
		return d, err
	case encrypt.TDateTime, encrypt.TTimestamp:
		t, err := time.Parse("2006-01-02 15:04:05", body)
		return t, err
	case encrypt.TDate:
		t, err := time.Parse("2006-01-02", body)
		return t, err
	default:
		return body, nil
	}
}
