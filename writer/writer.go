// Package writer renders an AST back into SQL text, rewriting literal
// values that the physical plan marked for encryption into hex-encoded
// byte-string literals along the way.
package writer

import (
	"strconv"
	"strings"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/physical"
	"github.com/agildata/zeroproxy/token"
	"github.com/agildata/zeroproxy/zerror"
)

// Context is threaded through every Variant's Write call: the literal
// registry (for rendering literal bodies), the resolved encryption plan
// (for rewriting literals that must be encrypted), and the Emit callback
// a Variant uses to recurse into child nodes through the whole chain
// rather than calling itself directly.
type Context struct {
	Registry *token.Registry
	Plan     *physical.Plan
	Emit     func(sb *strings.Builder, node ast.Node) error
}

// Variant is tried, in chain order, against each AST node; the first
// variant to claim a node (handled == true) renders it.
type Variant interface {
	Write(sb *strings.Builder, node ast.Node, ctx *Context) (handled bool, err error)
}

// Chain is an ordered list of Variants tried until one claims the node.
type Chain []Variant

// Default returns the standard four-variant chain plus the diagnostic
// fallback: literal-encrypting, CREATE TABLE translation, MySQL dialect,
// ANSI dialect, then a final variant that reports an internal error for
// any node none of the above recognized, instead of panicking.
func Default() Chain {
	return Chain{
		&literalEncryptingWriter{},
		&createTableWriter{},
		&mysqlWriter{},
		&ansiWriter{},
		&fallbackWriter{},
	}
}

// Render renders stmt to SQL text using the default writer chain, a
// literal registry, and an (optionally nil) encryption plan.
func Render(stmt ast.Stmt, reg *token.Registry, plan *physical.Plan) (string, error) {
	chain := Default()
	ctx := &Context{Registry: reg, Plan: plan}
	ctx.Emit = func(sb *strings.Builder, node ast.Node) error {
		for _, v := range chain {
			handled, err := v.Write(sb, node, ctx)
			if err != nil {
				return err
			}
			if handled {
				return nil
			}
		}
		return zerror.NewParseError("1064", "internal error: unclaimed AST node %T", node)
	}

	var sb strings.Builder
	if err := ctx.Emit(&sb, stmt); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// fallbackWriter is the lowest-priority variant: rather than letting an
// unrecognized node panic the renderer, it reports a legible internal
// error the session can surface as an ERR packet.
type fallbackWriter struct{}

func (*fallbackWriter) Write(sb *strings.Builder, node ast.Node, ctx *Context) (bool, error) {
	return true, zerror.NewParseError("1064", "internal error: unclaimed AST node %T", node)
}

// toHexString renders buf as a MySQL hex-string-literal body, e.g.
// X'deadbeef'.
func toHexString(buf []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(buf)*2)
	for i, b := range buf {
		out[i*2] = hextable[b>>4]
		out[i*2+1] = hextable[b&0x0F]
	}
	return string(out)
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "''")
	return "'" + s + "'"
}

func formatFloat(s string) string {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s
	}
	return s
}
