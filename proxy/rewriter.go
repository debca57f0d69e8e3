// Package proxy assembles the tokenizer, parser, planners, statement
// cache, schema provider and SQL writer into the wire.QueryRewriter the
// connection handler consults for every ComQuery/ComStmtPrepare.
package proxy

import (
	"strings"

	"github.com/agildata/zeroproxy/cache"
	"github.com/agildata/zeroproxy/conf"
	"github.com/agildata/zeroproxy/dialect/mysql"
	"github.com/agildata/zeroproxy/parser"
	"github.com/agildata/zeroproxy/physical"
	"github.com/agildata/zeroproxy/planner"
	"github.com/agildata/zeroproxy/token"
	"github.com/agildata/zeroproxy/wire"
	"github.com/agildata/zeroproxy/writer"
	"github.com/agildata/zeroproxy/zerror"
)

// Rewriter implements wire.QueryRewriter against a live schema provider
// and statement cache.
type Rewriter struct {
	Cfg     *conf.Cfg
	Schema  planner.SchemaProvider
	Cache   *cache.StatementCache
	Dialect mysql.Dialect
}

// NewRewriter builds a Rewriter over an already-open schema provider
// and statement cache.
func NewRewriter(cfg *conf.Cfg, sp planner.SchemaProvider, sc *cache.StatementCache) *Rewriter {
	return &Rewriter{Cfg: cfg, Schema: sp, Cache: sc, Dialect: mysql.New()}
}

// Rewrite implements wire.QueryRewriter. It tokenizes sql to compute
// the statement cache key (shape), consults the cache for an already
// computed plan, and always parses+renders sql fresh since the cached
// plan's literal/param entries are indexed by position, not value, and
// apply equally to any statement sharing the same shape. Tokenizing and
// parsing both run on every call — the cache only saves re-planning,
// not re-tokenizing — which is a deliberate simplification over
// threading a shared token stream through both stages.
func (r *Rewriter) Rewrite(schemaName, sql string) (wire.RewriteResult, error) {
	effectiveSchema := schemaName
	if effectiveSchema == "" {
		effectiveSchema = r.Cfg.Connection.DB
	}

	tokens, _, tokErr := token.Tokenize(sql, r.Dialect)
	if tokErr != nil {
		return r.handleUnparseable(sql, tokErr)
	}
	shape := token.Shape(tokens)

	stmt, reg, err := parser.Parse(sql, r.Dialect)
	if err != nil {
		return r.handleUnparseable(sql, err)
	}

	plan, ok := r.Cache.Get(shape)
	if !ok {
		lp := planner.NewLogicalPlanner(r.Schema, effectiveSchema)
		rel, planErr := lp.Plan(stmt)
		if planErr != nil {
			return wire.RewriteResult{}, planErr
		}
		pp := physical.NewPlanner(reg)
		plan, planErr = pp.Plan(rel)
		if planErr != nil {
			return wire.RewriteResult{}, planErr
		}
		r.Cache.Put(shape, plan)
	}

	rendered, err := writer.Render(stmt, reg, plan)
	if err != nil {
		return wire.RewriteResult{}, err
	}

	return wire.RewriteResult{SQL: rendered, Columns: resultColumns(plan)}, nil
}

func resultColumns(plan *physical.Plan) []wire.ColumnDecrypt {
	if plan == nil || len(plan.ResultColumns) == 0 {
		return nil
	}
	out := make([]wire.ColumnDecrypt, len(plan.ResultColumns))
	for i, c := range plan.ResultColumns {
		out[i] = wire.ColumnDecrypt{Encryption: c.Encryption, NativeType: c.NativeType, Key: c.Key}
	}
	return out
}

// handleUnparseable implements the strict/permissive parsing-mode
// contract: permissive always forwards; strict forwards only the
// whitelisted statement kinds and otherwise surfaces cause as a parse
// error to the client.
func (r *Rewriter) handleUnparseable(sql string, cause error) (wire.RewriteResult, error) {
	if r.Cfg.Parsing.Permissive() {
		return wire.RewriteResult{SQL: sql}, nil
	}

	word := firstWord(sql)
	for _, kw := range conf.ForwardableUnparsed {
		if strings.EqualFold(word, kw) {
			return wire.RewriteResult{SQL: sql}, nil
		}
	}

	if ze, ok := zerror.As(cause); ok {
		return wire.RewriteResult{}, ze
	}
	return wire.RewriteResult{}, zerror.NewParseError("1064", "cannot parse statement: %v", cause)
}

func firstWord(sql string) string {
	trimmed := strings.TrimSpace(sql)
	end := strings.IndexAny(trimmed, " \t\n(;")
	if end == -1 {
		return trimmed
	}
	return trimmed[:end]
}
