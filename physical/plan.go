package physical

import (
	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/planner"
	"github.com/agildata/zeroproxy/token"
	"github.com/agildata/zeroproxy/zerror"
)

// PlanEntry is one literal's or bound parameter's resolved encryption
// requirement: encrypt the plaintext bytes under Encryption/Key before
// the statement is forwarded upstream.
type PlanEntry struct {
	Encryption encrypt.EncryptionType
	NativeType encrypt.NativeType
	Key        encrypt.Key
}

// ResultColumn describes how to treat one projected output column of a
// SELECT when its row comes back from upstream: Encryption != NA means
// the wire handler must decrypt that column's bytes before relaying them
// to the client.
type ResultColumn struct {
	Name       string
	Encryption encrypt.EncryptionType
	NativeType encrypt.NativeType
	Key        encrypt.Key
}

// Plan is the fully resolved per-statement encryption plan: which
// literals and bound parameters must be encrypted before the rewritten
// statement is sent upstream, and which result columns must be
// decrypted when rows come back.
type Plan struct {
	Literals      map[int]PlanEntry
	Params        map[int]PlanEntry
	ResultColumns []ResultColumn
}

func newPlan() *Plan {
	return &Plan{Literals: map[int]PlanEntry{}, Params: map[int]PlanEntry{}}
}

func (p *Plan) assign(scheme EncScheme, exprText string) error {
	if scheme.Kind != Encrypted {
		return nil
	}
	entry := PlanEntry{Encryption: scheme.Encryption, NativeType: scheme.NativeType, Key: scheme.Key}
	for _, ref := range scheme.Potentials {
		if ref.IsParam {
			if existing, ok := p.Params[ref.Index]; ok && existing != entry {
				return zerror.NewEncryptionError("1064",
					"Unsupported operation between columns of differing encryption and type, expr: %s", exprText)
			}
			p.Params[ref.Index] = entry
		} else {
			if existing, ok := p.Literals[ref.Index]; ok && existing != entry {
				return zerror.NewEncryptionError("1064",
					"Unsupported operation between columns of differing encryption and type, expr: %s", exprText)
			}
			p.Literals[ref.Index] = entry
		}
	}
	return nil
}

// Planner builds a Plan from a logical Rel tree.
type Planner struct {
	Registry *token.Registry
}

func NewPlanner(reg *token.Registry) *Planner {
	return &Planner{Registry: reg}
}

// Plan walks rel end to end, producing the statement's EncryptionPlan.
func (pl *Planner) Plan(rel planner.Rel) (*Plan, error) {
	plan := newPlan()

	switch r := rel.(type) {
	case *planner.Projection:
		if err := pl.planProjection(r, plan); err != nil {
			return nil, err
		}
	case *planner.Selection:
		if err := pl.planPredicate(r.Expr, plan); err != nil {
			return nil, err
		}
		return pl.Plan(r.Input)
	case *planner.InsertRel:
		if err := pl.planInsert(r, plan); err != nil {
			return nil, err
		}
	case *planner.UpdateRel:
		if err := pl.planUpdate(r, plan); err != nil {
			return nil, err
		}
	case *planner.DeleteRel:
		if r.Where != nil {
			if err := pl.planPredicate(r.Where, plan); err != nil {
				return nil, err
			}
		}
	case *planner.CreateTableRel:
		// No literals/params/result columns; the writer consults the
		// statement's own column definitions directly.
	case planner.Dual:
	default:
		return nil, zerror.NewEncryptionError("1064", "cannot build encryption plan for relation %T", rel)
	}

	return plan, nil
}

func (pl *Planner) planProjection(proj *planner.Projection, plan *Plan) error {
	if sel, ok := proj.Input.(*planner.Selection); ok {
		if err := pl.planPredicate(sel.Expr, plan); err != nil {
			return err
		}
	}

	for i, expr := range proj.Exprs {
		name := ""
		if i < len(proj.Aliases) {
			name = proj.Aliases[i]
		}
		rc := ResultColumn{Name: name}
		if ident, ok := expr.(*planner.RexIdentifier); ok && ident.Resolved {
			rc.Encryption = ident.Meta.Encryption
			rc.NativeType = ident.Meta.NativeType
			rc.Key = ident.Meta.Key
		}
		plan.ResultColumns = append(plan.ResultColumns, rc)
	}
	return nil
}

func (pl *Planner) planPredicate(expr planner.Rex, plan *Plan) error {
	if b, ok := expr.(*planner.RexBinary); ok && (b.Op == "AND" || b.Op == "OR") {
		if err := pl.planPredicate(b.Left, plan); err != nil {
			return err
		}
		return pl.planPredicate(b.Right, plan)
	}
	if n, ok := expr.(*planner.RexNested); ok {
		return pl.planPredicate(n.Inner, plan)
	}
	text := render(expr, pl.Registry)
	scheme, err := getEncryptionScheme(expr, text)
	if err != nil {
		return err
	}
	return plan.assign(scheme, text)
}

func (pl *Planner) planInsert(ins *planner.InsertRel, plan *Plan) error {
	cols := ins.Table.Meta.Columns
	for _, row := range ins.Values {
		for i, value := range row {
			var meta planner.ColumnMeta
			if len(ins.Columns) > 0 && i < len(ins.Columns) {
				meta, _ = ins.Table.Meta.Column(ins.Columns[i])
			} else if i < len(cols) {
				meta = cols[i]
			}
			if err := pl.assignDirect(value, meta, plan); err != nil {
				return err
			}
		}
	}
	return nil
}

func (pl *Planner) planUpdate(upd *planner.UpdateRel, plan *Plan) error {
	for _, a := range upd.Assignments {
		if err := pl.assignDirect(a.Value, a.Meta, plan); err != nil {
			return err
		}
	}
	if upd.Where != nil {
		if err := pl.planPredicate(upd.Where, plan); err != nil {
			return err
		}
	}
	return nil
}

// assignDirect handles the INSERT/UPDATE case where a literal or
// parameter is assigned straight into a known column, with no operator
// combination to resolve: if the column is encrypted, the value must be
// too, unconditionally (AES_GCM is fine here since no equality is
// implied by a plain assignment).
func (pl *Planner) assignDirect(value planner.Rex, meta planner.ColumnMeta, plan *Plan) error {
	text := render(value, pl.Registry)
	scheme, err := getEncryptionScheme(value, text)
	if err != nil {
		return err
	}

	if meta.Encryption == encrypt.NA {
		if scheme.Kind == Encrypted {
			return zerror.NewEncryptionError("1064",
				"Unsupported operation between encrypted and unencrypted columns: %s", text)
		}
		return nil
	}

	switch scheme.Kind {
	case Potential:
		resolved := EncScheme{Kind: Encrypted, Encryption: meta.Encryption, NativeType: meta.NativeType, Key: meta.Key, Potentials: scheme.Potentials}
		return plan.assign(resolved, text)
	case Unencrypted, Inconsequential, UnencryptedOperation:
		return zerror.NewEncryptionError("1064",
			"Unsupported operation between encrypted and unencrypted columns: %s", text)
	case Encrypted:
		if !sameEncryption(scheme, EncScheme{Encryption: meta.Encryption, NativeType: meta.NativeType, Key: meta.Key}) {
			return zerror.NewEncryptionError("1064",
				"Unsupported operation between columns of differing encryption and type, expr: %s", text)
		}
		return nil
	default:
		return nil
	}
}
