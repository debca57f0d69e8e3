// Package physical builds the EncryptionPlan for a statement: for every
// literal and bound parameter, whether (and how) it must be encrypted
// before being sent upstream, derived by propagating each column's
// configured encryption scheme through the expression tree.
package physical

import (
	"fmt"

	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/planner"
	"github.com/agildata/zeroproxy/zerror"
)

// SchemeKind classifies how a Rex subtree relates to column encryption.
type SchemeKind int

const (
	// Unencrypted is a plaintext column or an expression resolved to
	// depend only on plaintext columns.
	Unencrypted SchemeKind = iota
	// Encrypted is a column (or an expression forced to match one)
	// protected under a specific scheme/type/key.
	Encrypted
	// Potential is a literal or bound parameter whose ultimate
	// encryption requirement is not yet known; it resolves once
	// combined with a column.
	Potential
	// Inconsequential is an expression with no bearing on any column's
	// encryption (e.g. literal compared to literal).
	Inconsequential
	// UnencryptedOperation marks an operation that is never subject to
	// encryption regardless of its operands (e.g. a function call whose
	// result is always treated as plaintext).
	UnencryptedOperation
)

// PotentialRef addresses one literal or bound parameter pending scheme
// resolution.
type PotentialRef struct {
	IsParam bool
	Index   int
}

// EncScheme is the result of propagating encryption requirements through
// one Rex subtree.
type EncScheme struct {
	Kind       SchemeKind
	Encryption encrypt.EncryptionType
	NativeType encrypt.NativeType
	Key        encrypt.Key
	Potentials []PotentialRef
}

func unencrypted() EncScheme       { return EncScheme{Kind: Unencrypted} }
func inconsequential() EncScheme   { return EncScheme{Kind: Inconsequential} }
func unencryptedOperation() EncScheme { return EncScheme{Kind: UnencryptedOperation} }

func encryptedFrom(meta planner.ColumnMeta) EncScheme {
	return EncScheme{
		Kind:       Encrypted,
		Encryption: meta.Encryption,
		NativeType: meta.NativeType,
		Key:        meta.Key,
	}
}

func potential(ref PotentialRef) EncScheme {
	return EncScheme{Kind: Potential, Potentials: []PotentialRef{ref}}
}

func mergePotentials(a, b EncScheme) []PotentialRef {
	out := make([]PotentialRef, 0, len(a.Potentials)+len(b.Potentials))
	out = append(out, a.Potentials...)
	out = append(out, b.Potentials...)
	return out
}

func sameEncryption(a, b EncScheme) bool {
	return a.Encryption == b.Encryption && a.NativeType == b.NativeType && a.Key == b.Key
}

// getEncryptionScheme recursively classifies rex, describing exprText in
// error messages exactly as the expression looks in the original
// statement would be described (callers pass a human-readable rendering).
func getEncryptionScheme(rex planner.Rex, exprText string) (EncScheme, error) {
	switch v := rex.(type) {
	case *planner.RexIdentifier:
		if v.Resolved && v.Meta.Encryption != encrypt.NA {
			return encryptedFrom(v.Meta), nil
		}
		return unencrypted(), nil

	case *planner.RexLiteral:
		return potential(PotentialRef{Index: v.Index}), nil

	case *planner.RexBoundParam:
		return potential(PotentialRef{IsParam: true, Index: v.Index}), nil

	case *planner.RexNested:
		return getEncryptionScheme(v.Inner, exprText)

	case *planner.RexUnary:
		return getEncryptionScheme(v.Expr, exprText)

	case *planner.RexExprList:
		return combineList(v.Items, exprText)

	case *planner.RexFunctionCall:
		for _, a := range v.Args {
			scheme, err := getEncryptionScheme(a, exprText)
			if err != nil {
				return EncScheme{}, err
			}
			if scheme.Kind == Encrypted {
				return EncScheme{}, zerror.NewEncryptionError("1064",
					"Unsupported operation on encrypted column: %s", exprText)
			}
		}
		return unencryptedOperation(), nil

	case *planner.RexRelational:
		cols := v.Rel.Type().Columns
		if len(cols) == 1 && cols[0].Encryption != encrypt.NA {
			return encryptedFrom(cols[0]), nil
		}
		return unencrypted(), nil

	case *planner.RexBinary:
		return combineBinary(v.Op, v.Left, v.Right, exprText)

	case *planner.RexWildcard:
		return unencrypted(), nil

	default:
		return EncScheme{}, zerror.NewEncryptionError("1064", "cannot classify expression: %s", exprText)
	}
}

func combineList(items []planner.Rex, exprText string) (EncScheme, error) {
	result := inconsequential()
	for _, it := range items {
		scheme, err := getEncryptionScheme(it, exprText)
		if err != nil {
			return EncScheme{}, err
		}
		result = mergeSameKind(result, scheme)
	}
	return result, nil
}

// mergeSameKind combines two schemes that appear as independent members
// of a list (not joined by an explicit binary operator): the stronger
// classification wins, and potentials from both sides are carried along
// so a later resolution still reaches them.
func mergeSameKind(a, b EncScheme) EncScheme {
	switch {
	case a.Kind == Encrypted || b.Kind == Encrypted:
		if a.Kind == Encrypted {
			return a
		}
		return b
	case a.Kind == Potential && b.Kind == Potential:
		return EncScheme{Kind: Potential, Potentials: mergePotentials(a, b)}
	case a.Kind == Potential:
		return a
	case b.Kind == Potential:
		return b
	case a.Kind == Unencrypted || b.Kind == Unencrypted:
		return unencrypted()
	default:
		return inconsequential()
	}
}

func combineBinary(op string, leftRex, rightRex planner.Rex, exprText string) (EncScheme, error) {
	left, err := getEncryptionScheme(leftRex, exprText)
	if err != nil {
		return EncScheme{}, err
	}
	right, err := getEncryptionScheme(rightRex, exprText)
	if err != nil {
		return EncScheme{}, err
	}

	switch op {
	case "AND", "OR":
		return combineBoolean(left, right, exprText)
	case "=", "<>", "!=":
		return combineEquality(left, right, exprText)
	default:
		return combineOther(left, right, exprText)
	}
}

func combineBoolean(left, right EncScheme, exprText string) (EncScheme, error) {
	if left.Kind == Encrypted || right.Kind == Encrypted {
		return EncScheme{}, zerror.NewEncryptionError("1064",
			"Unsupported operation between encrypted and unencrypted columns: %s", exprText)
	}
	return unencrypted(), nil
}

func combineEquality(left, right EncScheme, exprText string) (EncScheme, error) {
	switch {
	case left.Kind == Encrypted && right.Kind == Encrypted:
		if !sameEncryption(left, right) {
			return EncScheme{}, zerror.NewEncryptionError("1064",
				"Unsupported operation between columns of differing encryption and type, expr: %s", exprText)
		}
		if left.Encryption == encrypt.AESGCM {
			return EncScheme{}, zerror.NewEncryptionError("1064",
				"Unsupported operation between columns of AES_GCM encryption, expr: %s", exprText)
		}
		return unencrypted(), nil

	case left.Kind == Encrypted && right.Kind == Potential:
		return resolvePotentialAgainstColumn(left, right, exprText)
	case right.Kind == Encrypted && left.Kind == Potential:
		return resolvePotentialAgainstColumn(right, left, exprText)

	case left.Kind == Encrypted || right.Kind == Encrypted:
		return EncScheme{}, zerror.NewEncryptionError("1064",
			"Unsupported operation between encrypted and unencrypted columns: %s", exprText)

	case left.Kind == Potential && right.Kind == Potential:
		return EncScheme{Kind: Inconsequential, Potentials: mergePotentials(left, right)}, nil

	default:
		return unencrypted(), nil
	}
}

// resolvePotentialAgainstColumn assigns column's scheme to every pending
// literal/param in pot, returning the merged Encrypted scheme so that
// Plan.assign can write plan entries for each index.
func resolvePotentialAgainstColumn(column, pot EncScheme, exprText string) (EncScheme, error) {
	if column.Encryption == encrypt.AESGCM {
		return EncScheme{}, zerror.NewEncryptionError("1064",
			"Equality on AES_GCM column is unsupported: %s", exprText)
	}
	resolved := column
	resolved.Potentials = pot.Potentials
	return resolved, nil
}

func combineOther(left, right EncScheme, exprText string) (EncScheme, error) {
	if left.Kind == Encrypted || right.Kind == Encrypted {
		return EncScheme{}, zerror.NewEncryptionError("1064",
			"Unsupported operation on encrypted column: %s", exprText)
	}
	if left.Kind == Potential && right.Kind == Potential {
		return EncScheme{Kind: Inconsequential, Potentials: mergePotentials(left, right)}, nil
	}
	return unencrypted(), nil
}

func (k SchemeKind) String() string {
	switch k {
	case Unencrypted:
		return "Unencrypted"
	case Encrypted:
		return "Encrypted"
	case Potential:
		return "Potential"
	case Inconsequential:
		return "Inconsequential"
	case UnencryptedOperation:
		return "UnencryptedOperation"
	default:
		return fmt.Sprintf("SchemeKind(%d)", int(k))
	}
}
