// Grounded on original_source/crates/crochet_infer/src/unify.rs::bind,
// which is considerably more precise than spec.md §4.4's prose summary;
// we follow the Rust source for the union-occurs escape and the
// constraint-merge behavior it leaves as a documented todo (see
// DESIGN.md Open Questions #1).
package unify

import (
	"github.com/funvibe/funxy-typecheck/internal/checker/subst"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// Relation records which direction a constraint check runs in (§4.4).
type Relation int

const (
	Sub   Relation = iota // c ≤ t
	Super                 // t ≤ c
)

// Bind produces a substitution extending v ↦ t, subject to the trivial
// case, the occurs check (with the union escape hatch), and the
// constraint check.
func Bind(v types.Var, t types.Type, rel Relation, visited []pair, r Resolver) (subst.Subst, error) {
	if other, ok := t.(types.Var); ok && other.ID == v.ID {
		return subst.Empty(), nil
	}

	if OccursCheck(v, t) {
		if u, ok := t.(types.Union); ok {
			var remaining []types.Type
			for _, m := range u.Types {
				if mv, ok := m.(types.Var); ok && mv.ID == v.ID {
					continue
				}
				remaining = append(remaining, m)
			}
			if len(remaining) < len(u.Types) {
				return subst.Subst{v.ID: types.NormalizeUnion(remaining)}, nil
			}
		}
		return nil, infiniteType(v, t)
	}

	if v.Constraint == nil {
		return subst.Subst{v.ID: t}, nil
	}

	// Constraint check: unify the constraint with t in the direction
	// implied by rel, then carry the constraint over if t is itself an
	// unconstrained (or differently-constrained) variable.
	var checkErr error
	switch rel {
	case Sub:
		_, checkErr = unify(v.Constraint, t, visited, r)
	case Super:
		_, checkErr = unify(t, v.Constraint, visited, r)
	}
	if checkErr != nil {
		return nil, checkErr
	}

	if otherVar, ok := t.(types.Var); ok {
		if otherVar.Constraint == nil {
			return subst.Subst{v.ID: types.Var{ID: otherVar.ID, Constraint: v.Constraint}}, nil
		}
		// Open Question #1 (DESIGN.md): merge both constraints onto a
		// fresh variable and rebind both originals to it.
		merged := types.NormalizeIntersection([]types.Type{v.Constraint, otherVar.Constraint})
		fresh := types.Var{ID: nextMergeID(v, otherVar), Constraint: merged}
		return subst.Subst{v.ID: fresh, otherVar.ID: fresh}, nil
	}

	return subst.Subst{v.ID: t}, nil
}

// nextMergeID picks a ID strictly greater than both inputs so the fresh
// merged variable never collides with one already in the substitution.
// The arena is the real source of fresh ids during inference; this is a
// local fallback usable when Bind is exercised directly (e.g. in tests).
func nextMergeID(a, b types.Var) int {
	if a.ID > b.ID {
		return a.ID + 1
	}
	return b.ID + 1
}

// OccursCheck reports whether v appears free in t.
func OccursCheck(v types.Var, t types.Type) bool {
	for _, fv := range t.FreeTypeVariables() {
		if fv.ID == v.ID {
			return true
		}
	}
	return false
}
