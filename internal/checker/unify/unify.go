// Package unify implements the core subtype-aware unifier (spec §4.3)
// and its variable-binding helper Bind (spec §4.4).
//
// Grounded on internal/typesystem/unify.go (teacher) for the Go shape
// (unifyInternal with a co-induction `visited` stack and a Resolver for
// alias expansion) and on original_source/crates/crochet_infer/src/
// unify.rs for the exact rule-by-rule semantics (this spec's rule order
// matches the Rust match arms almost one for one).
package unify

import (
	"fmt"
	"reflect"

	"github.com/funvibe/funxy-typecheck/internal/checker/subst"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// Resolver looks up a named alias reference during unification (§4.5).
// ok is false for an unknown name; unify then fails with an "unknown
// alias" error, which the infer package reports as UnknownAlias. Built-in keyword names not present in the
// scheme table resolve to themselves — the Resolver implementation is
// responsible for that fallback, not this package.
type Resolver interface {
	ResolveRef(ref types.Ref) (types.Type, bool)
}

type pair struct{ t1, t2 types.Type }

// Unify attempts to find a substitution making t1 an admissible subtype
// of t2 (§4.3: "t1 must be an admissible subtype of t2").
func Unify(t1, t2 types.Type, r Resolver) (subst.Subst, error) {
	return unify(t1, t2, nil, r)
}

func unify(t1, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	t1 = prune(t1)
	t2 = prune(t2)

	for _, p := range visited {
		if sameType(p.t1, t1) && sameType(p.t2, t2) {
			// Co-inductive cycle: two recursive aliases referring back to
			// this exact pair — assume success rather than loop forever.
			return subst.Empty(), nil
		}
	}
	visited = append(visited, pair{t1, t2})

	// Rule 1: variable binding.
	if v1, ok := t1.(types.Var); ok {
		return Bind(v1, t2, Sub, visited, r)
	}
	if v2, ok := t2.(types.Var); ok {
		return Bind(v2, t1, Super, visited, r)
	}

	// IndexedAccess (T[K], §4.6) is pure sugar, not a recursive alias, so
	// unlike Ref/KeyOf below it is expanded unconditionally on whichever
	// side it appears before any structural dispatch runs — otherwise a
	// concrete t1 (Lit, Object, ...) would dispatch on its own shape and
	// never see t2's IndexedAccess at all.
	if ia, ok := t1.(types.IndexedAccess); ok {
		expanded, err := ExpandIndexedAccess(ia.Object, ia.Key, r)
		if err != nil {
			return nil, err
		}
		return unify(expanded, t2, visited, r)
	}
	if ia, ok := t2.(types.IndexedAccess); ok {
		expanded, err := ExpandIndexedAccess(ia.Object, ia.Key, r)
		if err != nil {
			return nil, err
		}
		return unify(t1, expanded, visited, r)
	}

	// Rules 15, 18 and 19 for a concrete t1, whose own handler below would
	// otherwise never look at a Union, Ref or KeyOf t2.
	switch t1.(type) {
	case types.Lit, types.KeywordType, types.Lam, types.Object, types.Tuple, types.Array:
		switch b := t2.(type) {
		case types.Union:
			return unifyUnionRight(t1, b, visited, r)
		case types.Ref:
			return unifyRefRight(t1, b, visited, r)
		case types.KeyOf:
			if expanded, err := ExpandKeyOf(b.Inner, r); err == nil {
				return unify(t1, expanded, visited, r)
			}
		}
	}

	switch a := t1.(type) {
	case types.Lit:
		return unifyLit(a, t2)
	case types.KeywordType:
		return unifyKeyword(a, t2)
	case types.Lam:
		return unifyLamLeft(a, t2, visited, r)
	case types.App:
		return unifyAppLeft(a, t2, visited, r)
	case types.Object:
		return unifyObjectLeft(a, t2, visited, r)
	case types.Tuple:
		return unifyTupleLeft(a, t2, visited, r)
	case types.Array:
		return unifyArrayLeft(a, t2, visited, r)
	case types.Union:
		return unifyUnionLeft(a, t2, visited, r)
	case types.Intersection:
		return unifyIntersectionOrObjectLeft(a, t2, visited, r)
	case types.Ref:
		return unifyRefLeft(a, t2, visited, r)
	case types.KeyOf:
		return unifyKeyOfLeft(a, t2, visited, r)
	}

	if ref, ok := t2.(types.Ref); ok {
		return unifyRefRight(t1, ref, visited, r)
	}
	if ko, ok := t2.(types.KeyOf); ok {
		expanded, err := ExpandKeyOf(ko.Inner, r)
		if err != nil {
			return nil, err
		}
		return unify(t1, expanded, visited, r)
	}

	// Rule 20: structural equality fallback.
	if sameType(t1, t2) {
		return subst.Empty(), nil
	}
	return nil, failure(t1, t2, "types are not compatible")
}

// prune follows `instance` pointers (constraint-carrying Vars resolved
// by a prior Bind are represented directly as substituted Vars here, so
// pruning is a no-op placeholder kept for symmetry with spec §4.3's
// pre-step; real path compression happens through Subst.Apply upstream).
func prune(t types.Type) types.Type { return t }

func sameType(a, b types.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// --- Rule 2 & 3: literals and keywords -------------------------------------

func unifyLit(l types.Lit, t2 types.Type) (subst.Subst, error) {
	if kw, ok := t2.(types.KeywordType); ok {
		if l.MatchesKeyword(kw.Keyword) {
			return subst.Empty(), nil
		}
		return nil, failure(l, t2, "literal is not a subtype of keyword")
	}
	if lit2, ok := t2.(types.Lit); ok && sameType(l, lit2) {
		return subst.Empty(), nil
	}
	return nil, failure(l, t2, "cannot unify literal")
}

func unifyKeyword(k types.KeywordType, t2 types.Type) (subst.Subst, error) {
	if k.Keyword == types.Never {
		return subst.Empty(), nil
	}
	if kw2, ok := t2.(types.KeywordType); ok {
		if kw2.Keyword == types.Never || k.Keyword == kw2.Keyword {
			return subst.Empty(), nil
		}
	}
	return nil, failure(k, t2, "keyword mismatch")
}

// --- Rule 4: Lam <= Lam -----------------------------------------------------

func unifyLamLeft(l1 types.Lam, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	switch b := t2.(type) {
	case types.Lam:
		if len(l1.Params) > len(b.Params) {
			return nil, failure(l1, b, "callback requires more parameters than provided")
		}
		s := subst.Empty()
		for i := range l1.Params {
			p1 := subst.Apply(s, l1.Params[i].Type)
			p2 := subst.Apply(s, b.Params[i].Type)
			// contravariant: p2 <= p1
			s1, err := unify(p2, p1, visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		r1 := subst.Apply(s, l1.Return)
		r2 := subst.Apply(s, b.Return)
		s1, err := unify(r1, r2, visited, r)
		if err != nil {
			return nil, err
		}
		return s.Compose(s1), nil
	case types.App:
		// Rule 8: Lam <= App — swap and retry.
		return unify(b, l1, visited, r)
	}
	return nil, failure(l1, t2, "cannot unify function type")
}

// --- Rule 5,6,7: App <= Lam / Object / Intersection -------------------------

func unifyAppLeft(app types.App, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	switch b := t2.(type) {
	case types.Lam:
		return unifyAppLam(app, b, visited, r)
	case types.Object:
		var lastErr error
		for _, e := range b.Elems {
			if e.Kind != types.ElemCall {
				continue
			}
			callable := e.AsLam()
			var lam types.Lam
			if g, ok := callable.(types.Generic); ok {
				lam = InstantiateGenericLam(g)
			} else {
				lam = callable.(types.Lam)
			}
			if s, err := unifyAppLam(app, lam, visited, r); err == nil {
				return s, nil
			} else {
				lastErr = err
			}
		}
		if lastErr == nil {
			lastErr = failure(app, t2, "no call signature admits this application")
		}
		return nil, lastErr
	case types.Intersection:
		var lastErr error
		for _, m := range b.Types {
			if s, err := unify(app, m, visited, r); err == nil {
				return s, nil
			} else {
				lastErr = err
			}
		}
		if lastErr == nil {
			lastErr = failure(app, t2, "no intersection member admits this application")
		}
		return nil, lastErr
	}
	return nil, failure(app, t2, "cannot unify call with non-callable type")
}

// InstantiateGenericLam gives a Generic-wrapped Lam fresh copies of its
// own type parameters so each call site gets independent variables. The
// real instantiate package does constraint-aware instantiation for
// user-visible schemes; this local helper only covers the narrow case
// of calling through an object's own Generic call signature (§4.3 rule 6).
func InstantiateGenericLam(g types.Generic) types.Lam {
	s := make(subst.Subst, len(g.TypeParams))
	nextID := maxVarID(g.Inner) + 1
	for _, tp := range g.TypeParams {
		s[tp.Fresh.ID] = types.Var{ID: nextID, Constraint: tp.Constraint}
		nextID++
	}
	return subst.Apply(s, g.Inner).(types.Lam)
}

func maxVarID(t types.Type) int {
	max := 0
	for _, v := range t.FreeTypeVariables() {
		if v.ID > max {
			max = v.ID
		}
	}
	return max
}

func unifyAppLam(app types.App, lam types.Lam, visited []pair, r Resolver) (subst.Subst, error) {
	s := subst.Empty()

	args, err := flattenArgs(app.Args)
	if err != nil {
		return nil, err
	}

	hasRest := len(lam.Params) > 0 && lam.Params[len(lam.Params)-1].Rest
	optionalCount := 0
	for _, p := range lam.Params {
		if p.Optional {
			optionalCount++
		}
	}
	lowBound := len(lam.Params) - optionalCount
	if hasRest {
		lowBound--
	}
	if len(args) < lowBound {
		return nil, &Error{Kind: KindNotEnoughArguments, T1: app, T2: lam, Msg: "not enough arguments"}
	}

	if hasRest {
		regularCount := len(lam.Params) - 1
		if regularCount > len(args) {
			regularCount = len(args)
		}
		for i := 0; i < regularCount; i++ {
			arg := subst.Apply(s, args[i])
			param := subst.Apply(s, lam.Params[i].Type)
			s1, err := unify(arg, param, visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		restArgs := types.Tuple{Elements: args[regularCount:]}
		restParam := subst.Apply(s, lam.Params[len(lam.Params)-1].Type)
		s1, err := unify(restArgs, restParam, visited, r)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s1)
	} else {
		n := len(lam.Params)
		if n > len(args) {
			n = len(args)
		}
		for i := 0; i < n; i++ {
			arg := subst.Apply(s, args[i])
			param := subst.Apply(s, lam.Params[i].Type)
			s1, err := unify(arg, param, visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		// extra args beyond len(lam.Params) are silently ignored (§4.3 rule 5)
	}

	ret1 := subst.Apply(s, app.Return)
	ret2 := subst.Apply(s, lam.Return)
	s1, err := unify(ret1, ret2, visited, r)
	if err != nil {
		return nil, err
	}
	return s.Compose(s1), nil
}

// flattenArgs expands Rest(Tuple) spread arguments inline; a Rest of a
// non-tuple, non-final argument is rejected (§4.3 rule 5).
func flattenArgs(args []types.Type) ([]types.Type, error) {
	var out []types.Type
	for i, a := range args {
		if rest, ok := a.(types.Rest); ok {
			tup, ok := rest.Inner.(types.Tuple)
			if !ok {
				if i != len(args)-1 {
					return nil, &Error{Kind: KindSpreadNotAllowed, T1: rest, Msg: "spread of non-tuple type not allowed except as the final rest argument"}
				}
				out = append(out, a)
				continue
			}
			out = append(out, tup.Elements...)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// --- Rule 9: Object <= Object ------------------------------------------------

func unifyObjectLeft(o1 types.Object, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	switch b := t2.(type) {
	case types.Intersection:
		return unifyObjectAgainstIntersection(o1, b, visited, r)
	case types.Object:
		s := subst.Empty()
		for _, e2 := range b.Elems {
			matched := false
			var matchErr error
			for _, e1 := range o1.Elems {
				if e1.Kind != e2.Kind {
					continue
				}
				switch e1.Kind {
				case types.ElemProp:
					if e1.Name != e2.Name {
						continue
					}
					mutInvariant := e1.Mutable || e2.Mutable
					v1 := subst.Apply(s, e1.PropType)
					v2 := subst.Apply(s, e2.PropType)
					var s1 subst.Subst
					var err error
					if mutInvariant {
						s1, err = unifyInvariant(v1, v2, visited, r)
					} else {
						s1, err = unify(v1, v2, visited, r)
					}
					if err == nil {
						matched = true
						s = s.Compose(s1)
					} else {
						matchErr = err
					}
				case types.ElemIndex, types.ElemCall, types.ElemConstructor:
					s1, err := unify(subst.Apply(s, e1.Ret), subst.Apply(s, e2.Ret), visited, r)
					if err == nil {
						matched = true
						s = s.Compose(s1)
					} else {
						matchErr = err
					}
				}
				if matched {
					break
				}
			}
			if !matched {
				if e2.Kind == types.ElemProp && e2.Optional {
					continue
				}
				if matchErr == nil {
					matchErr = failure(o1, b, "missing required member: "+e2.Name)
				}
				return nil, matchErr
			}
		}
		return s, nil
	}
	return nil, failure(o1, t2, "cannot unify object")
}

// unifyInvariant unifies both directions, used for mutable (writable)
// properties, which must be invariant (open question #3, DESIGN.md).
func unifyInvariant(t1, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	s1, err := unify(t1, t2, visited, r)
	if err != nil {
		return nil, err
	}
	s2, err := unify(subst.Apply(s1, t2), subst.Apply(s1, t1), visited, r)
	if err != nil {
		return nil, err
	}
	return s1.Compose(s2), nil
}

// --- Rule 10, 11: Tuple <= Tuple / Array -------------------------------------

func unifyTupleLeft(t1 types.Tuple, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	switch b := t2.(type) {
	case types.Tuple:
		before, rest, after, err := splitTupleRest(b.Elements)
		if err != nil {
			return nil, err
		}
		if len(t1.Elements) < len(before)+len(after) {
			return nil, failure(t1, b, "not enough tuple elements")
		}
		s := subst.Empty()
		sub1 := t1.Elements
		prefix := sub1[:len(before)]
		for i := range before {
			s1, err := unify(subst.Apply(s, prefix[i]), subst.Apply(s, before[i]), visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		midLen := len(sub1) - len(before) - len(after)
		mid := sub1[len(before) : len(before)+midLen]
		if rest != nil {
			s1, err := unify(subst.Apply(s, types.Tuple{Elements: mid}), subst.Apply(s, rest), visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		suffix := sub1[len(before)+midLen:]
		for i := range after {
			s1, err := unify(subst.Apply(s, suffix[i]), subst.Apply(s, after[i]), visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		return s, nil
	case types.Array:
		s := subst.Empty()
		for _, e := range t1.Elements {
			s1, err := unify(subst.Apply(s, e), subst.Apply(s, b.Elem), visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		return s, nil
	}
	return nil, failure(t1, t2, "cannot unify tuple")
}

func splitTupleRest(elements []types.Type) (before []types.Type, rest types.Type, after []types.Type, err error) {
	seenRest := false
	for _, e := range elements {
		if r, ok := e.(types.Rest); ok {
			if seenRest {
				return nil, nil, nil, failure(nil, nil, "tuple supertype may have at most one rest element")
			}
			seenRest = true
			rest = r.Inner
			continue
		}
		if seenRest {
			after = append(after, e)
		} else {
			before = append(before, e)
		}
	}
	return before, rest, after, nil
}

// --- Rule 12, 13: Array <= Array / Rest --------------------------------------

func unifyArrayLeft(a1 types.Array, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	switch b := t2.(type) {
	case types.Array:
		return unify(a1.Elem, b.Elem, visited, r)
	case types.Rest:
		return unify(a1.Elem, b.Inner, visited, r)
	}
	return nil, failure(a1, t2, "cannot unify array")
}

// --- Rule 14, 15: Union on left / right --------------------------------------

func unifyUnionLeft(u types.Union, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	s := subst.Empty()
	for _, m := range u.Types {
		s1, err := unify(subst.Apply(s, m), subst.Apply(s, t2), visited, r)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s1)
	}
	return s, nil
}

func unifyUnionRight(t1 types.Type, u types.Union, visited []pair, r Resolver) (subst.Subst, error) {
	var lastErr error
	for _, m := range u.Types {
		if s, err := unify(t1, m, visited, r); err == nil {
			return s, nil
		} else {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = failure(t1, u, "no union member admits this type")
	}
	return nil, lastErr
}

// --- Rule 16: Object/Intersection mix -----------------------------------------

// unifyIntersectionOrObjectLeft handles an Intersection operand on the
// left (t1) of the comparison, dispatching to the object-with-variable-
// residual simplification described in §4.3 rule 16. An Object on the
// left against an Intersection is handled by
// unifyObjectAgainstIntersection.
func unifyIntersectionOrObjectLeft(isect types.Intersection, other types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	if u, ok := other.(types.Union); ok {
		return unifyUnionRight(isect, u, visited, r)
	}

	var objects []types.Object
	var vars []types.Var
	for _, m := range isect.Types {
		switch mt := m.(type) {
		case types.Object:
			objects = append(objects, mt)
		case types.Var:
			vars = append(vars, mt)
		default:
			return nil, failure(isect, other, "intersection members must be objects or type variables")
		}
	}
	if len(vars) > 1 {
		return nil, &Error{Kind: KindUndecidableIsect, T1: isect, T2: other, Msg: "intersection has more than one unresolved type variable"}
	}

	simplified := simplifyObjects(objects)

	if len(vars) == 0 {
		return unify(simplified, other, visited, r)
	}

	otherObj, ok := other.(types.Object)
	if !ok {
		// Fall back to unifying the whole simplified object; the residual
		// variable is left unbound.
		return unify(simplified, other, visited, r)
	}

	named := map[string]bool{}
	for _, e := range simplified.Elems {
		if e.Kind == types.ElemProp {
			named[e.Name] = true
		}
	}
	var subset, residual []types.ObjElem
	for _, e := range otherObj.Elems {
		if e.Kind == types.ElemProp && named[e.Name] {
			subset = append(subset, e)
		} else {
			residual = append(residual, e)
		}
	}

	s := subst.Empty()
	s1, err := unify(simplified, types.Object{Elems: subset}, visited, r)
	if err != nil {
		return nil, err
	}
	s = s.Compose(s1)
	s2, err := unify(subst.Apply(s, types.Object{Elems: residual}), subst.Apply(s, vars[0]), visited, r)
	if err != nil {
		return nil, err
	}
	return s.Compose(s2), nil
}

// unifyObjectAgainstIntersection handles the (Object, Intersection) arm
// of rule 16 — an object literal unified against a declared
// intersection type, e.g. `{a: 1, b: "hi"}` against `{a: number} &
// {b: string}`. Mirrors original_source's (Type::Object, Type::
// Intersection) match arm: simplify the intersection's object members
// into one, then, if exactly one type variable remains in the
// intersection, partition o1's own elements into the ones the
// simplified object names and the residual that the variable absorbs.
func unifyObjectAgainstIntersection(o1 types.Object, isect types.Intersection, visited []pair, r Resolver) (subst.Subst, error) {
	var objects []types.Object
	var vars []types.Var
	for _, m := range isect.Types {
		switch mt := m.(type) {
		case types.Object:
			objects = append(objects, mt)
		case types.Var:
			vars = append(vars, mt)
		default:
			return nil, failure(o1, isect, "intersection members must be objects or type variables")
		}
	}
	if len(vars) > 1 {
		return nil, &Error{Kind: KindUndecidableIsect, T1: o1, T2: isect, Msg: "intersection has more than one unresolved type variable"}
	}

	simplified := simplifyObjects(objects)

	if len(vars) == 0 {
		return unify(o1, simplified, visited, r)
	}

	named := map[string]bool{}
	for _, e := range simplified.Elems {
		if e.Kind == types.ElemProp {
			named[e.Name] = true
		}
	}
	var subset, residual []types.ObjElem
	for _, e := range o1.Elems {
		if e.Kind == types.ElemProp && named[e.Name] {
			subset = append(subset, e)
		} else {
			residual = append(residual, e)
		}
	}

	s := subst.Empty()
	s1, err := unify(types.Object{Elems: subset}, simplified, visited, r)
	if err != nil {
		return nil, err
	}
	s = s.Compose(s1)
	s2, err := unify(subst.Apply(s, types.Object{Elems: residual}), subst.Apply(s, vars[0]), visited, r)
	if err != nil {
		return nil, err
	}
	return s.Compose(s2), nil
}

// simplifyObjects merges object-typed intersection members into one
// object, last member's property winning on name collision.
func simplifyObjects(objects []types.Object) types.Object {
	byName := map[string]types.ObjElem{}
	var order []string
	var nonProp []types.ObjElem
	for _, o := range objects {
		for _, e := range o.Elems {
			if e.Kind != types.ElemProp {
				nonProp = append(nonProp, e)
				continue
			}
			if _, ok := byName[e.Name]; !ok {
				order = append(order, e.Name)
			}
			byName[e.Name] = e
		}
	}
	elems := make([]types.ObjElem, 0, len(order)+len(nonProp))
	for _, n := range order {
		elems = append(elems, byName[n])
	}
	elems = append(elems, nonProp...)
	return types.Object{Elems: elems}
}

// --- Rule 17, 18: Ref ---------------------------------------------------------

func unifyRefLeft(ref types.Ref, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	if ref2, ok := t2.(types.Ref); ok && ref.Name == ref2.Name {
		if len(ref.Args) != len(ref2.Args) {
			return nil, failure(ref, ref2, "alias type argument count mismatch")
		}
		s := subst.Empty()
		for i := range ref.Args {
			s1, err := unify(subst.Apply(s, ref.Args[i]), subst.Apply(s, ref2.Args[i]), visited, r)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		return s, nil
	}
	resolved, ok := r.ResolveRef(ref)
	if !ok {
		return nil, &Error{Kind: KindUnificationFailure, T1: ref, T2: t2, Msg: "unknown alias: " + ref.Name}
	}
	return unify(resolved, t2, visited, r)
}

func unifyRefRight(t1 types.Type, ref types.Ref, visited []pair, r Resolver) (subst.Subst, error) {
	resolved, ok := r.ResolveRef(ref)
	if !ok {
		return nil, &Error{Kind: KindUnificationFailure, T1: t1, T2: ref, Msg: "unknown alias: " + ref.Name}
	}
	return unify(t1, resolved, visited, r)
}

// --- Rule 19: KeyOf ------------------------------------------------------------

func unifyKeyOfLeft(ko types.KeyOf, t2 types.Type, visited []pair, r Resolver) (subst.Subst, error) {
	expanded, err := ExpandKeyOf(ko.Inner, r)
	if err != nil {
		return nil, err
	}
	return unify(expanded, t2, visited, r)
}

// ExpandKeyOf computes `keyof T` per spec §4.6: on an Object, the union
// of property-name string literals plus indexer key types; empty maps to
// never; single key is unwrapped. A Tuple is looked up as the Array
// interface instantiated at the union of its elements. Anything else is
// an error.
func ExpandKeyOf(t types.Type, r Resolver) (types.Type, error) {
	t = ResolveToStructural(t, r)
	if tup, ok := t.(types.Tuple); ok {
		elem := types.NormalizeUnion(append([]types.Type{}, tup.Elements...))
		if arr, ok := r.ResolveRef(types.Ref{Name: "Array", Args: []types.Type{elem}}); ok {
			t = ResolveToStructural(arr, r)
		}
	}
	obj, ok := t.(types.Object)
	if !ok {
		return nil, failure(nil, t, "keyof operand must be an object type")
	}
	var keys []types.Type
	for _, e := range obj.Elems {
		switch e.Kind {
		case types.ElemProp:
			keys = append(keys, types.Lit{Kind: types.LitStr, Str: e.Name})
		case types.ElemIndex:
			keys = append(keys, e.IndexKey.Type)
		}
	}
	if len(keys) == 0 {
		return types.KeywordType{Keyword: types.Never}, nil
	}
	if len(keys) == 1 {
		return keys[0], nil
	}
	return types.NormalizeUnion(keys), nil
}

// ResolveToStructural follows Ref and IndexedAccess chains down to a
// structural type, using r for alias lookups. It leaves anything else
// untouched.
func ResolveToStructural(t types.Type, r Resolver) types.Type {
	for {
		switch v := t.(type) {
		case types.Ref:
			resolved, ok := r.ResolveRef(v)
			if !ok || sameType(resolved, v) {
				return t
			}
			t = resolved
		case types.IndexedAccess:
			expanded, err := ExpandIndexedAccess(v.Object, v.Key, r)
			if err != nil {
				return t
			}
			t = expanded
		default:
			return t
		}
	}
}

// --- Rule 20½: IndexedAccess (T[K]) --------------------------------------------
//
// Unlike the other rules above, IndexedAccess is expanded unconditionally
// at the top of unify (whichever side it is on) rather than dispatched
// from the switch — see the comment there.

// ExpandIndexedAccess computes `T[K]` per spec §4.6: Object delegates
// to property lookup, Tuple handles the literal/number/string-via-
// Array cases, Union distributes and adds undefined once if any branch
// fails. Mirrors member.GetComputed's dispatch — duplicated here rather
// than called, since member depends on this package and not the other
// way around.
func ExpandIndexedAccess(obj, key types.Type, r Resolver) (types.Type, error) {
	obj = ResolveToStructural(obj, r)
	key = ResolveToStructural(key, r)

	switch o := obj.(type) {
	case types.Object:
		return indexedAccessObject(o, key, r)
	case types.Tuple:
		return indexedAccessTuple(o, key, r)
	case types.Union:
		var results []types.Type
		failures := 0
		for _, m := range o.Types {
			if t, err := ExpandIndexedAccess(m, key, r); err == nil {
				results = append(results, t)
			} else {
				failures++
			}
		}
		if failures == len(o.Types) {
			return nil, failure(obj, key, "couldn't find property on object")
		}
		if failures > 0 {
			results = append(results, undefinedIndexType)
		}
		return types.NormalizeUnion(results), nil
	}
	return nil, failure(obj, key, "can only index objects/tuples")
}

var undefinedIndexType types.Type = types.KeywordType{Keyword: types.Undefined}

func indexedAccessObject(o types.Object, key types.Type, r Resolver) (types.Type, error) {
	switch k := key.(type) {
	case types.KeywordType:
		if k.Keyword != types.Number && k.Keyword != types.String && k.Keyword != types.Symbol {
			return nil, failure(o, key, "not a valid key")
		}
		var indexer *types.ObjElem
		var values []types.Type
		for i := range o.Elems {
			e := o.Elems[i]
			switch e.Kind {
			case types.ElemProp:
				values = append(values, indexedPropType(e))
			case types.ElemCall, types.ElemConstructor:
				values = append(values, e.AsLam())
			case types.ElemIndex:
				if indexer != nil {
					return nil, failure(o, key, "object types can only have a single indexer")
				}
				indexer = &o.Elems[i]
			}
		}
		if indexer != nil {
			if _, err := unify(k, indexer.IndexKey.Type, nil, r); err == nil {
				return types.NormalizeUnion([]types.Type{indexer.PropType, undefinedIndexType}), nil
			}
			return nil, failure(o, key, "not a valid indexer")
		}
		if len(values) > 0 {
			return types.NormalizeUnion(append(values, undefinedIndexType)), nil
		}
		return nil, failure(o, key, "object has no indexer")

	case types.Lit:
		if k.Kind == types.LitStr {
			var indexer *types.ObjElem
			for i := range o.Elems {
				e := o.Elems[i]
				if e.Kind == types.ElemProp && e.Name == k.Str {
					return indexedPropType(e), nil
				}
				if e.Kind == types.ElemIndex {
					if indexer != nil {
						return nil, failure(o, key, "object types can only have a single indexer")
					}
					indexer = &o.Elems[i]
				}
			}
			if indexer != nil {
				if _, err := unify(k, indexer.IndexKey.Type, nil, r); err == nil {
					return types.NormalizeUnion([]types.Type{indexer.PropType, undefinedIndexType}), nil
				}
			}
			return nil, failure(o, key, "couldn't find property "+k.Str+" on object")
		}
		if k.Kind == types.LitNum {
			var indexer *types.ObjElem
			for i := range o.Elems {
				if o.Elems[i].Kind == types.ElemIndex {
					if indexer != nil {
						return nil, failure(o, key, "object types can only have a single indexer")
					}
					indexer = &o.Elems[i]
				}
			}
			if indexer != nil {
				if _, err := unify(k, indexer.IndexKey.Type, nil, r); err == nil {
					return types.NormalizeUnion([]types.Type{indexer.PropType, undefinedIndexType}), nil
				}
			}
			return nil, failure(o, key, "couldn't find property "+k.Num+" on object")
		}
	}
	return nil, failure(o, key, "not a valid key")
}

func indexedPropType(e types.ObjElem) types.Type {
	if e.Optional {
		return types.NormalizeUnion([]types.Type{e.PropType, undefinedIndexType})
	}
	return e.PropType
}

func indexedAccessTuple(t types.Tuple, key types.Type, r Resolver) (types.Type, error) {
	switch k := key.(type) {
	case types.Lit:
		if k.Kind == types.LitNum {
			idx, ok := parseTupleIndex(k.Num)
			if !ok || idx < 0 || idx >= len(t.Elements) {
				return nil, failure(t, key, "index is outside the bounds of the tuple")
			}
			return t.Elements[idx], nil
		}
		if k.Kind == types.LitStr {
			if k.Str == "length" {
				return types.Lit{Kind: types.LitNum, Num: fmt.Sprintf("%d", len(t.Elements))}, nil
			}
			arrayIface, ok := r.ResolveRef(types.Ref{Name: "Array", Args: []types.Type{types.NormalizeUnion(append([]types.Type{}, t.Elements...))}})
			if !ok {
				return nil, failure(t, key, "no Array interface registered to resolve tuple member access")
			}
			return ExpandIndexedAccess(arrayIface, key, r)
		}
	case types.KeywordType:
		if k.Keyword == types.Number {
			return types.NormalizeUnion(append(append([]types.Type{}, t.Elements...), undefinedIndexType)), nil
		}
	}
	return nil, failure(t, key, "can only index a tuple with a number")
}

func parseTupleIndex(num string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(num, "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}
