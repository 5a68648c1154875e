package infer

import (
	"fmt"

	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/subst"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
	"github.com/funvibe/funxy-typecheck/internal/checker/unify"
)

// InferPattern implements spec §4.9: it binds every name the pattern
// introduces into c, unifies the pattern's own structural shape against
// scrutinee, and returns the substitution that unification produced
// (the caller composes it with whatever substitution it is already
// threading). scrutinee is fully resolved (ResolveToStructural-able) by
// the caller before this is invoked for Object/Tuple cases; this
// function calls unify.ResolveToStructural itself as needed so a Ref or
// IndexedAccess scrutinee still destructures correctly.
//
// Refutability is not checked: neither this function nor any of its
// callers consults Refutable(), so no position rejects a refutable
// pattern.
func InferPattern(ck *Checker, c *ctx.Context, p ast.Pattern, scrutinee types.Type) (subst.Subst, error) {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		c.Bind(pat.Name, scrutinee)
		pat.SetInferredType(scrutinee)
		return subst.Empty(), nil

	case *ast.WildcardPattern:
		pat.SetInferredType(scrutinee)
		return subst.Empty(), nil

	case *ast.LiteralPattern:
		lit := literalPatternType(pat)
		s, err := unify.Unify(lit, scrutinee, ck.Aliases)
		if err != nil {
			return nil, err
		}
		pat.SetInferredType(lit)
		return s, nil

	case *ast.RestPattern:
		// A bare Rest outside a TuplePattern/ParamDecl position is a
		// misuse the parser should have already rejected (§3 "Rest
		// appears only as the last element ... it is an error
		// otherwise"); reaching here with an arbitrary scrutinee, we
		// just bind its inner pattern to the whole remaining value.
		s, err := InferPattern(ck, c, pat.Inner, scrutinee)
		if err != nil {
			return nil, err
		}
		pat.SetInferredType(scrutinee)
		return s, nil

	case *ast.TuplePattern:
		return inferTuplePattern(ck, c, pat, scrutinee)

	case *ast.ObjectPattern:
		return inferObjectPattern(ck, c, pat, scrutinee)

	case *ast.IsPattern:
		target, err := BuildType(c, nil, pat.Target)
		if err != nil {
			return nil, err
		}
		if pat.Name != "" {
			c.Bind(pat.Name, target)
		}
		pat.SetInferredType(target)
		// is-patterns narrow at runtime; no static constraint is placed
		// on scrutinee beyond "some overlap with target is plausible",
		// which this engine does not attempt to verify (no soundness
		// proof, spec §1 Non-goals).
		return subst.Empty(), nil
	}
	return nil, fmt.Errorf("unknown pattern kind")
}

func literalPatternType(p *ast.LiteralPattern) types.Lit {
	switch p.Kind {
	case ast.LitNum:
		return types.Lit{Kind: types.LitNum, Num: p.Num}
	case ast.LitStr:
		return types.Lit{Kind: types.LitStr, Str: p.Str}
	default:
		return types.Lit{Kind: types.LitBool, Bool: p.Bool}
	}
}

// inferTuplePattern destructures scrutinee positionally. When scrutinee
// resolves to an Array<T>, every non-rest element binds to T and a
// Rest's inner pattern binds to the same Array<T>; when it resolves to a Tuple (or is still an unconstrained
// Var), a Tuple "shape" of fresh variables is unified against scrutinee
// first so a Var scrutinee gets pinned down by the pattern's own arity.
func inferTuplePattern(ck *Checker, c *ctx.Context, p *ast.TuplePattern, scrutinee types.Type) (subst.Subst, error) {
	resolved := unify.ResolveToStructural(scrutinee, ck.Aliases)

	if arr, ok := resolved.(types.Array); ok {
		s := subst.Empty()
		for _, elem := range p.Elements {
			if rest, ok := elem.(*ast.RestPattern); ok {
				s1, err := InferPattern(ck, c, rest.Inner, arr)
				if err != nil {
					return nil, err
				}
				rest.SetInferredType(arr)
				s = s.Compose(s1)
				continue
			}
			s1, err := InferPattern(ck, c, elem, arr.Elem)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s1)
		}
		p.SetInferredType(arr)
		return s, nil
	}

	// Build a fresh-variable Tuple shape matching this pattern's arity
	// and pin scrutinee to it (spec §4.3 rule 10's before/rest/after
	// split, seen from the pattern side).
	shapeElems := make([]types.Type, len(p.Elements))
	freshByIndex := map[int]types.Var{}
	var restIndex = -1
	for i, elem := range p.Elements {
		if _, ok := elem.(*ast.RestPattern); ok {
			restIndex = i
			v := c.Fresh(nil)
			shapeElems[i] = types.Rest{Inner: v}
			freshByIndex[i] = v
			continue
		}
		v := c.Fresh(nil)
		shapeElems[i] = v
		freshByIndex[i] = v
	}
	shape := types.Tuple{Elements: shapeElems}
	s0, err := unify.Unify(resolved, shape, ck.Aliases)
	if err != nil {
		return nil, err
	}
	s := s0
	for i, elem := range p.Elements {
		if i == restIndex {
			rest := elem.(*ast.RestPattern)
			innerT := subst.Apply(s, freshByIndex[i])
			s1, err := InferPattern(ck, c, rest.Inner, innerT)
			if err != nil {
				return nil, err
			}
			rest.SetInferredType(innerT)
			s = s.Compose(s1)
			continue
		}
		elemT := subst.Apply(s, freshByIndex[i])
		s1, err := InferPattern(ck, c, elem, elemT)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s1)
	}
	p.SetInferredType(subst.Apply(s, shape))
	return s, nil
}

// inferObjectPattern destructures scrutinee's named properties
// positionally by name, each named prop required unless its own
// sub-pattern is itself only reachable via an optional scrutinee
// property (elision is handled by unify's rule 9, since the shape we
// build marks every named prop required — scrutinee is expected to
// supply it, possibly as `T | undefined` which the sub-pattern then
// further narrows). A trailing `...rest` binds the remaining properties:
// when scrutinee resolves to a concrete Object, rest gets exactly the
// unnamed properties; otherwise (an unresolved Var) rest gets a fresh
// object-shaped variable, the best this engine can do without a row-
// polymorphism solver (spec §1 Non-goals: "no row polymorphism beyond
// the intersection-with-object-rest idiom").
func inferObjectPattern(ck *Checker, c *ctx.Context, p *ast.ObjectPattern, scrutinee types.Type) (subst.Subst, error) {
	resolved := unify.ResolveToStructural(scrutinee, ck.Aliases)

	shapeElems := make([]types.ObjElem, len(p.Props))
	freshByName := map[string]types.Var{}
	for i, prop := range p.Props {
		v := c.Fresh(nil)
		freshByName[prop.Name] = v
		shapeElems[i] = types.ObjElem{Kind: types.ElemProp, Name: prop.Name, PropType: v}
	}
	shape := types.Object{Elems: shapeElems}
	s, err := unify.Unify(resolved, shape, ck.Aliases)
	if err != nil {
		return nil, err
	}
	for _, prop := range p.Props {
		propT := subst.Apply(s, freshByName[prop.Name])
		s1, err := InferPattern(ck, c, prop.Value, propT)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s1)
	}
	if p.Rest != nil {
		named := map[string]bool{}
		for _, prop := range p.Props {
			named[prop.Name] = true
		}
		var restT types.Type
		if obj, ok := unify.ResolveToStructural(subst.Apply(s, resolved), ck.Aliases).(types.Object); ok {
			var leftover []types.ObjElem
			for _, e := range obj.Elems {
				if e.Kind == types.ElemProp && named[e.Name] {
					continue
				}
				leftover = append(leftover, e)
			}
			restT = types.Object{Elems: leftover}
		} else {
			restT = c.Fresh(nil)
		}
		s1, err := InferPattern(ck, c, p.Rest, restT)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s1)
	}
	p.SetInferredType(subst.Apply(s, shape))
	return s, nil
}
