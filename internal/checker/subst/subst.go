// Package subst implements the Substitution described in spec §4.1: a
// finite map from type-variable id to Type, with structural Apply and
// left-biased Compose.
//
// Grounded on internal/typesystem/types.go's Subst/ApplyWithCycleCheck/
// Compose (teacher).
package subst

import "github.com/funvibe/funxy-typecheck/internal/checker/types"

// Subst is a finite map from Var id to Type.
type Subst map[int]types.Type

// Empty returns the identity substitution.
func Empty() Subst { return Subst{} }

// Compose returns a substitution equivalent to first applying t, then s:
// compose(s, t) = {v ↦ apply(s, t(v))} ∪ {v ↦ s(v) | v ∉ dom(t)}.
func (s Subst) Compose(t Subst) Subst {
	out := make(Subst, len(s)+len(t))
	for v, ty := range t {
		out[v] = Apply(s, ty)
	}
	for v, ty := range s {
		if _, ok := out[v]; !ok {
			out[v] = ty
		}
	}
	return out
}

// Apply rewrites every Var in typ whose id is in s's domain, recursing
// structurally into all type-bearing positions. Var constraints are
// identity, not content, and are left untouched (§4.1).
func Apply(s Subst, typ types.Type) types.Type {
	return applyVisited(s, typ, map[int]bool{})
}

func applyVisited(s Subst, typ types.Type, visited map[int]bool) types.Type {
	if typ == nil {
		return nil
	}
	switch t := typ.(type) {
	case types.Var:
		if visited[t.ID] {
			return t
		}
		if repl, ok := s[t.ID]; ok {
			if rv, ok := repl.(types.Var); ok && rv.ID == t.ID {
				return t
			}
			nv := copyVisited(visited)
			nv[t.ID] = true
			return applyVisited(s, repl, nv)
		}
		return t
	case types.KeywordType, types.Lit:
		return t
	case types.Lam:
		newParams := make([]types.Param, len(t.Params))
		for i, p := range t.Params {
			p.Type = applyVisited(s, p.Type, visited)
			newParams[i] = p
		}
		t.Params = newParams
		t.Return = applyVisited(s, t.Return, visited)
		return t
	case types.App:
		newArgs := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			newArgs[i] = applyVisited(s, a, visited)
		}
		t.Args = newArgs
		t.Return = applyVisited(s, t.Return, visited)
		return t
	case types.Object:
		newElems := make([]types.ObjElem, len(t.Elems))
		for i, e := range t.Elems {
			newElems[i] = applyObjElem(s, e, visited)
		}
		t.Elems = newElems
		return t
	case types.Tuple:
		newElems := make([]types.Type, len(t.Elements))
		for i, e := range t.Elements {
			newElems[i] = applyVisited(s, e, visited)
		}
		t.Elements = newElems
		return t
	case types.Array:
		t.Elem = applyVisited(s, t.Elem, visited)
		return t
	case types.Union:
		newTypes := make([]types.Type, len(t.Types))
		for i, m := range t.Types {
			newTypes[i] = applyVisited(s, m, visited)
		}
		return types.NormalizeUnion(newTypes)
	case types.Intersection:
		newTypes := make([]types.Type, len(t.Types))
		for i, m := range t.Types {
			newTypes[i] = applyVisited(s, m, visited)
		}
		return types.NormalizeIntersection(newTypes)
	case types.Ref:
		newArgs := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			newArgs[i] = applyVisited(s, a, visited)
		}
		t.Args = newArgs
		return t
	case types.Rest:
		t.Inner = applyVisited(s, t.Inner, visited)
		return t
	case types.KeyOf:
		t.Inner = applyVisited(s, t.Inner, visited)
		return t
	case types.IndexedAccess:
		t.Object = applyVisited(s, t.Object, visited)
		t.Key = applyVisited(s, t.Key, visited)
		return t
	case types.Generic:
		bound := map[int]bool{}
		for _, tp := range t.TypeParams {
			bound[tp.Fresh.ID] = true
		}
		filtered := make(Subst, len(s))
		for v, ty := range s {
			if !bound[v] {
				filtered[v] = ty
			}
		}
		t.Inner = applyVisited(filtered, t.Inner, visited)
		return t
	default:
		return typ
	}
}

func applyObjElem(s Subst, e types.ObjElem, visited map[int]bool) types.ObjElem {
	switch e.Kind {
	case types.ElemProp:
		e.PropType = applyVisited(s, e.PropType, visited)
	case types.ElemIndex:
		e.IndexKey.Type = applyVisited(s, e.IndexKey.Type, visited)
		e.PropType = applyVisited(s, e.PropType, visited)
	case types.ElemCall, types.ElemConstructor:
		newParams := make([]types.Param, len(e.Params))
		for i, p := range e.Params {
			p.Type = applyVisited(s, p.Type, visited)
			newParams[i] = p
		}
		e.Params = newParams
		e.Ret = applyVisited(s, e.Ret, visited)
	}
	return e
}

func copyVisited(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
