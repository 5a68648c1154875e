// Package member implements property/member access (spec §4.7) and
// the T[K] computed-member half of §4.6 (keyof's Object case lives in
// the unify package, next to ExpandKeyOf, since it is purely
// structural and needs no l-value reasoning).
//
// Grounded on original_source/crates/escalier_hm/src/util.rs's
// get_prop/get_computed_member, which specify this far more precisely
// than spec.md's prose — in particular the "single indexer" diagnostic,
// the optional-property-adds-undefined behavior, and the exact tuple/
// union/alias dispatch order. Go shape (Resolver-based alias expansion,
// Context-based fresh vars) follows this module's own alias/unify/ctx
// packages rather than the Rust arena-index style.
package member

import (
	"fmt"

	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
	"github.com/funvibe/funxy-typecheck/internal/checker/unify"
)

// Resolver is the subset of alias.Table that member access needs:
// structural Ref expansion (shared with unify.Resolver) plus looking
// up the Array<T> scheme by name to delegate array method/property
// lookups (§4.7 "Array + name: expand to Array<elemT> ... and retry").
type Resolver interface {
	unify.Resolver
}

var undefinedT types.Type = types.KeywordType{Keyword: types.Undefined}

// Get resolves obj[key] (or obj.key when key is a string literal) for
// read access, per §4.7.
func Get(obj, key types.Type, r Resolver) (types.Type, error) {
	obj = unify.ResolveToStructural(obj, r)

	switch o := obj.(type) {
	case types.Object:
		return getObjectProp(o, key, r)
	case types.Tuple:
		return getTupleProp(o, key, r)
	case types.Array:
		arrayIface, ok := r.ResolveRef(types.Ref{Name: "Array", Args: []types.Type{o.Elem}})
		if !ok {
			return nil, fmt.Errorf("no Array interface registered to resolve member access on %s", o.String())
		}
		return Get(arrayIface, key, r)
	case types.Var:
		if o.Constraint != nil {
			return Get(o.Constraint, key, r)
		}
		return nil, fmt.Errorf("possibly not an object: %s", o.String())
	case types.Intersection:
		var lastErr error
		for _, m := range o.Types {
			if t, err := Get(m, key, r); err == nil {
				return t, nil
			} else {
				lastErr = err
			}
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("possibly not an object: %s", obj.String())
		}
		return nil, lastErr
	}
	return nil, fmt.Errorf("possibly not an object: %s", obj.String())
}

func getObjectProp(o types.Object, key types.Type, r Resolver) (types.Type, error) {
	switch k := key.(type) {
	case types.KeywordType:
		if k.Keyword != types.Number && k.Keyword != types.String && k.Keyword != types.Symbol {
			return nil, fmt.Errorf("%s is not a valid key", k.String())
		}
		var indexer *types.ObjElem
		var values []types.Type
		for i := range o.Elems {
			e := o.Elems[i]
			switch e.Kind {
			case types.ElemProp:
				values = append(values, propType(e))
			case types.ElemCall, types.ElemConstructor:
				values = append(values, e.AsLam())
			case types.ElemIndex:
				if indexer != nil {
					return nil, fmt.Errorf("object types can only have a single indexer")
				}
				indexer = &o.Elems[i]
			}
		}
		if indexer != nil {
			if _, err := unify.Unify(k, indexer.IndexKey.Type, r); err == nil {
				return types.NormalizeUnion([]types.Type{indexer.PropType, undefinedT}), nil
			}
			return nil, fmt.Errorf("%s is not a valid indexer for %s", k.String(), o.String())
		}
		if len(values) > 0 {
			return types.NormalizeUnion(append(values, undefinedT)), nil
		}
		return nil, fmt.Errorf("%s has no indexer", o.String())

	case types.Lit:
		if k.Kind == types.LitStr {
			var indexer *types.ObjElem
			for i := range o.Elems {
				e := o.Elems[i]
				if e.Kind == types.ElemProp && e.Name == k.Str {
					return propType(e), nil
				}
				if e.Kind == types.ElemIndex {
					if indexer != nil {
						return nil, fmt.Errorf("object types can only have a single indexer")
					}
					indexer = &o.Elems[i]
				}
			}
			if indexer != nil {
				if _, err := unify.Unify(k, indexer.IndexKey.Type, r); err == nil {
					return types.NormalizeUnion([]types.Type{indexer.PropType, undefinedT}), nil
				}
				return nil, fmt.Errorf("couldn't find property %q in object", k.Str)
			}
			return nil, fmt.Errorf("couldn't find property %q on object", k.Str)
		}
		if k.Kind == types.LitNum {
			// numeric-named members are not considered unless explicitly
			// modeled (§4.7): only the indexer is consulted.
			var indexer *types.ObjElem
			for i := range o.Elems {
				if o.Elems[i].Kind == types.ElemIndex {
					if indexer != nil {
						return nil, fmt.Errorf("object types can only have a single indexer")
					}
					indexer = &o.Elems[i]
				}
			}
			if indexer != nil {
				if _, err := unify.Unify(k, indexer.IndexKey.Type, r); err == nil {
					return types.NormalizeUnion([]types.Type{indexer.PropType, undefinedT}), nil
				}
				return nil, fmt.Errorf("couldn't find property %s in object", k.Num)
			}
			return nil, fmt.Errorf("couldn't find property %s on object", k.Num)
		}
	}
	return nil, fmt.Errorf("%s is not a valid key", key.String())
}

func propType(e types.ObjElem) types.Type {
	if e.Optional {
		return types.NormalizeUnion([]types.Type{e.PropType, undefinedT})
	}
	return e.PropType
}

func getTupleProp(t types.Tuple, key types.Type, r Resolver) (types.Type, error) {
	switch k := key.(type) {
	case types.Lit:
		if k.Kind == types.LitNum {
			idx, ok := parseIndex(k.Num)
			if !ok || idx < 0 || idx >= len(t.Elements) {
				return nil, fmt.Errorf("index %s is outside the bounds 0..%d of the tuple", k.Num, len(t.Elements))
			}
			return t.Elements[idx], nil
		}
		if k.Kind == types.LitStr {
			if k.Str == "length" {
				return types.Lit{Kind: types.LitNum, Num: fmt.Sprintf("%d", len(t.Elements))}, nil
			}
			arrayIface, ok := r.ResolveRef(types.Ref{Name: "Array", Args: []types.Type{types.NormalizeUnion(append([]types.Type{}, t.Elements...))}})
			if !ok {
				return nil, fmt.Errorf("no Array interface registered to resolve tuple member access")
			}
			return Get(arrayIface, key, r)
		}
	case types.KeywordType:
		if k.Keyword == types.Number {
			return types.NormalizeUnion(append(append([]types.Type{}, t.Elements...), undefinedT)), nil
		}
	}
	return nil, fmt.Errorf("can only access tuple properties with a number")
}

func parseIndex(num string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(num, "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// GetComputed implements the T[K] half of §4.6, expanding both operands
// and dispatching on T: Object delegates to Get; Tuple handles the
// literal/number/string-via-Array cases; Union distributes and adds
// undefined once if any branch fails; Ref resolves and retries.
func GetComputed(c *ctx.Context, obj, key types.Type, r Resolver) (types.Type, error) {
	obj = unify.ResolveToStructural(obj, r)
	key = unify.ResolveToStructural(key, r)

	switch o := obj.(type) {
	case types.Object:
		return Get(o, key, r)
	case types.Tuple:
		return getTupleProp(o, key, r)
	case types.Union:
		var results []types.Type
		failures := 0
		for _, m := range o.Types {
			if t, err := GetComputed(c, m, key, r); err == nil {
				results = append(results, t)
			} else {
				failures++
			}
		}
		if failures == len(o.Types) {
			return nil, fmt.Errorf("couldn't find property on object")
		}
		if failures > 0 {
			results = append(results, undefinedT)
		}
		return types.NormalizeUnion(results), nil
	}
	return nil, fmt.Errorf("can only access properties on objects/tuples")
}
