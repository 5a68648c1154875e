// Package infer implements spec §2 item 8 and §4.8-§4.9: AST-walking
// expression/statement/pattern inference built on top of this module's
// arena/subst/ctx/instantiate/unify/alias/member/diagnostic packages.
//
// Grounded on internal/analyzer/{expressions,statements,
// declarations_patterns,inference_calls}.go (teacher) for the walker
// shape — one function per AST node kind, threading a context and a
// running substitution — and on original_source/crates/escalier_hm/src/
// infer.rs (Rust) for the exact per-form rules spec §4.8/§4.9 summarize.
package infer

import (
	"fmt"

	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// typeEnv maps a declared-site type-parameter name to the fresh Var it
// was allocated as, so a TARef naming it inside the same declaration
// resolves to that Var rather than becoming an unresolved alias Ref.
type typeEnv map[string]types.Var

func (e typeEnv) child() typeEnv {
	out := make(typeEnv, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// buildTypeParams allocates one fresh Var per declared type parameter
// (its constraint built under the same, already-extended env to allow
// F-bounded forms, spec §4.2) and returns both the types.TypeParam list
// and the extended env callers should build the rest of the
// declaration's types under.
func buildTypeParams(c *ctx.Context, env typeEnv, decls []ast.TypeParamDecl) ([]types.TypeParam, typeEnv, error) {
	if len(decls) == 0 {
		return nil, env, nil
	}
	next := env.child()
	params := make([]types.TypeParam, len(decls))
	for i, d := range decls {
		v := c.Fresh(nil)
		next[d.Name] = v
		params[i] = types.TypeParam{Name: d.Name, Fresh: v}
	}
	for i, d := range decls {
		if d.Constraint != nil {
			ct, err := BuildType(c, next, d.Constraint)
			if err != nil {
				return nil, nil, err
			}
			params[i].Fresh.Constraint = ct
			params[i].Constraint = ct
			next[d.Name] = params[i].Fresh
		}
		if d.Default != nil {
			dt, err := BuildType(c, next, d.Default)
			if err != nil {
				return nil, nil, err
			}
			params[i].Default = dt
		}
	}
	return params, next, nil
}

// BuildType converts a parsed TypeAnnotation into a checker/types.Type,
// resolving bare names against env first (declared type parameters in
// scope) and falling back to an unresolved Ref (resolved later, lazily,
// during unification/alias expansion per spec §4.5) for anything else.
func BuildType(c *ctx.Context, env typeEnv, n *ast.TypeAnnotation) (types.Type, error) {
	if n == nil {
		return nil, fmt.Errorf("missing type annotation")
	}
	switch n.Kind {
	case ast.TAKeyword:
		kw, err := parseKeyword(n.Keyword)
		if err != nil {
			return nil, err
		}
		return types.KeywordType{Keyword: kw}, nil
	case ast.TALit:
		switch n.LitKind {
		case ast.LitNum:
			return types.Lit{Kind: types.LitNum, Num: n.Num}, nil
		case ast.LitStr:
			return types.Lit{Kind: types.LitStr, Str: n.Str}, nil
		case ast.LitBool:
			return types.Lit{Kind: types.LitBool, Bool: n.Bool}, nil
		}
		return nil, fmt.Errorf("unknown literal type kind")
	case ast.TARef:
		if len(n.Args) == 0 {
			if v, ok := env[n.Name]; ok {
				return v, nil
			}
		}
		args := make([]types.Type, len(n.Args))
		for i, a := range n.Args {
			t, err := BuildType(c, env, a)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return types.Ref{Name: n.Name, Args: args}, nil
	case ast.TALam:
		tps, bodyEnv, err := buildTypeParams(c, env, n.TypeParams)
		if err != nil {
			return nil, err
		}
		params, err := buildParamList(c, bodyEnv, n.Params)
		if err != nil {
			return nil, err
		}
		ret, err := BuildType(c, bodyEnv, n.Return)
		if err != nil {
			return nil, err
		}
		return types.Lam{Params: params, Return: ret, TypeParams: tps}, nil
	case ast.TAObject:
		elems := make([]types.ObjElem, len(n.Elems))
		for i, e := range n.Elems {
			elem, err := buildObjElem(c, env, e)
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return types.Object{Elems: elems}, nil
	case ast.TATuple:
		elements := make([]types.Type, len(n.Elements))
		for i, e := range n.Elements {
			t, err := BuildType(c, env, e)
			if err != nil {
				return nil, err
			}
			elements[i] = t
		}
		return types.Tuple{Elements: elements}, nil
	case ast.TAArray:
		elem, err := BuildType(c, env, n.Elem)
		if err != nil {
			return nil, err
		}
		return types.Array{Elem: elem}, nil
	case ast.TARest:
		inner, err := BuildType(c, env, n.Elem)
		if err != nil {
			return nil, err
		}
		return types.Rest{Inner: inner}, nil
	case ast.TAKeyOf:
		inner, err := BuildType(c, env, n.Elem)
		if err != nil {
			return nil, err
		}
		return types.KeyOf{Inner: inner}, nil
	case ast.TAIndexedAccess:
		obj, err := BuildType(c, env, n.Object)
		if err != nil {
			return nil, err
		}
		key, err := BuildType(c, env, n.Key)
		if err != nil {
			return nil, err
		}
		return types.IndexedAccess{Object: obj, Key: key}, nil
	case ast.TAUnion:
		members, err := buildTypeList(c, env, n.Members)
		if err != nil {
			return nil, err
		}
		return types.NormalizeUnion(members), nil
	case ast.TAIntersection:
		members, err := buildTypeList(c, env, n.Members)
		if err != nil {
			return nil, err
		}
		return types.NormalizeIntersection(members), nil
	}
	return nil, fmt.Errorf("unknown type annotation kind")
}

func buildTypeList(c *ctx.Context, env typeEnv, ns []*ast.TypeAnnotation) ([]types.Type, error) {
	out := make([]types.Type, len(ns))
	for i, n := range ns {
		t, err := BuildType(c, env, n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func buildParamList(c *ctx.Context, env typeEnv, ps []ast.ParamDecl) ([]types.Param, error) {
	out := make([]types.Param, len(ps))
	for i, p := range ps {
		var t types.Type
		var err error
		if p.Type != nil {
			t, err = BuildType(c, env, p.Type)
			if err != nil {
				return nil, err
			}
		} else {
			t = c.Fresh(nil)
		}
		out[i] = types.Param{
			Name:     patternDisplayName(p.Pattern),
			Type:     t,
			Optional: p.Optional,
			Mutable:  p.Mutable,
			Rest:     p.Rest,
		}
	}
	return out, nil
}

func buildObjElem(c *ctx.Context, env typeEnv, e ast.ObjElemAnnotation) (types.ObjElem, error) {
	switch e.Kind {
	case ast.OAProp:
		t, err := BuildType(c, env, e.Type)
		if err != nil {
			return types.ObjElem{}, err
		}
		return types.ObjElem{Kind: types.ElemProp, Name: e.Name, Optional: e.Optional, Mutable: e.Mutable, PropType: t}, nil
	case ast.OAIndex:
		keyType, err := BuildType(c, env, e.IndexType)
		if err != nil {
			return types.ObjElem{}, err
		}
		valType, err := BuildType(c, env, e.Type)
		if err != nil {
			return types.ObjElem{}, err
		}
		return types.ObjElem{
			Kind:     types.ElemIndex,
			IndexKey: types.Param{Name: e.IndexKey, Type: keyType},
			Mutable:  e.Mutable,
			PropType: valType,
		}, nil
	case ast.OACall, ast.OAConstructor:
		tps, bodyEnv, err := buildTypeParams(c, env, e.TypeParams)
		if err != nil {
			return types.ObjElem{}, err
		}
		params, err := buildParamList(c, bodyEnv, e.Params)
		if err != nil {
			return types.ObjElem{}, err
		}
		ret, err := BuildType(c, bodyEnv, e.Return)
		if err != nil {
			return types.ObjElem{}, err
		}
		kind := types.ElemCall
		if e.Kind == ast.OAConstructor {
			kind = types.ElemConstructor
		}
		return types.ObjElem{Kind: kind, Params: params, Ret: ret, TypeParams: tps}, nil
	}
	return types.ObjElem{}, fmt.Errorf("unknown object element annotation kind")
}

func patternDisplayName(p ast.Pattern) string {
	if id, ok := p.(*ast.IdentPattern); ok {
		return id.Name
	}
	return ""
}

func parseKeyword(v string) (types.Keyword, error) {
	switch v {
	case "number":
		return types.Number, nil
	case "string":
		return types.String, nil
	case "boolean":
		return types.Boolean, nil
	case "symbol":
		return types.Symbol, nil
	case "null":
		return types.Null, nil
	case "undefined":
		return types.Undefined, nil
	case "never":
		return types.Never, nil
	}
	return "", fmt.Errorf("unknown keyword type %q", v)
}
