// Package prelude loads a caller-supplied seed of schemes (Array<T>,
// Promise<T>, JSXElement, RegExp<P, F>, ...) into a scheme table
// (spec §6: "The prelude is supplied by the caller; the core does not
// embed it").
//
// Grounded on internal/analyzer/builtins.go's registerBuiltinsToPrelude
// (teacher): a flat list of named constants/constructors fed into the
// prelude SymbolTable at startup. This module replaces the teacher's
// Go-literal registration calls with a declarative YAML document
// (gopkg.in/yaml.v3), since this spec's prelude is caller-supplied
// configuration rather than a fixed built-in set baked into the
// checker binary — the YAML document is this module's domain-stack
// slot for yaml.v3 (see SPEC_FULL.md Part C).
package prelude

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/funxy-typecheck/internal/checker/alias"
	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// Document is the top-level shape of a prelude YAML file: a flat list
// of scheme declarations.
type Document struct {
	Schemes []SchemeDecl `yaml:"schemes"`
}

// SchemeDecl is one named scheme, its type-parameter names (each
// becomes a fresh Var via the owning Context when the document is
// loaded), and its underlying type tree.
type SchemeDecl struct {
	Name       string     `yaml:"name"`
	TypeParams []string   `yaml:"typeParams"`
	Type       *TypeNode  `yaml:"type"`
}

// TypeNode is a tagged union mirroring types.Type, shaped for YAML
// decoding: each variant only sets the fields it needs. Kind selects
// which fields are meaningful.
type TypeNode struct {
	Kind string `yaml:"kind"`

	// keyword
	Value string `yaml:"value"`

	// lit
	LitKind string `yaml:"litKind"`
	Num     string `yaml:"num"`
	Str     string `yaml:"str"`
	Bool    bool   `yaml:"bool"`

	// ref / var (a type-parameter reference by name)
	Name string      `yaml:"name"`
	Args []*TypeNode `yaml:"args"`

	// lam / call / constructor
	Params []ParamNode `yaml:"params"`
	Return *TypeNode   `yaml:"return"`

	// object
	Elems []ElemNode `yaml:"elems"`

	// tuple
	Elements []*TypeNode `yaml:"elements"`

	// array / rest
	Elem *TypeNode `yaml:"elem"`

	// union / intersection
	Types []*TypeNode `yaml:"types"`
}

type ParamNode struct {
	Name     string    `yaml:"name"`
	Type     *TypeNode `yaml:"type"`
	Optional bool      `yaml:"optional"`
	Mutable  bool      `yaml:"mutable"`
	Rest     bool      `yaml:"rest"`
}

type ElemNode struct {
	Kind       string      `yaml:"kind"` // prop | index | call | constructor
	Name       string      `yaml:"name"`
	Optional   bool        `yaml:"optional"`
	Mutable    bool        `yaml:"mutable"`
	Type       *TypeNode   `yaml:"type"`
	Key        ParamNode   `yaml:"key"`
	TypeParams []string    `yaml:"typeParams"`
	Params     []ParamNode `yaml:"params"`
	Return     *TypeNode   `yaml:"return"`
}

// Load parses doc's YAML bytes and defines every scheme it declares in
// t, using c to allocate the fresh type-parameter variables each
// scheme's body refers to by name.
func Load(c *ctx.Context, t *alias.Table, doc []byte) error {
	var d Document
	if err := yaml.Unmarshal(doc, &d); err != nil {
		return fmt.Errorf("prelude: %w", err)
	}
	for _, decl := range d.Schemes {
		sch, err := buildScheme(c, decl)
		if err != nil {
			return fmt.Errorf("prelude: scheme %q: %w", decl.Name, err)
		}
		if _, redefined := t.Define(decl.Name, sch); redefined {
			return fmt.Errorf("prelude: scheme %q redefined", decl.Name)
		}
	}
	return nil
}

func buildScheme(c *ctx.Context, decl SchemeDecl) (ctx.Scheme, error) {
	env := map[string]types.Var{}
	params := make([]types.TypeParam, len(decl.TypeParams))
	for i, name := range decl.TypeParams {
		v := c.Fresh(nil)
		env[name] = v
		params[i] = types.TypeParam{Name: name, Fresh: v}
	}
	body, err := buildType(c, decl.Type, env)
	if err != nil {
		return ctx.Scheme{}, err
	}
	return ctx.Scheme{TypeParams: params, Type: body}, nil
}

func buildType(c *ctx.Context, n *TypeNode, env map[string]types.Var) (types.Type, error) {
	if n == nil {
		return nil, fmt.Errorf("missing type node")
	}
	switch n.Kind {
	case "keyword":
		kw, err := parseKeyword(n.Value)
		if err != nil {
			return nil, err
		}
		return types.KeywordType{Keyword: kw}, nil
	case "lit":
		switch n.LitKind {
		case "num":
			return types.Lit{Kind: types.LitNum, Num: n.Num}, nil
		case "str":
			return types.Lit{Kind: types.LitStr, Str: n.Str}, nil
		case "bool":
			return types.Lit{Kind: types.LitBool, Bool: n.Bool}, nil
		}
		return nil, fmt.Errorf("unknown lit kind %q", n.LitKind)
	case "var":
		v, ok := env[n.Name]
		if !ok {
			return nil, fmt.Errorf("unbound type parameter %q", n.Name)
		}
		return v, nil
	case "ref":
		args := make([]types.Type, len(n.Args))
		for i, a := range n.Args {
			t, err := buildType(c, a, env)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return types.Ref{Name: n.Name, Args: args}, nil
	case "lam":
		params, err := buildParams(c, n.Params, env)
		if err != nil {
			return nil, err
		}
		ret, err := buildType(c, n.Return, env)
		if err != nil {
			return nil, err
		}
		return types.Lam{Params: params, Return: ret}, nil
	case "object":
		elems := make([]types.ObjElem, len(n.Elems))
		for i, e := range n.Elems {
			elem, err := buildElem(c, e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return types.Object{Elems: elems}, nil
	case "tuple":
		elements := make([]types.Type, len(n.Elements))
		for i, e := range n.Elements {
			t, err := buildType(c, e, env)
			if err != nil {
				return nil, err
			}
			elements[i] = t
		}
		return types.Tuple{Elements: elements}, nil
	case "array":
		elem, err := buildType(c, n.Elem, env)
		if err != nil {
			return nil, err
		}
		return types.Array{Elem: elem}, nil
	case "rest":
		inner, err := buildType(c, n.Elem, env)
		if err != nil {
			return nil, err
		}
		return types.Rest{Inner: inner}, nil
	case "union":
		members, err := buildTypes(c, n.Types, env)
		if err != nil {
			return nil, err
		}
		return types.NormalizeUnion(members), nil
	case "intersection":
		members, err := buildTypes(c, n.Types, env)
		if err != nil {
			return nil, err
		}
		return types.NormalizeIntersection(members), nil
	}
	return nil, fmt.Errorf("unknown type node kind %q", n.Kind)
}

func buildTypes(c *ctx.Context, ns []*TypeNode, env map[string]types.Var) ([]types.Type, error) {
	out := make([]types.Type, len(ns))
	for i, n := range ns {
		t, err := buildType(c, n, env)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func buildParams(c *ctx.Context, ns []ParamNode, env map[string]types.Var) ([]types.Param, error) {
	out := make([]types.Param, len(ns))
	for i, p := range ns {
		t, err := buildType(c, p.Type, env)
		if err != nil {
			return nil, err
		}
		out[i] = types.Param{Name: p.Name, Type: t, Optional: p.Optional, Mutable: p.Mutable, Rest: p.Rest}
	}
	return out, nil
}

func buildElem(c *ctx.Context, e ElemNode, env map[string]types.Var) (types.ObjElem, error) {
	switch e.Kind {
	case "prop":
		t, err := buildType(c, e.Type, env)
		if err != nil {
			return types.ObjElem{}, err
		}
		return types.ObjElem{Kind: types.ElemProp, Name: e.Name, Optional: e.Optional, Mutable: e.Mutable, PropType: t}, nil
	case "index":
		keyType, err := buildType(c, e.Key.Type, env)
		if err != nil {
			return types.ObjElem{}, err
		}
		valType, err := buildType(c, e.Type, env)
		if err != nil {
			return types.ObjElem{}, err
		}
		return types.ObjElem{
			Kind:     types.ElemIndex,
			IndexKey: types.Param{Name: e.Key.Name, Type: keyType},
			PropType: valType,
		}, nil
	case "call", "constructor":
		localEnv := env
		var typeParams []types.TypeParam
		if len(e.TypeParams) > 0 {
			localEnv = make(map[string]types.Var, len(env)+len(e.TypeParams))
			for k, v := range env {
				localEnv[k] = v
			}
			typeParams = make([]types.TypeParam, len(e.TypeParams))
			for i, name := range e.TypeParams {
				v := c.Fresh(nil)
				localEnv[name] = v
				typeParams[i] = types.TypeParam{Name: name, Fresh: v}
			}
		}
		params, err := buildParams(c, e.Params, localEnv)
		if err != nil {
			return types.ObjElem{}, err
		}
		ret, err := buildType(c, e.Return, localEnv)
		if err != nil {
			return types.ObjElem{}, err
		}
		kind := types.ElemCall
		if e.Kind == "constructor" {
			kind = types.ElemConstructor
		}
		return types.ObjElem{Kind: kind, Params: params, Ret: ret, TypeParams: typeParams}, nil
	}
	return types.ObjElem{}, fmt.Errorf("unknown object element kind %q", e.Kind)
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
	return "", fmt.Errorf("unknown keyword %q", v)
}

// Default is a minimal built-in prelude covering the names §6 and §9
// reference directly (Array<T>, Promise<T>). Callers needing
// JSXElement/RegExp<P,F> or project-specific aliases supply their own
// document; this one exists so a bare Context can still resolve the
// handful of names the core's own rules (tuple keyof, `T[]` member
// access) depend on.
const Default = `
schemes:
  - name: Array
    typeParams: [T]
    type:
      kind: object
      elems:
        - kind: prop
          name: length
          type: {kind: keyword, value: number}
        - kind: index
          key: {name: i, type: {kind: keyword, value: number}}
          type: {kind: var, name: T}
        - kind: call
          name: push
          params:
            - {name: item, type: {kind: var, name: T}, rest: true}
          return: {kind: keyword, value: number}
        - kind: call
          name: map
          typeParams: [U]
          params:
            - name: fn
              type:
                kind: lam
                params:
                  - {name: item, type: {kind: var, name: T}}
                return: {kind: var, name: U}
          return: {kind: array, elem: {kind: var, name: U}}
  - name: Promise
    typeParams: [T]
    type:
      kind: object
      elems:
        - kind: call
          name: then
          params:
            - name: onFulfilled
              type:
                kind: lam
                params:
                  - {name: value, type: {kind: var, name: T}}
                return: {kind: var, name: T}
          return: {kind: ref, name: Promise, args: [{kind: var, name: T}]}
`
