// Package types implements the Type data model described in spec §3:
// a hash-free, arena-backed sum of Var/Keyword/Lit/Lam/App/Object/Tuple/
// Array/Union/Intersection/Ref/Rest/KeyOf/IndexedAccess/Generic.
//
// Grounded on internal/typesystem/types.go (teacher) for the Go-interface
// shape and on original_source/crates/crochet_infer/src/types/type.rs
// for the exact variant list.
package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/funvibe/funxy-typecheck/internal/checker/config"
)

// Type is the interface every type-model variant implements.
type Type interface {
	String() string
	FreeTypeVariables() []Var
}

// Var is a type variable, identified by a stable numeric id.
type Var struct {
	ID         int
	Constraint Type // optional; nil if unconstrained
}

func (v Var) String() string {
	if config.NormalizeVarNames {
		return "t?"
	}
	return "t" + strconv.Itoa(v.ID)
}

func (v Var) FreeTypeVariables() []Var { return []Var{v} }

// Keyword is one of the built-in primitive keyword types.
type Keyword string

const (
	Number    Keyword = "number"
	String    Keyword = "string"
	Boolean   Keyword = "boolean"
	Symbol    Keyword = "symbol"
	Null      Keyword = "null"
	Undefined Keyword = "undefined"
	Never     Keyword = "never"
)

type KeywordType struct{ Keyword Keyword }

func (k KeywordType) String() string                { return string(k.Keyword) }
func (k KeywordType) FreeTypeVariables() []Var       { return nil }

// LitKind distinguishes the three literal singleton kinds.
type LitKind int

const (
	LitNum LitKind = iota
	LitStr
	LitBool
)

// Lit is a singleton literal type (e.g. the type of the value 5).
type Lit struct {
	Kind LitKind
	Num  string
	Str  string
	Bool bool
}

func (l Lit) String() string {
	switch l.Kind {
	case LitNum:
		return l.Num
	case LitStr:
		return strconv.Quote(l.Str)
	case LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	default:
		return "?lit"
	}
}

func (l Lit) FreeTypeVariables() []Var { return nil }

// MatchesKeyword reports whether this literal is a subtype of kw (rule 2, §4.3).
func (l Lit) MatchesKeyword(kw Keyword) bool {
	switch l.Kind {
	case LitNum:
		return kw == Number
	case LitStr:
		return kw == String
	case LitBool:
		return kw == Boolean
	}
	return false
}

// Param is a single function parameter: a pattern slot, its type, and
// optional/mutable flags (§3). The checker only needs the declared type
// here; the pattern itself is bound during inference (see infer package).
type Param struct {
	Name     string // empty for a bare rest/positional slot
	Type     Type
	Optional bool
	Mutable  bool
	Rest     bool // true if this is the trailing Rest parameter
}

func (p Param) String() string {
	var b strings.Builder
	if p.Rest {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteString("?")
	}
	b.WriteString(": ")
	b.WriteString(p.Type.String())
	return b.String()
}

func (p Param) FreeTypeVariables() []Var { return p.Type.FreeTypeVariables() }

// Lam is a function type.
type Lam struct {
	Params      []Param
	Return      Type
	TypeParams  []TypeParam // nil unless this Lam is polymorphic on its own (rare; schemes normally wrap via Generic)
}

func (l Lam) String() string {
	parts := make([]string, len(l.Params))
	for i, p := range l.Params {
		parts[i] = p.String()
	}
	prefix := ""
	if len(l.TypeParams) > 0 {
		tp := make([]string, len(l.TypeParams))
		for i, t := range l.TypeParams {
			tp[i] = t.String()
		}
		prefix = "<" + strings.Join(tp, ", ") + ">"
	}
	return fmt.Sprintf("%s(%s) => %s", prefix, strings.Join(parts, ", "), l.Return.String())
}

func (l Lam) FreeTypeVariables() []Var {
	var out []Var
	bound := map[int]bool{}
	for _, tp := range l.TypeParams {
		bound[tp.Fresh.ID] = true
	}
	for _, p := range l.Params {
		out = append(out, filterBound(p.FreeTypeVariables(), bound)...)
	}
	out = append(out, filterBound(l.Return.FreeTypeVariables(), bound)...)
	return out
}

func filterBound(vs []Var, bound map[int]bool) []Var {
	if len(bound) == 0 {
		return vs
	}
	out := vs[:0:0]
	for _, v := range vs {
		if !bound[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

// App is a call-site applied type: "these argument types, applied, must
// produce this return type". It only ever appears as an operand of
// Unify; it is never part of a user-facing declared type.
type App struct {
	Args     []Type
	Return   Type
	TypeArgs []Type // optional explicit type arguments at the call site
}

func (a App) String() string {
	parts := make([]string, len(a.Args))
	for i, t := range a.Args {
		parts[i] = t.String()
	}
	return fmt.Sprintf("call(%s) -> %s", strings.Join(parts, ", "), a.Return.String())
}

func (a App) FreeTypeVariables() []Var {
	var out []Var
	for _, t := range a.Args {
		out = append(out, t.FreeTypeVariables()...)
	}
	out = append(out, a.Return.FreeTypeVariables()...)
	return out
}

// ObjElemKind discriminates the four ObjElem shapes.
type ObjElemKind int

const (
	ElemProp ObjElemKind = iota
	ElemIndex
	ElemCall
	ElemConstructor
)

// ObjElem is one member of an Object type.
type ObjElem struct {
	Kind ObjElemKind

	// Prop
	Name     string
	Optional bool
	Mutable  bool
	PropType Type

	// Index
	IndexKey Param // Param.Type is the key type

	// Call / Constructor
	Params     []Param
	Ret        Type
	TypeParams []TypeParam
}

func (e ObjElem) String() string {
	switch e.Kind {
	case ElemProp:
		opt := ""
		if e.Optional {
			opt = "?"
		}
		return fmt.Sprintf("%s%s: %s", e.Name, opt, e.PropType.String())
	case ElemIndex:
		return fmt.Sprintf("[%s: %s]: %s", e.IndexKey.Name, e.IndexKey.Type.String(), e.PropType.String())
	case ElemCall:
		return lamString("", e.Params, e.Ret, e.TypeParams)
	case ElemConstructor:
		return "new " + lamString("", e.Params, e.Ret, e.TypeParams)
	}
	return "?elem"
}

func lamString(name string, params []Param, ret Type, tps []TypeParam) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	prefix := name
	if len(tps) > 0 {
		tp := make([]string, len(tps))
		for i, t := range tps {
			tp[i] = t.String()
		}
		prefix += "<" + strings.Join(tp, ", ") + ">"
	}
	return fmt.Sprintf("%s(%s) => %s", prefix, strings.Join(parts, ", "), ret.String())
}

func (e ObjElem) FreeTypeVariables() []Var {
	switch e.Kind {
	case ElemProp:
		return e.PropType.FreeTypeVariables()
	case ElemIndex:
		out := append([]Var{}, e.IndexKey.Type.FreeTypeVariables()...)
		return append(out, e.PropType.FreeTypeVariables()...)
	case ElemCall, ElemConstructor:
		var out []Var
		for _, p := range e.Params {
			out = append(out, p.FreeTypeVariables()...)
		}
		return append(out, e.Ret.FreeTypeVariables()...)
	}
	return nil
}

// AsLam converts a Call/Constructor ObjElem into a plain Lam (§4.3 rule 6),
// wrapping it in Generic when it carries type parameters.
func (e ObjElem) AsLam() Type {
	var lam Type = Lam{Params: e.Params, Return: e.Ret}
	if len(e.TypeParams) > 0 {
		lam = Generic{Inner: lam, TypeParams: e.TypeParams}
	}
	return lam
}

// Object is a structural object type.
type Object struct {
	Elems []ObjElem
}

func (o Object) String() string {
	parts := make([]string, len(o.Elems))
	for i, e := range o.Elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (o Object) FreeTypeVariables() []Var {
	var out []Var
	for _, e := range o.Elems {
		out = append(out, e.FreeTypeVariables()...)
	}
	return out
}

// Tuple is a finite, positionally-indexable sequence of types. At most
// one element may be a Rest (invariant, §3).
type Tuple struct {
	Elements []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (t Tuple) FreeTypeVariables() []Var {
	var out []Var
	for _, e := range t.Elements {
		out = append(out, e.FreeTypeVariables()...)
	}
	return out
}

// Array is a homogeneous, number-indexable sequence.
type Array struct {
	Elem Type
}

func (a Array) String() string                { return a.Elem.String() + "[]" }
func (a Array) FreeTypeVariables() []Var       { return a.Elem.FreeTypeVariables() }

// Union is a canonicalized set of ≥2 alternative types.
type Union struct {
	Types []Type
}

func (u Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}

func (u Union) FreeTypeVariables() []Var {
	var out []Var
	for _, t := range u.Types {
		out = append(out, t.FreeTypeVariables()...)
	}
	return out
}

// Intersection is a canonicalized set of ≥2 member types.
type Intersection struct {
	Types []Type
}

func (i Intersection) String() string {
	parts := make([]string, len(i.Types))
	for idx, t := range i.Types {
		parts[idx] = t.String()
	}
	return strings.Join(parts, " & ")
}

func (i Intersection) FreeTypeVariables() []Var {
	var out []Var
	for _, t := range i.Types {
		out = append(out, t.FreeTypeVariables()...)
	}
	return out
}

// Ref is a named reference to an alias (or a built-in keyword name not
// otherwise constructed directly), resolved lazily via the scheme table.
type Ref struct {
	Name string
	Args []Type
}

func (r Ref) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		parts[i] = a.String()
	}
	return r.Name + "<" + strings.Join(parts, ", ") + ">"
}

func (r Ref) FreeTypeVariables() []Var {
	var out []Var
	for _, a := range r.Args {
		out = append(out, a.FreeTypeVariables()...)
	}
	return out
}

// InternalPrefix marks built-in alias constructors (§6). User aliases
// may not start with it.
const InternalPrefix = "@@"

// Rest is the spread marker, legal only as the final tuple element or
// final parameter.
type Rest struct {
	Inner Type
}

func (r Rest) String() string          { return "..." + r.Inner.String() }
func (r Rest) FreeTypeVariables() []Var { return r.Inner.FreeTypeVariables() }

// KeyOf is a deferred `keyof T` computation, expanded on demand (§4.6).
type KeyOf struct {
	Inner Type
}

func (k KeyOf) String() string          { return "keyof " + k.Inner.String() }
func (k KeyOf) FreeTypeVariables() []Var { return k.Inner.FreeTypeVariables() }

// IndexedAccess is a deferred `T[K]` computation (§4.6).
type IndexedAccess struct {
	Object Type
	Key    Type
}

func (i IndexedAccess) String() string {
	return fmt.Sprintf("%s[%s]", i.Object.String(), i.Key.String())
}

func (i IndexedAccess) FreeTypeVariables() []Var {
	return append(append([]Var{}, i.Object.FreeTypeVariables()...), i.Key.FreeTypeVariables()...)
}

// TypeParam is a scheme-bound type parameter, carrying an optional
// constraint and default, and (once instantiated) the fresh Var it maps to.
type TypeParam struct {
	Name       string
	Constraint Type // optional
	Default    Type // optional
	Fresh      Var  // filled in during instantiation
}

func (t TypeParam) String() string {
	s := t.Name
	if t.Constraint != nil {
		s += " extends " + t.Constraint.String()
	}
	if t.Default != nil {
		s += " = " + t.Default.String()
	}
	return s
}

// Generic wraps a Lam with its own type-parameter list. It only ever
// appears embedded inside an ObjElem (Call/Constructor), never at the
// top of a user-facing type (§3 invariant).
type Generic struct {
	Inner      Type
	TypeParams []TypeParam
}

func (g Generic) String() string {
	tp := make([]string, len(g.TypeParams))
	for i, t := range g.TypeParams {
		tp[i] = t.String()
	}
	return "<" + strings.Join(tp, ", ") + ">" + g.Inner.String()
}

func (g Generic) FreeTypeVariables() []Var {
	bound := map[int]bool{}
	for _, tp := range g.TypeParams {
		bound[tp.Fresh.ID] = true
	}
	return filterBound(g.Inner.FreeTypeVariables(), bound)
}

// NormalizeUnion builds a canonicalized Union: members flattened (a
// Union never contains another Union directly, §3 invariant),
// deduplicated, and stably ordered.
func NormalizeUnion(members []Type) Type {
	flat := flattenUnion(members)
	flat = dedupeTypes(flat)
	if len(flat) == 0 {
		return KeywordType{Keyword: Never}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sortTypes(flat)
	return Union{Types: flat}
}

func flattenUnion(members []Type) []Type {
	var out []Type
	for _, m := range members {
		if u, ok := m.(Union); ok {
			out = append(out, flattenUnion(u.Types)...)
		} else {
			out = append(out, m)
		}
	}
	return out
}

// NormalizeIntersection builds a canonicalized Intersection analogously.
func NormalizeIntersection(members []Type) Type {
	var flat []Type
	for _, m := range members {
		if i, ok := m.(Intersection); ok {
			flat = append(flat, i.Types...)
		} else {
			flat = append(flat, m)
		}
	}
	flat = dedupeTypes(flat)
	if len(flat) == 0 {
		return KeywordType{Keyword: Never}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sortTypes(flat)
	return Intersection{Types: flat}
}

func dedupeTypes(types []Type) []Type {
	seen := map[string]bool{}
	var out []Type
	for _, t := range types {
		key := t.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// sortTypes orders members by Var-id then structural string (§3: "stable
// ordering (by Var-id then structural hash)").
func sortTypes(types []Type) {
	sort.SliceStable(types, func(i, j int) bool {
		vi, iv := types[i].(Var)
		vj, jv := types[j].(Var)
		if iv && jv {
			return vi.ID < vj.ID
		}
		if iv != jv {
			return iv // vars sort before non-vars
		}
		return types[i].String() < types[j].String()
	})
}
