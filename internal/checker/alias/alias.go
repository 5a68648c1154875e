// Package alias implements named-reference resolution (spec §4.5): a
// scheme table keyed by alias name, arity-checked against a Ref's type
// arguments, with built-in keyword names self-resolving when absent
// from the table.
//
// Grounded on internal/symbols (teacher): SymbolTable.DefineType/
// types map is the same "name -> Type" scheme table shape, and
// FindWithScope's outer-chain walk is mirrored here by a flat map
// since aliases in this spec are always module/global scope (no
// block-scoped type aliases), simplifying the teacher's scope chain
// to the one level the spec actually needs.
package alias

import (
	"fmt"

	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/instantiate"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
	"github.com/funvibe/funxy-typecheck/internal/checker/unify"
	"github.com/funvibe/funxy-typecheck/internal/checker/subst"
)

var builtinKeywords = map[string]types.Keyword{
	"number":    types.Number,
	"string":    types.String,
	"boolean":   types.Boolean,
	"symbol":    types.Symbol,
	"null":      types.Null,
	"undefined": types.Undefined,
	"never":     types.Never,
}

// Table is a scheme table: alias name -> Scheme. It implements
// unify.Resolver, so it is handed directly to Unify/ExpandKeyOf.
type Table struct {
	c       *ctx.Context
	schemes map[string]ctx.Scheme
}

func NewTable(c *ctx.Context) *Table {
	return &Table{c: c, schemes: map[string]ctx.Scheme{}}
}

// Define registers a scheme under name. Redefining an existing,
// different name is legal (shadowing in a nested scope is handled by
// the caller opening a new Table); redefining the same name in this
// same table is an AliasRedefinition, reported by the caller since
// only it has the position to attach.
func (t *Table) Define(name string, sch ctx.Scheme) (previous ctx.Scheme, redefined bool) {
	previous, redefined = t.schemes[name]
	t.schemes[name] = sch
	return previous, redefined
}

func (t *Table) Lookup(name string) (ctx.Scheme, bool) {
	sch, ok := t.schemes[name]
	return sch, ok
}

// ResolveRef implements unify.Resolver (§4.5): look up name, check
// arity if the scheme has type parameters, instantiate positionally by
// substituting each type parameter with the corresponding argument,
// and fall back to self-resolution for bare built-in keyword names.
func (t *Table) ResolveRef(ref types.Ref) (types.Type, bool) {
	sch, ok := t.schemes[ref.Name]
	if !ok {
		if kw, isKw := builtinKeywords[ref.Name]; isKw && len(ref.Args) == 0 {
			return types.KeywordType{Keyword: kw}, true
		}
		return nil, false
	}
	if len(sch.TypeParams) == 0 {
		return sch.Type, true
	}
	if len(ref.Args) != len(sch.TypeParams) {
		return nil, false
	}
	s := subst.Empty()
	for i, tp := range sch.TypeParams {
		s[tp.Fresh.ID] = ref.Args[i]
	}
	return subst.Apply(s, sch.Type), true
}

// ResolveRefChecked is ResolveRef plus a typed arity-mismatch error,
// for call sites that want a diagnostic-carrying result rather than
// Resolver's bool ok/fail shape. No code in this module calls it.
func (t *Table) ResolveRefChecked(ref types.Ref) (types.Type, error) {
	sch, ok := t.schemes[ref.Name]
	if !ok {
		if kw, isKw := builtinKeywords[ref.Name]; isKw && len(ref.Args) == 0 {
			return types.KeywordType{Keyword: kw}, nil
		}
		return nil, fmt.Errorf("unknown alias: %s", ref.Name)
	}
	if len(sch.TypeParams) != len(ref.Args) {
		return nil, fmt.Errorf("alias %q expects %d type argument(s), got %d", ref.Name, len(sch.TypeParams), len(ref.Args))
	}
	return t.ResolveRef(ref)
}

var _ unify.Resolver = (*Table)(nil)

// InstantiateRef is a convenience (no code in this module calls it): instantiate the
// scheme bound to ref.Name with fresh variables from c, rather than
// substituting ref's own (already-checked) type arguments. Used when a
// Ref needs to yield a fresh polymorphic instance rather than a
// structural expansion, e.g. looking up a prelude constructor by name.
func (t *Table) InstantiateRef(name string) (types.Type, bool) {
	sch, ok := t.schemes[name]
	if !ok {
		return nil, false
	}
	return instantiate.Instantiate(t.c, sch), true
}
