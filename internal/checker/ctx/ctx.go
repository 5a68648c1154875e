// Package ctx implements the Context/Scope component (spec §2 item 3):
// a stack of lexical scopes holding value bindings, type schemes, a
// fresh-id counter, and an is_async flag.
//
// Grounded on internal/symbols/symbol_table_operations.go and
// symbol_table_init.go (teacher): a scope links to its outer scope and
// lookups walk the chain. The teacher also threads trait/instance
// registries through this chain; this package drops that machinery
// (no typeclass dictionaries in this spec's generics model, see
// DESIGN.md) and keeps only what §2 item 3 actually asks for: value
// bindings, schemes, a fresh-id counter and is_async.
package ctx

import (
	"github.com/funvibe/funxy-typecheck/internal/checker/arena"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// Scheme is a polymorphic type: an ordered list of type parameters and
// an underlying Type, per spec §3's "Scheme" row.
type Scheme struct {
	TypeParams []types.TypeParam
	Type       types.Type
}

// Context is one lexical scope. Scopes form a singly-linked chain via
// outer, exactly like the teacher's SymbolTable; NewChild pushes a new
// scope, the caller discards it (or keeps a reference) to pop.
type Context struct {
	values    map[string]types.Type
	mutable   map[string]bool
	schemes   map[string]Scheme
	outer     *Context
	arena     *arena.Arena
	isAsync   bool
}

// New creates the root context of one inference run, with its own
// fresh-id arena.
func New() *Context {
	return &Context{
		values:  map[string]types.Type{},
		schemes: map[string]Scheme{},
		arena:   arena.New(),
	}
}

// NewChild opens a nested scope sharing this context's fresh-id arena.
// isAsync is inherited unless overridden by the caller via SetAsync.
func (c *Context) NewChild() *Context {
	return &Context{
		values:  map[string]types.Type{},
		schemes: map[string]Scheme{},
		outer:   c,
		arena:   c.arena,
		isAsync: c.isAsync,
	}
}

// Outer returns the enclosing scope, or nil at the root.
func (c *Context) Outer() *Context { return c.outer }

// Fresh allocates a new Var with a globally-unique id for this run,
// optionally carrying a constraint.
func (c *Context) Fresh(constraint types.Type) types.Var {
	return types.Var{ID: c.arena.Fresh(), Constraint: constraint}
}

// Arena exposes the run's underlying id allocator, e.g. for stamping
// diagnostics or cache keys with the run's RunID.
func (c *Context) Arena() *arena.Arena { return c.arena }

// Bind records a monomorphic value binding in the current scope.
func (c *Context) Bind(name string, t types.Type) {
	c.values[name] = t
}

// BindMutable records a value binding along with whether `let mut`
// declared it writable — consulted by l-value checks (§4.7,
// NonMutableBindingAssignment).
func (c *Context) BindMutable(name string, t types.Type, mutable bool) {
	c.values[name] = t
	if c.mutable == nil {
		c.mutable = map[string]bool{}
	}
	c.mutable[name] = mutable
}

// IsMutableBinding reports whether name was bound with BindMutable(...,
// true). A name bound only via Bind (e.g. pattern/loop bindings that
// don't participate in l-value assignment) reports false.
func (c *Context) IsMutableBinding(name string) bool {
	for s := c; s != nil; s = s.outer {
		if _, ok := s.values[name]; ok {
			return s.mutable[name]
		}
	}
	return false
}

// Lookup resolves a value binding, walking outward through enclosing
// scopes. If name also has a scheme, the caller should prefer
// LookupScheme first — Lookup is for already-monomorphic bindings
// (loop variables, pattern-bound names, non-generalized lets).
func (c *Context) Lookup(name string) (types.Type, bool) {
	for s := c; s != nil; s = s.outer {
		if t, ok := s.values[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// BindScheme records a generalized (possibly polymorphic) binding.
func (c *Context) BindScheme(name string, sch Scheme) {
	c.schemes[name] = sch
}

// LookupScheme resolves a scheme binding, walking outward.
func (c *Context) LookupScheme(name string) (Scheme, bool) {
	for s := c; s != nil; s = s.outer {
		if sch, ok := s.schemes[name]; ok {
			return sch, true
		}
	}
	return Scheme{}, false
}

// SetAsync marks this scope as executing inside an async function body
// (spec §2 item 3's is_async flag), consulted when checking `await`.
func (c *Context) SetAsync(v bool) { c.isAsync = v }

// IsAsync reports whether this scope (or the scope it was opened from,
// since NewChild inherits the flag) is inside an async function.
func (c *Context) IsAsync() bool { return c.isAsync }

// FreeTypeVariables computes ftv(env) per spec §4.2: the union of free
// type variables of every value binding visible from this scope,
// value bindings only — type aliases/schemes do not contribute.
func (c *Context) FreeTypeVariables() []types.Var {
	seen := map[int]bool{}
	var out []types.Var
	for s := c; s != nil; s = s.outer {
		for _, t := range s.values {
			for _, v := range t.FreeTypeVariables() {
				if !seen[v.ID] {
					seen[v.ID] = true
					out = append(out, v)
				}
			}
		}
	}
	return out
}
