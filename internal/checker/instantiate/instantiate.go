// Package instantiate implements spec §4.2: materializing a Scheme into
// a concrete, fully fresh Type, and closing over a type's free
// variables to produce a Scheme.
//
// Grounded on internal/analyzer/inference.go's Generalize/
// InstantiateForall (teacher): generalize computes ftv(type) \
// ftv(env) and wraps the result in a quantifier; instantiate walks the
// quantifier's bound variables and maps each to a fresh one before
// rewriting the body. This package drops the teacher's trait/
// constraint-movement machinery (no typeclass dictionaries here, see
// DESIGN.md) but keeps the F-bounded instantiation the teacher's
// InstantiateForall does not need but §4.2 explicitly asks for:
// constraints are instantiated under the same substitution map so a
// constraint like `<T extends Comparable<T>>` refers to the fresh T.
package instantiate

import (
	"sort"

	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/subst"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// Instantiate allocates a fresh Var per scheme type parameter (its
// constraint instantiated under the same map, to allow F-bounded
// forms) and rewrites the scheme body by substitution.
func Instantiate(c *ctx.Context, sch ctx.Scheme) types.Type {
	s := subst.Empty()
	fresh := make([]types.Var, len(sch.TypeParams))
	for i, tp := range sch.TypeParams {
		fresh[i] = c.Fresh(nil)
		s[tp.Fresh.ID] = fresh[i]
	}
	for i, tp := range sch.TypeParams {
		if tp.Constraint != nil {
			fresh[i].Constraint = subst.Apply(s, tp.Constraint)
		}
	}
	// Re-seed s now that constraints are filled in, so the body sees them.
	for i, tp := range sch.TypeParams {
		s[tp.Fresh.ID] = fresh[i]
	}
	return subst.Apply(s, sch.Type)
}

// Generalize closes over t's free type variables not free in the
// enclosing environment, producing a Scheme whose parameters are those
// variables in a stable (ascending id) order (§4.2). Type aliases do
// not contribute to ftv(env), matching the env argument's scope: the
// caller passes only the value environment.
func Generalize(c *ctx.Context, t types.Type) ctx.Scheme {
	envVars := map[int]bool{}
	for _, v := range c.FreeTypeVariables() {
		envVars[v.ID] = true
	}

	var quantified []types.Var
	seen := map[int]bool{}
	for _, v := range t.FreeTypeVariables() {
		if envVars[v.ID] || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		quantified = append(quantified, v)
	}
	sort.Slice(quantified, func(i, j int) bool { return quantified[i].ID < quantified[j].ID })

	params := make([]types.TypeParam, len(quantified))
	for i, v := range quantified {
		params[i] = types.TypeParam{Name: v.String(), Constraint: v.Constraint, Fresh: v}
	}
	return ctx.Scheme{TypeParams: params, Type: t}
}

// Normalize renumbers a scheme's bound variables to a contiguous range
// starting at 1, in declaration order, for stable printing and golden
// tests (§4.2 "Normalization").
func Normalize(sch ctx.Scheme) ctx.Scheme {
	s := subst.Empty()
	params := make([]types.TypeParam, len(sch.TypeParams))
	for i, tp := range sch.TypeParams {
		nv := types.Var{ID: i + 1, Constraint: tp.Constraint}
		s[tp.Fresh.ID] = nv
		params[i] = types.TypeParam{Name: tp.Name, Constraint: tp.Constraint, Fresh: nv}
	}
	for i, tp := range params {
		if tp.Constraint != nil {
			params[i].Constraint = subst.Apply(s, tp.Constraint)
		}
	}
	return ctx.Scheme{TypeParams: params, Type: subst.Apply(s, sch.Type)}
}
