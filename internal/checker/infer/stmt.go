package infer

import (
	"strings"

	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/diagnostic"
	"github.com/funvibe/funxy-typecheck/internal/checker/subst"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
	"github.com/funvibe/funxy-typecheck/internal/checker/unify"
)

// inferStmt implements spec §4.8's statement-level rules and the
// declaration-generalization behavior of §4.2/§9. Each statement either
// extends c (VarDecl/TypeDecl/ClassDecl bind new names into c, the
// *same* scope the caller passed) or is inferred for effect
// (ExprStmt/ForStmt).
func inferStmt(ck *Checker, c *ctx.Context, stmt ast.Statement, schemes map[string]ctx.Scheme) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return inferVarDecl(ck, c, s, schemes)
	case *ast.TypeDecl:
		return inferTypeDecl(ck, c, s, schemes)
	case *ast.ClassDecl:
		return inferClassDecl(ck, c, s, schemes)
	case *ast.ExprStmt:
		_, _, err := InferExpr(ck, c, s.Expr)
		return err
	case *ast.ForStmt:
		return inferForStmt(ck, c, s)
	}
	return &CheckError{Code: diagnostic.UnificationFailure, Msg: "unsupported statement form"}
}

// inferVarDecl implements `let`/`let mut`/`let rec`/`declare let` (spec
// §4.8 "Let-binding", §9 "Recursive value bindings"). A `declare`
// binding has no initializer and requires a type annotation
// (MissingTypeAnnotation, §7); an ordinary binding infers (or checks
// against its annotation) its initializer, generalizes, and binds the
// pattern's names. `let rec` additionally requires the initializer to
// be a Lambda and wraps it with Fix (§9) so the bound name is already
// visible, at its own fresh type, while the body is inferred.
func inferVarDecl(ck *Checker, c *ctx.Context, v *ast.VarDecl, schemes map[string]ctx.Scheme) error {
	if v.Declare {
		if v.TypeAnnotation == nil {
			return &CheckError{Code: diagnostic.MissingTypeAnnotation, Msg: "declare binding requires a type annotation"}
		}
		t, err := BuildType(c, nil, v.TypeAnnotation)
		if err != nil {
			return err
		}
		generalizeAndBind(c, patternDisplayName(v.Pattern), t, schemes)
		bindPatternNames(c, v.Pattern, t, v.Mutable)
		return nil
	}

	if v.Recursive {
		name := patternDisplayName(v.Pattern)
		lam, ok := v.Init.(*ast.Lambda)
		if !ok {
			return &CheckError{Code: diagnostic.InvalidFixTarget, Msg: "let rec initializer must be a function"}
		}
		selfT := c.Fresh(nil)
		c.Bind(name, selfT)

		fix := &ast.Fix{Tok: v.Tok, Target: lam}
		s, t, err := InferExpr(ck, c, fix)
		if err != nil {
			return err
		}
		t = subst.Apply(s, t)
		if _, err := unify.Unify(t, subst.Apply(s, selfT), ck.Aliases); err != nil {
			return err
		}
		if v.TypeAnnotation != nil {
			declared, err := BuildType(c, nil, v.TypeAnnotation)
			if err != nil {
				return err
			}
			if _, err := unify.Unify(t, declared, ck.Aliases); err != nil {
				return err
			}
			t = declared
		}
		generalizeAndBind(c, name, t, schemes)
		return nil
	}

	s0, initT, err := InferExpr(ck, c, v.Init)
	if err != nil {
		return err
	}
	initT = subst.Apply(s0, initT)

	if v.TypeAnnotation != nil {
		declared, err := BuildType(c, nil, v.TypeAnnotation)
		if err != nil {
			return err
		}
		if _, err := unify.Unify(initT, declared, ck.Aliases); err != nil {
			return err
		}
		initT = declared
	}
	if v.Mutable && v.TypeAnnotation == nil {
		// An unannotated mutable binding widens a literal initializer to
		// its keyword type, so later assignments of that type succeed.
		if lit, ok := initT.(types.Lit); ok {
			switch lit.Kind {
			case types.LitNum:
				initT = numberT
			case types.LitStr:
				initT = types.KeywordType{Keyword: types.String}
			case types.LitBool:
				initT = booleanT
			}
		}
	}

	if name := patternDisplayName(v.Pattern); name != "" {
		generalizeAndBind(c, name, initT, schemes)
	}
	if _, err := InferPattern(ck, c, v.Pattern, initT); err != nil {
		return err
	}
	if v.Mutable {
		markMutable(c, v.Pattern)
	}
	return nil
}

// bindPatternNames binds every name pattern p introduces to t directly
// (no destructuring needed for a `declare` binding, since it has no
// initializer to destructure against) — used only for the simple
// Ident/Wildcard case `declare` bindings are expected to take.
func bindPatternNames(c *ctx.Context, p ast.Pattern, t types.Type, mutable bool) {
	if id, ok := p.(*ast.IdentPattern); ok {
		c.BindMutable(id.Name, t, mutable)
	}
}

// markMutable re-records a pattern's already-bound simple-identifier
// name as mutable; destructuring patterns that introduce more than one
// name are not eligible l-value targets on their own (only the
// resulting bindings' further Member accesses are checked), so only the
// Ident case needs updating here.
func markMutable(c *ctx.Context, p ast.Pattern) {
	if id, ok := p.(*ast.IdentPattern); ok {
		if t, ok := c.Lookup(id.Name); ok {
			c.BindMutable(id.Name, t, true)
		}
	}
}

// inferTypeDecl implements `type Name<T, ...> = ...` (spec §4.5):
// declared type parameters are instantiated as scheme-bound fresh
// variables, the right-hand side is built under that environment, and
// the result is registered in the alias table so later Refs to Name
// resolve.
func inferTypeDecl(ck *Checker, c *ctx.Context, d *ast.TypeDecl, schemes map[string]ctx.Scheme) error {
	if strings.HasPrefix(d.Name, types.InternalPrefix) {
		return &CheckError{Code: diagnostic.AliasRedefinition, Msg: "type name " + d.Name + " uses the reserved " + types.InternalPrefix + " prefix"}
	}
	tps, env, err := buildTypeParams(c, typeEnv{}, d.TypeParams)
	if err != nil {
		return err
	}
	t, err := BuildType(c, env, d.Annotation)
	if err != nil {
		return err
	}
	sch := ctx.Scheme{TypeParams: tps, Type: t}
	if _, redefined := ck.Aliases.Define(d.Name, sch); redefined {
		return &CheckError{Code: diagnostic.AliasRedefinition, Msg: "type " + d.Name + " is already defined"}
	}
	schemes[d.Name] = sch
	return nil
}

// inferClassDecl implements §6's class lowering: Name is bound both as
// a type alias for Object (generalized over TypeParams, exactly like a
// TypeDecl) and, when Constructor is given, as a constructible value
// whose type is the constructor signature.
func inferClassDecl(ck *Checker, c *ctx.Context, d *ast.ClassDecl, schemes map[string]ctx.Scheme) error {
	tps, env, err := buildTypeParams(c, typeEnv{}, d.TypeParams)
	if err != nil {
		return err
	}
	objT, err := BuildType(c, env, d.Object)
	if err != nil {
		return err
	}
	sch := ctx.Scheme{TypeParams: tps, Type: objT}
	ck.Aliases.Define(d.Name, sch)
	schemes[d.Name] = sch

	if d.Constructor != nil {
		ctorT, err := BuildType(c, env, d.Constructor)
		if err != nil {
			return err
		}
		ctorSch := ctx.Scheme{TypeParams: tps, Type: ctorT}
		c.BindScheme(d.Name, ctorSch)
		schemes[d.Name+"#constructor"] = ctorSch
	}
	return nil
}

// inferForStmt iterates Pattern over Iterable's elements (Array<T> or
// Tuple, per §6's treatment of ForStmt as a match-arm-like triple): the
// element type is the Array's element type or the union of the Tuple's
// elements (without the `undefined` a numeric member access adds), the
// pattern is bound in a fresh scope, and Body is inferred there for
// effect.
func inferForStmt(ck *Checker, c *ctx.Context, f *ast.ForStmt) error {
	s0, iterT, err := InferExpr(ck, c, f.Iterable)
	if err != nil {
		return err
	}
	iterT = subst.Apply(s0, iterT)
	resolved := unify.ResolveToStructural(iterT, ck.Aliases)

	var elemT types.Type
	switch r := resolved.(type) {
	case types.Array:
		elemT = r.Elem
	case types.Tuple:
		elemT = types.NormalizeUnion(append([]types.Type{}, r.Elements...))
	default:
		return &CheckError{Code: diagnostic.UnificationFailure, Msg: "for-loop iterable must be an array or tuple"}
	}

	child := c.NewChild()
	if _, err := InferPattern(ck, child, f.Pattern, elemT); err != nil {
		return err
	}
	scratch := map[string]ctx.Scheme{}
	for _, stmt := range f.Body {
		if err := inferStmt(ck, child, stmt, scratch); err != nil {
			return err
		}
	}
	return nil
}
