package infer

import (
	"strings"

	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/checker/alias"
	"github.com/funvibe/funxy-typecheck/internal/checker/ctx"
	"github.com/funvibe/funxy-typecheck/internal/checker/diagnostic"
	"github.com/funvibe/funxy-typecheck/internal/checker/instantiate"
	"github.com/funvibe/funxy-typecheck/internal/checker/prelude"
	"github.com/funvibe/funxy-typecheck/internal/checker/types"
	"github.com/funvibe/funxy-typecheck/internal/checker/unify"
	"github.com/funvibe/funxy-typecheck/internal/token"
)

// Checker is one inference run (spec §5: "One inference run owns one
// Context"). It bundles the root scope, the alias/scheme table, and the
// deduplicating diagnostic accumulator every inference function reports
// through.
type Checker struct {
	Root    *ctx.Context
	Aliases *alias.Table
	Errors  diagnostic.Walker
}

// New creates a Checker seeded with preludeDoc (a YAML document in the
// shape checker/prelude.Document describes, spec §6 "a prelude of
// schemes seeded into the scheme table"). Pass prelude.Default for a
// bare Context that can still resolve Array<T>/Promise<T>.
func New(preludeDoc []byte) (*Checker, error) {
	c := ctx.New()
	t := alias.NewTable(c)
	if err := prelude.Load(c, t, preludeDoc); err != nil {
		return nil, err
	}
	return &Checker{Root: c, Aliases: t}, nil
}

// Result is the §6 Outputs pair: the generalized top-level scheme table
// (the AST itself is mutated in place with inferred_type set on every
// node, so it is not duplicated here).
type Result struct {
	Schemes map[string]ctx.Scheme
}

// Run infers prog's statements in order against the Checker's root
// scope, setting inferred_type on every expression/pattern node and
// collecting one Diagnostic per failure. A failing statement is
// abandoned (spec §7 "short-circuit the enclosing statement") and the
// next statement is still processed.
func (ck *Checker) Run(prog *ast.Program) (*Result, []*diagnostic.Diagnostic) {
	ck.Errors.SetFile(prog.File)
	schemes := map[string]ctx.Scheme{}
	for _, stmt := range prog.Statements {
		ck.runStatement(ck.Root, stmt, schemes)
	}
	return &Result{Schemes: schemes}, ck.Errors.Errors()
}

func (ck *Checker) runStatement(c *ctx.Context, stmt ast.Statement, schemes map[string]ctx.Scheme) {
	if err := inferStmt(ck, c, stmt, schemes); err != nil {
		ck.report(stmt.GetToken(), err)
	}
}

// report converts an internal error into a diagnostic and accumulates
// it, classifying it into the §7 taxonomy where the error is typed
// (CheckError, *unify.Error) and falling back to matching the member
// package's plain-text errors by substring — member.Get/GetComputed
// return fmt.Errorf rather than a typed error (see DESIGN.md), so this
// is the one place that bridges the two.
func (ck *Checker) report(tok token.Token, err error) {
	ck.Errors.Add(diagnostic.New(classify(err), tok, err.Error()))
}

// CheckError is raised by infer package code for failures this package
// can name precisely (await outside async, an invalid fix target, a
// missing required annotation) without needing to pattern-match an
// error string.
type CheckError struct {
	Code diagnostic.Code
	Msg  string
}

func (e *CheckError) Error() string { return e.Msg }

func classify(err error) diagnostic.Code {
	if ce, ok := err.(*CheckError); ok {
		return ce.Code
	}
	if ue, ok := err.(*unify.Error); ok {
		if strings.HasPrefix(ue.Msg, "unknown alias") {
			return diagnostic.UnknownAlias
		}
		return diagnostic.Code(ue.Kind)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "possibly not an object"):
		return diagnostic.PossiblyNotAnObject
	case strings.Contains(msg, "outside the bounds"):
		return diagnostic.IndexOutOfBounds
	case strings.Contains(msg, "not a valid key"), strings.Contains(msg, "not a valid indexer"):
		return diagnostic.InvalidKey
	case strings.Contains(msg, "couldn't find property"), strings.Contains(msg, "has no indexer"), strings.Contains(msg, "missing required member"), strings.Contains(msg, "single indexer"):
		return diagnostic.MissingKey
	case strings.Contains(msg, "unknown alias"):
		return diagnostic.UnknownAlias
	default:
		return diagnostic.UnificationFailure
	}
}

// generalizeAndBind closes t over c's (the *enclosing* scope's, before
// this binding is visible) free variables and records the resulting
// scheme both in schemes (the §6 Output) and in c's own scheme table,
// per spec §4.8 "Let-binding at top level generalizes the inferred type
// against the current value environment".
func generalizeAndBind(c *ctx.Context, name string, t types.Type, schemes map[string]ctx.Scheme) {
	sch := instantiate.Generalize(c, t)
	c.BindScheme(name, sch)
	schemes[name] = sch
}
