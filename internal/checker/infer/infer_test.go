package infer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/checker/diagnostic"
	"github.com/funvibe/funxy-typecheck/internal/checker/prelude"
	"github.com/funvibe/funxy-typecheck/internal/token"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	ck, err := New([]byte(prelude.Default))
	require.NoError(t, err)
	return ck
}

func tok() token.Token { return token.Token{Lexeme: "x", Line: 1, Column: 1} }

func ident(name string) *ast.Ident { return &ast.Ident{Tok: tok(), Name: name} }

func numLit(n string) *ast.Literal { return &ast.Literal{Tok: tok(), Kind: ast.LitNum, Num: n} }

func strLit(s string) *ast.Literal { return &ast.Literal{Tok: tok(), Kind: ast.LitStr, Str: s} }

func boolLit(b bool) *ast.Literal { return &ast.Literal{Tok: tok(), Kind: ast.LitBool, Bool: b} }

func identPattern(name string) *ast.IdentPattern { return &ast.IdentPattern{Tok: tok(), Name: name} }

func program(stmts ...ast.Statement) *ast.Program {
	return &ast.Program{File: "test.fx", Statements: stmts}
}

func letStmt(name string, init ast.Expression) *ast.VarDecl {
	return &ast.VarDecl{Tok: tok(), Pattern: identPattern(name), Init: init}
}

func firstDiagnostic(t *testing.T, diags []*diagnostic.Diagnostic) *diagnostic.Diagnostic {
	t.Helper()
	require.NotEmpty(t, diags, "expected at least one diagnostic")
	return diags[0]
}

func TestLiteralLetBinding(t *testing.T) {
	ck := newChecker(t)
	prog := program(letStmt("x", numLit("5")))
	res, diags := ck.Run(prog)
	require.Empty(t, diags)
	require.Equal(t, "5", res.Schemes["x"].Type.String())
}

func TestIdentityLambdaGeneralizes(t *testing.T) {
	ck := newChecker(t)
	id := &ast.Lambda{
		Tok:    tok(),
		Params: []ast.ParamDecl{{Tok: tok(), Pattern: identPattern("x")}},
		Body:   ident("x"),
	}
	prog := program(letStmt("id", id))
	res, diags := ck.Run(prog)
	require.Empty(t, diags)
	sch := res.Schemes["id"]
	require.Len(t, sch.TypeParams, 1, "identity function should generalize over one free variable")
}

func TestCallAppliesLambda(t *testing.T) {
	ck := newChecker(t)
	inc := &ast.Lambda{
		Tok: tok(),
		Params: []ast.ParamDecl{{
			Tok:     tok(),
			Pattern: identPattern("n"),
			Type:    &ast.TypeAnnotation{Tok: tok(), Kind: ast.TAKeyword, Keyword: "number"},
		}},
		Body: &ast.BinaryOp{Tok: tok(), Op: "+", Left: ident("n"), Right: numLit("1")},
	}
	prog := program(
		letStmt("inc", inc),
		letStmt("result", &ast.Call{Tok: tok(), Callee: ident("inc"), Args: []ast.Expression{numLit("41")}}),
	)
	res, diags := ck.Run(prog)
	require.Empty(t, diags)
	require.Equal(t, "number", res.Schemes["result"].Type.String())
}

func TestUndefinedIdentifierReportsUnknownIdentifier(t *testing.T) {
	ck := newChecker(t)
	prog := program(letStmt("y", ident("doesNotExist")))
	_, diags := ck.Run(prog)
	d := firstDiagnostic(t, diags)
	require.Equal(t, diagnostic.UnknownIdentifier, d.Code)
}

func TestArrayLiteralOfMixedTypesInfersAsTuple(t *testing.T) {
	ck := newChecker(t)
	arr := &ast.ArrayLiteral{Tok: tok(), Elements: []ast.Expression{numLit("1"), strLit("a"), boolLit(true)}}
	prog := program(letStmt("tup", arr))
	res, diags := ck.Run(prog)
	require.Empty(t, diags)
	require.Equal(t, `[1, "a", true]`, res.Schemes["tup"].Type.String())
}

func TestObjectLiteralMemberAccess(t *testing.T) {
	ck := newChecker(t)
	obj := &ast.ObjectLiteral{Tok: tok(), Props: []ast.ObjProp{
		{Name: "x", Value: numLit("1")},
		{Name: "y", Value: strLit("hi")},
	}}
	prog := program(
		letStmt("point", obj),
		letStmt("px", &ast.Member{Tok: tok(), Object: ident("point"), Name: "x"}),
	)
	res, diags := ck.Run(prog)
	require.Empty(t, diags)
	require.Equal(t, "1", res.Schemes["px"].Type.String())
}

func TestAwaitOutsideAsyncReportsDiagnostic(t *testing.T) {
	ck := newChecker(t)
	lam := &ast.Lambda{Tok: tok(), Body: &ast.Await{Tok: tok(), Expr: numLit("1")}}
	prog := program(letStmt("f", lam))
	_, diags := ck.Run(prog)
	d := firstDiagnostic(t, diags)
	require.Equal(t, diagnostic.AwaitOutsideAsync, d.Code)
}

func TestMatchWithLiteralPatternsUnionsArmTypes(t *testing.T) {
	ck := newChecker(t)
	m := &ast.Match{
		Tok:       tok(),
		Scrutinee: numLit("1"),
		Arms: []ast.MatchArm{
			{Pattern: &ast.LiteralPattern{Tok: tok(), Kind: ast.LitNum, Num: "1"}, Body: strLit("one")},
			{Pattern: &ast.WildcardPattern{Tok: tok()}, Body: strLit("other")},
		},
	}
	prog := program(letStmt("label", m))
	res, diags := ck.Run(prog)
	require.Empty(t, diags)
	require.Equal(t, `"one" | "other"`, res.Schemes["label"].Type.String())
}

func TestNonMutableAssignmentReportsDiagnostic(t *testing.T) {
	ck := newChecker(t)
	decl := &ast.VarDecl{Tok: tok(), Pattern: identPattern("x"), Init: numLit("1")}
	assign := &ast.ExprStmt{Tok: tok(), Expr: &ast.Assign{Tok: tok(), Target: ident("x"), Value: numLit("2")}}
	prog := program(decl, assign)
	_, diags := ck.Run(prog)
	d := firstDiagnostic(t, diags)
	require.Equal(t, diagnostic.NonMutableBindingAssignment, d.Code)
}

func TestMutableAssignmentSucceeds(t *testing.T) {
	ck := newChecker(t)
	decl := &ast.VarDecl{Tok: tok(), Pattern: identPattern("x"), Init: numLit("1"), Mutable: true}
	assign := &ast.ExprStmt{Tok: tok(), Expr: &ast.Assign{Tok: tok(), Target: ident("x"), Value: numLit("2")}}
	prog := program(decl, assign)
	_, diags := ck.Run(prog)
	require.Empty(t, diags)
}

func TestTuplePatternDestructure(t *testing.T) {
	ck := newChecker(t)
	pair := &ast.ArrayLiteral{Tok: tok(), Elements: []ast.Expression{numLit("1"), strLit("a")}}
	decl := &ast.VarDecl{
		Tok: tok(),
		Pattern: &ast.TuplePattern{Tok: tok(), Elements: []ast.Pattern{
			identPattern("a"), identPattern("b"),
		}},
		Init: pair,
	}
	prog := program(decl, letStmt("second", ident("b")))
	res, diags := ck.Run(prog)
	require.Empty(t, diags)
	require.Equal(t, `"a"`, res.Schemes["second"].Type.String())
}

func TestLetRecRequiresLambda(t *testing.T) {
	ck := newChecker(t)
	decl := &ast.VarDecl{Tok: tok(), Pattern: identPattern("x"), Init: numLit("1"), Recursive: true}
	prog := program(decl)
	_, diags := ck.Run(prog)
	d := firstDiagnostic(t, diags)
	require.Equal(t, diagnostic.InvalidFixTarget, d.Code)
}

func TestDeclareWithoutAnnotationReportsMissingTypeAnnotation(t *testing.T) {
	ck := newChecker(t)
	decl := &ast.VarDecl{Tok: tok(), Pattern: identPattern("x"), Declare: true}
	prog := program(decl)
	_, diags := ck.Run(prog)
	d := firstDiagnostic(t, diags)
	require.Equal(t, diagnostic.MissingTypeAnnotation, d.Code)
}
