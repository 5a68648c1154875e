// Package demo holds the fixed set of hand-built demo programs
// cmd/funxycheck and cmd/funxycheckd both run: this module has no
// lexer/parser (spec §1), so neither entrypoint can accept arbitrary
// source text, and both need the same small registry of named
// programs to check.
package demo

import (
	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/token"
)

// Program pairs a hand-built AST with the name of the top-level binding
// whose scheme is worth reporting.
type Program struct {
	Name    string
	Binding string
	AST     *ast.Program
}

func tok() token.Token { return token.Token{Lexeme: "demo", Line: 1, Column: 1} }

func ident(name string) *ast.Ident { return &ast.Ident{Tok: tok(), Name: name} }

func numLit(n string) *ast.Literal { return &ast.Literal{Tok: tok(), Kind: ast.LitNum, Num: n} }

func identPattern(name string) *ast.IdentPattern { return &ast.IdentPattern{Tok: tok(), Name: name} }

// Programs returns the fixed demo registry, one entry per end-to-end
// scenario worth driving from a CLI or RPC call: a generic identity
// function, a recursive fib that exercises the union-occurs escape, and
// an intentionally-undefined reference that exercises the diagnostic
// path.
func Programs() []Program {
	identity := &ast.Lambda{
		Tok:        tok(),
		TypeParams: []ast.TypeParamDecl{{Name: "T"}},
		Params: []ast.ParamDecl{{
			Tok:     tok(),
			Pattern: identPattern("x"),
			Type:    &ast.TypeAnnotation{Tok: tok(), Kind: ast.TARef, Name: "T"},
		}},
		Body: ident("x"),
	}

	call := func(arg ast.Expression) *ast.Call {
		return &ast.Call{Tok: tok(), Callee: ident("fib"), Args: []ast.Expression{arg}}
	}
	fibBody := &ast.If{
		Tok:  tok(),
		Cond: &ast.BinaryOp{Tok: tok(), Op: "<", Left: ident("n"), Right: numLit("2")},
		Then: &ast.Block{Tok: tok(), Result: ident("n")},
		Else: &ast.Block{Tok: tok(), Result: &ast.BinaryOp{
			Tok:   tok(),
			Op:    "+",
			Left:  call(&ast.BinaryOp{Tok: tok(), Op: "-", Left: ident("n"), Right: numLit("1")}),
			Right: call(&ast.BinaryOp{Tok: tok(), Op: "-", Left: ident("n"), Right: numLit("2")}),
		}},
	}
	fib := &ast.Lambda{
		Tok:    tok(),
		Params: []ast.ParamDecl{{Tok: tok(), Pattern: identPattern("n")}},
		Body:   fibBody,
	}

	undefinedRef := &ast.VarDecl{
		Tok:     tok(),
		Pattern: identPattern("broken"),
		Init:    ident("doesNotExist"),
	}

	return []Program{
		{
			Name:    "identity",
			Binding: "identity",
			AST: &ast.Program{File: "<identity>", Statements: []ast.Statement{
				&ast.VarDecl{Tok: tok(), Pattern: identPattern("identity"), Init: identity},
			}},
		},
		{
			Name:    "fib",
			Binding: "fib",
			AST: &ast.Program{File: "<fib>", Statements: []ast.Statement{
				&ast.VarDecl{Tok: tok(), Pattern: identPattern("fib"), Init: fib, Recursive: true},
			}},
		},
		{
			Name:    "undefined-reference",
			Binding: "broken",
			AST: &ast.Program{File: "<undefined-reference>", Statements: []ast.Statement{undefinedRef}},
		},
	}
}
