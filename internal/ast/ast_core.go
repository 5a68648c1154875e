// Package ast defines the external-collaborator input/output types spec
// §6 hands the checker: a parser-produced Program of statements, and the
// same tree with inferred_type set on every expression and pattern once
// the checker is done with it. Lexing, parsing, and AST construction are
// out of this module's scope (spec.md §1) — this package only declares
// the shape an external parser must produce.
//
// Grounded on the teacher's internal/ast (ast_core.go/ast_expressions.go/
// ast_types.go): a Node/Statement/Expression split, a TokenLiteral/
// GetToken accessor pair for diagnostics, and one concrete struct per
// surface-syntax form. This version is pared down to exactly the forms
// spec §3/§4/§6 name (VarDecl, TypeDecl, ClassDecl, ExprStmt, ForStmt,
// and their expression/pattern/type-annotation children) instead of the
// teacher's full surface language (traits, list comprehensions, pipe
// operators, byte-pattern matching, ...), which this spec's inferencer
// never sees.
package ast

import "github.com/funvibe/funxy-typecheck/internal/token"

// Node is the base interface for every AST node.
type Node interface {
	GetToken() token.Token
}

// Statement is a top-level or block-level statement.
type Statement interface {
	Node
	statementNode()
}

// Typed is satisfied by checker/types.Type; kept as an interface here
// (rather than importing the types package directly) so internal/ast
// has no dependency on internal/checker/types — it is the external
// collaborator's output slot, populated by whichever package embeds the
// concrete Type implementation into it.
type Typed interface {
	String() string
}

// TypeSlot is embedded by every Expression and Pattern implementation so
// the checker can record inferred_type as a final side effect (spec §3
// "Lifecycle", §6 "Outputs") without every node re-declaring the field.
type TypeSlot struct {
	InferredType Typed
}

func (s *TypeSlot) SetInferredType(t Typed) { s.InferredType = t }
func (s *TypeSlot) GetInferredType() Typed  { return s.InferredType }

// Expression is any AST node the checker assigns an inferred_type to.
type Expression interface {
	Node
	expressionNode()
	SetInferredType(t Typed)
	GetInferredType() Typed
}

// Program is the root node of one checked compilation unit.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// VarDecl is a `let` binding (spec §6 Inputs): a plain identifier or a
// destructuring pattern, an optional type annotation, an optional
// initializer (absent only when Declare is set), a `declare` flag
// (ambient declaration — no initializer, requires an annotation, §7
// MissingTypeAnnotation), and a Recursive flag for `let rec` bindings,
// which the checker wraps with the fixed-point mechanism of §9.
type VarDecl struct {
	Tok            token.Token
	Pattern        Pattern
	TypeAnnotation *TypeAnnotation
	Init           Expression
	Declare        bool
	Recursive      bool
	Mutable        bool // `let mut` — consulted by l-value checks (§4.7)
}

func (v *VarDecl) GetToken() token.Token { return v.Tok }
func (v *VarDecl) statementNode()        {}

// TypeDecl is a `type Name<T, ...> = ...` alias declaration.
type TypeDecl struct {
	Tok        token.Token
	Name       string
	TypeParams []TypeParamDecl
	Annotation *TypeAnnotation
}

func (t *TypeDecl) GetToken() token.Token { return t.Tok }
func (t *TypeDecl) statementNode()        {}

// ClassDecl carries the already-lowered structural object type of a
// class declaration (spec §1: "the inferencer only sees the resulting
// object types" — constructor/method lowering itself is out of scope).
// The checker binds Name to Object's type (as a scheme, generalized
// over TypeParams) exactly as it would a TypeDecl, and — when
// Constructor is set — additionally binds Name as a value whose type is
// the constructor signature, matching how the teacher's analyzer treats
// a class name as both a type and a constructible value.
type ClassDecl struct {
	Tok         token.Token
	Name        string
	TypeParams  []TypeParamDecl
	Object      *TypeAnnotation
	Constructor *TypeAnnotation // optional: `new (...) => InstanceType` signature
}

func (c *ClassDecl) GetToken() token.Token { return c.Tok }
func (c *ClassDecl) statementNode()        {}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	Tok  token.Token
	Expr Expression
}

func (e *ExprStmt) GetToken() token.Token { return e.Tok }
func (e *ExprStmt) statementNode()        {}

// ForStmt iterates Pattern over Iterable's elements, running Body once
// per element in a fresh child scope (not detailed by spec §4.8's rule
// list, but named as an input statement kind by spec §6; it is treated
// analogously to a `match` arm's scrutinee/pattern/body triple, with the
// iterable required to resolve to Array<T>/Tuple rather than an
// arbitrary scrutinee type).
type ForStmt struct {
	Tok      token.Token
	Pattern  Pattern
	Iterable Expression
	Body     []Statement
}

func (f *ForStmt) GetToken() token.Token { return f.Tok }
func (f *ForStmt) statementNode()        {}

// TypeParamDecl is a declared-site type parameter: `<T extends C = D>`.
type TypeParamDecl struct {
	Name       string
	Constraint *TypeAnnotation
	Default    *TypeAnnotation
}

// ParamDecl is one lambda parameter: a binding pattern, a declared type
// (optional — absent params are inferred, see spec §4.8 "Lambda"),
// optional/rest flags (spec §3 "Param").
type ParamDecl struct {
	Tok      token.Token
	Pattern  Pattern
	Type     *TypeAnnotation
	Optional bool
	Mutable  bool
	Rest     bool
}
