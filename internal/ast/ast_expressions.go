package ast

import "github.com/funvibe/funxy-typecheck/internal/token"

// Ident is a bare identifier reference (spec §4.8 "identifiers look up
// the value environment").
type Ident struct {
	TypeSlot
	Tok  token.Token
	Name string
}

func (i *Ident) GetToken() token.Token { return i.Tok }
func (i *Ident) expressionNode()       {}

// LitKind mirrors checker/types.LitKind for the three literal forms
// spec §3 names.
type LitKind int

const (
	LitNum LitKind = iota
	LitStr
	LitBool
)

// Literal is a number/string/bool literal expression (spec §4.8
// "Literals produce Lit").
type Literal struct {
	TypeSlot
	Tok  token.Token
	Kind LitKind
	Num  string
	Str  string
	Bool bool
}

func (l *Literal) GetToken() token.Token { return l.Tok }
func (l *Literal) expressionNode()       {}

// Lambda is a function literal: optional declared type parameters,
// parameters, optional declared return type, an async flag, and a body
// expression (spec §4.8 "Lambda").
type Lambda struct {
	TypeSlot
	Tok        token.Token
	TypeParams []TypeParamDecl
	Params     []ParamDecl
	ReturnType *TypeAnnotation
	Async      bool
	Body       Expression
}

func (l *Lambda) GetToken() token.Token { return l.Tok }
func (l *Lambda) expressionNode()       {}

// Block is a brace-delimited sequence of statements followed by a
// trailing result expression — the body form of lambdas, if/else
// branches, and match arms (spec §8 scenario 6's `{ n }` / `{ ... }`).
// A Block with no Result has unit (undefined) type.
type Block struct {
	TypeSlot
	Tok    token.Token
	Stmts  []Statement
	Result Expression
}

func (b *Block) GetToken() token.Token { return b.Tok }
func (b *Block) expressionNode()       {}

// Call is a function application (spec §4.8 "Application"). TypeArgs
// are explicit type arguments supplied at the call site (spec §4.2
// "callers instantiate explicit type arguments").
type Call struct {
	TypeSlot
	Tok      token.Token
	Callee   Expression
	TypeArgs []*TypeAnnotation
	Args     []Expression
}

func (c *Call) GetToken() token.Token { return c.Tok }
func (c *Call) expressionNode()       {}

// Spread marks a `...expr` argument or element (spec §4.3 rule 5 "Spread
// arguments", §4.8 "Spread arguments that are Tuples are splatted").
type Spread struct {
	TypeSlot
	Tok  token.Token
	Expr Expression
}

func (s *Spread) GetToken() token.Token { return s.Tok }
func (s *Spread) expressionNode()       {}

// If implements both the plain-condition and `if let` forms of spec
// §4.8: when LetPattern is non-nil, Cond is unused and LetInit is
// inferred, the pattern is unified against it in a fresh scope, and
// Then is inferred in that scope; otherwise Cond must be boolean and
// Then/Else are inferred directly. Else may be nil (result unions in
// `undefined`, per §4.8).
type If struct {
	TypeSlot
	Tok        token.Token
	Cond       Expression
	LetPattern Pattern
	LetInit    Expression
	Then       Expression
	Else       Expression
}

func (i *If) GetToken() token.Token { return i.Tok }
func (i *If) expressionNode()       {}

// BinaryOp is a binary operator application (spec §4.8 "Binary op").
type BinaryOp struct {
	TypeSlot
	Tok   token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (b *BinaryOp) GetToken() token.Token { return b.Tok }
func (b *BinaryOp) expressionNode()       {}

// ObjProp is one object-literal member: a named value, or (when Spread
// is set) a spread source expression contributing its own properties
// (spec §4.8 "Object literal ... spreads contribute to an intersection
// which is simplified").
type ObjProp struct {
	Name   string
	Value  Expression
	Spread bool
}

// ObjectLiteral is a `{ k: v, ...rest }` expression.
type ObjectLiteral struct {
	TypeSlot
	Tok   token.Token
	Props []ObjProp
}

func (o *ObjectLiteral) GetToken() token.Token { return o.Tok }
func (o *ObjectLiteral) expressionNode()       {}

// ArrayLiteral is a `[a, b, ...c]` expression. It is inferred as a
// Tuple (spec §8 scenario 4: `[1, "a", true]` typed as
// `[number, string, boolean]`), with Spread elements of Tuple type
// splatted inline (mirroring spec §4.3 rule 5's argument-flattening).
// A Spread element of Array type makes the whole literal an Array whose
// element type is the union of the element types.
type ArrayLiteral struct {
	TypeSlot
	Tok      token.Token
	Elements []Expression
}

func (a *ArrayLiteral) GetToken() token.Token { return a.Tok }
func (a *ArrayLiteral) expressionNode()       {}

// Await unwraps a Promise<X> (spec §4.8 "Await").
type Await struct {
	TypeSlot
	Tok  token.Token
	Expr Expression
}

func (a *Await) GetToken() token.Token { return a.Tok }
func (a *Await) expressionNode()       {}

// Member is a `.name` or computed `[key]` access (spec §4.8 "Member.
// Delegate to §4.7 with a distinguished l-value flag"). Exactly one of
// Name/Computed is set. LValue is set by the caller (assignment
// left-hand sides) to request the §4.7 l-value mutability checks.
type Member struct {
	TypeSlot
	Tok      token.Token
	Object   Expression
	Name     string // set for `.name`
	Computed Expression // set for `[expr]`
	LValue   bool
}

func (m *Member) GetToken() token.Token { return m.Tok }
func (m *Member) expressionNode()       {}

// Assign is `target = value`, where target is an Ident or a (mutable,
// per §4.7 l-value rules) Member.
type Assign struct {
	TypeSlot
	Tok    token.Token
	Target Expression
	Value  Expression
}

func (a *Assign) GetToken() token.Token { return a.Tok }
func (a *Assign) expressionNode()       {}

// MatchArm is one `pattern [if guard] => body` arm of a match
// expression (spec §4.8 "Match").
type MatchArm struct {
	Pattern Pattern
	Guard   Expression // optional
	Body    Expression
}

// Match is a `match scrutinee { arms... }` expression.
type Match struct {
	TypeSlot
	Tok       token.Token
	Scrutinee Expression
	Arms      []MatchArm
}

func (m *Match) GetToken() token.Token { return m.Tok }
func (m *Match) expressionNode()       {}

// Fix wraps a `let rec` initializer (spec §9 "Recursive value bindings
// use a fixed-point wrapper at the AST level"); Target must be a
// Lambda, or the checker raises InvalidFixTarget (§7).
type Fix struct {
	TypeSlot
	Tok    token.Token
	Target Expression
}

func (f *Fix) GetToken() token.Token { return f.Tok }
func (f *Fix) expressionNode()       {}

// TypeAssertionExpr is `expr as T`: expr is inferred and the result has
// type T; expr's type is not checked against T (a narrowing escape
// hatch parallel to the `is` pattern's run-time guard, spec §4.9).
type TypeAssertionExpr struct {
	TypeSlot
	Tok    token.Token
	Expr   Expression
	Target *TypeAnnotation
}

func (t *TypeAssertionExpr) GetToken() token.Token { return t.Tok }
func (t *TypeAssertionExpr) expressionNode()       {}
