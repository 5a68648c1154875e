package ast

import "github.com/funvibe/funxy-typecheck/internal/token"

// Pattern is any refutable or irrefutable binding pattern (spec §4.9).
// Patterns share the same inferred_type slot as expressions and share
// Refutable(), one predicate rather than two parallel ADTs (spec §9
// "Pattern ADT"), reporting whether a pattern can fail to match. The
// checker does not call it: a refutable pattern is not rejected in a
// VarDecl, ParamDecl or ForStmt.
type Pattern interface {
	Node
	patternNode()
	SetInferredType(t Typed)
	GetInferredType() Typed
	// Refutable reports whether this pattern can fail to match a given
	// value at runtime (spec §4.9).
	Refutable() bool
}

// IdentPattern binds the matched value to Name. Irrefutable.
type IdentPattern struct {
	TypeSlot
	Tok  token.Token
	Name string
}

func (p *IdentPattern) GetToken() token.Token { return p.Tok }
func (p *IdentPattern) patternNode()          {}
func (p *IdentPattern) Refutable() bool       { return false }

// WildcardPattern (`_`) matches anything and binds nothing. Irrefutable.
type WildcardPattern struct {
	TypeSlot
	Tok token.Token
}

func (p *WildcardPattern) GetToken() token.Token { return p.Tok }
func (p *WildcardPattern) patternNode()          {}
func (p *WildcardPattern) Refutable() bool       { return false }

// LiteralPattern matches only a scrutinee equal to Kind/Num/Str/Bool.
// Always refutable (spec §4.9).
type LiteralPattern struct {
	TypeSlot
	Tok  token.Token
	Kind LitKind
	Num  string
	Str  string
	Bool bool
}

func (p *LiteralPattern) GetToken() token.Token { return p.Tok }
func (p *LiteralPattern) patternNode()          {}
func (p *LiteralPattern) Refutable() bool       { return true }

// RestPattern (`...inner`) is legal only as the final element of a
// TuplePattern or the final parameter of a lambda (spec §3 "Rest").
// Irrefutable (spec §4.9 "rest patterns ... are irrefutable").
type RestPattern struct {
	TypeSlot
	Tok   token.Token
	Inner Pattern
}

func (p *RestPattern) GetToken() token.Token { return p.Tok }
func (p *RestPattern) patternNode()          {}
func (p *RestPattern) Refutable() bool       { return false }

// TuplePattern destructures a tuple/array positionally. Refutable iff
// any element is refutable (spec §4.9).
type TuplePattern struct {
	TypeSlot
	Tok      token.Token
	Elements []Pattern
}

func (p *TuplePattern) GetToken() token.Token { return p.Tok }
func (p *TuplePattern) patternNode()          {}
func (p *TuplePattern) Refutable() bool {
	for _, e := range p.Elements {
		if e.Refutable() {
			return true
		}
	}
	return false
}

// ObjPatProp is one `name: subPattern` (or shorthand `name`, where
// Value is an IdentPattern of the same Name) entry of an ObjectPattern.
type ObjPatProp struct {
	Name  string
	Value Pattern
}

// ObjectPattern destructures an object's named properties, with an
// optional `...rest` pattern collecting the remaining properties.
// Refutable iff any sub-pattern is refutable (spec §4.9).
type ObjectPattern struct {
	TypeSlot
	Tok   token.Token
	Props []ObjPatProp
	Rest  Pattern // optional
}

func (p *ObjectPattern) GetToken() token.Token { return p.Tok }
func (p *ObjectPattern) patternNode()          {}
func (p *ObjectPattern) Refutable() bool {
	for _, prop := range p.Props {
		if prop.Value.Refutable() {
			return true
		}
	}
	return false
}

// IsPattern (`name is Type`) binds Name (if non-empty) to Type and only
// matches when the scrutinee is (at runtime) an instance of Type.
// Always refutable (spec §4.9 "an `is Type` pattern").
type IsPattern struct {
	TypeSlot
	Tok    token.Token
	Name   string // optional binding name; empty means the guard only narrows, binds nothing
	Target *TypeAnnotation
}

func (p *IsPattern) GetToken() token.Token { return p.Tok }
func (p *IsPattern) patternNode()          {}
func (p *IsPattern) Refutable() bool       { return true }
