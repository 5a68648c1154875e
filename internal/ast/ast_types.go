package ast

import "github.com/funvibe/funxy-typecheck/internal/token"

// TypeAnnotationKind discriminates the surface-syntax type forms, one
// per checker/types.Type variant the parser can write down directly
// (Var/App/Generic never appear in surface syntax — they are internal
// to unification and instantiation, spec §3).
type TypeAnnotationKind int

const (
	TAKeyword TypeAnnotationKind = iota
	TALit
	TALam
	TAObject
	TATuple
	TAArray
	TAUnion
	TAIntersection
	TARef
	TARest
	TAKeyOf
	TAIndexedAccess
)

// TypeAnnotation is the tagged-union shape a parser builds for every
// written-out type (spec §6 "optional type annotation"). It mirrors
// checker/types.Type's variant list one-for-one; internal/checker/infer
// converts it to a types.Type, allocating one fresh Var per declared type
// parameter and resolving a TARef with no arguments that names one of
// them to that Var.
//
// Grounded on checker/prelude.TypeNode's tagged-struct shape (see
// DESIGN.md), generalized from "YAML-decoded scheme body" to "parsed
// surface-syntax type", and on the teacher's internal/ast/ast_types.go
// for which surface forms a parser needs to hand the checker.
type TypeAnnotation struct {
	Tok  token.Token
	Kind TypeAnnotationKind

	// TAKeyword
	Keyword string // number|string|boolean|symbol|null|undefined|never

	// TALit
	LitKind LitKind
	Num     string
	Str     string
	Bool    bool

	// TALam
	Params     []ParamDecl
	Return     *TypeAnnotation
	TypeParams []TypeParamDecl

	// TAObject
	Elems []ObjElemAnnotation

	// TATuple
	Elements []*TypeAnnotation

	// TAArray / TARest / TAKeyOf
	Elem *TypeAnnotation

	// TAUnion / TAIntersection
	Members []*TypeAnnotation

	// TARef
	Name string
	Args []*TypeAnnotation

	// TAIndexedAccess
	Object *TypeAnnotation
	Key    *TypeAnnotation
}

func (t *TypeAnnotation) GetToken() token.Token { return t.Tok }

// ObjElemAnnotationKind discriminates the four ObjElem surface forms
// (spec §3 "ObjElem").
type ObjElemAnnotationKind int

const (
	OAProp ObjElemAnnotationKind = iota
	OAIndex
	OACall
	OAConstructor
)

// ObjElemAnnotation is one member of a TAObject annotation.
type ObjElemAnnotation struct {
	Kind ObjElemAnnotationKind

	// prop
	Name     string
	Optional bool
	Mutable  bool
	Type     *TypeAnnotation

	// index
	IndexKey  string
	IndexType *TypeAnnotation

	// call / constructor
	Params     []ParamDecl
	Return     *TypeAnnotation
	TypeParams []TypeParamDecl
}
