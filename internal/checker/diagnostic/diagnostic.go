// Package diagnostic implements the §7 error taxonomy and the
// deduplicating, position-sorted accumulator the inference engine
// reports through.
//
// Grounded on internal/analyzer/analyzer.go's walker.addError/
// addErrors/getErrors (teacher): errors are keyed by
// "line:column:code" so a re-visited AST node (common during
// multi-pass analysis) never produces duplicate diagnostics, and the
// final list is sorted by position for deterministic output.
package diagnostic

import (
	"fmt"
	"sort"

	"github.com/funvibe/funxy-typecheck/internal/token"
)

// Code discriminates every member of the §7 taxonomy.
type Code string

const (
	UnificationFailure           Code = "UnificationFailure"
	InfiniteType                 Code = "InfiniteType"
	AliasArityMismatch           Code = "AliasArityMismatch"
	UnknownAlias                 Code = "UnknownAlias"
	AliasRedefinition            Code = "AliasRedefinition"
	NotEnoughArguments           Code = "NotEnoughArguments"
	SpreadNotAllowed             Code = "SpreadNotAllowed"
	InvalidFixTarget             Code = "InvalidFixTarget"
	PossiblyNotAnObject          Code = "PossiblyNotAnObject"
	MissingKey                   Code = "MissingKey"
	InvalidKey                   Code = "InvalidKey"
	IndexOutOfBounds             Code = "IndexOutOfBounds"
	ObjectNotMutable             Code = "ObjectNotMutable"
	PropertyNotMutable           Code = "PropertyNotMutable"
	NonMutableBindingAssignment  Code = "NonMutableBindingAssignment"
	AwaitOutsideAsync            Code = "AwaitOutsideAsync"
	TupleSpreadOutsideTuple      Code = "TupleSpreadOutsideTuple"
	MissingTypeAnnotation        Code = "MissingTypeAnnotation"
	UndecidableIntersection      Code = "UndecidableIntersection"

	// UnknownIdentifier is not one of spec §7's named kinds (value-name
	// resolution is a symbols-table concern spec.md treats as an
	// external collaborator), but an inference engine has to report
	// something when an Ident has no binding, so this extends the
	// taxonomy by one member rather than silently producing an
	// untyped Go panic.
	UnknownIdentifier Code = "UnknownIdentifier"
)

// Diagnostic is one reported error, carrying the source position it
// was raised at and a human-readable message. File is filled in by the
// Walker if the caller didn't set it, mirroring the teacher's
// addError defaulting err.File from the walker's currentFile.
type Diagnostic struct {
	Code    Code
	Token   token.Token
	File    string
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.File, d.Token.Position(), d.Code, d.Message)
}

func New(code Code, tok token.Token, msg string) *Diagnostic {
	return &Diagnostic{Code: code, Token: tok, Message: msg}
}

// Walker accumulates diagnostics across one inference run, deduping by
// (line, column, code) and reporting them sorted by position.
type Walker struct {
	currentFile string
	errorSet    map[string]*Diagnostic
}

// SetFile sets the file newly-added diagnostics are stamped with when
// they don't already carry one.
func (w *Walker) SetFile(file string) { w.currentFile = file }

func (w *Walker) Add(d *Diagnostic) {
	if d.File == "" && w.currentFile != "" {
		d.File = w.currentFile
	}
	if w.errorSet == nil {
		w.errorSet = map[string]*Diagnostic{}
	}
	key := fmt.Sprintf("%d:%d:%s", d.Token.Line, d.Token.Column, d.Code)
	w.errorSet[key] = d
}

func (w *Walker) AddAll(ds []*Diagnostic) {
	for _, d := range ds {
		w.Add(d)
	}
}

// Errors returns every accumulated diagnostic, sorted by position.
func (w *Walker) Errors() []*Diagnostic {
	result := make([]*Diagnostic, 0, len(w.errorSet))
	for _, d := range w.errorSet {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}

func (w *Walker) HasErrors() bool { return len(w.errorSet) > 0 }
