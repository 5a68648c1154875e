// Grounded on internal/analyzer/analyzer.go's walker.addError and the
// §7 error taxonomy.
package unify

import (
	"fmt"

	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// ErrorKind discriminates the §7 taxonomy members this package can raise.
type ErrorKind string

const (
	KindUnificationFailure  ErrorKind = "UnificationFailure"
	KindInfiniteType        ErrorKind = "InfiniteType"
	KindNotEnoughArguments  ErrorKind = "NotEnoughArguments"
	KindSpreadNotAllowed    ErrorKind = "SpreadNotAllowed"
	KindUndecidableIsect    ErrorKind = "UndecidableIntersection"
	KindTupleSpreadOutside  ErrorKind = "TupleSpreadOutsideTuple"
)

// Error is a typed unification failure carrying both participating types.
type Error struct {
	Kind ErrorKind
	T1   types.Type
	T2   types.Type
	Msg  string
}

func (e *Error) Error() string {
	if e.T1 != nil && e.T2 != nil {
		return fmt.Sprintf("%s: %s", e.Msg, msgTypes(e.T1, e.T2))
	}
	return e.Msg
}

func msgTypes(t1, t2 types.Type) string {
	return fmt.Sprintf("%q is not assignable to %q", t1.String(), t2.String())
}

func failure(t1, t2 types.Type, why string) error {
	return &Error{Kind: KindUnificationFailure, T1: t1, T2: t2, Msg: why}
}

func infiniteType(v types.Var, t types.Type) error {
	return &Error{Kind: KindInfiniteType, T1: v, T2: t, Msg: fmt.Sprintf("infinite type: %s occurs in %s", v, t)}
}
