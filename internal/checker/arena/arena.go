// Package arena implements spec §2 item 1: fresh type-variable id
// allocation, stable and unique within one inference run.
//
// Grounded on internal/analyzer/inference.go's InferenceContext
// counter/BaseCounter (teacher): one monotonically increasing counter
// per run, never reset mid-run. The teacher checks one module tree per
// process, so a bare int counter suffices there; this module's
// checkerrpc service (see DESIGN.md) can have several inference runs
// in flight in the same process, so each Arena is stamped with a
// RunID identifying its run. Var ids and their printed form do not
// include the RunID, so the numeric ids of two runs may coincide.
package arena

import "github.com/google/uuid"

// Arena owns one run's fresh-id counter.
type Arena struct {
	RunID  uuid.UUID
	nextID int
}

// New creates an Arena with a fresh RunID and a counter starting at 0.
func New() *Arena {
	return &Arena{RunID: uuid.New()}
}

// Fresh returns the next unique id for this run.
func (a *Arena) Fresh() int {
	a.nextID++
	return a.nextID
}

// Len reports how many ids this arena has allocated so far, mainly
// useful for tests asserting an inference run stayed within an
// expected variable budget.
func (a *Arena) Len() int { return a.nextID }
