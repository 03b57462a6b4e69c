package models

import "fmt"

// InvariantError reports corrupt persisted state: a record that violates an
// invariant the engine never produces (for example a claimed-but-incomplete
// mission). It is logged and surfaced, never silently coerced.
type InvariantError struct {
	Entity string
	ID     any
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation on %s %v: %s", e.Entity, e.ID, e.Reason)
}
