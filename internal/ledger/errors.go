package ledger

import "fmt"

// LookupError reports a reference to an entity the ledger does not hold.
// It is recoverable: the caller may create the person (or enable
// auto-creation) and retry.
type LookupError struct {
	Entity string // "person" or "expense"
	Key    string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// ConsistencyError signals a broken internal invariant, such as the sum of
// all balances drifting away from zero. It indicates a bug and must not be
// caught and retried.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return "ledger consistency violated: " + e.Reason
}
