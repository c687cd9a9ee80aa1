package split

// ValidationError reports invalid strategy parameters or expense inputs.
// It is always raised before any ledger state is touched, so the caller
// can fix the input and retry.
type ValidationError struct {
	// Field names the offending input, e.g. "amount", "weights".
	Field string
	// Participants lists the offending participant names, when the
	// failure is attributable to specific people.
	Participants []string
	Reason       string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
