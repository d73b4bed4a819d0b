package facts

import "fmt"

// ExtractionError indicates that a fact bag could not be built for a target.
// It is surfaced before any scoring happens and maps to the CLI's
// "could not assess" exit code.
type ExtractionError struct {
	// Target is the target path that could not be assessed.
	Target string

	// Reason is a short human-readable explanation.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fact extraction failed for %q: %s: %v", e.Target, e.Reason, e.Err)
	}
	return fmt.Sprintf("fact extraction failed for %q: %s", e.Target, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(target, reason string, err error) *ExtractionError {
	return &ExtractionError{
		Target: target,
		Reason: reason,
		Err:    err,
	}
}
