package grant

import "fmt"

// ValidationError reports a missing mandatory field. It aborts the whole
// save before any table is touched and surfaces as a client error.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mandatory field missing: %s", e.Field)
}

// CriticalError reports a failed mandatory write (the request row or its
// details). The save is aborted and the caller sees request_id -1.
type CriticalError struct {
	Op  string
	Err error
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CriticalError) Unwrap() error { return e.Err }
