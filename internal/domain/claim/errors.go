package claim

import "fmt"

// ValidationError means required input was missing or malformed. It is raised
// before any gateway call or persistence is attempted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PersistenceError means a mandatory store operation failed. The gateway call
// that preceded it (if any) already happened and is never retried here; Op
// names the failed step so the caller can decide what to retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
