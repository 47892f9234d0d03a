package ir

import "fmt"

// Status is the lifecycle state of one scenario invocation.
//
//	pending -> running -> passed
//	                   -> failed
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusPassed || s == StatusFailed
}

// TransitionError is returned for a move the lifecycle does not allow.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// Transition returns next if the move from s is allowed.
func (s Status) Transition(next Status) (Status, error) {
	switch {
	case s == StatusPending && next == StatusRunning:
		return next, nil
	case s == StatusRunning && next.Terminal():
		return next, nil
	default:
		return s, &TransitionError{From: s, To: next}
	}
}
