// Package cancel provides a cooperative cancellation handle. The kernel
// never checks it inside a hot loop; callers are responsible for checking
// between kernel calls, at pipeline stage boundaries.
package cancel

import (
	"fmt"
	"sync/atomic"
)

// State is the cancellation state of a Handle.
type State int32

const (
	NotCancelled State = iota
	Timeout
	Manual
)

func (s State) String() string {
	switch s {
	case NotCancelled:
		return "not cancelled"
	case Timeout:
		return "timeout"
	case Manual:
		return "manual cancellation"
	default:
		return "unknown cancellation state"
	}
}

// Error is raised by ThrowIfCancelled once a Handle has been cancelled. It
// carries the detail string supplied at the check site, so a caller can
// tell which stage of a pipeline was interrupted.
type Error struct {
	State  State
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cancelled (%s): %s", e.State, e.Detail)
}

// Handle is a cooperative cancellation flag, safe for concurrent use. The
// zero value is a valid, not-yet-cancelled Handle.
type Handle struct {
	state atomic.Int32
}

// New returns a Handle in the NotCancelled state.
func New() *Handle {
	return &Handle{}
}

// Cancel transitions the handle to reason, which must not be NotCancelled.
// It panics on that misuse: cancelling "for no reason" is a caller bug, not
// a runtime condition the kernel should absorb.
func (h *Handle) Cancel(reason State) {
	if reason == NotCancelled {
		panic("cancel: Cancel called with NotCancelled, which is not a valid reason")
	}
	h.state.Store(int32(reason))
}

// IsCancelled reports the current cancellation state.
func (h *Handle) IsCancelled() bool {
	return State(h.state.Load()) != NotCancelled
}

// ThrowIfCancelled returns a *Error carrying detail if the handle has been
// cancelled, and nil otherwise. Callers invoke this between kernel stages,
// never inside a posting-list scan.
func (h *Handle) ThrowIfCancelled(detail string) error {
	if s := State(h.state.Load()); s != NotCancelled {
		return &Error{State: s, Detail: detail}
	}
	return nil
}
