package sched

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds returned by the scheduling core. All of them are recoverable by
// the caller; a rejected operation never leaves partial mutations behind.
var (
	// ErrNotFound reports an unknown resource, appointment, quote or job order id.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyDecided reports an approve/reject on a quote that is no longer pending.
	ErrAlreadyDecided = errors.New("quote already decided")

	// ErrInvalidWindow reports a reservation window with non-positive duration.
	ErrInvalidWindow = errors.New("invalid time window")
)

// InvalidTransitionError reports an illegal state-machine move. The entity is
// left unchanged.
type InvalidTransitionError struct {
	From      string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.Attempted)
}

// ConflictWindow names one existing reservation that blocks a requested window.
type ConflictWindow struct {
	AppointmentID int64     `json:"appointmentId"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// ConflictError reports a time-window overlap on a resource, naming every
// reservation that overlaps the requested window.
type ConflictError struct {
	ResourceID   int64            `json:"resourceId"`
	ResourceName string           `json:"resourceName"`
	Conflicts    []ConflictWindow `json:"conflicts"`
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = fmt.Sprintf("appointment %d %s-%s",
			c.AppointmentID, c.Start.Format("15:04"), c.End.Format("15:04"))
	}
	return fmt.Sprintf("%s busy: %s", e.ResourceName, strings.Join(parts, ", "))
}
