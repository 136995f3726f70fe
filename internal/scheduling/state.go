package scheduling

import (
	"errors"
	"fmt"
)

var ErrInvalidStateTransition = errors.New("invalid appointment status transition")

// validTransitions is the full status machine. UPCOMING -> UPCOMING covers
// reschedules, which keep the status but rewrite the interval. COMPLETED and
// CANCELLED are terminal.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusUpcoming: {StatusUpcoming, StatusOnGoing, StatusCancelled},
	StatusOnGoing:  {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns ErrInvalidStateTransition (wrapped with both
// statuses for diagnostics) when the move is illegal.
func checkTransition(from, to AppointmentStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
	}
	return nil
}
