package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSchedulingConflict is the errors.Is target for *ConflictError.
var ErrSchedulingConflict = errors.New("proposed time overlaps an existing booking")

// ConflictError reports which active appointment blocks a proposed interval,
// so callers can tell "slot just got taken" apart from other failures.
type ConflictError struct {
	AppointmentID uuid.UUID
	Existing      TimeRange
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: appointment %s occupies %s", e.AppointmentID, e.Existing)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSchedulingConflict
}

// findConflict scans the doctor's active appointments around the proposed
// interval and returns the first one it overlaps, skipping excludeID (the
// appointment being rescheduled; pass uuid.Nil otherwise). The ledger query
// is only a coarse range prefilter; TimeRange.Overlaps decides.
func (s *Scheduler) findConflict(ctx context.Context, doctorID uuid.UUID, proposed TimeRange, excludeID uuid.UUID) (*Appointment, error) {
	active, err := s.ledger.ListActiveByDoctor(ctx, doctorID, proposed.Start, proposed.End)
	if err != nil {
		return nil, fmt.Errorf("list active appointments: %w", err)
	}

	for i := range active {
		appt := &active[i]
		if appt.ID == excludeID {
			continue
		}
		if proposed.Overlaps(appt.Range()) {
			return appt, nil
		}
	}
	return nil, nil
}
