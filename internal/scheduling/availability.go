package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityResolver computes a doctor's effective open interval for a
// calendar date from the weekly rules and date overrides.
type AvailabilityResolver struct {
	store AvailabilityStore
}

func NewAvailabilityResolver(store AvailabilityStore) *AvailabilityResolver {
	return &AvailabilityResolver{store: store}
}

// Resolve returns the open interval for the doctor on the given date, or the
// zero TimeRange when the doctor is closed that day. An override for the
// exact date wins over the weekly rule; a missing weekly rule means closed,
// never a silent fallback to default hours.
func (r *AvailabilityResolver) Resolve(ctx context.Context, doctorID uuid.UUID, date time.Time) (TimeRange, error) {
	if _, err := r.store.GetDoctorByID(ctx, doctorID); err != nil {
		return TimeRange{}, err
	}

	ov, err := r.store.GetOverride(ctx, doctorID, date)
	if err != nil && !errors.Is(err, ErrNoOverride) {
		return TimeRange{}, fmt.Errorf("load availability override: %w", err)
	}
	if ov != nil {
		if ov.Closed {
			return TimeRange{}, nil
		}
		return wallClockRange(date, ov.StartTime, ov.EndTime)
	}

	rule, err := r.store.GetWeeklyRule(ctx, doctorID, date.Weekday())
	if err != nil {
		if errors.Is(err, ErrNoAvailabilityRule) {
			return TimeRange{}, nil
		}
		return TimeRange{}, fmt.Errorf("load weekly rule: %w", err)
	}

	return wallClockRange(date, rule.StartTime, rule.EndTime)
}

// wallClockRange places two "HH:MM" bounds onto the given date, in the
// date's location.
func wallClockRange(date time.Time, startHM, endHM string) (TimeRange, error) {
	start, err := wallClockOn(date, startHM)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := wallClockOn(date, endHM)
	if err != nil {
		return TimeRange{}, err
	}
	if !start.Before(end) {
		return TimeRange{}, fmt.Errorf("%w: availability %s-%s", ErrInvalidInterval, startHM, endHM)
	}
	return TimeRange{Start: start, End: end}, nil
}

func wallClockOn(date time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse wall-clock time %q: %w", hm, err)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), nil
}
