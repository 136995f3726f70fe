package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// SlotStep is the fixed distance between candidate start times. It is
// independent of service duration: slots always begin on the half hour.
const SlotStep = 30 * time.Minute

var ErrInvalidInterval = errors.New("invalid time interval")

// GenerateSlots enumerates candidate slots of the given duration inside the
// open interval, stepping SlotStep from its start and keeping only
// candidates that fit entirely before its end and overlap none of the booked
// ranges. The result is ascending by start time and fully materialized.
//
// A zero (closed) open interval yields no slots and no error. A non-positive
// duration is a configuration error and fails fast.
func GenerateSlots(open TimeRange, duration time.Duration, booked []TimeRange) ([]CandidateSlot, error) {
	if open.IsZero() {
		return nil, nil
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: service duration %s", ErrInvalidInterval, duration)
	}

	var slots []CandidateSlot
	for start := open.Start; !start.Add(duration).After(open.End); start = start.Add(SlotStep) {
		candidate := TimeRange{Start: start, End: start.Add(duration)}
		if overlapsAny(candidate, booked) {
			continue
		}
		slots = append(slots, CandidateSlot{
			Start: candidate.Start,
			End:   candidate.End,
			Label: slotLabel(candidate),
		})
	}
	return slots, nil
}

func overlapsAny(candidate TimeRange, booked []TimeRange) bool {
	for _, b := range booked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func slotLabel(r TimeRange) string {
	return fmt.Sprintf("%s - %s", r.Start.Format("15:04"), r.End.Format("15:04"))
}
