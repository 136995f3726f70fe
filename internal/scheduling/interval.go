package scheduling

import (
	"fmt"
	"time"
)

// TimeRange is a half-open interval [Start, End). Adjacent ranges where one
// ends exactly when the other starts do not overlap, so back-to-back
// bookings are legal.
//
// The zero TimeRange doubles as "closed": an availability resolution with no
// working hours for the day.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is the closed/empty sentinel.
func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Overlaps is the single overlap predicate for the whole engine. Both the
// slot generator and conflict detection route through it; do not restate the
// comparison anywhere else.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether t falls inside [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
