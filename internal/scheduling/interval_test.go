package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tr(t *testing.T, start, end string) TimeRange {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("parse %q: %v", start, err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("parse %q: %v", end, err)
	}
	return TimeRange{Start: s, End: e}
}

func TestTimeRangeOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b TimeRange
		want bool
	}{
		{
			name: "identical",
			a:    tr(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
			b:    tr(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
			want: true,
		},
		{
			name: "partial right",
			a:    tr(t, "2026-03-02T09:00:00Z", "2026-03-02T10:00:00Z"),
			b:    tr(t, "2026-03-02T09:30:00Z", "2026-03-02T10:30:00Z"),
			want: true,
		},
		{
			name: "a contains b",
			a:    tr(t, "2026-03-02T08:00:00Z", "2026-03-02T12:00:00Z"),
			b:    tr(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
			want: true,
		},
		{
			name: "b contains a",
			a:    tr(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
			b:    tr(t, "2026-03-02T08:00:00Z", "2026-03-02T12:00:00Z"),
			want: true,
		},
		{
			name: "adjacent back-to-back",
			a:    tr(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
			b:    tr(t, "2026-03-02T09:30:00Z", "2026-03-02T10:00:00Z"),
			want: false,
		},
		{
			name: "disjoint",
			a:    tr(t, "2026-03-02T08:00:00Z", "2026-03-02T08:30:00Z"),
			b:    tr(t, "2026-03-02T11:00:00Z", "2026-03-02T11:30:00Z"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			// The predicate is symmetric.
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestTimeRangeContains(t *testing.T) {
	r := tr(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z")

	assert.True(t, r.Contains(r.Start), "start is inclusive")
	assert.False(t, r.Contains(r.End), "end is exclusive")
	assert.True(t, r.Contains(r.Start.Add(15*time.Minute)))
	assert.False(t, r.Contains(r.Start.Add(-time.Minute)))
}

func TestTimeRangeIsZero(t *testing.T) {
	assert.True(t, TimeRange{}.IsZero())
	assert.False(t, tr(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z").IsZero())
}
