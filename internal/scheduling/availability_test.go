package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolverFixture(t *testing.T) (*memRepo, *AvailabilityResolver, uuid.UUID) {
	t.Helper()
	repo := newMemRepo()
	doctorID := uuid.New()
	repo.doctors[doctorID] = &Doctor{ID: doctorID, ClinicID: uuid.New(), Name: "Dr. Reyes"}
	return repo, NewAvailabilityResolver(repo), doctorID
}

func TestResolveWeeklyRule(t *testing.T) {
	repo, resolver, doctorID := newResolverFixture(t)
	repo.addWeeklyRule(doctorID, time.Monday, "08:00", "12:00")

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	open, err := resolver.Resolve(context.Background(), doctorID, monday)
	require.NoError(t, err)

	assert.Equal(t, mondayAt("08:00"), open.Start)
	assert.Equal(t, mondayAt("12:00"), open.End)
}

func TestResolveNoRuleMeansClosed(t *testing.T) {
	_, resolver, doctorID := newResolverFixture(t)

	sunday := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	open, err := resolver.Resolve(context.Background(), doctorID, sunday)
	require.NoError(t, err)
	assert.True(t, open.IsZero())
}

func TestResolveOverrideClosedWinsOverWeeklyRule(t *testing.T) {
	repo, resolver, doctorID := newResolverFixture(t)
	repo.addWeeklyRule(doctorID, time.Monday, "08:00", "12:00")

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	repo.addOverride(&AvailabilityOverride{DoctorID: doctorID, Date: monday, Closed: true})

	open, err := resolver.Resolve(context.Background(), doctorID, monday)
	require.NoError(t, err)
	assert.True(t, open.IsZero())
}

func TestResolveOverrideModifiedHours(t *testing.T) {
	repo, resolver, doctorID := newResolverFixture(t)
	repo.addWeeklyRule(doctorID, time.Monday, "08:00", "12:00")

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	repo.addOverride(&AvailabilityOverride{
		DoctorID:  doctorID,
		Date:      monday,
		StartTime: "10:00",
		EndTime:   "14:00",
	})

	open, err := resolver.Resolve(context.Background(), doctorID, monday)
	require.NoError(t, err)
	assert.Equal(t, mondayAt("10:00"), open.Start)
	assert.Equal(t, mondayAt("14:00"), open.End)
}

func TestResolveOverrideOnlyAffectsItsDate(t *testing.T) {
	repo, resolver, doctorID := newResolverFixture(t)
	repo.addWeeklyRule(doctorID, time.Monday, "08:00", "12:00")

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	repo.addOverride(&AvailabilityOverride{DoctorID: doctorID, Date: monday, Closed: true})

	nextMonday := monday.AddDate(0, 0, 7)
	open, err := resolver.Resolve(context.Background(), doctorID, nextMonday)
	require.NoError(t, err)
	assert.False(t, open.IsZero())
	assert.Equal(t, "08:00", open.Start.Format("15:04"))
}

func TestResolveUnknownDoctor(t *testing.T) {
	_, resolver, _ := newResolverFixture(t)

	_, err := resolver.Resolve(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestResolveMalformedRule(t *testing.T) {
	repo, resolver, doctorID := newResolverFixture(t)
	repo.addWeeklyRule(doctorID, time.Monday, "12:00", "08:00")

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve(context.Background(), doctorID, monday)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
