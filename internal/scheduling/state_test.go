package scheduling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	statuses := []AppointmentStatus{StatusUpcoming, StatusOnGoing, StatusCompleted, StatusCancelled}

	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		StatusUpcoming: {
			StatusUpcoming:  true, // reschedule
			StatusOnGoing:   true, // check-in
			StatusCancelled: true,
		},
		StatusOnGoing: {
			StatusCompleted: true,
			StatusCancelled: true,
		},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCheckTransitionError(t *testing.T) {
	err := checkTransition(StatusCancelled, StatusCancelled)
	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
	assert.Contains(t, err.Error(), "CANCELLED")

	assert.NoError(t, checkTransition(StatusUpcoming, StatusOnGoing))
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, StatusUpcoming.IsActive())
	assert.True(t, StatusOnGoing.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}
