package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusUpcoming  AppointmentStatus = "UPCOMING"
	StatusOnGoing   AppointmentStatus = "ON_GOING"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// IsActive reports whether an appointment in this status occupies time on
// the doctor's calendar. Only active appointments participate in conflict
// detection and slot exclusion.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusUpcoming || s == StatusOnGoing
}

type Clinic struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Doctor struct {
	ID        uuid.UUID
	ClinicID  uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PatientProfile struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Service struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	PriceCents      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration returns the service's length as a time.Duration.
func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// DoctorService binds a doctor to a service they offer. Bookings always
// reference this join row so the price and duration in effect at booking
// time are unambiguous.
type DoctorService struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	ServiceID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DoctorAvailability is a recurring weekly working-hours rule. At most one
// rule exists per (doctor, weekday). StartTime and EndTime are wall-clock
// "HH:MM" strings, StartTime < EndTime.
type DoctorAvailability struct {
	DoctorID  uuid.UUID
	Weekday   time.Weekday
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityOverride is a per-date exception to the weekly rule. When one
// exists for a date it supersedes the weekly rule entirely: either the
// doctor is closed that day, or works the override hours instead.
type AvailabilityOverride struct {
	DoctorID  uuid.UUID
	Date      time.Time
	Closed    bool
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID               uuid.UUID
	DoctorID         uuid.UUID
	PatientProfileID uuid.UUID
	ServiceID        uuid.UUID
	ClinicID         uuid.UUID
	StartTime        time.Time
	EndTime          time.Time
	Status           AppointmentStatus
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Range returns the appointment's occupied interval.
func (a Appointment) Range() TimeRange {
	return TimeRange{Start: a.StartTime, End: a.EndTime}
}

// CandidateSlot is an ephemeral bookable window computed for one day. It is
// never persisted and has no identity beyond its interval.
type CandidateSlot struct {
	Start time.Time
	End   time.Time
	Label string
}

// DaySchedule is what the slot-listing operation returns to callers: the
// doctor's effective working hours for the day plus the open slots.
type DaySchedule struct {
	DoctorID               uuid.UUID
	DoctorName             string
	ServiceName            string
	ServiceDurationMinutes int
	WorkingHours           TimeRange
	Slots                  []CandidateSlot
}

type BookingEvent struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
