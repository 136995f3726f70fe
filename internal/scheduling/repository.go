package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClinicNotFound        = errors.New("clinic not found")
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrPatientNotFound       = errors.New("patient profile not found")
	ErrServiceNotFound       = errors.New("service not found")
	ErrDoctorServiceNotFound = errors.New("doctor service not found")
	ErrAppointmentNotFound   = errors.New("appointment not found")

	// ErrNoAvailabilityRule means the doctor has no weekly rule for the
	// weekday; the resolver treats it as a closed day, never as a failure.
	ErrNoAvailabilityRule = errors.New("no availability rule for weekday")
	// ErrNoOverride means no date-specific exception exists, so the weekly
	// rule stands.
	ErrNoOverride = errors.New("no availability override for date")
)

// AvailabilityStore is read-only access to doctors and their working hours.
type AvailabilityStore interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetWeeklyRule(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) (*DoctorAvailability, error)
	GetOverride(ctx context.Context, doctorID uuid.UUID, date time.Time) (*AvailabilityOverride, error)
}

// Catalog is read-only access to the clinic's service offering and patients.
type Catalog interface {
	GetDoctorService(ctx context.Context, id uuid.UUID) (*DoctorService, error)
	GetService(ctx context.Context, id uuid.UUID) (*Service, error)
	GetPatientProfile(ctx context.Context, id uuid.UUID) (*PatientProfile, error)
}

// BookingLedger owns appointment records. The engine reads and writes
// through it and never caches appointments across requests.
type BookingLedger interface {
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListActiveByDoctor returns the doctor's UPCOMING and ON_GOING
	// appointments whose intervals fall at least partly inside [from, to),
	// ordered by start time.
	ListActiveByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Appointment, error)

	CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error)

	// UpdateAppointmentSchedule rewrites the interval (and possibly the
	// doctor/service binding) of an appointment, but only while it is still
	// UPCOMING. No rows updated maps to ErrAppointmentNotFound.
	UpdateAppointmentSchedule(ctx context.Context, id, doctorID, serviceID, clinicID uuid.UUID, start, end time.Time, notes string) (*Appointment, error)

	// UpdateAppointmentStatus is a compare-and-set: the row moves from
	// `from` to `to` only if it is still in `from`. No rows updated maps to
	// ErrAppointmentNotFound.
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)

	// FindElapsedOnGoing returns ON_GOING appointments whose end time has
	// passed; used by the completion worker.
	FindElapsedOnGoing(ctx context.Context, now time.Time) ([]Appointment, error)

	InsertEvent(ctx context.Context, ev BookingEvent) error
}
