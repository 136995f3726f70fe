package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/clinichub/clinic-scheduling/internal/redis"
)

// ErrDoctorBusy means another booking write for the same doctor holds the
// lock; the caller should retry shortly.
var ErrDoctorBusy = errors.New("doctor calendar is being updated, please retry")

// Scheduler is the scheduling facade: the only entry point for listing slots
// and driving an appointment through its lifecycle. It is a pure function of
// its injected stores; nothing is cached across requests.
type Scheduler struct {
	availability AvailabilityStore
	catalog      Catalog
	ledger       BookingLedger
	resolver     *AvailabilityResolver
	locker       redisclient.Locker
	notifier     Notifier

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewScheduler(availability AvailabilityStore, catalog Catalog, ledger BookingLedger, locker redisclient.Locker, notifier Notifier) *Scheduler {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Scheduler{
		availability: availability,
		catalog:      catalog,
		ledger:       ledger,
		resolver:     NewAvailabilityResolver(availability),
		locker:       locker,
		notifier:     notifier,
		now:          time.Now,
	}
}

type CreateBookingParams struct {
	DoctorServiceID  uuid.UUID
	PatientProfileID uuid.UUID
	StartTime        time.Time
	Notes            string
}

type RescheduleParams struct {
	AppointmentID      uuid.UUID
	NewStartTime       *time.Time
	NewDoctorServiceID *uuid.UUID
	Notes              *string
}

// ListAvailableSlots resolves the doctor behind the doctor-service, derives
// the day's open interval and returns the bookable slots. A closed day is an
// empty slot list, not an error; only an unknown id fails.
func (s *Scheduler) ListAvailableSlots(ctx context.Context, doctorServiceID uuid.UUID, date time.Time) (*DaySchedule, error) {
	ds, err := s.catalog.GetDoctorService(ctx, doctorServiceID)
	if err != nil {
		return nil, err
	}
	svc, err := s.catalog.GetService(ctx, ds.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}
	doctor, err := s.availability.GetDoctorByID(ctx, ds.DoctorID)
	if err != nil {
		return nil, err
	}

	schedule := &DaySchedule{
		DoctorID:               doctor.ID,
		DoctorName:             doctor.Name,
		ServiceName:            svc.Name,
		ServiceDurationMinutes: svc.DurationMinutes,
	}

	open, err := s.resolver.Resolve(ctx, doctor.ID, date)
	if err != nil {
		return nil, err
	}
	if open.IsZero() {
		return schedule, nil
	}
	schedule.WorkingHours = open

	active, err := s.ledger.ListActiveByDoctor(ctx, doctor.ID, open.Start, open.End)
	if err != nil {
		return nil, fmt.Errorf("list booked intervals: %w", err)
	}
	booked := make([]TimeRange, 0, len(active))
	for _, appt := range active {
		booked = append(booked, appt.Range())
	}

	slots, err := GenerateSlots(open, svc.Duration(), booked)
	if err != nil {
		return nil, err
	}
	schedule.Slots = slots

	return schedule, nil
}

// CreateBooking commits a new UPCOMING appointment. The conflict check and
// the insert run inside the per-doctor lock so no second writer can slip a
// booking into the same interval between the two steps.
func (s *Scheduler) CreateBooking(ctx context.Context, p CreateBookingParams) (*Appointment, error) {
	ds, err := s.catalog.GetDoctorService(ctx, p.DoctorServiceID)
	if err != nil {
		return nil, err
	}
	svc, err := s.catalog.GetService(ctx, ds.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}
	doctor, err := s.availability.GetDoctorByID(ctx, ds.DoctorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetPatientProfile(ctx, p.PatientProfileID); err != nil {
		return nil, err
	}

	proposed, err := s.proposedRange(p.StartTime, svc.Duration())
	if err != nil {
		return nil, err
	}

	var created *Appointment

	err = s.locker.WithDoctorLock(ctx, doctor.ID, func(lockCtx context.Context) error {
		conflict, err := s.findConflict(lockCtx, doctor.ID, proposed, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{AppointmentID: conflict.ID, Existing: conflict.Range()}
		}

		appt := &Appointment{
			ID:               uuid.New(),
			DoctorID:         doctor.ID,
			PatientProfileID: p.PatientProfileID,
			ServiceID:        svc.ID,
			ClinicID:         doctor.ClinicID,
			StartTime:        proposed.Start,
			EndTime:          proposed.End,
			Status:           StatusUpcoming,
			Notes:            p.Notes,
		}
		created, err = s.ledger.CreateAppointment(lockCtx, appt)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		s.recordEvent(lockCtx, EventBookingCreated, created)
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrDoctorBusy
		}
		return nil, err
	}

	return created, nil
}

// RescheduleBooking moves an UPCOMING appointment to a new interval and
// possibly a new doctor-service. The conflict search excludes the
// appointment itself so moving within (or adjacent to) its own old interval
// is legal.
func (s *Scheduler) RescheduleBooking(ctx context.Context, p RescheduleParams) (*Appointment, error) {
	appt, err := s.ledger.GetAppointmentByID(ctx, p.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(appt.Status, StatusUpcoming); err != nil {
		return nil, err
	}

	doctorID := appt.DoctorID
	serviceID := appt.ServiceID
	clinicID := appt.ClinicID
	var svc *Service
	if p.NewDoctorServiceID != nil {
		ds, err := s.catalog.GetDoctorService(ctx, *p.NewDoctorServiceID)
		if err != nil {
			return nil, err
		}
		doctor, err := s.availability.GetDoctorByID(ctx, ds.DoctorID)
		if err != nil {
			return nil, err
		}
		doctorID = doctor.ID
		serviceID = ds.ServiceID
		clinicID = doctor.ClinicID
	}
	svc, err = s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}

	start := appt.StartTime
	if p.NewStartTime != nil {
		start = *p.NewStartTime
	}
	proposed, err := s.proposedRange(start, svc.Duration())
	if err != nil {
		return nil, err
	}

	notes := appt.Notes
	if p.Notes != nil {
		notes = *p.Notes
	}

	var updated *Appointment

	err = s.locker.WithDoctorLock(ctx, doctorID, func(lockCtx context.Context) error {
		conflict, err := s.findConflict(lockCtx, doctorID, proposed, appt.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{AppointmentID: conflict.ID, Existing: conflict.Range()}
		}

		updated, err = s.ledger.UpdateAppointmentSchedule(lockCtx, appt.ID, doctorID, serviceID, clinicID, proposed.Start, proposed.End, notes)
		if err != nil {
			// The row stopped being UPCOMING between our read and the
			// compare-and-set write.
			if errors.Is(err, ErrAppointmentNotFound) {
				return fmt.Errorf("%w: appointment no longer reschedulable", ErrInvalidStateTransition)
			}
			return fmt.Errorf("reschedule appointment: %w", err)
		}

		s.recordEvent(lockCtx, EventBookingRescheduled, updated)
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrDoctorBusy
		}
		return nil, err
	}

	return updated, nil
}

// CancelBooking is legal from UPCOMING or ON_GOING. Cancelling a terminal
// appointment is rejected, never silently ignored.
func (s *Scheduler) CancelBooking(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusCancelled, EventBookingCancelled)
}

// CheckIn moves an UPCOMING appointment to ON_GOING.
func (s *Scheduler) CheckIn(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusOnGoing, EventBookingCheckedIn)
}

// GetAppointment is a ledger passthrough for callers rendering a booking.
func (s *Scheduler) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.ledger.GetAppointmentByID(ctx, id)
}

func (s *Scheduler) transition(ctx context.Context, id uuid.UUID, to AppointmentStatus, eventType string) error {
	appt, err := s.ledger.GetAppointmentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkTransition(appt.Status, to); err != nil {
		return err
	}

	updated, err := s.ledger.UpdateAppointmentStatus(ctx, appt.ID, appt.Status, to)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a race: the status changed since we read it.
			return fmt.Errorf("%w: appointment is no longer %s", ErrInvalidStateTransition, appt.Status)
		}
		return fmt.Errorf("update appointment status: %w", err)
	}

	s.recordEvent(ctx, eventType, updated)
	return nil
}

// CompleteElapsedAppointments moves ON_GOING appointments whose end time has
// passed to COMPLETED. Called periodically by the completion worker.
func (s *Scheduler) CompleteElapsedAppointments(ctx context.Context) error {
	elapsed, err := s.ledger.FindElapsedOnGoing(ctx, s.now())
	if err != nil {
		return fmt.Errorf("find elapsed appointments: %w", err)
	}

	for _, appt := range elapsed {
		updated, err := s.ledger.UpdateAppointmentStatus(ctx, appt.ID, StatusOnGoing, StatusCompleted)
		if err != nil {
			if !errors.Is(err, ErrAppointmentNotFound) {
				log.Printf("failed to complete appointment %s: %v", appt.ID, err)
			}
			continue
		}
		s.recordEvent(ctx, EventBookingCompleted, updated)
	}

	return nil
}

// proposedRange validates a requested start against the clock and derives
// the half-open interval occupied by the booking.
func (s *Scheduler) proposedRange(start time.Time, duration time.Duration) (TimeRange, error) {
	if duration <= 0 {
		return TimeRange{}, fmt.Errorf("%w: service duration %s", ErrInvalidInterval, duration)
	}
	if start.Before(s.now()) {
		return TimeRange{}, fmt.Errorf("%w: start time %s is in the past", ErrInvalidInterval, start.Format(time.RFC3339))
	}
	return TimeRange{Start: start, End: start.Add(duration)}, nil
}
