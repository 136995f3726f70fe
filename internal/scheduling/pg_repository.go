package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository implements AvailabilityStore, Catalog and BookingLedger on a
// single pgx pool.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var specialty *string

	err := row.Scan(
		&d.ID,
		&d.ClinicID,
		&d.Name,
		&specialty,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	d.Specialty = specialty
	return &d, nil
}

func scanPatientProfile(row pgx.Row) (*PatientProfile, error) {
	var p PatientProfile
	var email *string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	p.Email = email
	return &p, nil
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.DurationMinutes,
		&s.PriceCents,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanDoctorService(row pgx.Row) (*DoctorService, error) {
	var ds DoctorService

	err := row.Scan(
		&ds.ID,
		&ds.DoctorID,
		&ds.ServiceID,
		&ds.CreatedAt,
		&ds.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorServiceNotFound
		}
		return nil, err
	}

	return &ds, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientProfileID,
		&a.ServiceID,
		&a.ClinicID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

const appointmentColumns = `id, doctor_id, patient_profile_id, service_id, clinic_id, start_time, end_time, status, notes, created_at, updated_at`

// AvailabilityStore

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, clinic_id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetWeeklyRule(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) (*DoctorAvailability, error) {
	var rule DoctorAvailability
	var weekdayInt int

	row := r.pool.QueryRow(ctx, `
		SELECT doctor_id, weekday, start_time, end_time, created_at, updated_at
		FROM doctor_availability
		WHERE doctor_id = $1 AND weekday = $2
	`, doctorID, int(weekday))

	err := row.Scan(
		&rule.DoctorID,
		&weekdayInt,
		&rule.StartTime,
		&rule.EndTime,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAvailabilityRule
		}
		return nil, err
	}

	rule.Weekday = time.Weekday(weekdayInt)
	return &rule, nil
}

func (r *PgRepository) GetOverride(ctx context.Context, doctorID uuid.UUID, date time.Time) (*AvailabilityOverride, error) {
	var ov AvailabilityOverride
	var start, end *string

	row := r.pool.QueryRow(ctx, `
		SELECT doctor_id, date, closed, start_time, end_time, created_at, updated_at
		FROM availability_overrides
		WHERE doctor_id = $1 AND date = $2::date
	`, doctorID, date.Format("2006-01-02"))

	err := row.Scan(
		&ov.DoctorID,
		&ov.Date,
		&ov.Closed,
		&start,
		&end,
		&ov.CreatedAt,
		&ov.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoOverride
		}
		return nil, err
	}

	if start != nil {
		ov.StartTime = *start
	}
	if end != nil {
		ov.EndTime = *end
	}
	return &ov, nil
}

// Catalog

func (r *PgRepository) GetDoctorService(ctx context.Context, id uuid.UUID) (*DoctorService, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, service_id, created_at, updated_at
		FROM doctor_services
		WHERE id = $1
	`, id)
	return scanDoctorService(row)
}

func (r *PgRepository) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, duration_minutes, price_cents, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) GetPatientProfile(ctx context.Context, id uuid.UUID) (*PatientProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM patient_profiles
		WHERE id = $1
	`, id)
	return scanPatientProfile(row)
}

// BookingLedger

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

// ListActiveByDoctor prefilters with the same half-open comparison that
// TimeRange.Overlaps applies; the Go predicate remains the decision point.
func (r *PgRepository) ListActiveByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND status IN ('UPCOMING', 'ON_GOING')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_profile_id, service_id, clinic_id, start_time, end_time, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+appointmentColumns+`
	`, appt.ID, appt.DoctorID, appt.PatientProfileID, appt.ServiceID, appt.ClinicID, appt.StartTime, appt.EndTime, appt.Status, appt.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentSchedule(ctx context.Context, id, doctorID, serviceID, clinicID uuid.UUID, start, end time.Time, notes string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET doctor_id = $2,
		    service_id = $3,
		    clinic_id = $4,
		    start_time = $5,
		    end_time = $6,
		    notes = $7,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'UPCOMING'
		RETURNING `+appointmentColumns+`
	`, id, doctorID, serviceID, clinicID, start, end, notes)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from)

	return scanAppointment(row)
}

func (r *PgRepository) FindElapsedOnGoing(ctx context.Context, now time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status = 'ON_GOING'
		  AND end_time < $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev BookingEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO booking_events (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert booking event: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
