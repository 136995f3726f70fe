package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinichub/clinic-scheduling/internal/scheduling"
)

type CreateBookingRequest struct {
	DoctorServiceID  string    `json:"doctor_service_id"`
	PatientProfileID string    `json:"patient_profile_id"`
	StartTime        time.Time `json:"start_time"`
	Notes            string    `json:"notes,omitempty"`
}

type RescheduleBookingRequest struct {
	NewStartTime       *time.Time `json:"new_start_time,omitempty"`
	NewDoctorServiceID *string    `json:"new_doctor_service_id,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID               uuid.UUID `json:"id"`
	DoctorID         uuid.UUID `json:"doctor_id"`
	PatientProfileID uuid.UUID `json:"patient_profile_id"`
	ServiceID        uuid.UUID `json:"service_id"`
	ClinicID         uuid.UUID `json:"clinic_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:               a.ID,
		DoctorID:         a.DoctorID,
		PatientProfileID: a.PatientProfileID,
		ServiceID:        a.ServiceID,
		ClinicID:         a.ClinicID,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		Status:           string(a.Status),
		Notes:            a.Notes,
	}
}

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

type WorkingHoursResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DayScheduleResponse struct {
	DoctorID               uuid.UUID             `json:"doctor_id"`
	DoctorName             string                `json:"doctor_name"`
	ServiceName            string                `json:"service_name"`
	ServiceDurationMinutes int                   `json:"service_duration_minutes"`
	WorkingHours           *WorkingHoursResponse `json:"working_hours,omitempty"`
	Slots                  []SlotResponse        `json:"slots"`
}

func toDayScheduleResponse(d *scheduling.DaySchedule) DayScheduleResponse {
	resp := DayScheduleResponse{
		DoctorID:               d.DoctorID,
		DoctorName:             d.DoctorName,
		ServiceName:            d.ServiceName,
		ServiceDurationMinutes: d.ServiceDurationMinutes,
		Slots:                  make([]SlotResponse, 0, len(d.Slots)),
	}
	if !d.WorkingHours.IsZero() {
		resp.WorkingHours = &WorkingHoursResponse{
			Start: d.WorkingHours.Start,
			End:   d.WorkingHours.End,
		}
	}
	for _, s := range d.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{Start: s.Start, End: s.End, Label: s.Label})
	}
	return resp
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
