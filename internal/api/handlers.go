package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	redisclient "github.com/clinichub/clinic-scheduling/internal/redis"
	"github.com/clinichub/clinic-scheduling/internal/scheduling"
)

func listSlotsHandler(svc *scheduling.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "id")
		doctorServiceID, err := uuid.Parse(idStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_service_id", "id must be a valid UUID")
			return
		}

		dateStr := r.URL.Query().Get("date")
		date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		schedule, err := svc.ListAvailableSlots(r.Context(), doctorServiceID, date)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDayScheduleResponse(schedule))
	}
}

func createBookingHandler(svc *scheduling.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorServiceID, err := uuid.Parse(req.DoctorServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_service_id", "doctor_service_id must be a valid UUID")
			return
		}

		patientProfileID, err := uuid.Parse(req.PatientProfileID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_profile_id", "patient_profile_id must be a valid UUID")
			return
		}

		if req.StartTime.IsZero() {
			writeError(w, http.StatusBadRequest, "invalid_start_time", "start_time is required")
			return
		}

		appt, err := svc.CreateBooking(r.Context(), scheduling.CreateBookingParams{
			DoctorServiceID:  doctorServiceID,
			PatientProfileID: patientProfileID,
			StartTime:        req.StartTime,
			Notes:            req.Notes,
		})
		if err != nil {
			handleSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func getBookingHandler(svc *scheduling.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func rescheduleBookingHandler(svc *scheduling.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req RescheduleBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		params := scheduling.RescheduleParams{
			AppointmentID: id,
			NewStartTime:  req.NewStartTime,
			Notes:         req.Notes,
		}
		if req.NewDoctorServiceID != nil {
			dsID, err := uuid.Parse(*req.NewDoctorServiceID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_service_id", "new_doctor_service_id must be a valid UUID")
				return
			}
			params.NewDoctorServiceID = &dsID
		}

		appt, err := svc.RescheduleBooking(r.Context(), params)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func cancelBookingHandler(svc *scheduling.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		if err := svc.CancelBooking(r.Context(), id); err != nil {
			handleSchedulingError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func checkInHandler(svc *scheduling.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		if err := svc.CheckIn(r.Context(), id); err != nil {
			handleSchedulingError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSchedulingError maps the scheduling error taxonomy onto HTTP. The
// codes stay distinct so the UI can tell "slot just got taken" apart from
// "doctor doesn't exist".
func handleSchedulingError(w http.ResponseWriter, err error) {
	var conflict *scheduling.ConflictError

	switch {
	case errors.Is(err, scheduling.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, scheduling.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, scheduling.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, scheduling.ErrDoctorServiceNotFound):
		writeError(w, http.StatusNotFound, "doctor_service_not_found", err.Error())
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "scheduling_conflict", conflict.Error())
	case errors.Is(err, scheduling.ErrDoctorBusy),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "doctor_busy", "doctor calendar is being updated, please retry shortly")
	case errors.Is(err, scheduling.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, scheduling.ErrInvalidInterval):
		writeError(w, http.StatusUnprocessableEntity, "invalid_interval", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
