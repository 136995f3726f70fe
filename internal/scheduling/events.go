package scheduling

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	EventBookingCreated     = "BOOKING_CREATED"
	EventBookingRescheduled = "BOOKING_RESCHEDULED"
	EventBookingCancelled   = "BOOKING_CANCELLED"
	EventBookingCheckedIn   = "BOOKING_CHECKED_IN"
	EventBookingCompleted   = "BOOKING_COMPLETED"
)

// Notifier delivers booking events to interested systems (notification
// service, chat). Delivery is fire-and-forget: a failed publish is logged
// and never rolls back the booking.
type Notifier interface {
	PublishBookingEvent(ctx context.Context, payload []byte) error
}

// NopNotifier discards events; used where no broker is wired (worker, tests).
type NopNotifier struct{}

func (NopNotifier) PublishBookingEvent(ctx context.Context, payload []byte) error { return nil }

// recordEvent appends the event to the ledger's event log and publishes it.
// Both sides are best-effort.
func (s *Scheduler) recordEvent(ctx context.Context, eventType string, appt *Appointment) {
	payload, err := json.Marshal(map[string]any{
		"event":          eventType,
		"appointment_id": appt.ID.String(),
		"doctor_id":      appt.DoctorID.String(),
		"patient_id":     appt.PatientProfileID.String(),
		"start_time":     appt.StartTime,
		"end_time":       appt.EndTime,
		"status":         appt.Status,
	})
	if err != nil {
		log.Printf("failed to marshal %s payload for appointment %s: %v", eventType, appt.ID, err)
		return
	}

	apptID := appt.ID
	ev := BookingEvent{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
	if err := s.ledger.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert %s event for appointment %s: %v", eventType, appt.ID, err)
	}

	if err := s.notifier.PublishBookingEvent(ctx, payload); err != nil {
		log.Printf("failed to publish %s event for appointment %s: %v", eventType, appt.ID, err)
	}
}
