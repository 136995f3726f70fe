package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory fakes for the store interfaces. memRepo implements
// AvailabilityStore, Catalog and BookingLedger the way PgRepository does,
// including the compare-and-set semantics of the status update.

type memRepo struct {
	mu             sync.Mutex
	doctors        map[uuid.UUID]*Doctor
	patients       map[uuid.UUID]*PatientProfile
	services       map[uuid.UUID]*Service
	doctorServices map[uuid.UUID]*DoctorService
	weeklyRules    map[uuid.UUID]map[time.Weekday]*DoctorAvailability
	overrides      map[uuid.UUID]map[string]*AvailabilityOverride
	appointments   map[uuid.UUID]*Appointment
	events         []BookingEvent
}

func newMemRepo() *memRepo {
	return &memRepo{
		doctors:        make(map[uuid.UUID]*Doctor),
		patients:       make(map[uuid.UUID]*PatientProfile),
		services:       make(map[uuid.UUID]*Service),
		doctorServices: make(map[uuid.UUID]*DoctorService),
		weeklyRules:    make(map[uuid.UUID]map[time.Weekday]*DoctorAvailability),
		overrides:      make(map[uuid.UUID]map[string]*AvailabilityOverride),
		appointments:   make(map[uuid.UUID]*Appointment),
	}
}

func (m *memRepo) addWeeklyRule(doctorID uuid.UUID, weekday time.Weekday, start, end string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.weeklyRules[doctorID] == nil {
		m.weeklyRules[doctorID] = make(map[time.Weekday]*DoctorAvailability)
	}
	m.weeklyRules[doctorID][weekday] = &DoctorAvailability{
		DoctorID:  doctorID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	}
}

func (m *memRepo) addOverride(ov *AvailabilityOverride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ov.Date.Format("2006-01-02")
	if m.overrides[ov.DoctorID] == nil {
		m.overrides[ov.DoctorID] = make(map[string]*AvailabilityOverride)
	}
	m.overrides[ov.DoctorID][key] = ov
}

// AvailabilityStore

func (m *memRepo) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memRepo) GetWeeklyRule(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) (*DoctorAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.weeklyRules[doctorID][weekday]
	if !ok {
		return nil, ErrNoAvailabilityRule
	}
	cp := *rule
	return &cp, nil
}

func (m *memRepo) GetOverride(ctx context.Context, doctorID uuid.UUID, date time.Time) (*AvailabilityOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ov, ok := m.overrides[doctorID][date.Format("2006-01-02")]
	if !ok {
		return nil, ErrNoOverride
	}
	cp := *ov
	return &cp, nil
}

// Catalog

func (m *memRepo) GetDoctorService(ctx context.Context, id uuid.UUID) (*DoctorService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds, ok := m.doctorServices[id]
	if !ok {
		return nil, ErrDoctorServiceNotFound
	}
	cp := *ds
	return &cp, nil
}

func (m *memRepo) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) GetPatientProfile(ctx context.Context, id uuid.UUID) (*PatientProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

// BookingLedger

func (m *memRepo) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) ListActiveByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []Appointment
	for _, a := range m.appointments {
		if a.DoctorID != doctorID || !a.Status.IsActive() {
			continue
		}
		if a.StartTime.Before(to) && from.Before(a.EndTime) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (m *memRepo) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *appt
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.appointments[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (m *memRepo) UpdateAppointmentSchedule(ctx context.Context, id, doctorID, serviceID, clinicID uuid.UUID, start, end time.Time, notes string) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok || a.Status != StatusUpcoming {
		return nil, ErrAppointmentNotFound
	}
	a.DoctorID = doctorID
	a.ServiceID = serviceID
	a.ClinicID = clinicID
	a.StartTime = start
	a.EndTime = end
	a.Notes = notes
	a.UpdatedAt = time.Now()

	cp := *a
	return &cp, nil
}

func (m *memRepo) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now()

	cp := *a
	return &cp, nil
}

func (m *memRepo) FindElapsedOnGoing(ctx context.Context, now time.Time) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []Appointment
	for _, a := range m.appointments {
		if a.Status == StatusOnGoing && a.EndTime.Before(now) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *memRepo) InsertEvent(ctx context.Context, ev BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memRepo) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		types = append(types, ev.EventType)
	}
	return types
}

// memLocker serializes critical sections with a per-doctor mutex, matching
// what the Redis locker guarantees in production.
type memLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *memLocker) WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[doctorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[doctorID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

// captureNotifier records published payloads.
type captureNotifier struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (n *captureNotifier) PublishBookingEvent(ctx context.Context, payload []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, payload)
	return nil
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.payloads)
}
