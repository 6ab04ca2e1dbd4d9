package memory

import (
	"context"
	"sync"
	"time"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

// RecordStore holds one independently locked record set per patient.
// Operations against different patients never contend; writers against
// the same patient serialize, keeping id counters race-free.
type RecordStore struct {
	mu       sync.RWMutex
	patients map[model.Identity]*patientRecords
}

type patientRecords struct {
	mu            sync.Mutex
	nextID        map[model.RecordKind]int64
	vitals        []model.VitalsReading
	medications   []model.MedicationReminder
	appointments  []model.Appointment
	alerts        []model.Alert
	nurseRequests []model.HomeNurseRequest
}

func NewRecordStore() repository.RecordRepository {
	return &RecordStore{patients: make(map[model.Identity]*patientRecords)}
}

func (s *RecordStore) forPatient(id model.Identity) *patientRecords {
	s.mu.RLock()
	pr, ok := s.patients[id]
	s.mu.RUnlock()
	if ok {
		return pr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pr, ok = s.patients[id]; ok {
		return pr
	}
	pr = &patientRecords{nextID: make(map[model.RecordKind]int64)}
	s.patients[id] = pr
	return pr
}

// lookup returns the record set without creating one; reads on a
// patient with no records see empty collections.
func (s *RecordStore) lookup(id model.Identity) *patientRecords {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patients[id]
}

func (pr *patientRecords) assignID(kind model.RecordKind) int64 {
	pr.nextID[kind]++
	return pr.nextID[kind]
}

func stamp(ts int64) int64 {
	if ts == 0 {
		return time.Now().UnixNano()
	}
	return ts
}

func (s *RecordStore) AddVitals(ctx context.Context, patient model.Identity, reading *model.VitalsReading) error {
	pr := s.forPatient(patient)
	pr.mu.Lock()
	defer pr.mu.Unlock()

	stored := *reading
	stored.Timestamp = stamp(reading.Timestamp)
	pr.vitals = append(pr.vitals, stored)
	*reading = stored
	return nil
}

func (s *RecordStore) ListVitals(ctx context.Context, patient model.Identity) ([]model.VitalsReading, error) {
	pr := s.lookup(patient)
	if pr == nil {
		return []model.VitalsReading{}, nil
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return append([]model.VitalsReading{}, pr.vitals...), nil
}

func (s *RecordStore) AddMedication(ctx context.Context, patient model.Identity, reminder *model.MedicationReminder) error {
	pr := s.forPatient(patient)
	pr.mu.Lock()
	defer pr.mu.Unlock()

	reminder.ID = pr.assignID(model.KindMedication)
	pr.medications = append(pr.medications, *reminder)
	return nil
}

func (s *RecordStore) UpdateMedication(ctx context.Context, patient model.Identity, id int64, reminder *model.MedicationReminder) error {
	pr := s.lookup(patient)
	if pr == nil {
		return errors.NewNotFound("medication reminder", nil)
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i := range pr.medications {
		if pr.medications[i].ID == id {
			reminder.ID = id
			pr.medications[i] = *reminder
			return nil
		}
	}
	return errors.NewNotFound("medication reminder", nil)
}

func (s *RecordStore) DeleteMedication(ctx context.Context, patient model.Identity, id int64) error {
	pr := s.lookup(patient)
	if pr == nil {
		return errors.NewNotFound("medication reminder", nil)
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i := range pr.medications {
		if pr.medications[i].ID == id {
			pr.medications = append(pr.medications[:i], pr.medications[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFound("medication reminder", nil)
}

func (s *RecordStore) ListMedications(ctx context.Context, patient model.Identity) ([]model.MedicationReminder, error) {
	pr := s.lookup(patient)
	if pr == nil {
		return []model.MedicationReminder{}, nil
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return append([]model.MedicationReminder{}, pr.medications...), nil
}

func (s *RecordStore) AddAppointment(ctx context.Context, patient model.Identity, appointment *model.Appointment) error {
	pr := s.forPatient(patient)
	pr.mu.Lock()
	defer pr.mu.Unlock()

	appointment.ID = pr.assignID(model.KindAppointment)
	pr.appointments = append(pr.appointments, *appointment)
	return nil
}

func (s *RecordStore) UpdateAppointment(ctx context.Context, patient model.Identity, id int64, appointment *model.Appointment) error {
	pr := s.lookup(patient)
	if pr == nil {
		return errors.NewNotFound("appointment", nil)
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i := range pr.appointments {
		if pr.appointments[i].ID == id {
			appointment.ID = id
			pr.appointments[i] = *appointment
			return nil
		}
	}
	return errors.NewNotFound("appointment", nil)
}

func (s *RecordStore) DeleteAppointment(ctx context.Context, patient model.Identity, id int64) error {
	pr := s.lookup(patient)
	if pr == nil {
		return errors.NewNotFound("appointment", nil)
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i := range pr.appointments {
		if pr.appointments[i].ID == id {
			pr.appointments = append(pr.appointments[:i], pr.appointments[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFound("appointment", nil)
}

func (s *RecordStore) ListAppointments(ctx context.Context, patient model.Identity) ([]model.Appointment, error) {
	pr := s.lookup(patient)
	if pr == nil {
		return []model.Appointment{}, nil
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return append([]model.Appointment{}, pr.appointments...), nil
}

func (s *RecordStore) AddAlert(ctx context.Context, patient model.Identity, alert *model.Alert) error {
	pr := s.forPatient(patient)
	pr.mu.Lock()
	defer pr.mu.Unlock()

	alert.ID = pr.assignID(model.KindAlert)
	alert.Patient = patient
	alert.Timestamp = stamp(alert.Timestamp)
	pr.alerts = append(pr.alerts, *alert)
	return nil
}

func (s *RecordStore) ListAlerts(ctx context.Context, patient model.Identity) ([]model.Alert, error) {
	pr := s.lookup(patient)
	if pr == nil {
		return []model.Alert{}, nil
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return append([]model.Alert{}, pr.alerts...), nil
}

// ListAlertsForPatients takes the per-patient locks one at a time, so a
// doctor poll never freezes writes across its whole patient set.
func (s *RecordStore) ListAlertsForPatients(ctx context.Context, patients []model.Identity) ([]model.Alert, error) {
	alerts := []model.Alert{}
	for _, patient := range patients {
		batch, err := s.ListAlerts(ctx, patient)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, batch...)
	}
	return alerts, nil
}

func (s *RecordStore) AddHomeNurseRequest(ctx context.Context, patient model.Identity, request *model.HomeNurseRequest) error {
	pr := s.forPatient(patient)
	pr.mu.Lock()
	defer pr.mu.Unlock()

	request.ID = pr.assignID(model.KindHomeNurseRequest)
	request.Patient = patient
	pr.nurseRequests = append(pr.nurseRequests, *request)
	return nil
}

func (s *RecordStore) ListHomeNurseRequests(ctx context.Context, patient model.Identity) ([]model.HomeNurseRequest, error) {
	pr := s.lookup(patient)
	if pr == nil {
		return []model.HomeNurseRequest{}, nil
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return append([]model.HomeNurseRequest{}, pr.nurseRequests...), nil
}
