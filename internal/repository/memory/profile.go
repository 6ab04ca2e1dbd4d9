package memory

import (
	"context"
	"sync"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

// ProfileStore keeps profiles in process memory. byDoctor holds each
// doctor's patients as an insertion-ordered slice so aggregation reads
// walk only that doctor's assignments, never the full patient
// population. The index is updated inside the same critical section as
// the profile write so reads never see a half-applied assignment.
type ProfileStore struct {
	mu           sync.RWMutex
	users        map[model.Identity]model.UserProfile
	patients     map[model.Identity]model.PatientProfile
	doctors      map[model.Identity]model.DoctorProfile
	byDoctor     map[model.Identity][]model.Identity
	patientOrder []model.Identity
}

func NewProfileStore() repository.ProfileRepository {
	return &ProfileStore{
		users:    make(map[model.Identity]model.UserProfile),
		patients: make(map[model.Identity]model.PatientProfile),
		doctors:  make(map[model.Identity]model.DoctorProfile),
		byDoctor: make(map[model.Identity][]model.Identity),
	}
}

func (s *ProfileStore) CreateUserProfile(ctx context.Context, id model.Identity, profile *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; ok {
		return errors.NewAlreadyExists("user profile", nil)
	}
	s.users[id] = *profile
	return nil
}

func (s *ProfileStore) GetUserProfile(ctx context.Context, id model.Identity) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.users[id]
	if !ok {
		return nil, errors.NewNotFound("user profile", nil)
	}
	return &profile, nil
}

func (s *ProfileStore) SavePatientProfile(ctx context.Context, id model.Identity, profile *model.PatientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *profile
	stored.Identity = id
	stored.ConnectedDevices = append([]string(nil), profile.ConnectedDevices...)
	if profile.PrimaryDoctor != nil {
		doctor := *profile.PrimaryDoctor
		stored.PrimaryDoctor = &doctor
	}

	prev, existed := s.patients[id]
	if !existed {
		s.patientOrder = append(s.patientOrder, id)
	}
	s.patients[id] = stored

	var prevDoctor, newDoctor model.Identity
	if existed && prev.PrimaryDoctor != nil {
		prevDoctor = *prev.PrimaryDoctor
	}
	if stored.PrimaryDoctor != nil {
		newDoctor = *stored.PrimaryDoctor
	}
	if prevDoctor == newDoctor {
		return nil
	}
	if prevDoctor != "" {
		kept := s.byDoctor[prevDoctor][:0]
		for _, pid := range s.byDoctor[prevDoctor] {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		s.byDoctor[prevDoctor] = kept
	}
	if newDoctor != "" {
		s.byDoctor[newDoctor] = append(s.byDoctor[newDoctor], id)
	}
	return nil
}

func (s *ProfileStore) GetPatientProfile(ctx context.Context, id model.Identity) (*model.PatientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.patients[id]
	if !ok {
		return nil, errors.NewNotFound("patient profile", nil)
	}
	out := profile
	out.ConnectedDevices = append([]string(nil), profile.ConnectedDevices...)
	if profile.PrimaryDoctor != nil {
		doctor := *profile.PrimaryDoctor
		out.PrimaryDoctor = &doctor
	}
	return &out, nil
}

func (s *ProfileStore) SaveDoctorProfile(ctx context.Context, id model.Identity, profile *model.DoctorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doctors[id] = *profile
	return nil
}

func (s *ProfileStore) GetDoctorProfile(ctx context.Context, id model.Identity) (*model.DoctorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.doctors[id]
	if !ok {
		return nil, errors.NewNotFound("doctor profile", nil)
	}
	return &profile, nil
}

func (s *ProfileStore) PatientsByDoctor(ctx context.Context, doctor model.Identity) ([]model.PatientEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assigned := s.byDoctor[doctor]
	entries := make([]model.PatientEntry, 0, len(assigned))
	for _, id := range assigned {
		entries = append(entries, model.PatientEntry{Identity: id, Profile: s.patients[id]})
	}
	return entries, nil
}

func (s *ProfileStore) ListPatients(ctx context.Context) ([]model.PatientEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.PatientEntry, 0, len(s.patientOrder))
	for _, id := range s.patientOrder {
		entries = append(entries, model.PatientEntry{Identity: id, Profile: s.patients[id]})
	}
	return entries, nil
}
