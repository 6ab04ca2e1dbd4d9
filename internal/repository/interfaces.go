package repository

import (
	"context"

	"github.com/caffeinepub/smartcare-connect/internal/model"
)

// ProfileRepository stores user, patient, and doctor profiles and keeps
// the doctor-to-patients index consistent with primary-doctor changes.
type ProfileRepository interface {
	// CreateUserProfile fails with AlreadyExists on a second onboarding
	// attempt for the same identity.
	CreateUserProfile(ctx context.Context, id model.Identity, profile *model.UserProfile) error
	GetUserProfile(ctx context.Context, id model.Identity) (*model.UserProfile, error)

	SavePatientProfile(ctx context.Context, id model.Identity, profile *model.PatientProfile) error
	GetPatientProfile(ctx context.Context, id model.Identity) (*model.PatientProfile, error)

	SaveDoctorProfile(ctx context.Context, id model.Identity, profile *model.DoctorProfile) error
	GetDoctorProfile(ctx context.Context, id model.Identity) (*model.DoctorProfile, error)

	// PatientsByDoctor resolves the doctor index; cost scales with the
	// doctor's patient count, not the full patient population.
	PatientsByDoctor(ctx context.Context, doctor model.Identity) ([]model.PatientEntry, error)
	ListPatients(ctx context.Context) ([]model.PatientEntry, error)
}

// RecordRepository stores the per-patient record collections. Add
// operations assign ids unique within (patient, kind) and stamp zero
// timestamps; concurrent writers against the same patient serialize.
type RecordRepository interface {
	AddVitals(ctx context.Context, patient model.Identity, reading *model.VitalsReading) error
	ListVitals(ctx context.Context, patient model.Identity) ([]model.VitalsReading, error)

	AddMedication(ctx context.Context, patient model.Identity, reminder *model.MedicationReminder) error
	UpdateMedication(ctx context.Context, patient model.Identity, id int64, reminder *model.MedicationReminder) error
	DeleteMedication(ctx context.Context, patient model.Identity, id int64) error
	ListMedications(ctx context.Context, patient model.Identity) ([]model.MedicationReminder, error)

	AddAppointment(ctx context.Context, patient model.Identity, appointment *model.Appointment) error
	UpdateAppointment(ctx context.Context, patient model.Identity, id int64, appointment *model.Appointment) error
	DeleteAppointment(ctx context.Context, patient model.Identity, id int64) error
	ListAppointments(ctx context.Context, patient model.Identity) ([]model.Appointment, error)

	AddAlert(ctx context.Context, patient model.Identity, alert *model.Alert) error
	ListAlerts(ctx context.Context, patient model.Identity) ([]model.Alert, error)
	ListAlertsForPatients(ctx context.Context, patients []model.Identity) ([]model.Alert, error)

	AddHomeNurseRequest(ctx context.Context, patient model.Identity, request *model.HomeNurseRequest) error
	ListHomeNurseRequests(ctx context.Context, patient model.Identity) ([]model.HomeNurseRequest, error)
}

// DelegationRepository is the single authoritative source of family
// access grants. Grant and revoke are idempotent and atomic per
// (patient, grantee) pair.
type DelegationRepository interface {
	Grant(ctx context.Context, patient, grantee model.Identity) error
	Revoke(ctx context.Context, patient, grantee model.Identity) error
	List(ctx context.Context, patient model.Identity) ([]model.Identity, error)
	HasGrant(ctx context.Context, patient, grantee model.Identity) (bool, error)
}

// TierRepository stores the administrative tier per identity.
type TierRepository interface {
	SetTier(ctx context.Context, id model.Identity, tier model.AdminTier) error
	// GetTier reports the stored tier; found is false when no tier was
	// ever assigned.
	GetTier(ctx context.Context, id model.Identity) (tier model.AdminTier, found bool, err error)
}
