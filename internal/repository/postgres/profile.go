package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateUserProfile(ctx context.Context, id model.Identity, profile *model.UserProfile) error {
	query := `
		INSERT INTO user_profiles (identity, name, role_kind, family_of)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (identity) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, id, profile.Name, profile.Role.Kind, profile.Role.FamilyOf)
	if err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	if rows == 0 {
		return errors.NewAlreadyExists("user profile", nil)
	}
	return nil
}

func (r *profileRepository) GetUserProfile(ctx context.Context, id model.Identity) (*model.UserProfile, error) {
	var row struct {
		Name     string         `db:"name"`
		RoleKind string         `db:"role_kind"`
		FamilyOf sql.NullString `db:"family_of"`
	}
	query := `SELECT name, role_kind, family_of FROM user_profiles WHERE identity = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFound("user profile", err)
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	profile := &model.UserProfile{
		Name: row.Name,
		Role: model.Role{Kind: model.RoleKind(row.RoleKind)},
	}
	if row.FamilyOf.Valid {
		profile.Role.FamilyOf = model.Identity(row.FamilyOf.String)
	}
	return profile, nil
}

func (r *profileRepository) SavePatientProfile(ctx context.Context, id model.Identity, profile *model.PatientProfile) error {
	query := `
		INSERT INTO patient_profiles (identity, name, age, medical_history, connected_devices, primary_doctor)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			medical_history = EXCLUDED.medical_history,
			connected_devices = EXCLUDED.connected_devices,
			primary_doctor = EXCLUDED.primary_doctor
	`
	var doctor sql.NullString
	if profile.PrimaryDoctor != nil {
		doctor = sql.NullString{String: profile.PrimaryDoctor.String(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query,
		id,
		profile.Name,
		profile.Age,
		profile.MedicalHistory,
		pq.Array(profile.ConnectedDevices),
		doctor,
	)
	if err != nil {
		return fmt.Errorf("failed to save patient profile: %w", err)
	}
	return nil
}

type patientProfileRow struct {
	Identity         string         `db:"identity"`
	Name             string         `db:"name"`
	Age              int64          `db:"age"`
	MedicalHistory   string         `db:"medical_history"`
	ConnectedDevices pq.StringArray `db:"connected_devices"`
	PrimaryDoctor    sql.NullString `db:"primary_doctor"`
}

func (row patientProfileRow) toModel() model.PatientProfile {
	profile := model.PatientProfile{
		Identity:         model.Identity(row.Identity),
		Name:             row.Name,
		Age:              row.Age,
		MedicalHistory:   row.MedicalHistory,
		ConnectedDevices: []string(row.ConnectedDevices),
	}
	if row.PrimaryDoctor.Valid {
		doctor := model.Identity(row.PrimaryDoctor.String)
		profile.PrimaryDoctor = &doctor
	}
	return profile
}

func (r *profileRepository) GetPatientProfile(ctx context.Context, id model.Identity) (*model.PatientProfile, error) {
	var row patientProfileRow
	query := `
		SELECT identity, name, age, medical_history, connected_devices, primary_doctor
		FROM patient_profiles WHERE identity = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFound("patient profile", err)
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	profile := row.toModel()
	return &profile, nil
}

func (r *profileRepository) SaveDoctorProfile(ctx context.Context, id model.Identity, profile *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (identity, name, specialty, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity) DO UPDATE SET
			name = EXCLUDED.name,
			specialty = EXCLUDED.specialty,
			email = EXCLUDED.email
	`
	if _, err := r.db.ExecContext(ctx, query, id, profile.Name, profile.Specialty, profile.Email); err != nil {
		return fmt.Errorf("failed to save doctor profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetDoctorProfile(ctx context.Context, id model.Identity) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	query := `SELECT name, specialty, email FROM doctor_profiles WHERE identity = $1`
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFound("doctor profile", err)
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) PatientsByDoctor(ctx context.Context, doctor model.Identity) ([]model.PatientEntry, error) {
	query := `
		SELECT identity, name, age, medical_history, connected_devices, primary_doctor
		FROM patient_profiles WHERE primary_doctor = $1 ORDER BY seq
	`
	return r.listEntries(ctx, query, doctor)
}

func (r *profileRepository) ListPatients(ctx context.Context) ([]model.PatientEntry, error) {
	query := `
		SELECT identity, name, age, medical_history, connected_devices, primary_doctor
		FROM patient_profiles ORDER BY seq
	`
	return r.listEntries(ctx, query)
}

func (r *profileRepository) listEntries(ctx context.Context, query string, args ...interface{}) ([]model.PatientEntry, error) {
	var rows []patientProfileRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	entries := make([]model.PatientEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.PatientEntry{
			Identity: model.Identity(row.Identity),
			Profile:  row.toModel(),
		})
	}
	return entries, nil
}
