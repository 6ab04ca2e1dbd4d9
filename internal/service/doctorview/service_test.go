package doctorview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/smartcare-connect/internal/identity"
	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/internal/repository/memory"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

type fixture struct {
	svc      *Service
	profiles repository.ProfileRepository
	records  repository.RecordRepository
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	profiles := memory.NewProfileStore()
	records := memory.NewRecordStore()
	svc := NewServiceWithTTL(profiles, records, identity.NewResolver(profiles), nil, ttl)
	return &fixture{svc: svc, profiles: profiles, records: records}
}

func (f *fixture) registerDoctor(t *testing.T, id model.Identity) {
	t.Helper()
	require.NoError(t, f.profiles.CreateUserProfile(context.Background(), id, &model.UserProfile{
		Name: "Dr. " + id.String(),
		Role: model.Role{Kind: model.RoleKindDoctor},
	}))
}

func (f *fixture) assignPatient(t *testing.T, patient, doctor model.Identity) {
	t.Helper()
	require.NoError(t, f.profiles.SavePatientProfile(context.Background(), patient, &model.PatientProfile{
		Name:          "patient " + patient.String(),
		PrimaryDoctor: &doctor,
	}))
}

func TestNonDoctorCallersRejected(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	// Unregistered caller.
	_, err := f.svc.MyPatients(ctx, "nobody")
	assert.True(t, errors.IsUnauthorized(err))

	// Registered, but a patient.
	require.NoError(t, f.profiles.CreateUserProfile(ctx, "p1", &model.UserProfile{
		Name: "Alice",
		Role: model.Role{Kind: model.RoleKindPatient},
	}))
	_, err = f.svc.MyPatientsAlerts(ctx, "p1")
	assert.True(t, errors.IsUnauthorized(err))
}

func TestMyPatientsFollowsAssignment(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	f.registerDoctor(t, "d1")

	entries, err := f.svc.MyPatients(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	f.assignPatient(t, "p1", "d1")
	f.assignPatient(t, "p2", "d1")

	entries, err = f.svc.MyPatients(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.Identity("p1"), entries[0].Identity)

	// Reassignment to another doctor removes the patient from d1's view.
	f.assignPatient(t, "p1", "d2")
	entries, err = f.svc.MyPatients(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.Identity("p2"), entries[0].Identity)
}

func TestMyPatientsAlertsAggregates(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	f.registerDoctor(t, "d1")
	f.assignPatient(t, "p1", "d1")
	f.assignPatient(t, "p2", "d1")
	f.assignPatient(t, "p3", "d2")

	require.NoError(t, f.records.AddAlert(ctx, "p1", &model.Alert{AlertType: model.AlertTypeEmergency, Message: "help"}))
	require.NoError(t, f.records.AddAlert(ctx, "p2", &model.Alert{AlertType: model.AlertTypeVitals, Message: "high heart rate"}))
	require.NoError(t, f.records.AddAlert(ctx, "p3", &model.Alert{AlertType: model.AlertTypeEmergency, Message: "not yours"}))

	alerts, err := f.svc.MyPatientsAlerts(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	for _, alert := range alerts {
		assert.NotEqual(t, model.Identity("p3"), alert.Patient)
	}
}

func TestAlertCacheServesStaleUntilInvalidated(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.registerDoctor(t, "d1")
	f.assignPatient(t, "p1", "d1")

	alerts, err := f.svc.MyPatientsAlerts(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, alerts)

	require.NoError(t, f.records.AddAlert(ctx, "p1", &model.Alert{AlertType: model.AlertTypeEmergency, Message: "help"}))

	// Cached aggregation still in force.
	alerts, err = f.svc.MyPatientsAlerts(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, alerts)

	f.svc.InvalidatePatient("p1")
	alerts, err = f.svc.MyPatientsAlerts(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "help", alerts[0].Message)
}

func TestInvalidateUnassignedPatientIsNoOp(t *testing.T) {
	f := newFixture(t, time.Hour)

	f.svc.InvalidatePatient("ghost")

	require.NoError(t, f.profiles.SavePatientProfile(context.Background(), "p1", &model.PatientProfile{Name: "loner"}))
	f.svc.InvalidatePatient("p1")
}
