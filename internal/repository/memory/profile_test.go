package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

func savePatient(t *testing.T, store *ProfileStore, patient model.Identity, doctor model.Identity) {
	t.Helper()
	profile := &model.PatientProfile{Name: "patient " + patient.String()}
	if doctor != "" {
		profile.PrimaryDoctor = &doctor
	}
	require.NoError(t, store.SavePatientProfile(context.Background(), patient, profile))
}

func doctorPatients(t *testing.T, store *ProfileStore, doctor model.Identity) []model.Identity {
	t.Helper()
	entries, err := store.PatientsByDoctor(context.Background(), doctor)
	require.NoError(t, err)
	ids := make([]model.Identity, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.Identity)
	}
	return ids
}

func TestDoctorIndexTracksAssignments(t *testing.T) {
	store := NewProfileStore().(*ProfileStore)

	savePatient(t, store, "p1", "d1")
	savePatient(t, store, "p2", "d2")
	savePatient(t, store, "p3", "d1")

	assert.Equal(t, []model.Identity{"p1", "p3"}, doctorPatients(t, store, "d1"))
	assert.Equal(t, []model.Identity{"p2"}, doctorPatients(t, store, "d2"))
	assert.Empty(t, doctorPatients(t, store, "d3"))
}

func TestDoctorIndexFollowsReassignment(t *testing.T) {
	store := NewProfileStore().(*ProfileStore)

	savePatient(t, store, "p1", "d1")
	savePatient(t, store, "p2", "d1")

	// Reassignment moves the patient to the new doctor's list.
	savePatient(t, store, "p1", "d2")
	assert.Equal(t, []model.Identity{"p2"}, doctorPatients(t, store, "d1"))
	assert.Equal(t, []model.Identity{"p1"}, doctorPatients(t, store, "d2"))

	// Clearing the assignment drops the patient from every list.
	savePatient(t, store, "p1", "")
	assert.Empty(t, doctorPatients(t, store, "d2"))
}

func TestDoctorIndexStableOnResave(t *testing.T) {
	store := NewProfileStore().(*ProfileStore)

	savePatient(t, store, "p1", "d1")
	savePatient(t, store, "p2", "d1")

	// Re-saving with the same doctor neither duplicates nor reorders.
	savePatient(t, store, "p1", "d1")
	assert.Equal(t, []model.Identity{"p1", "p2"}, doctorPatients(t, store, "d1"))
}

func TestDoctorIndexSizedByAssignments(t *testing.T) {
	store := NewProfileStore().(*ProfileStore)

	// A large unrelated population never shows up in the index entry
	// consulted for d1.
	for i := 0; i < 100; i++ {
		savePatient(t, store, model.Identity(fmt.Sprintf("bulk-%d", i)), "other")
	}
	savePatient(t, store, "p1", "d1")

	assert.Len(t, store.byDoctor["d1"], 1)
	assert.Len(t, store.byDoctor["other"], 100)
	assert.Equal(t, []model.Identity{"p1"}, doctorPatients(t, store, "d1"))
}

func TestCreateUserProfileConflict(t *testing.T) {
	store := NewProfileStore().(*ProfileStore)
	ctx := context.Background()

	require.NoError(t, store.CreateUserProfile(ctx, "p1", &model.UserProfile{
		Name: "Alice",
		Role: model.Role{Kind: model.RoleKindPatient},
	}))
	err := store.CreateUserProfile(ctx, "p1", &model.UserProfile{
		Name: "Alice again",
		Role: model.Role{Kind: model.RoleKindPatient},
	})
	assert.Equal(t, errors.ErrAlreadyExists, errors.CodeOf(err))
}
