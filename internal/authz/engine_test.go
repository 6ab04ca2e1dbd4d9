package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/internal/repository/memory"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

func newEngine(t *testing.T) (*Engine, repository.ProfileRepository, repository.DelegationRepository) {
	t.Helper()
	profiles := memory.NewProfileStore()
	delegations := memory.NewDelegationStore()
	return NewEngine(profiles, delegations, nil), profiles, delegations
}

func TestSelfAccessAlwaysAllowed(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	assert.NoError(t, engine.Authorize(ctx, "p1", "p1", OpRead))
	assert.NoError(t, engine.Authorize(ctx, "p1", "p1", OpWrite))
}

func TestUnrelatedIdentitiesDenied(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	err := engine.Authorize(ctx, "a", "b", OpRead)
	assert.True(t, errors.IsUnauthorized(err))

	err = engine.Authorize(ctx, "a", "b", OpWrite)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestPrimaryDoctorHasFullAccess(t *testing.T) {
	engine, profiles, _ := newEngine(t)
	ctx := context.Background()

	doctor := model.Identity("d1")
	require.NoError(t, profiles.SavePatientProfile(ctx, "p1", &model.PatientProfile{
		Name:          "Alice",
		PrimaryDoctor: &doctor,
	}))

	assert.NoError(t, engine.Authorize(ctx, "d1", "p1", OpRead))
	assert.NoError(t, engine.Authorize(ctx, "d1", "p1", OpWrite))

	// Another doctor gets nothing.
	assert.True(t, errors.IsUnauthorized(engine.Authorize(ctx, "d2", "p1", OpRead)))
}

func TestFamilyDelegationIsReadOnly(t *testing.T) {
	engine, _, delegations := newEngine(t)
	ctx := context.Background()

	require.NoError(t, delegations.Grant(ctx, "p1", "f1"))

	assert.NoError(t, engine.Authorize(ctx, "f1", "p1", OpRead))

	// Writes stay denied regardless of grant status.
	err := engine.Authorize(ctx, "f1", "p1", OpWrite)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestRevokedGranteeDenied(t *testing.T) {
	engine, _, delegations := newEngine(t)
	ctx := context.Background()

	require.NoError(t, delegations.Grant(ctx, "p1", "f1"))
	require.NoError(t, delegations.Revoke(ctx, "p1", "f1"))

	assert.True(t, errors.IsUnauthorized(engine.Authorize(ctx, "f1", "p1", OpRead)))
}

func TestDenialDoesNotRevealTargetExistence(t *testing.T) {
	engine, profiles, _ := newEngine(t)
	ctx := context.Background()

	require.NoError(t, profiles.SavePatientProfile(ctx, "known", &model.PatientProfile{Name: "Known"}))

	existing := engine.Authorize(ctx, "stranger", "known", OpRead)
	missing := engine.Authorize(ctx, "stranger", "ghost", OpRead)

	require.Error(t, existing)
	require.Error(t, missing)
	assert.Equal(t, existing.Error(), missing.Error())
}
