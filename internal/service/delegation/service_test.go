package delegation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository/memory"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

func newService(t *testing.T) (*Service, func(patient model.Identity, doctor model.Identity)) {
	t.Helper()
	profiles := memory.NewProfileStore()
	svc := NewService(memory.NewDelegationStore(), profiles)
	assign := func(patient, doctor model.Identity) {
		require.NoError(t, profiles.SavePatientProfile(context.Background(), patient, &model.PatientProfile{
			Name:          "patient",
			PrimaryDoctor: &doctor,
		}))
	}
	return svc, assign
}

func TestSelfGrantRejected(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Grant(context.Background(), "p1", "p1")
	assert.Equal(t, errors.ErrInvalidArgument, errors.CodeOf(err))
}

func TestGrantRevokeRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Grant(ctx, "p1", "f1"))
	require.NoError(t, svc.Grant(ctx, "p1", "f1"))

	grantees, err := svc.List(ctx, "p1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []model.Identity{"f1"}, grantees)

	require.NoError(t, svc.Revoke(ctx, "p1", "f1"))
	require.NoError(t, svc.Revoke(ctx, "p1", "f1"))

	grantees, err = svc.List(ctx, "p1", "p1")
	require.NoError(t, err)
	assert.Empty(t, grantees)
}

func TestListRestrictedToPatientAndPrimaryDoctor(t *testing.T) {
	svc, assign := newService(t)
	ctx := context.Background()

	assign("p1", "d1")
	require.NoError(t, svc.Grant(ctx, "p1", "f1"))

	_, err := svc.List(ctx, "d1", "p1")
	assert.NoError(t, err)

	// A grantee cannot enumerate fellow grantees.
	_, err = svc.List(ctx, "f1", "p1")
	assert.True(t, errors.IsUnauthorized(err))

	_, err = svc.List(ctx, "stranger", "p1")
	assert.True(t, errors.IsUnauthorized(err))
}
