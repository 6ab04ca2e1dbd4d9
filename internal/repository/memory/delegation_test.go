package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/smartcare-connect/internal/model"
)

func TestGrantIsIdempotent(t *testing.T) {
	store := NewDelegationStore()
	ctx := context.Background()

	require.NoError(t, store.Grant(ctx, "p1", "f1"))
	require.NoError(t, store.Grant(ctx, "p1", "f1"))

	grantees, err := store.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []model.Identity{"f1"}, grantees)
}

func TestRevokeNonMemberIsNoOp(t *testing.T) {
	store := NewDelegationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "p1", "f1"))

	require.NoError(t, store.Grant(ctx, "p1", "f1"))
	require.NoError(t, store.Revoke(ctx, "p1", "f2"))

	granted, err := store.HasGrant(ctx, "p1", "f1")
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestGrantSetsAreScopedPerPatient(t *testing.T) {
	store := NewDelegationStore()
	ctx := context.Background()

	require.NoError(t, store.Grant(ctx, "p1", "f1"))

	granted, err := store.HasGrant(ctx, "p2", "f1")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestListPreservesGrantOrder(t *testing.T) {
	store := NewDelegationStore()
	ctx := context.Background()

	require.NoError(t, store.Grant(ctx, "p1", "f1"))
	require.NoError(t, store.Grant(ctx, "p1", "f2"))
	require.NoError(t, store.Grant(ctx, "p1", "f3"))
	require.NoError(t, store.Revoke(ctx, "p1", "f2"))

	grantees, err := store.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []model.Identity{"f1", "f3"}, grantees)
}
