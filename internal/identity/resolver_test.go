package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository/memory"
)

func TestResolveUnregisteredIdentity(t *testing.T) {
	resolver := NewResolver(memory.NewProfileStore())

	res, err := resolver.ResolveRole(context.Background(), "nobody")
	require.NoError(t, err, "an unknown identity is a definite outcome, not an error")
	assert.False(t, res.Registered)
	assert.Nil(t, res.Role)
}

func TestResolveRegisteredIdentity(t *testing.T) {
	profiles := memory.NewProfileStore()
	resolver := NewResolver(profiles)
	ctx := context.Background()

	require.NoError(t, profiles.CreateUserProfile(ctx, "f1", &model.UserProfile{
		Name: "Fred",
		Role: model.Role{Kind: model.RoleKindFamilyMember, FamilyOf: "p1"},
	}))

	res, err := resolver.ResolveRole(ctx, "f1")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	assert.Equal(t, "Fred", res.Name)
	require.NotNil(t, res.Role)
	assert.Equal(t, model.RoleKindFamilyMember, res.Role.Kind)
	assert.Equal(t, model.Identity("p1"), res.Role.FamilyOf)
}

func TestIsDoctor(t *testing.T) {
	profiles := memory.NewProfileStore()
	resolver := NewResolver(profiles)
	ctx := context.Background()

	ok, err := resolver.IsDoctor(ctx, "d1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, profiles.CreateUserProfile(ctx, "d1", &model.UserProfile{
		Name: "Dr. Lee",
		Role: model.Role{Kind: model.RoleKindDoctor},
	}))

	ok, err = resolver.IsDoctor(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, ok)
}
