package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity("user-42")
	require.NoError(t, err)
	assert.Equal(t, Identity("user-42"), id)

	for name, raw := range map[string]string{
		"empty":       "",
		"whitespace":  "user 42",
		"tab":         "user\t42",
		"control":     "user\x00",
		"over length": strings.Repeat("a", 129),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIdentity(raw)
			assert.Error(t, err)
		})
	}

	// Exactly at the bound is fine.
	_, err = ParseIdentity(strings.Repeat("a", 128))
	assert.NoError(t, err)
}

func TestRoleValidate(t *testing.T) {
	assert.NoError(t, Role{Kind: RoleKindPatient}.Validate())
	assert.NoError(t, Role{Kind: RoleKindDoctor}.Validate())
	assert.NoError(t, Role{Kind: RoleKindFamilyMember, FamilyOf: "p1"}.Validate())

	assert.Error(t, Role{Kind: RoleKindPatient, FamilyOf: "p1"}.Validate())
	assert.Error(t, Role{Kind: RoleKindFamilyMember}.Validate())
	assert.Error(t, Role{Kind: "nurse"}.Validate())
}

func TestParseAdminTier(t *testing.T) {
	for _, raw := range []string{"admin", "user", "guest"} {
		tier, err := ParseAdminTier(raw)
		require.NoError(t, err)
		assert.Equal(t, AdminTier(raw), tier)
	}

	_, err := ParseAdminTier("root")
	assert.Error(t, err)
}
