package model

import "fmt"

// RoleKind discriminates the domain role union.
type RoleKind string

const (
	RoleKindPatient      RoleKind = "patient"
	RoleKindDoctor       RoleKind = "doctor"
	RoleKindFamilyMember RoleKind = "familyMember"
)

// Role is the coarse domain role of a registered identity. FamilyOf is
// set only for familyMember roles and names the patient the role was
// created to view. It is a display hint: actual access is governed
// exclusively by delegation grants.
type Role struct {
	Kind     RoleKind `json:"kind" binding:"required,oneof=patient doctor familyMember"`
	FamilyOf Identity `json:"family_of,omitempty" binding:"omitempty,identity"`
}

func (r Role) Validate() error {
	switch r.Kind {
	case RoleKindPatient, RoleKindDoctor:
		if r.FamilyOf != "" {
			return fmt.Errorf("role %s must not carry a target patient", r.Kind)
		}
		return nil
	case RoleKindFamilyMember:
		if r.FamilyOf == "" {
			return fmt.Errorf("familyMember role requires a target patient")
		}
		return nil
	default:
		return fmt.Errorf("unknown role kind %q", r.Kind)
	}
}

// UserProfile is the onboarding record for an identity. At most one
// exists per identity; the role is immutable after creation.
type UserProfile struct {
	Name string `json:"name" binding:"required"`
	Role Role   `json:"role" binding:"required"`
}

// AdminTier is the administrative capability tier, orthogonal to the
// domain role. It governs role assignment only, never patient-data
// access.
type AdminTier string

const (
	TierAdmin AdminTier = "admin"
	TierUser  AdminTier = "user"
	TierGuest AdminTier = "guest"
)

func ParseAdminTier(s string) (AdminTier, error) {
	switch AdminTier(s) {
	case TierAdmin, TierUser, TierGuest:
		return AdminTier(s), nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}
