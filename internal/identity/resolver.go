package identity

import (
	"context"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

// Resolution is the definite outcome of resolving a caller identity.
// Registered is false when the identity never onboarded; the consuming
// layer treats that as an onboarding trigger.
type Resolution struct {
	Registered bool       `json:"registered"`
	Name       string     `json:"name,omitempty"`
	Role       *model.Role `json:"role,omitempty"`
}

// Resolver maps an opaque caller identity to its registered profile and
// coarse role. It has no side effects.
type Resolver struct {
	profiles repository.ProfileRepository
}

func NewResolver(profiles repository.ProfileRepository) *Resolver {
	return &Resolver{profiles: profiles}
}

func (r *Resolver) ResolveRole(ctx context.Context, caller model.Identity) (Resolution, error) {
	profile, err := r.profiles.GetUserProfile(ctx, caller)
	if err != nil {
		if errors.IsNotFound(err) {
			return Resolution{Registered: false}, nil
		}
		return Resolution{}, err
	}
	role := profile.Role
	return Resolution{Registered: true, Name: profile.Name, Role: &role}, nil
}

// IsDoctor reports whether the caller resolves to a registered doctor.
func (r *Resolver) IsDoctor(ctx context.Context, caller model.Identity) (bool, error) {
	res, err := r.ResolveRole(ctx, caller)
	if err != nil {
		return false, err
	}
	return res.Registered && res.Role.Kind == model.RoleKindDoctor, nil
}
