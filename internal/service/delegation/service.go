package delegation

import (
	"context"
	"fmt"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

// Service administers family access grants. Only the owning patient
// mutates their grant set; listing is limited to the patient and their
// primary doctor, never to fellow grantees.
type Service struct {
	delegations repository.DelegationRepository
	profiles    repository.ProfileRepository
}

func NewService(delegations repository.DelegationRepository, profiles repository.ProfileRepository) *Service {
	return &Service{delegations: delegations, profiles: profiles}
}

// Grant adds grantee to the caller's grant set. Idempotent.
func (s *Service) Grant(ctx context.Context, caller, grantee model.Identity) error {
	if caller == grantee {
		return errors.NewInvalidArgument("cannot grant family access to yourself", nil)
	}
	return s.delegations.Grant(ctx, caller, grantee)
}

// Revoke removes grantee from the caller's grant set. Revoking a
// non-member is a no-op.
func (s *Service) Revoke(ctx context.Context, caller, grantee model.Identity) error {
	return s.delegations.Revoke(ctx, caller, grantee)
}

// List returns the grantee set of the addressed patient. Family
// grantees may not list other grantees, so this is stricter than the
// generic read gate.
func (s *Service) List(ctx context.Context, caller, patient model.Identity) ([]model.Identity, error) {
	if caller != patient {
		profile, err := s.profiles.GetPatientProfile(ctx, patient)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.NewUnauthorized(nil)
			}
			return nil, errors.NewInternal(err)
		}
		if profile.PrimaryDoctor == nil || *profile.PrimaryDoctor != caller {
			return nil, errors.NewUnauthorized(fmt.Errorf("grantee listing is patient and primary doctor only"))
		}
	}
	return s.delegations.List(ctx, patient)
}
