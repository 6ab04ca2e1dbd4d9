package profile

import (
	"context"
	"fmt"

	"github.com/caffeinepub/smartcare-connect/internal/authz"
	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

// Service owns onboarding and the profile operations. Patient profiles
// are writable only by the owning patient; reads go through the
// authorization engine.
type Service struct {
	profiles repository.ProfileRepository
	engine   *authz.Engine
}

func NewService(profiles repository.ProfileRepository, engine *authz.Engine) *Service {
	return &Service{profiles: profiles, engine: engine}
}

// SaveCallerUserProfile is the one-shot self-service onboarding. A
// second attempt for the same identity fails with AlreadyExists.
func (s *Service) SaveCallerUserProfile(ctx context.Context, caller model.Identity, profile *model.UserProfile) error {
	if err := profile.Role.Validate(); err != nil {
		return errors.NewInvalidArgument(err.Error(), err)
	}
	if profile.Role.Kind == model.RoleKindFamilyMember && profile.Role.FamilyOf == caller {
		return errors.NewInvalidArgument("familyMember role cannot target the caller", nil)
	}
	if err := s.profiles.CreateUserProfile(ctx, caller, profile); err != nil {
		return err
	}
	return nil
}

func (s *Service) GetCallerUserProfile(ctx context.Context, caller model.Identity) (*model.UserProfile, error) {
	return s.profiles.GetUserProfile(ctx, caller)
}

// SavePatientProfile upserts the profile of the addressed patient. The
// owning patient is the sole writer; the assigned doctor's collaborator
// rights cover records, not the profile itself.
func (s *Service) SavePatientProfile(ctx context.Context, caller, patient model.Identity, profile *model.PatientProfile) error {
	if caller != patient {
		return errors.NewUnauthorized(fmt.Errorf("profile writes are owner-only"))
	}
	if profile.PrimaryDoctor != nil && *profile.PrimaryDoctor == patient {
		return errors.NewInvalidArgument("patient cannot be their own primary doctor", nil)
	}
	return s.profiles.SavePatientProfile(ctx, patient, profile)
}

func (s *Service) GetPatientProfile(ctx context.Context, caller, patient model.Identity) (*model.PatientProfile, error) {
	if err := s.engine.Authorize(ctx, caller, patient, authz.OpRead); err != nil {
		return nil, err
	}
	return s.profiles.GetPatientProfile(ctx, patient)
}

// SaveDoctorProfile is self-scoped: the profile lands under the caller.
func (s *Service) SaveDoctorProfile(ctx context.Context, caller model.Identity, profile *model.DoctorProfile) error {
	return s.profiles.SaveDoctorProfile(ctx, caller, profile)
}

// GetDoctorProfile resolves a doctor's display info for any
// authenticated caller.
func (s *Service) GetDoctorProfile(ctx context.Context, doctor model.Identity) (*model.DoctorProfile, error) {
	return s.profiles.GetDoctorProfile(ctx, doctor)
}
