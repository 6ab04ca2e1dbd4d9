package admin

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

// Service manages the administrative tier. The tier governs role
// assignment only; it never grants patient-record access.
type Service struct {
	tiers    repository.TierRepository
	profiles repository.ProfileRepository

	// bootstrapHash is the bcrypt hash of the bootstrap secret. The
	// first admin is established by presenting the secret; an empty
	// hash disables the seam.
	bootstrapHash string
}

func NewService(tiers repository.TierRepository, profiles repository.ProfileRepository, bootstrapHash string) *Service {
	return &Service{tiers: tiers, profiles: profiles, bootstrapHash: bootstrapHash}
}

// Bootstrap grants the caller the admin tier when the presented secret
// matches the configured bootstrap secret.
func (s *Service) Bootstrap(ctx context.Context, caller model.Identity, secret string) error {
	if s.bootstrapHash == "" {
		return errors.NewUnauthorized(fmt.Errorf("admin bootstrap is not configured"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.bootstrapHash), []byte(secret)); err != nil {
		return errors.NewUnauthorized(err)
	}
	return s.tiers.SetTier(ctx, caller, model.TierAdmin)
}

// AssignTier sets the target's administrative tier. Caller must already
// hold the admin tier.
func (s *Service) AssignTier(ctx context.Context, caller, target model.Identity, tier model.AdminTier) error {
	isAdmin, err := s.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return errors.NewUnauthorized(fmt.Errorf("tier assignment requires the admin tier"))
	}
	return s.tiers.SetTier(ctx, target, tier)
}

func (s *Service) IsAdmin(ctx context.Context, caller model.Identity) (bool, error) {
	tier, found, err := s.tiers.GetTier(ctx, caller)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return found && tier == model.TierAdmin, nil
}

// Tier reports the caller's effective tier: the stored tier when one
// was assigned, otherwise user for registered identities and guest for
// everyone else.
func (s *Service) Tier(ctx context.Context, caller model.Identity) (model.AdminTier, error) {
	tier, found, err := s.tiers.GetTier(ctx, caller)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if found {
		return tier, nil
	}
	if _, err := s.profiles.GetUserProfile(ctx, caller); err != nil {
		if errors.IsNotFound(err) {
			return model.TierGuest, nil
		}
		return "", errors.NewInternal(err)
	}
	return model.TierUser, nil
}

// ListAllPatients is the admin dashboard listing; admin tier required.
func (s *Service) ListAllPatients(ctx context.Context, caller model.Identity) ([]model.PatientEntry, error) {
	isAdmin, err := s.IsAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, errors.NewUnauthorized(fmt.Errorf("patient listing requires the admin tier"))
	}
	return s.profiles.ListPatients(ctx)
}
