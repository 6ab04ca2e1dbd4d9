package memory

import (
	"context"
	"sync"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
)

type TierStore struct {
	mu    sync.RWMutex
	tiers map[model.Identity]model.AdminTier
}

func NewTierStore() repository.TierRepository {
	return &TierStore{tiers: make(map[model.Identity]model.AdminTier)}
}

func (s *TierStore) SetTier(ctx context.Context, id model.Identity, tier model.AdminTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers[id] = tier
	return nil
}

func (s *TierStore) GetTier(ctx context.Context, id model.Identity) (model.AdminTier, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tier, ok := s.tiers[id]
	return tier, ok, nil
}
