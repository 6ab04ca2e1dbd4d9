package memory

import (
	"context"
	"sync"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
)

// DelegationStore is the authoritative grant relation. A single mutex
// guards the relation, making grant/revoke atomic per (patient,
// grantee) pair.
type DelegationStore struct {
	mu     sync.Mutex
	grants map[model.Identity]map[model.Identity]struct{}
	order  map[model.Identity][]model.Identity
}

func NewDelegationStore() repository.DelegationRepository {
	return &DelegationStore{
		grants: make(map[model.Identity]map[model.Identity]struct{}),
		order:  make(map[model.Identity][]model.Identity),
	}
}

func (s *DelegationStore) Grant(ctx context.Context, patient, grantee model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.grants[patient]
	if set == nil {
		set = make(map[model.Identity]struct{})
		s.grants[patient] = set
	}
	if _, ok := set[grantee]; ok {
		return nil
	}
	set[grantee] = struct{}{}
	s.order[patient] = append(s.order[patient], grantee)
	return nil
}

func (s *DelegationStore) Revoke(ctx context.Context, patient, grantee model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.grants[patient]
	if _, ok := set[grantee]; !ok {
		return nil
	}
	delete(set, grantee)
	kept := s.order[patient][:0]
	for _, id := range s.order[patient] {
		if id != grantee {
			kept = append(kept, id)
		}
	}
	s.order[patient] = kept
	return nil
}

func (s *DelegationStore) List(ctx context.Context, patient model.Identity) ([]model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Identity{}, s.order[patient]...), nil
}

func (s *DelegationStore) HasGrant(ctx context.Context, patient, grantee model.Identity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.grants[patient][grantee]
	return ok, nil
}
