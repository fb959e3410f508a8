package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/aretw0/upskill/pkg/domain"
)

// LeadStore implements ports.LeadStore in memory.
// Leads are lost when the process exits; use it for development and tests.
type LeadStore struct {
	leads map[string]domain.Lead
	mu    sync.RWMutex
}

// NewLeadStore creates an empty in-memory lead store.
func NewLeadStore() *LeadStore {
	return &LeadStore{
		leads: make(map[string]domain.Lead),
	}
}

// Save stores the lead, replacing any lead with the same ID.
func (s *LeadStore) Save(ctx context.Context, lead domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[lead.ID] = lead
	return nil
}

// List returns leads newest first.
func (s *LeadStore) List(ctx context.Context, limit int) ([]domain.Lead, error) {
	s.mu.RLock()
	out := make([]domain.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		out = append(out, l)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Lead) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
