package kilroy

import (
	"context"
	"sort"
	"sync"

	"kilroy/internal/circle"
)

// MemoryStore is the in-process Store used by tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	places  map[string]PlaceMetadata
	kilroys map[string][]Kilroy // by place id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		places:  make(map[string]PlaceMetadata),
		kilroys: make(map[string][]Kilroy),
	}
}

func (s *MemoryStore) GetPlace(_ context.Context, placeID string) (*PlaceMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.places[placeID]
	if !ok {
		return nil, ErrNotFound
	}
	return &meta, nil
}

func (s *MemoryStore) SavePlace(_ context.Context, meta *PlaceMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.places[meta.PlaceID] = *meta
	return nil
}

func (s *MemoryStore) SaveKilroy(_ context.Context, k *Kilroy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kilroys[k.PlaceID] = append(s.kilroys[k.PlaceID], *k)
	return nil
}

func (s *MemoryStore) ListKilroys(_ context.Context, placeID string, c *circle.Circle) ([]Kilroy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Kilroy, 0)
	for _, k := range s.kilroys[placeID] {
		if c != nil && k.Circle != *c {
			continue
		}
		out = append(out, k)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (s *MemoryStore) HasKilroys(_ context.Context, placeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.kilroys[placeID]) > 0, nil
}

var _ Store = (*MemoryStore)(nil)
