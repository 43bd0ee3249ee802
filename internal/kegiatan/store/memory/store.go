package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"simonev/internal/kegiatan"
	"simonev/pkg/sentinel"
)

// InMemoryStore is a mutex-guarded kegiatan registry for development and
// tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]kegiatan.Kegiatan
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[uuid.UUID]kegiatan.Kegiatan)}
}

func (s *InMemoryStore) Create(_ context.Context, k *kegiatan.Kegiatan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[k.ID]; ok {
		return sentinel.ErrConflict
	}
	s.records[k.ID] = *k
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (*kegiatan.Kegiatan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &k, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*kegiatan.Kegiatan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*kegiatan.Kegiatan, 0, len(s.records))
	for _, k := range s.records {
		list = append(list, &k)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *InMemoryStore) Update(_ context.Context, k *kegiatan.Kegiatan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[k.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[k.ID] = *k
	return nil
}
