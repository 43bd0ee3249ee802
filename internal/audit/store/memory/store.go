package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"simonev/internal/audit"
	"simonev/pkg/sentinel"
)

// InMemoryStore keeps audit events in process memory. Events are stored by
// value so callers holding a pointer cannot mutate persisted records; only
// MarkRead and MarkNotified touch stored state after Append.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	byID   map[uuid.UUID]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[uuid.UUID]int)}
}

func (s *InMemoryStore) Append(_ context.Context, event *audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	s.byID[event.ID] = len(s.events)
	s.events = append(s.events, *event)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	event := s.events[idx]
	return &event, nil
}

// List returns matching events, most recent first.
func (s *InMemoryStore) List(_ context.Context, filter audit.Filter) ([]*audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = audit.DefaultQueryLimit
	}

	matched := make([]*audit.Event, 0)
	for i := range s.events {
		if filter.Matches(&s.events[i]) {
			event := s.events[i]
			matched = append(matched, &event)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *InMemoryStore) CountUnread(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.events {
		if !s.events[i].IsRead {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.events[idx].IsRead = true
	return nil
}

func (s *InMemoryStore) MarkNotified(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.events[idx].NotificationSent = true
	return nil
}
