package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"simonev/internal/progress"
	"simonev/pkg/sentinel"
)

// InMemoryStore keeps stage records in process memory, deep-copying on every
// boundary so callers never share substep slices with stored state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]map[int]*progress.StageRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[uuid.UUID]map[int]*progress.StageRecord)}
}

func clone(r *progress.StageRecord) *progress.StageRecord {
	copied := *r
	copied.Substeps = make([]progress.Substep, len(r.Substeps))
	copy(copied.Substeps, r.Substeps)
	if r.FileID != nil {
		fileID := *r.FileID
		copied.FileID = &fileID
	}
	return &copied
}

func (s *InMemoryStore) CreateAll(_ context.Context, records []*progress.StageRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kegiatanID := records[0].KegiatanID
	if _, exists := s.records[kegiatanID]; exists {
		return sentinel.ErrConflict
	}

	byStage := make(map[int]*progress.StageRecord, len(records))
	for _, r := range records {
		byStage[r.Stage] = clone(r)
	}
	s.records[kegiatanID] = byStage
	return nil
}

// ListByKegiatan returns records ordered by stage number.
func (s *InMemoryStore) ListByKegiatan(_ context.Context, kegiatanID uuid.UUID) ([]*progress.StageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStage, ok := s.records[kegiatanID]
	if !ok {
		return nil, nil
	}
	records := make([]*progress.StageRecord, 0, len(byStage))
	for stage := 1; stage <= progress.NumStages; stage++ {
		if r, ok := byStage[stage]; ok {
			records = append(records, clone(r))
		}
	}
	return records, nil
}

func (s *InMemoryStore) Get(_ context.Context, kegiatanID uuid.UUID, stage int) (*progress.StageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStage, ok := s.records[kegiatanID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	record, ok := byStage[stage]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(record), nil
}

func (s *InMemoryStore) Update(_ context.Context, record *progress.StageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byStage, ok := s.records[record.KegiatanID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := byStage[record.Stage]; !ok {
		return sentinel.ErrNotFound
	}
	byStage[record.Stage] = clone(record)
	return nil
}
