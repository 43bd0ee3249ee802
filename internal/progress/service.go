package progress

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Cache,AuditRecorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"simonev/internal/audit"
	"simonev/internal/platform/metrics"
	dErrors "simonev/pkg/domain-errors"
	"simonev/pkg/sentinel"
)

// Store is the persistence collaborator for stage records.
type Store interface {
	CreateAll(ctx context.Context, records []*StageRecord) error
	ListByKegiatan(ctx context.Context, kegiatanID uuid.UUID) ([]*StageRecord, error)
	Get(ctx context.Context, kegiatanID uuid.UUID, stage int) (*StageRecord, error)
	Update(ctx context.Context, record *StageRecord) error
}

// Cache holds computed rollups between substep mutations. Implementations
// return sentinel.ErrNotFound on a miss.
type Cache interface {
	GetRollup(ctx context.Context, kegiatanID uuid.UUID) (*Rollup, error)
	SetRollup(ctx context.Context, kegiatanID uuid.UUID, rollup *Rollup) error
	Invalidate(ctx context.Context, kegiatanID uuid.UUID) error
}

// AuditRecorder is the slice of audit.Recorder the service needs. Failures
// are not recorded here; they propagate to the transport boundary where the
// interception middleware captures them.
type AuditRecorder interface {
	Success(ctx context.Context, entry audit.Entry)
}

// rollupConcurrency bounds parallel rollup computation in list views.
const rollupConcurrency = 8

// Service owns stage-record mutations and derived progress reads for the
// kegiatan pipeline.
type Service struct {
	store    Store
	cache    Cache
	recorder AuditRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables the rollup cache.
func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithRecorder enables audit recording of substep mutations.
func WithRecorder(recorder AuditRecorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a progress Service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("stage record store is required")
	}
	svc := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// InitStages creates the eight empty stage records for a kegiatan entering
// the pipeline. Initializing twice is a conflict.
func (s *Service) InitStages(ctx context.Context, kegiatanID uuid.UUID) ([]*StageRecord, error) {
	existing, err := s.store.ListByKegiatan(ctx, kegiatanID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stage records")
	}
	if len(existing) > 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "pipeline already initialized")
	}

	records := NewPipeline(kegiatanID, s.now())
	if err := s.store.CreateAll(ctx, records); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "pipeline already initialized")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create stage records")
	}
	return records, nil
}

// StageRecords returns the kegiatan's records ordered by stage number.
func (s *Service) StageRecords(ctx context.Context, kegiatanID uuid.UUID) ([]*StageRecord, error) {
	records, err := s.store.ListByKegiatan(ctx, kegiatanID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stage records")
	}
	if len(records) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no stage records for kegiatan")
	}
	return records, nil
}

// CompleteSubstep marks one substep done, stamping the realized date when it
// was not recorded beforehand. Completing an already-done substep is a no-op.
func (s *Service) CompleteSubstep(ctx context.Context, kegiatanID uuid.UUID, stage, index int) (*StageRecord, error) {
	record, err := s.loadSubstep(ctx, kegiatanID, stage, index)
	if err != nil {
		return nil, err
	}
	if record.Substeps[index].Completed {
		return record, nil
	}

	now := s.now()
	record.Substeps[index].Completed = true
	if record.Substeps[index].RealizedDate == nil {
		record.Substeps[index].RealizedDate = &now
	}
	record.UpdatedAt = now

	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update stage record")
	}
	s.invalidate(ctx, kegiatanID)

	if s.recorder != nil {
		s.recorder.Success(ctx, audit.Entry{
			Operation:   "completeSubstep",
			Handler:     "TahapService",
			Action:      audit.ActionComplete,
			Entity:      audit.EntityTahap,
			Severity:    audit.SeverityMedium,
			EntityID:    audit.ExtractEntityID("completeSubstep", record),
			EntityName:  audit.ExtractEntityName(nil, record),
			Description: fmt.Sprintf("subtahap %d tahap %d selesai", index+1, stage),
		})
	}
	return record, nil
}

// SetSubstepDates updates the planned and/or realized date of one substep.
// Nil arguments leave the corresponding date untouched.
func (s *Service) SetSubstepDates(ctx context.Context, kegiatanID uuid.UUID, stage, index int, planned, realized *time.Time) (*StageRecord, error) {
	record, err := s.loadSubstep(ctx, kegiatanID, stage, index)
	if err != nil {
		return nil, err
	}
	if planned == nil && realized == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no dates supplied")
	}

	if planned != nil {
		record.Substeps[index].PlannedDate = planned
	}
	if realized != nil {
		record.Substeps[index].RealizedDate = realized
	}
	record.UpdatedAt = s.now()

	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update stage record")
	}
	s.invalidate(ctx, kegiatanID)

	if s.recorder != nil {
		s.recorder.Success(ctx, audit.Entry{
			Operation:   "updateSubstepDates",
			Handler:     "TahapService",
			Action:      audit.ActionUpdate,
			Entity:      audit.EntityTahap,
			Severity:    audit.SeverityLow,
			EntityID:    audit.ExtractEntityID("updateSubstepDates", record),
			EntityName:  audit.ExtractEntityName(nil, record),
			Description: fmt.Sprintf("jadwal subtahap %d tahap %d diubah", index+1, stage),
		})
	}
	return record, nil
}

// AttachFile stores the uploaded completion document reference on the final
// stage.
func (s *Service) AttachFile(ctx context.Context, kegiatanID, fileID uuid.UUID) (*StageRecord, error) {
	if fileID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "file id is required")
	}
	record, err := s.loadStage(ctx, kegiatanID, NumStages)
	if err != nil {
		return nil, err
	}

	record.FileID = &fileID
	record.UpdatedAt = s.now()

	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update stage record")
	}
	s.invalidate(ctx, kegiatanID)

	if s.recorder != nil {
		s.recorder.Success(ctx, audit.Entry{
			Operation:   "uploadTahapFile",
			Handler:     "TahapService",
			Action:      audit.ActionUpload,
			Entity:      audit.EntityFile,
			Severity:    audit.SeverityMedium,
			EntityID:    fileID.String(),
			Description: fmt.Sprintf("dokumen tahap %d diunggah", NumStages),
		})
	}
	return record, nil
}

// Progress computes the project rollup for one kegiatan, served from cache
// when fresh.
func (s *Service) Progress(ctx context.Context, kegiatanID uuid.UUID) (*Rollup, error) {
	if s.cache != nil {
		rollup, err := s.cache.GetRollup(ctx, kegiatanID)
		if err == nil {
			s.metrics.IncCacheHit()
			return rollup, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			// A broken cache degrades to recomputation, never to an error.
			s.logger.WarnContext(ctx, "rollup cache read failed",
				"kegiatan_id", kegiatanID.String(), "error", err)
		}
		s.metrics.IncCacheMiss()
	}

	records, err := s.StageRecords(ctx, kegiatanID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rollup, err := ProjectRollup(records, s.now())
	if err != nil {
		// Malformed stored data is a defect, not a user error.
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "progress computation failed")
	}
	s.metrics.ObserveRollup(start)

	if s.cache != nil {
		if err := s.cache.SetRollup(ctx, kegiatanID, rollup); err != nil {
			s.logger.WarnContext(ctx, "rollup cache write failed",
				"kegiatan_id", kegiatanID.String(), "error", err)
		}
	}
	return rollup, nil
}

// ProgressForAll computes rollups for many kegiatan in parallel, preserving
// input order. Kegiatan without stage records yield a nil entry.
func (s *Service) ProgressForAll(ctx context.Context, kegiatanIDs []uuid.UUID) ([]*Rollup, error) {
	rollups := make([]*Rollup, len(kegiatanIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rollupConcurrency)
	for i, id := range kegiatanIDs {
		g.Go(func() error {
			rollup, err := s.Progress(ctx, id)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					return nil
				}
				return err
			}
			rollups[i] = rollup
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rollups, nil
}

func (s *Service) loadStage(ctx context.Context, kegiatanID uuid.UUID, stage int) (*StageRecord, error) {
	if SubstepCount(stage) == 0 {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "stage %d out of range 1..%d", stage, NumStages)
	}
	record, err := s.store.Get(ctx, kegiatanID, stage)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "stage record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stage record")
	}
	if err := record.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "stored stage record is malformed")
	}
	return record, nil
}

func (s *Service) loadSubstep(ctx context.Context, kegiatanID uuid.UUID, stage, index int) (*StageRecord, error) {
	record, err := s.loadStage(ctx, kegiatanID, stage)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= SubstepCount(stage) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest,
			"substep index %d out of range 0..%d for stage %d", index, SubstepCount(stage)-1, stage)
	}
	return record, nil
}

func (s *Service) invalidate(ctx context.Context, kegiatanID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, kegiatanID); err != nil {
		s.logger.WarnContext(ctx, "rollup cache invalidation failed",
			"kegiatan_id", kegiatanID.String(), "error", err)
	}
}
