package kegiatan

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Pipeline,AuditRecorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"simonev/internal/audit"
	"simonev/internal/platform/metrics"
	"simonev/internal/progress"
	dErrors "simonev/pkg/domain-errors"
	"simonev/pkg/sentinel"
)

// Store is the persistence collaborator for kegiatan records.
type Store interface {
	Create(ctx context.Context, k *Kegiatan) error
	Get(ctx context.Context, id uuid.UUID) (*Kegiatan, error)
	List(ctx context.Context) ([]*Kegiatan, error)
	Update(ctx context.Context, k *Kegiatan) error
}

// Pipeline initializes the stage records owned by a new kegiatan.
type Pipeline interface {
	InitStages(ctx context.Context, kegiatanID uuid.UUID) ([]*progress.StageRecord, error)
}

// AuditRecorder is the slice of audit.Recorder this service needs.
type AuditRecorder interface {
	Success(ctx context.Context, entry audit.Entry)
}

// Service owns the kegiatan registry and bootstraps the stage pipeline on
// creation.
type Service struct {
	store    Store
	pipeline Pipeline
	recorder AuditRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPipeline wires stage-record initialization into Create.
func WithPipeline(pipeline Pipeline) Option {
	return func(s *Service) { s.pipeline = pipeline }
}

// WithRecorder enables audit recording of registry mutations.
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

// New creates a kegiatan Service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("kegiatan store is required")
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

// Create registers a new kegiatan and initializes its eight stage records.
func (s *Service) Create(ctx context.Context, name, program, satker string, year int) (*Kegiatan, error) {
	now := s.now()
	k := &Kegiatan{
		ID:        uuid.New(),
		Name:      name,
		Program:   program,
		Satker:    satker,
		Year:      year,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, k); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "kegiatan already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create kegiatan")
	}

	if s.pipeline != nil {
		if _, err := s.pipeline.InitStages(ctx, k.ID); err != nil {
			// The kegiatan exists; the pipeline can be re-initialized later.
			s.logger.ErrorContext(ctx, "stage pipeline initialization failed",
				"kegiatan_id", k.ID.String(), "error", err)
		}
	}

	s.metrics.IncKegiatanCreated()
	s.audit(ctx, audit.Entry{
		Operation:   "createKegiatan",
		Handler:     "KegiatanService",
		Action:      audit.ActionCreate,
		Entity:      audit.EntityKegiatan,
		Severity:    audit.SeverityMedium,
		EntityID:    k.AuditEntityID(),
		EntityName:  k.AuditEntityName(),
		Description: fmt.Sprintf("kegiatan %q didaftarkan untuk tahun %d", k.Name, k.Year),
	})
	return k, nil
}

// Get returns one kegiatan by id. Archived records read as not found.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Kegiatan, error) {
	k, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "kegiatan not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load kegiatan")
	}
	if k.Status == StatusArchived {
		return nil, dErrors.New(dErrors.CodeNotFound, "kegiatan not found")
	}
	return k, nil
}

// List returns all non-archived kegiatan ordered by creation time, newest
// first.
func (s *Service) List(ctx context.Context) ([]*Kegiatan, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list kegiatan")
	}
	visible := make([]*Kegiatan, 0, len(list))
	for _, k := range list {
		if k.Status == StatusArchived {
			continue
		}
		visible = append(visible, k)
	}
	return visible, nil
}

// UpdateInput carries the mutable kegiatan fields. Nil fields are left
// untouched.
type UpdateInput struct {
	Name    *string
	Program *string
	Satker  *string
	Year    *int
	Status  *Status
}

// Update applies the supplied fields to an existing kegiatan.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Kegiatan, error) {
	k, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		k.Name = *in.Name
	}
	if in.Program != nil {
		k.Program = *in.Program
	}
	if in.Satker != nil {
		k.Satker = *in.Satker
	}
	if in.Year != nil {
		k.Year = *in.Year
	}
	if in.Status != nil {
		// Archiving goes through Delete so it always leaves an audit event.
		if *in.Status == StatusArchived {
			return nil, dErrors.New(dErrors.CodeBadRequest, "kegiatan cannot be archived via update")
		}
		k.Status = *in.Status
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	k.UpdatedAt = s.now()

	if err := s.store.Update(ctx, k); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "kegiatan not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update kegiatan")
	}

	s.audit(ctx, audit.Entry{
		Operation:   "updateKegiatan",
		Handler:     "KegiatanService",
		Action:      audit.ActionUpdate,
		Entity:      audit.EntityKegiatan,
		Severity:    audit.SeverityLow,
		EntityID:    k.AuditEntityID(),
		EntityName:  k.AuditEntityName(),
		Description: fmt.Sprintf("kegiatan %q diperbarui", k.Name),
	})
	return k, nil
}

// Delete archives a kegiatan. The record and its stage records are retained
// for the audit trail; archived kegiatan are hidden from Get and List.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	k, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	k.Status = StatusArchived
	k.UpdatedAt = s.now()
	if err := s.store.Update(ctx, k); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "kegiatan not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete kegiatan")
	}

	s.audit(ctx, audit.Entry{
		Operation:   "deleteKegiatanById",
		Handler:     "KegiatanService",
		Action:      audit.ActionDelete,
		Entity:      audit.EntityKegiatan,
		Severity:    audit.SeverityHigh,
		EntityID:    k.AuditEntityID(),
		EntityName:  k.AuditEntityName(),
		Description: fmt.Sprintf("kegiatan %q dihapus", k.Name),
	})
	return nil
}

func (s *Service) audit(ctx context.Context, entry audit.Entry) {
	if s.recorder == nil {
		return
	}
	s.recorder.Success(ctx, entry)
}
