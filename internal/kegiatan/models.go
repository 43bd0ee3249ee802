package kegiatan

import (
	"time"

	"github.com/google/uuid"

	dErrors "simonev/pkg/domain-errors"
)

// Status of a kegiatan in its lifecycle.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"

	// StatusArchived marks a soft-deleted kegiatan. The record and its stage
	// records are retained for the audit trail but hidden from the registry.
	StatusArchived Status = "ARCHIVED"
)

// Kegiatan is a budgeted government activity tracked through the
// eight-stage implementation pipeline.
type Kegiatan struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Program   string    `json:"program"`
	Satker    string    `json:"satker"`
	Year      int       `json:"year"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditEntityID supports audit entity-identifier extraction.
func (k *Kegiatan) AuditEntityID() string { return k.ID.String() }

// AuditEntityName supports audit entity-name extraction.
func (k *Kegiatan) AuditEntityName() string { return k.Name }

// Validate checks the fields a caller controls.
func (k *Kegiatan) Validate() error {
	if k.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "kegiatan name is required")
	}
	if k.Year < 2000 || k.Year > 2100 {
		return dErrors.Newf(dErrors.CodeBadRequest, "kegiatan year %d out of range", k.Year)
	}
	switch k.Status {
	case StatusActive, StatusCompleted, StatusCancelled, StatusArchived:
		return nil
	default:
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown kegiatan status %q", k.Status)
	}
}
