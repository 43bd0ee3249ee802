package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NumStages is the fixed length of the kegiatan execution pipeline.
const NumStages = 8

// substepCounts fixes the number of substeps per stage (indexed by stage
// number). The pipeline shape is administrative policy and never changes
// after a record is created.
var substepCounts = [NumStages + 1]int{0, 3, 4, 7, 4, 4, 3, 4, 3}

// SubstepCount returns the fixed substep count for a stage, or 0 for an
// invalid stage number.
func SubstepCount(stage int) int {
	if stage < 1 || stage > NumStages {
		return 0
	}
	return substepCounts[stage]
}

// ErrMalformedStage signals stage data that violates the fixed pipeline
// shape. Calculations fail loudly with this error instead of guessing.
var ErrMalformedStage = errors.New("malformed stage record")

// Substep is the completion state of one sub-unit of a stage.
type Substep struct {
	Completed    bool       `json:"completed"`
	PlannedDate  *time.Time `json:"planned_date,omitempty"`
	RealizedDate *time.Time `json:"realized_date,omitempty"`
}

// StageRecord tracks one stage's substeps for one kegiatan. One record exists
// per stage per kegiatan; the substep slice length is fixed at creation.
type StageRecord struct {
	ID         uuid.UUID
	KegiatanID uuid.UUID
	Stage      int
	Substeps   []Substep

	// FileID references the uploaded completion document; stage 8 only.
	FileID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStageRecord creates an empty record for one stage of a kegiatan.
func NewStageRecord(kegiatanID uuid.UUID, stage int, now time.Time) (*StageRecord, error) {
	count := SubstepCount(stage)
	if count == 0 {
		return nil, fmt.Errorf("%w: stage %d out of range 1..%d", ErrMalformedStage, stage, NumStages)
	}
	return &StageRecord{
		ID:         uuid.New(),
		KegiatanID: kegiatanID,
		Stage:      stage,
		Substeps:   make([]Substep, count),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewPipeline creates the full set of empty stage records for a kegiatan.
func NewPipeline(kegiatanID uuid.UUID, now time.Time) []*StageRecord {
	records := make([]*StageRecord, 0, NumStages)
	for stage := 1; stage <= NumStages; stage++ {
		record, _ := NewStageRecord(kegiatanID, stage, now)
		records = append(records, record)
	}
	return records
}

// Validate checks the fixed pipeline shape.
func (r *StageRecord) Validate() error {
	if r.Stage < 1 || r.Stage > NumStages {
		return fmt.Errorf("%w: stage %d out of range 1..%d", ErrMalformedStage, r.Stage, NumStages)
	}
	if want := SubstepCount(r.Stage); len(r.Substeps) != want {
		return fmt.Errorf("%w: stage %d has %d substeps, want %d",
			ErrMalformedStage, r.Stage, len(r.Substeps), want)
	}
	return nil
}

// CheckIndex validates a substep index against the fixed range.
func (r *StageRecord) CheckIndex(index int) error {
	if index < 0 || index >= len(r.Substeps) {
		return fmt.Errorf("%w: substep index %d out of range 0..%d for stage %d",
			ErrMalformedStage, index, len(r.Substeps)-1, r.Stage)
	}
	return nil
}

// AuditEntityID implements audit.Identifiable.
func (r *StageRecord) AuditEntityID() string { return r.ID.String() }

// AuditEntityName implements audit.Named.
func (r *StageRecord) AuditEntityName() string {
	return fmt.Sprintf("Tahap %d", r.Stage)
}
