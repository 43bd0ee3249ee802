package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"simonev/internal/progress"
	"simonev/pkg/sentinel"
)

// Schema is the DDL for the stage_records table. Substep states are stored as
// a JSONB document: the slice length is fixed per stage and always read and
// written as a unit.
const Schema = `
CREATE TABLE IF NOT EXISTS stage_records (
	id          UUID PRIMARY KEY,
	kegiatan_id UUID NOT NULL,
	stage       INT NOT NULL CHECK (stage BETWEEN 1 AND 8),
	substeps    JSONB NOT NULL,
	file_id     UUID,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (kegiatan_id, stage)
);
CREATE INDEX IF NOT EXISTS idx_stage_records_kegiatan ON stage_records (kegiatan_id);
`

// Store implements progress.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the stage_records table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure stage record schema: %w", err)
	}
	return nil
}

// CreateAll inserts a kegiatan's records in one transaction so a pipeline is
// never half-initialized.
func (s *Store) CreateAll(ctx context.Context, records []*progress.StageRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stage record insert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO stage_records (id, kegiatan_id, stage, substeps, file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, record := range records {
		substeps, err := json.Marshal(record.Substeps)
		if err != nil {
			return fmt.Errorf("marshal substeps: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			record.ID, record.KegiatanID, record.Stage, substeps,
			record.FileID, record.CreatedAt, record.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert stage record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stage record insert: %w", err)
	}
	return nil
}

// ListByKegiatan returns records ordered by stage number.
func (s *Store) ListByKegiatan(ctx context.Context, kegiatanID uuid.UUID) ([]*progress.StageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kegiatan_id, stage, substeps, file_id, created_at, updated_at
		FROM stage_records
		WHERE kegiatan_id = $1
		ORDER BY stage
	`, kegiatanID)
	if err != nil {
		return nil, fmt.Errorf("query stage records: %w", err)
	}
	defer rows.Close()

	var records []*progress.StageRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage records: %w", err)
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, kegiatanID uuid.UUID, stage int) (*progress.StageRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kegiatan_id, stage, substeps, file_id, created_at, updated_at
		FROM stage_records
		WHERE kegiatan_id = $1 AND stage = $2
	`, kegiatanID, stage)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) Update(ctx context.Context, record *progress.StageRecord) error {
	substeps, err := json.Marshal(record.Substeps)
	if err != nil {
		return fmt.Errorf("marshal substeps: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE stage_records
		SET substeps = $1, file_id = $2, updated_at = $3
		WHERE id = $4
	`, substeps, record.FileID, record.UpdatedAt, record.ID)
	if err != nil {
		return fmt.Errorf("update stage record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stage record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*progress.StageRecord, error) {
	var (
		record   progress.StageRecord
		substeps []byte
	)
	err := row.Scan(
		&record.ID,
		&record.KegiatanID,
		&record.Stage,
		&substeps,
		&record.FileID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan stage record: %w", err)
	}
	if err := json.Unmarshal(substeps, &record.Substeps); err != nil {
		return nil, fmt.Errorf("unmarshal substeps: %w", err)
	}
	return &record, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
