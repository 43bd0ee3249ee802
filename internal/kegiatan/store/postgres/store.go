package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"simonev/internal/kegiatan"
	"simonev/pkg/sentinel"
)

// Schema holds the DDL for the kegiatan registry table.
const Schema = `
CREATE TABLE IF NOT EXISTS kegiatan (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	program     TEXT NOT NULL DEFAULT '',
	satker      TEXT NOT NULL DEFAULT '',
	year        INT  NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_kegiatan_year ON kegiatan (year);
`

// Store persists kegiatan records in PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the registry table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure kegiatan schema: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, k *kegiatan.Kegiatan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kegiatan (id, name, program, satker, year, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		k.ID, k.Name, k.Program, k.Satker, k.Year, k.Status, k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert kegiatan: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*kegiatan.Kegiatan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, program, satker, year, status, created_at, updated_at
		FROM kegiatan WHERE id = $1`, id)
	return scanKegiatan(row)
}

func (s *Store) List(ctx context.Context) ([]*kegiatan.Kegiatan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, program, satker, year, status, created_at, updated_at
		FROM kegiatan ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list kegiatan: %w", err)
	}
	defer rows.Close()

	var list []*kegiatan.Kegiatan
	for rows.Next() {
		k, err := scanKegiatan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func (s *Store) Update(ctx context.Context, k *kegiatan.Kegiatan) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE kegiatan
		SET name = $2, program = $3, satker = $4, year = $5, status = $6, updated_at = $7
		WHERE id = $1`,
		k.ID, k.Name, k.Program, k.Satker, k.Year, k.Status, k.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update kegiatan: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKegiatan(row rowScanner) (*kegiatan.Kegiatan, error) {
	var k kegiatan.Kegiatan
	err := row.Scan(&k.ID, &k.Name, &k.Program, &k.Satker, &k.Year, &k.Status, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan kegiatan: %w", err)
	}
	return &k, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
