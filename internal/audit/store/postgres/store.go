package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"simonev/internal/audit"
	"simonev/pkg/sentinel"
)

// Schema is the DDL for the audit_events table. Applied by EnsureSchema on
// startup and by the integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id                UUID PRIMARY KEY,
	actor_id          UUID,
	actor_email       TEXT NOT NULL,
	actor_name        TEXT NOT NULL,
	action            TEXT NOT NULL,
	entity            TEXT NOT NULL,
	entity_id         TEXT NOT NULL DEFAULT '',
	entity_name       TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL,
	details           TEXT NOT NULL DEFAULT '',
	severity          TEXT NOT NULL,
	ip_address        TEXT NOT NULL DEFAULT '',
	user_agent        TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL,
	is_read           BOOLEAN NOT NULL DEFAULT FALSE,
	notification_sent BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_events_actor_id ON audit_events (actor_id);
`

// Store implements audit.Store on PostgreSQL. Append is the only insert path
// and the update surface is limited to the is_read and notification_sent
// columns, which keeps persisted events immutable.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit_events table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event *audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	query := `
		INSERT INTO audit_events (
			id, actor_id, actor_email, actor_name, action, entity,
			entity_id, entity_name, description, details, severity,
			ip_address, user_agent, created_at, is_read, notification_sent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.ActorID,
		event.ActorEmail,
		event.ActorName,
		string(event.Action),
		string(event.Entity),
		event.EntityID,
		event.EntityName,
		event.Description,
		event.Details,
		string(event.Severity),
		event.IPAddress,
		event.UserAgent,
		event.CreatedAt,
		event.IsRead,
		event.NotificationSent,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

const selectColumns = `
	id, actor_id, actor_email, actor_name, action, entity,
	entity_id, entity_name, description, details, severity,
	ip_address, user_agent, created_at, is_read, notification_sent
`

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*audit.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM audit_events WHERE id = $1`, id)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find audit event: %w", err)
	}
	return event, nil
}

// List returns matching events, most recent first.
func (s *Store) List(ctx context.Context, filter audit.Filter) ([]*audit.Event, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActorID != nil {
		conditions = append(conditions, "actor_id = "+arg(*filter.ActorID))
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = "+arg(string(filter.Action)))
	}
	if filter.Entity != "" {
		conditions = append(conditions, "entity = "+arg(string(filter.Entity)))
	}
	if filter.Severity != "" {
		conditions = append(conditions, "severity = "+arg(string(filter.Severity)))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "created_at >= "+arg(filter.Since))
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, "created_at <= "+arg(filter.Until))
	}
	if filter.UnreadOnly {
		conditions = append(conditions, "NOT is_read")
	}

	query := `SELECT ` + selectColumns + ` FROM audit_events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = audit.DefaultQueryLimit
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []*audit.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func (s *Store) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_events WHERE NOT is_read`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread audit events: %w", err)
	}
	return count, nil
}

func (s *Store) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.setFlag(ctx, id, "is_read")
}

func (s *Store) MarkNotified(ctx context.Context, id uuid.UUID) error {
	return s.setFlag(ctx, id, "notification_sent")
}

func (s *Store) setFlag(ctx context.Context, id uuid.UUID, column string) error {
	// column is one of the two mutable flags, never caller input.
	res, err := s.db.ExecContext(ctx,
		`UPDATE audit_events SET `+column+` = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update audit event %s: %w", column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update audit event %s: %w", column, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*audit.Event, error) {
	var (
		event    audit.Event
		actorID  *uuid.UUID
		action   string
		entity   string
		severity string
	)
	err := row.Scan(
		&event.ID,
		&actorID,
		&event.ActorEmail,
		&event.ActorName,
		&action,
		&entity,
		&event.EntityID,
		&event.EntityName,
		&event.Description,
		&event.Details,
		&severity,
		&event.IPAddress,
		&event.UserAgent,
		&event.CreatedAt,
		&event.IsRead,
		&event.NotificationSent,
	)
	if err != nil {
		return nil, err
	}
	event.ActorID = actorID
	event.Action = audit.ActionType(action)
	event.Entity = audit.EntityType(entity)
	event.Severity = audit.Severity(severity)
	return &event, nil
}
