package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence collaborator for audit events. Append assigns the
// event ID. The update surface is deliberately limited to the two mutable
// flags so persisted events stay immutable.
type Store interface {
	Append(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, filter Filter) ([]*Event, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkNotified(ctx context.Context, id uuid.UUID) error
}

// Filter narrows audit queries. Zero values mean "no constraint".
type Filter struct {
	ActorID    *uuid.UUID
	Action     ActionType
	Entity     EntityType
	Severity   Severity
	Since      time.Time
	Until      time.Time
	UnreadOnly bool

	// Limit caps the result set; 0 applies DefaultQueryLimit.
	Limit int
}

// DefaultQueryLimit bounds unfiltered audit queries.
const DefaultQueryLimit = 100

// Matches reports whether an event satisfies the filter. Shared by the memory
// store and tests so both agree with the SQL predicates.
func (f Filter) Matches(e *Event) bool {
	if f.ActorID != nil && (e.ActorID == nil || *e.ActorID != *f.ActorID) {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.Entity != "" && e.Entity != f.Entity {
		return false
	}
	if f.Severity != "" && e.Severity != f.Severity {
		return false
	}
	if !f.Since.IsZero() && e.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.CreatedAt.After(f.Until) {
		return false
	}
	if f.UnreadOnly && e.IsRead {
		return false
	}
	return true
}
