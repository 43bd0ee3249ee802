//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"simonev/internal/audit"
	"simonev/internal/audit/store/postgres"
	"simonev/pkg/sentinel"
	"simonev/pkg/testutil/containers"
)

type PostgresAuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditStoreSuite))
}

func (s *PostgresAuditStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresAuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *PostgresAuditStoreSuite) newEvent(action audit.ActionType, severity audit.Severity, at time.Time) *audit.Event {
	actorID := uuid.New()
	return &audit.Event{
		ActorID:     &actorID,
		ActorEmail:  "admin@simonev.go.id",
		ActorName:   "Admin",
		Action:      action,
		Entity:      audit.EntityKegiatan,
		EntityID:    uuid.NewString(),
		EntityName:  "Pembangunan Balai Penyuluhan",
		Description: "integration fixture",
		Severity:    severity,
		IPAddress:   "203.0.113.9",
		UserAgent:   "integration-test",
		CreatedAt:   at,
	}
}

func (s *PostgresAuditStoreSuite) TestAppendAndFindByID() {
	ctx := context.Background()
	event := s.newEvent(audit.ActionCreate, audit.SeverityMedium, time.Now().UTC())

	s.Require().NoError(s.store.Append(ctx, event))
	s.NotEqual(uuid.Nil, event.ID)

	found, err := s.store.FindByID(ctx, event.ID)
	s.Require().NoError(err)
	s.Equal(event.Action, found.Action)
	s.Equal(event.EntityName, found.EntityName)
	s.Equal(event.IPAddress, found.IPAddress)
	s.Require().NotNil(found.ActorID)
	s.Equal(*event.ActorID, *found.ActorID)
}

func (s *PostgresAuditStoreSuite) TestFindByIDUnknown() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresAuditStoreSuite) TestListFiltersAndOrder() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	older := s.newEvent(audit.ActionCreate, audit.SeverityLow, base.Add(-time.Hour))
	newer := s.newEvent(audit.ActionDelete, audit.SeverityHigh, base)
	s.Require().NoError(s.store.Append(ctx, older))
	s.Require().NoError(s.store.Append(ctx, newer))

	all, err := s.store.List(ctx, audit.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(newer.ID, all[0].ID, "newest first")

	deletes, err := s.store.List(ctx, audit.Filter{Action: audit.ActionDelete})
	s.Require().NoError(err)
	s.Require().Len(deletes, 1)
	s.Equal(newer.ID, deletes[0].ID)

	recent, err := s.store.List(ctx, audit.Filter{Since: base.Add(-time.Minute)})
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(newer.ID, recent[0].ID)

	limited, err := s.store.List(ctx, audit.Filter{Limit: 1})
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *PostgresAuditStoreSuite) TestMarkReadAndUnreadCount() {
	ctx := context.Background()
	event := s.newEvent(audit.ActionUpdate, audit.SeverityLow, time.Now().UTC())
	s.Require().NoError(s.store.Append(ctx, event))

	count, err := s.store.CountUnread(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	s.Require().NoError(s.store.MarkRead(ctx, event.ID))

	count, err = s.store.CountUnread(ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.ErrorIs(s.store.MarkRead(ctx, uuid.New()), sentinel.ErrNotFound)
}

func (s *PostgresAuditStoreSuite) TestMarkNotifiedLeavesPayloadUntouched() {
	ctx := context.Background()
	event := s.newEvent(audit.ActionDelete, audit.SeverityCritical, time.Now().UTC())
	s.Require().NoError(s.store.Append(ctx, event))

	s.Require().NoError(s.store.MarkNotified(ctx, event.ID))

	found, err := s.store.FindByID(ctx, event.ID)
	s.Require().NoError(err)
	s.True(found.NotificationSent)
	s.False(found.IsRead)
	s.Equal(event.Description, found.Description)
}
