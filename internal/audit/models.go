package audit

import (
	"time"

	"github.com/google/uuid"
)

// ActionType classifies what an audited operation did.
type ActionType string

const (
	ActionCreate   ActionType = "CREATE"
	ActionUpdate   ActionType = "UPDATE"
	ActionDelete   ActionType = "DELETE"
	ActionView     ActionType = "VIEW"
	ActionLogin    ActionType = "LOGIN"
	ActionLogout   ActionType = "LOGOUT"
	ActionUpload   ActionType = "UPLOAD"
	ActionDownload ActionType = "DOWNLOAD"
	ActionApprove  ActionType = "APPROVE"
	ActionReject   ActionType = "REJECT"
	ActionSubmit   ActionType = "SUBMIT"
	ActionAssign   ActionType = "ASSIGN"
	ActionComplete ActionType = "COMPLETE"
	ActionCancel   ActionType = "CANCEL"
	ActionRestore  ActionType = "RESTORE"
	ActionSync     ActionType = "SYNC"
)

// EntityType identifies the kind of entity an audited operation touched.
type EntityType string

const (
	EntityUser        EntityType = "USER"
	EntityRole        EntityType = "ROLE"
	EntitySatker      EntityType = "SATKER"
	EntityProvince    EntityType = "PROVINCE"
	EntityProgram     EntityType = "PROGRAM"
	EntityOutput      EntityType = "OUTPUT"
	EntityKegiatan    EntityType = "KEGIATAN"
	EntityDeputy      EntityType = "DEPUTY"
	EntityDirectorate EntityType = "DIRECTORATE"
	EntityTahap       EntityType = "TAHAP"
	EntityFile        EntityType = "FILE"
	EntitySystem      EntityType = "SYSTEM"
)

// Severity levels for audit events. HIGH and CRITICAL events are forwarded to
// the notifier for alerting.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Denormalized actor snapshot used when no authenticated actor is present.
const (
	SystemActorEmail = "system"
	SystemActorName  = "System"
)

// Event is one immutable audit record. Once persisted, only IsRead and
// NotificationSent may change; the store update surface enforces this.
type Event struct {
	ID uuid.UUID

	// ActorID is nil for system-triggered or unauthenticated operations.
	// Email and name are snapshotted at event time so the record survives
	// actor deletion or rename.
	ActorID    *uuid.UUID
	ActorEmail string
	ActorName  string

	Action ActionType
	Entity EntityType

	// Best-effort target identification. Empty when extraction found nothing.
	EntityID   string
	EntityName string

	Description string
	Details     string
	Severity    Severity

	IPAddress string
	UserAgent string

	CreatedAt time.Time

	// Mutable post-creation, by the notification/UI collaborators only.
	IsRead           bool
	NotificationSent bool
}
