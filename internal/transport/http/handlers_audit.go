package httptransport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"simonev/internal/audit"
	"simonev/internal/platform/middleware"
	dErrors "simonev/pkg/domain-errors"
	"simonev/pkg/sentinel"
)

// AuditQueries defines the read surface of the audit trail exposed over HTTP.
type AuditQueries interface {
	List(ctx context.Context, filter audit.Filter) ([]*audit.Event, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// AuditHandler wires the audit trail endpoints.
type AuditHandler struct {
	store  AuditQueries
	logger *slog.Logger
	jwt    middleware.JWTValidator
}

// NewAuditHandler creates a new audit Handler.
func NewAuditHandler(store AuditQueries, jwt middleware.JWTValidator, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{store: store, jwt: jwt, logger: logger}
}

// Register mounts the audit routes behind authentication.
func (h *AuditHandler) Register(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAuth(h.jwt, h.logger))
		gr.Get("/audit", h.handleList)
		gr.Get("/audit/unread-count", h.handleUnreadCount)
		gr.Post("/audit/{id}/read", h.handleMarkRead)
	})
}

// eventDTO is the wire shape of an audit event. The raw user agent is kept
// alongside a human-readable browser/OS summary.
type eventDTO struct {
	ID               string     `json:"id"`
	ActorID          *string    `json:"actor_id,omitempty"`
	ActorEmail       string     `json:"actor_email"`
	ActorName        string     `json:"actor_name"`
	Action           string     `json:"action"`
	Entity           string     `json:"entity"`
	EntityID         string     `json:"entity_id,omitempty"`
	EntityName       string     `json:"entity_name,omitempty"`
	Description      string     `json:"description"`
	Details          string     `json:"details,omitempty"`
	Severity         string     `json:"severity"`
	IPAddress        string     `json:"ip_address,omitempty"`
	UserAgent        string     `json:"user_agent,omitempty"`
	Client           string     `json:"client,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	IsRead           bool       `json:"is_read"`
	NotificationSent bool       `json:"notification_sent"`
}

func toEventDTO(e *audit.Event) eventDTO {
	dto := eventDTO{
		ID:               e.ID.String(),
		ActorEmail:       e.ActorEmail,
		ActorName:        e.ActorName,
		Action:           string(e.Action),
		Entity:           string(e.Entity),
		EntityID:         e.EntityID,
		EntityName:       e.EntityName,
		Description:      e.Description,
		Details:          e.Details,
		Severity:         string(e.Severity),
		IPAddress:        e.IPAddress,
		UserAgent:        e.UserAgent,
		Client:           normalizeUserAgent(e.UserAgent),
		CreatedAt:        e.CreatedAt,
		IsRead:           e.IsRead,
		NotificationSent: e.NotificationSent,
	}
	if e.ActorID != nil {
		id := e.ActorID.String()
		dto.ActorID = &id
	}
	return dto
}

// normalizeUserAgent condenses a raw User-Agent header into "Browser x.y on
// OS" for display in the audit trail.
func normalizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	if ua.Bot() {
		return "bot"
	}
	name, version := ua.Browser()
	if name == "" {
		return raw
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}

func (h *AuditHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	events, err := h.store.List(r.Context(), filter)
	if err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	dtos := make([]eventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, toEventDTO(e))
	}
	WriteJSON(w, http.StatusOK, dtos)
}

func (h *AuditHandler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountUnread(r.Context())
	if err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count unread events"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *AuditHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.store.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			WriteError(w, dErrors.New(dErrors.CodeNotFound, "audit event not found"))
			return
		}
		WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark event read"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func filterFromQuery(r *http.Request) (audit.Filter, error) {
	q := r.URL.Query()
	filter := audit.Filter{
		Action:     audit.ActionType(q.Get("action")),
		Entity:     audit.EntityType(q.Get("entity")),
		Severity:   audit.Severity(q.Get("severity")),
		UnreadOnly: q.Get("unread") == "true",
	}

	if raw := q.Get("actor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeBadRequest, "invalid actor_id")
		}
		filter.ActorID = &id
	}
	if raw := q.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeBadRequest, "invalid since timestamp")
		}
		filter.Since = t
	}
	if raw := q.Get("until"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeBadRequest, "invalid until timestamp")
		}
		filter.Until = t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return audit.Filter{}, dErrors.New(dErrors.CodeBadRequest, "invalid limit")
		}
		filter.Limit = n
	}
	return filter, nil
}
