package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"simonev/internal/platform/metrics"
	"simonev/pkg/requestcontext"
)

// Recorder assembles and persists one audit event per observed operation
// outcome. It is stateless aside from its collaborators and is safe for
// concurrent use.
//
// Failure isolation: no Recorder method returns an error. A storage failure
// is reported to the logger and the metrics sink only, so audit logging can
// never alter the outcome of the business operation being audited.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	alerts  chan<- *Event
	now     func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the structured logger used for the observability sink.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

// WithAlerts forwards persisted HIGH/CRITICAL events to the notifier inbox.
// The send is non-blocking; events are dropped when the inbox is full.
func WithAlerts(inbox chan<- *Event) Option {
	return func(r *Recorder) { r.alerts = inbox }
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates a Recorder backed by the given store.
func NewRecorder(store Store, opts ...Option) (*Recorder, error) {
	if store == nil {
		return nil, errors.New("audit store is required")
	}
	r := &Recorder{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Entry carries what the call site knows about an audited operation. Only
// Operation and Handler are required; unset classification fields are
// inferred from them by naming convention.
type Entry struct {
	Operation string
	Handler   string

	// Optional explicit classification. Zero values are inferred.
	Action   ActionType
	Entity   EntityType
	Severity Severity

	// Optional target identification, typically produced by
	// ExtractEntityID/ExtractEntityName at the interception point.
	EntityID   string
	EntityName string

	// Optional human-readable summary; a generated fallback is used when
	// empty. Details carries free-form supporting text.
	Description string
	Details     string
}

// Success records a successfully completed operation.
func (r *Recorder) Success(ctx context.Context, entry Entry) {
	action := entry.Action
	if action == "" {
		action = ClassifyAction(entry.Operation)
	}
	entity := entry.Entity
	if entity == "" {
		entity = ClassifyEntity(entry.Handler)
	}
	severity := entry.Severity
	if severity == "" {
		severity = SeverityLow
	}
	description := entry.Description
	if description == "" {
		description = fmt.Sprintf("%s executed in %s", entry.Operation, entry.Handler)
	}

	event := &Event{
		Action:      action,
		Entity:      entity,
		EntityID:    entry.EntityID,
		EntityName:  entry.EntityName,
		Description: description,
		Details:     entry.Details,
		Severity:    severity,
	}
	r.record(ctx, event)
}

// Failure records a failed operation. Failures are always classified
// VIEW/SYSTEM with severity HIGH; the error chain text lands in Details.
func (r *Recorder) Failure(ctx context.Context, operation, handler string, opErr error) {
	message := "unknown error"
	details := ""
	if opErr != nil {
		message = opErr.Error()
		details = fmt.Sprintf("%+v", opErr)
	}

	event := &Event{
		Action:      ActionView,
		Entity:      EntitySystem,
		Description: fmt.Sprintf("Error in %s.%s: %s", handler, operation, message),
		Details:     details,
		Severity:    SeverityHigh,
	}
	r.record(ctx, event)
}

// Login records a successful sign-in for the actor in ctx.
func (r *Recorder) Login(ctx context.Context) {
	r.record(ctx, &Event{
		Action:      ActionLogin,
		Entity:      EntityUser,
		Description: "user logged in",
		Severity:    SeverityLow,
	})
}

// Logout records a sign-out for the actor in ctx.
func (r *Recorder) Logout(ctx context.Context) {
	r.record(ctx, &Event{
		Action:      ActionLogout,
		Entity:      EntityUser,
		Description: "user logged out",
		Severity:    SeverityLow,
	})
}

// record merges ambient actor and request metadata into the event and
// persists it. Exactly one event is persisted per call, or zero on storage
// failure; the failure is swallowed after reporting to the sinks.
func (r *Recorder) record(ctx context.Context, event *Event) {
	if actor := requestcontext.CurrentActor(ctx); actor != nil {
		actorID := actor.ID
		event.ActorID = &actorID
		event.ActorEmail = actor.Email
		event.ActorName = actor.Name
	} else {
		event.ActorEmail = SystemActorEmail
		event.ActorName = SystemActorName
	}
	event.IPAddress = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}

	if err := r.store.Append(ctx, event); err != nil {
		r.metrics.IncAuditPersistFailure()
		r.logger.ErrorContext(ctx, "audit event lost",
			"error", err,
			"action", string(event.Action),
			"entity", string(event.Entity),
			"description", event.Description,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}

	r.metrics.IncAuditRecorded(string(event.Action))

	if r.alerts != nil && (event.Severity == SeverityHigh || event.Severity == SeverityCritical) {
		select {
		case r.alerts <- event:
		default:
			// Alerting is best effort; never block the request path.
		}
	}
}
