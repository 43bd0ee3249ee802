package audit

import (
	"context"
	"log/slog"
)

// Notifier consumes HIGH/CRITICAL events from a channel, raises an alert on
// the structured log, and flips the NotificationSent flag through the store.
// It keeps background processing testable without wiring queue
// implementations.
type Notifier struct {
	store  Store
	logger *slog.Logger
	inbox  chan *Event
}

// NewNotifier creates a Notifier with a buffered inbox of the given size.
func NewNotifier(store Store, logger *slog.Logger, buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 64
	}
	return &Notifier{
		store:  store,
		logger: logger,
		inbox:  make(chan *Event, buffer),
	}
}

// Inbox returns the channel the recorder forwards alert-worthy events to.
func (n *Notifier) Inbox() chan<- *Event { return n.inbox }

// Run processes the inbox until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-n.inbox:
			n.notify(ctx, event)
		}
	}
}

func (n *Notifier) notify(ctx context.Context, event *Event) {
	n.logger.WarnContext(ctx, "audit alert",
		"audit_event_id", event.ID.String(),
		"action", string(event.Action),
		"entity", string(event.Entity),
		"severity", string(event.Severity),
		"actor_email", event.ActorEmail,
		"description", event.Description,
	)
	if err := n.store.MarkNotified(ctx, event.ID); err != nil {
		n.logger.ErrorContext(ctx, "failed to mark audit event notified",
			"audit_event_id", event.ID.String(),
			"error", err,
		)
	}
}
