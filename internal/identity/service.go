package identity

import (
	"context"
	"errors"
	"log/slog"

	dErrors "simonev/pkg/domain-errors"
	"simonev/pkg/sentinel"
)

// Service authenticates users against the account store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates an identity Service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("user store is required")
	}
	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Authenticate resolves credentials to a user. Unknown emails, wrong
// passwords and deactivated accounts all collapse into the same
// unauthorized error so callers cannot probe for valid emails.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !user.Active {
		s.logger.WarnContext(ctx, "login attempt on inactive account", "email", email)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err := VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return &user, nil
}
