// Package testutil carries shared helpers for handler and middleware tests.
package testutil

import (
	"net/http"

	"github.com/google/uuid"

	"simonev/pkg/requestcontext"
)

// WithActor adds an authenticated actor to the request context. This
// simulates what the auth middleware would do for authenticated requests.
func WithActor(req *http.Request, id uuid.UUID, email, name, role string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), &requestcontext.Actor{
		ID:    id,
		Email: email,
		Name:  name,
		Role:  role,
	})
	return req.WithContext(ctx)
}

// WithClientMetadata adds client IP and User-Agent to the request context,
// mirroring the metadata middleware.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent)
	return req.WithContext(ctx)
}
