package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"simonev/internal/audit"
	"simonev/internal/identity"
	"simonev/internal/platform/middleware"
	dErrors "simonev/pkg/domain-errors"
	"simonev/pkg/requestcontext"
)

// Authenticator resolves credentials to a user account.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*identity.User, error)
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, email, name, role string, expiresIn time.Duration) (string, error)
}

// AuditRecorder is the slice of audit.Recorder the transport layer needs.
type AuditRecorder interface {
	Success(ctx context.Context, entry audit.Entry)
	Failure(ctx context.Context, operation, handler string, err error)
	Login(ctx context.Context)
	Logout(ctx context.Context)
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	identity Authenticator
	tokens   TokenIssuer
	recorder AuditRecorder
	logger   *slog.Logger
	jwt      middleware.JWTValidator
	tokenTTL time.Duration
}

// NewAuthHandler creates a new auth Handler.
func NewAuthHandler(
	identitySvc Authenticator,
	tokens TokenIssuer,
	jwt middleware.JWTValidator,
	recorder AuditRecorder,
	logger *slog.Logger,
	tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		identity: identitySvc,
		tokens:   tokens,
		jwt:      jwt,
		recorder: recorder,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// Register mounts the auth routes on the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.With(middleware.RequireAuth(h.jwt, h.logger)).Post("/auth/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "email and password are required"))
		return
	}

	user, err := h.identity.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.recorder.Failure(ctx, "login", "AuthController", err)
		WriteError(w, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(user.ID, user.Email, user.Name, user.Role, h.tokenTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "token generation failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token"))
		return
	}

	// The actor is only known after authentication, so it is injected here
	// rather than by the auth middleware.
	h.recorder.Login(requestcontext.WithActor(ctx, &requestcontext.Actor{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}))

	WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokenTTL.Seconds()),
		UserID:      user.ID.String(),
		Name:        user.Name,
		Role:        user.Role,
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout exists for the audit trail.
	h.recorder.Logout(r.Context())
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
