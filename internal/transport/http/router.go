package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"simonev/internal/platform/middleware"
)

// Deps carries everything the router needs. The HTTP layer stays thin: it
// delegates to domain services so transport concerns remain isolated.
type Deps struct {
	Logger   *slog.Logger
	JWT      middleware.JWTValidator
	Recorder AuditRecorder

	Identity Authenticator
	Tokens   TokenIssuer
	TokenTTL time.Duration

	Kegiatan KegiatanService
	Progress ProgressService
	Audit    AuditQueries

	// Health reports readiness of the backing stores; nil means always ready.
	Health func() error
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.ClientMetadata)

	r.Get("/health", handleHealth(d.Health))
	r.Handle("/metrics", promhttp.Handler())

	NewAuthHandler(d.Identity, d.Tokens, d.JWT, d.Recorder, d.Logger, d.TokenTTL).Register(r)
	NewKegiatanHandler(d.Kegiatan, d.Progress, d.JWT, d.Recorder, d.Logger).Register(r)
	NewProgressHandler(d.Progress, d.JWT, d.Recorder, d.Logger).Register(r)
	NewAuditHandler(d.Audit, d.JWT, d.Logger).Register(r)

	return r
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
