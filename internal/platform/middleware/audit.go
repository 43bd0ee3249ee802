package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"simonev/internal/audit"
)

// AuditRecorder is the slice of audit.Recorder the interception layer needs.
type AuditRecorder interface {
	Success(ctx context.Context, entry audit.Entry)
	Failure(ctx context.Context, operation, handler string, err error)
}

// Audit is the generic audit trigger point: it wraps a route and records an
// event from the response status. Routes whose services record richer events
// explicitly should not also be wrapped here.
func Audit(recorder AuditRecorder, handlerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			ctx := r.Context()
			operation := operationName(r)

			switch {
			case sw.status >= http.StatusInternalServerError:
				recorder.Failure(ctx, operation, handlerName,
					fmt.Errorf("request failed with status %d", sw.status))
			case sw.status >= http.StatusBadRequest:
				recorder.Success(ctx, audit.Entry{
					Operation: operation,
					Handler:   handlerName,
					Details:   fmt.Sprintf("rejected with status %d", sw.status),
				})
			default:
				recorder.Success(ctx, audit.Entry{
					Operation: operation,
					Handler:   handlerName,
				})
			}
		})
	}
}

// operationName derives a classifier-friendly operation name from the method
// and the matched chi route pattern, e.g. "GET /kegiatan/{id}" becomes
// "getKegiatanById".
func operationName(r *http.Request) string {
	pattern := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		pattern = rctx.RoutePattern()
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(r.Method))
	for _, seg := range strings.Split(pattern, "/") {
		switch {
		case seg == "" || seg == "*":
		case strings.HasPrefix(seg, "{"):
			name := strings.Trim(seg, "{}")
			b.WriteString("By")
			b.WriteString(title(name))
		default:
			b.WriteString(title(seg))
		}
	}
	return b.String()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
