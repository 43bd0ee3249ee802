package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"simonev/internal/kegiatan"
	"simonev/internal/platform/middleware"
	"simonev/internal/progress"
	dErrors "simonev/pkg/domain-errors"
)

// KegiatanService defines the interface for activity registry operations.
type KegiatanService interface {
	Create(ctx context.Context, name, program, satker string, year int) (*kegiatan.Kegiatan, error)
	Get(ctx context.Context, id uuid.UUID) (*kegiatan.Kegiatan, error)
	List(ctx context.Context) ([]*kegiatan.Kegiatan, error)
	Update(ctx context.Context, id uuid.UUID, in kegiatan.UpdateInput) (*kegiatan.Kegiatan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProgressResolver resolves rollups for list views.
type ProgressResolver interface {
	ProgressForAll(ctx context.Context, kegiatanIDs []uuid.UUID) ([]*progress.Rollup, error)
}

// KegiatanHandler wires the activity registry endpoints.
type KegiatanHandler struct {
	service  KegiatanService
	progress ProgressResolver
	recorder middleware.AuditRecorder
	logger   *slog.Logger
	jwt      middleware.JWTValidator
}

// NewKegiatanHandler creates a new kegiatan Handler.
func NewKegiatanHandler(service KegiatanService, progressResolver ProgressResolver, jwt middleware.JWTValidator, recorder middleware.AuditRecorder, logger *slog.Logger) *KegiatanHandler {
	return &KegiatanHandler{service: service, progress: progressResolver, jwt: jwt, recorder: recorder, logger: logger}
}

// Register mounts the registry routes behind authentication. Mutations are
// audited by the service with full entity context; the interception layer
// covers the read routes.
func (h *KegiatanHandler) Register(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAuth(h.jwt, h.logger))
		gr.Post("/kegiatan", h.handleCreate)
		gr.Put("/kegiatan/{id}", h.handleUpdate)
		gr.Delete("/kegiatan/{id}", h.handleDelete)

		view := gr
		if h.recorder != nil {
			view = gr.With(middleware.Audit(h.recorder, "KegiatanController"))
		}
		view.Get("/kegiatan", h.handleList)
		view.Get("/kegiatan/{id}", h.handleGet)
	})
}

type createKegiatanRequest struct {
	Name    string `json:"name"`
	Program string `json:"program"`
	Satker  string `json:"satker"`
	Year    int    `json:"year"`
}

type updateKegiatanRequest struct {
	Name    *string          `json:"name"`
	Program *string          `json:"program"`
	Satker  *string          `json:"satker"`
	Year    *int             `json:"year"`
	Status  *kegiatan.Status `json:"status"`
}

func (h *KegiatanHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createKegiatanRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	k, err := h.service.Create(r.Context(), req.Name, req.Program, req.Satker, req.Year)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, k)
}

type kegiatanListItem struct {
	*kegiatan.Kegiatan
	Progress *progress.Rollup `json:"progress,omitempty"`
}

func (h *KegiatanHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	if r.URL.Query().Get("include") == "progress" && h.progress != nil {
		h.writeListWithProgress(w, r, list)
		return
	}

	if list == nil {
		list = []*kegiatan.Kegiatan{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// writeListWithProgress embeds per-kegiatan rollups into the list response.
// A kegiatan whose pipeline was never initialized carries a null progress.
func (h *KegiatanHandler) writeListWithProgress(w http.ResponseWriter, r *http.Request, list []*kegiatan.Kegiatan) {
	ids := make([]uuid.UUID, len(list))
	for i, k := range list {
		ids[i] = k.ID
	}

	rollups, err := h.progress.ProgressForAll(r.Context(), ids)
	if err != nil {
		WriteError(w, err)
		return
	}

	items := make([]kegiatanListItem, len(list))
	for i, k := range list {
		items[i] = kegiatanListItem{Kegiatan: k, Progress: rollups[i]}
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *KegiatanHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	k, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, k)
}

func (h *KegiatanHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateKegiatanRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	k, err := h.service.Update(r.Context(), id, kegiatan.UpdateInput{
		Name:    req.Name,
		Program: req.Program,
		Satker:  req.Satker,
		Year:    req.Year,
		Status:  req.Status,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, k)
}

func (h *KegiatanHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", name)
	}
	return id, nil
}
