package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"simonev/internal/platform/middleware"
	"simonev/internal/progress"
	dErrors "simonev/pkg/domain-errors"
)

// ProgressService defines the interface for pipeline operations.
type ProgressService interface {
	StageRecords(ctx context.Context, kegiatanID uuid.UUID) ([]*progress.StageRecord, error)
	CompleteSubstep(ctx context.Context, kegiatanID uuid.UUID, stage, index int) (*progress.StageRecord, error)
	SetSubstepDates(ctx context.Context, kegiatanID uuid.UUID, stage, index int, planned, realized *time.Time) (*progress.StageRecord, error)
	AttachFile(ctx context.Context, kegiatanID, fileID uuid.UUID) (*progress.StageRecord, error)
	Progress(ctx context.Context, kegiatanID uuid.UUID) (*progress.Rollup, error)
	ProgressForAll(ctx context.Context, kegiatanIDs []uuid.UUID) ([]*progress.Rollup, error)
}

// ProgressHandler wires the stage pipeline endpoints.
type ProgressHandler struct {
	service  ProgressService
	recorder middleware.AuditRecorder
	logger   *slog.Logger
	jwt      middleware.JWTValidator
}

// NewProgressHandler creates a new progress Handler.
func NewProgressHandler(service ProgressService, jwt middleware.JWTValidator, recorder middleware.AuditRecorder, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{service: service, jwt: jwt, recorder: recorder, logger: logger}
}

// Register mounts the pipeline routes behind authentication. Substep
// mutations are audited by the service; the interception layer covers the
// read routes.
func (h *ProgressHandler) Register(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAuth(h.jwt, h.logger))
		gr.Post("/kegiatan/{id}/tahap/{stage}/subtahap/{index}/complete", h.handleCompleteSubstep)
		gr.Put("/kegiatan/{id}/tahap/{stage}/subtahap/{index}/dates", h.handleSetDates)
		gr.Post("/kegiatan/{id}/tahap/8/file", h.handleAttachFile)

		view := gr
		if h.recorder != nil {
			view = gr.With(middleware.Audit(h.recorder, "TahapController"))
		}
		view.Get("/kegiatan/{id}/progress", h.handleProgress)
		view.Get("/kegiatan/{id}/tahap", h.handleStageRecords)
	})
}

func (h *ProgressHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	rollup, err := h.service.Progress(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rollup)
}

func (h *ProgressHandler) handleStageRecords(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	records, err := h.service.StageRecords(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

func (h *ProgressHandler) handleCompleteSubstep(w http.ResponseWriter, r *http.Request) {
	id, stage, index, err := substepCoordinates(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	record, err := h.service.CompleteSubstep(r.Context(), id, stage, index)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

type setDatesRequest struct {
	PlannedDate  *time.Time `json:"planned_date"`
	RealizedDate *time.Time `json:"realized_date"`
}

func (h *ProgressHandler) handleSetDates(w http.ResponseWriter, r *http.Request) {
	id, stage, index, err := substepCoordinates(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req setDatesRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	record, err := h.service.SetSubstepDates(r.Context(), id, stage, index, req.PlannedDate, req.RealizedDate)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

type attachFileRequest struct {
	FileID uuid.UUID `json:"file_id"`
}

func (h *ProgressHandler) handleAttachFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req attachFileRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	record, err := h.service.AttachFile(r.Context(), id, req.FileID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

func substepCoordinates(r *http.Request) (uuid.UUID, int, int, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return uuid.Nil, 0, 0, err
	}
	stage, err := strconv.Atoi(chi.URLParam(r, "stage"))
	if err != nil {
		return uuid.Nil, 0, 0, dErrors.New(dErrors.CodeBadRequest, "invalid stage")
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return uuid.Nil, 0, 0, dErrors.New(dErrors.CodeBadRequest, "invalid substep index")
	}
	return id, stage, index, nil
}
