package operations

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// codeParam extracts an operation code from the trailing wildcard,
// undoing up to two layers of percent-encoding the SPA may apply.
func codeParam(r *http.Request) string {
	code := chi.URLParam(r, "*")
	for i := 0; i < 2 && strings.Contains(code, "%"); i++ {
		decoded, err := url.PathUnescape(code)
		if err != nil {
			break
		}
		code = decoded
	}
	return code
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ops, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list operations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ops)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	op, err := h.service.Get(r.Context(), codeParam(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, op)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateOperationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	op, err := h.service.Update(r.Context(), codeParam(r), req)
	if err != nil {
		h.logger.Error("update operation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, op)
}

func (h *Handler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	var req TrackingUpdate
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	op, err := h.service.UpdateTracking(r.Context(), req)
	if err != nil {
		h.logger.Error("update tracking", slog.String("code", req.Code), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, op)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.OperationStats(r.Context(), codeParam(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Checklist(r.Context(), codeParam(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) AddChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req AddChecklistItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	item, err := h.service.AddChecklistItem(r.Context(), codeParam(r), req)
	if err != nil {
		h.logger.Error("add checklist item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateChecklistItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	item, err := h.service.UpdateChecklistItem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteChecklistItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "checklist item deleted"})
}
