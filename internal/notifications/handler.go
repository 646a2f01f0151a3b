package notifications

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) ListUnread(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListUnread(r.Context())
	if err != nil {
		h.logger.Error("list unread notifications", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) ListByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "*")
	if strings.Contains(code, "%") {
		if decoded, err := url.PathUnescape(code); err == nil {
			code = decoded
		}
	}

	list, err := h.service.ListByCode(r.Context(), code)
	if err != nil {
		h.logger.Error("list notifications", slog.String("code", code), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "notification read"})
}
