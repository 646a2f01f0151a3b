package tariffs

import (
	"log/slog"
	"net/http"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) LocalCharges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opType, carrier, equipment := q.Get("op_type"), q.Get("carrier"), q.Get("equipment")
	if opType == "" || carrier == "" || equipment == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed",
			"op_type, carrier and equipment are required")
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.LocalCharges(r.Context(), opType, carrier, equipment))
}

func (h *Handler) ChargeConcepts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opType, carrier, equipment := q.Get("op_type"), q.Get("carrier"), q.Get("equipment")
	if opType == "" || carrier == "" || equipment == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed",
			"op_type, carrier and equipment are required")
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.ChargeConcepts(r.Context(), opType, carrier, equipment))
}

func (h *Handler) Carriers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Carriers(r.Context()))
}

func (h *Handler) EquipmentTypes(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.EquipmentTypes(r.Context()))
}

func (h *Handler) Airlines(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Airlines(r.Context()))
}

func (h *Handler) Ports(w http.ResponseWriter, r *http.Request) {
	ports, err := h.service.Ports(r.Context(), r.URL.Query().Get("type"), r.URL.Query().Get("country"))
	if err != nil {
		h.logger.Error("list ports", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ports)
}

func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Config())
}
