package fx

import (
	"net/http"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.client.Latest(r.Context()))
}
