package notifications

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ListUnread)
	r.Put("/{id}/read", h.MarkRead)
	r.Get("/*", h.ListByCode)
}
