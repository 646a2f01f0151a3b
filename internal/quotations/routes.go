package quotations

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes wires the quotation endpoints. Codes carry slashes, so the
// by-code routes use a trailing wildcard instead of a path parameter.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/duplicate", h.Duplicate)
	r.Post("/change-state", h.ChangeState)
	r.Post("/costs", h.SaveCosts)
	r.Get("/costs/*", h.GetCosts)
	r.Get("/*", h.Get)
	r.Put("/*", h.Update)
	r.Delete("/*", h.Delete)
}
