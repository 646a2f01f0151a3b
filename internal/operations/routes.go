package operations

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes wires the operation endpoints. Operation codes carry
// slashes, so by-code routes use a trailing wildcard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/tracking", h.UpdateTracking)
	r.Get("/stats/*", h.Stats)
	r.Get("/*", h.Get)
	r.Put("/*", h.Update)
}

// MountChecklistRoutes wires the checklist endpoints. Listing and adding
// go by operation code (wildcard), item edits go by item id.
func (h *Handler) MountChecklistRoutes(r chi.Router) {
	r.Put("/{id}", h.UpdateChecklistItem)
	r.Delete("/{id}", h.DeleteChecklistItem)
	r.Get("/*", h.GetChecklist)
	r.Post("/*", h.AddChecklistItem)
}
