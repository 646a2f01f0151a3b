package docstore

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes wires the document endpoints. Codes carry slashes, so
// per-code routes use a trailing wildcard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/folders", h.ProvisionFolder)
	r.Get("/pdf", h.DownloadPDF)
	r.Post("/pdf", h.SavePDF)
	r.Get("/files/*", h.ListFiles)
	r.Post("/files/*", h.UploadFile)
}
