package tariffs

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/local-charges", h.LocalCharges)
	r.Get("/local-charges/concepts", h.ChargeConcepts)
	r.Get("/carriers", h.Carriers)
	r.Get("/equipment-types", h.EquipmentTypes)
	r.Get("/airlines", h.Airlines)
	r.Get("/ports", h.Ports)
	r.Get("/config", h.Config)
}
