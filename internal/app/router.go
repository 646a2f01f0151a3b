package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ganbatte/backoffice/internal/clients"
	"github.com/ganbatte/backoffice/internal/docstore"
	"github.com/ganbatte/backoffice/internal/fx"
	"github.com/ganbatte/backoffice/internal/notifications"
	"github.com/ganbatte/backoffice/internal/operations"
	"github.com/ganbatte/backoffice/internal/quotations"
	"github.com/ganbatte/backoffice/internal/tariffs"
	"github.com/ganbatte/backoffice/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	QuotationHandler    *quotations.Handler
	OperationHandler    *operations.Handler
	ClientHandler       *clients.Handler
	TariffHandler       *tariffs.Handler
	NotificationHandler *notifications.Handler
	FXHandler           *fx.Handler
	DocumentHandler     *docstore.Handler
	JobHandler          *jobs.Handler
}

// NewRouter constructs the chi.Router serving the back-office API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/quotations", params.QuotationHandler.MountRoutes)
		r.Route("/operations", params.OperationHandler.MountRoutes)
		r.Route("/checklist", params.OperationHandler.MountChecklistRoutes)
		r.Route("/clients", params.ClientHandler.MountRoutes)
		r.Route("/tariffs", params.TariffHandler.MountRoutes)
		r.Route("/notifications", params.NotificationHandler.MountRoutes)
		r.Route("/documents", params.DocumentHandler.MountRoutes)
		r.Route("/jobs", params.JobHandler.MountRoutes)
		r.Get("/fx", params.FXHandler.Latest)
	})

	return r
}
