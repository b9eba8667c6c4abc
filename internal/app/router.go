package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/winkshine/winkshine-admin/internal/auth"
	"github.com/winkshine/winkshine-admin/internal/branding"
	"github.com/winkshine/winkshine-admin/internal/category"
	"github.com/winkshine/winkshine-admin/internal/dashboard"
	"github.com/winkshine/winkshine-admin/internal/observability"
	"github.com/winkshine/winkshine-admin/internal/platform/httpx"
	"github.com/winkshine/winkshine-admin/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Gate             *auth.Gate
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	CategoryHandler  *category.Handler
	DashboardHandler *dashboard.Handler
	BrandingHandler  *branding.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the API defaults. Protected
// subtrees are wrapped here so the gate applies uniformly: first
// Authenticate, then RequireAdmin where management rights are needed.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.OKMessage(w, http.StatusOK, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}, "Winkshine Admin API is running")
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(params.Gate.Authenticate)
			params.DashboardHandler.MountRoutes(r)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(params.Gate.Authenticate)
			r.Use(params.Gate.RequireAdmin)
			params.UsersHandler.MountRoutes(r)
		})

		r.Route("/category", func(r chi.Router) {
			r.Use(params.Gate.Authenticate)
			r.Use(params.Gate.RequireAdmin)
			params.CategoryHandler.MountRoutes(r)
		})

		r.Route("/logo", func(r chi.Router) {
			r.Use(params.Gate.Authenticate)
			params.BrandingHandler.MountReadRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(params.Gate.RequireAdmin)
				params.BrandingHandler.MountAdminRoutes(r)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "Route not found")
	})

	return r
}
