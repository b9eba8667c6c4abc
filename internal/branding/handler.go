package branding

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/winkshine/winkshine-admin/internal/platform/httpx"
)

// Handler exposes the logo endpoints. Reads need authentication; setting
// a new logo is admin-only (applied by the router).
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo, validator: validator.New()}
}

// MountReadRoutes registers the authenticated read endpoint.
func (h *Handler) MountReadRoutes(r chi.Router) {
	r.Get("/", h.getLogo)
}

// MountAdminRoutes registers the admin-gated write endpoint.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Put("/", h.setLogo)
}

func (h *Handler) getLogo(w http.ResponseWriter, r *http.Request) {
	logo, err := h.repo.Latest(r.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "No logo found")
			return
		}
		h.logger.Error("get logo", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch logo")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"logo": logo})
}

type setLogoRequest struct {
	Image string `json:"image" validate:"required,uri"`
}

func (h *Handler) setLogo(w http.ResponseWriter, r *http.Request) {
	var req setLogoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Logo image reference is required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Logo image reference is required")
		return
	}

	logo, err := h.repo.Insert(r.Context(), &Logo{ID: uuid.NewString(), Image: req.Image})
	if err != nil {
		h.logger.Error("set logo", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update logo")
		return
	}
	httpx.OKMessage(w, http.StatusOK, map[string]any{"logo": logo}, "Logo updated successfully")
}
