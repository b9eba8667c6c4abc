package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/winkshine/winkshine-admin/internal/platform/httpx"
	"github.com/winkshine/winkshine-admin/internal/shared"
)

// Handler exposes the admin user-management endpoints. The router mounts
// it behind the authentication and admin gates.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user-management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Get("/{id}", h.getUser)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}/role", h.updateRole)
	r.Delete("/{id}", h.deleteUser)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, pagination, err := h.service.ListUsers(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"users":      list,
		"pagination": pagination,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err, "Failed to fetch user")
		return
	}
	httpx.OK(w, http.StatusOK, user)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status Status `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || !ValidStatus(body.Status) {
		httpx.Fail(w, http.StatusBadRequest, "Status must be either active or inactive")
		return
	}

	actor := shared.SubjectFromContext(r.Context())
	user, err := h.service.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), body.Status)
	if err != nil {
		h.respondLookupError(w, err, "Failed to update user status")
		return
	}
	httpx.OKMessage(w, http.StatusOK, user, "User status updated to "+string(body.Status))
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role Role `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || !ValidRole(body.Role) {
		httpx.Fail(w, http.StatusBadRequest, "Role must be either admin or user")
		return
	}

	actor := shared.SubjectFromContext(r.Context())
	user, err := h.service.SetRole(r.Context(), actor, chi.URLParam(r, "id"), body.Role)
	if err != nil {
		h.respondLookupError(w, err, "Failed to update user role")
		return
	}
	httpx.OKMessage(w, http.StatusOK, user, "User role updated to "+string(body.Role))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor := shared.SubjectFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.respondLookupError(w, err, "Failed to delete user")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true, Message: "User deleted successfully"})
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	h.logger.Error("user lookup", slog.Any("error", err))
	httpx.Fail(w, http.StatusInternalServerError, fallback)
}
