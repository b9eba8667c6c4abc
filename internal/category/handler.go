package category

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/winkshine/winkshine-admin/internal/platform/httpx"
)

// Handler exposes the admin category endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Post("/", h.createCategory)
	r.Put("/{id}", h.renameCategory)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.deleteCategory)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := Filter{Search: q.Get("search")}
	if status := q.Get("status"); status != "" && status != "all" {
		filter.Status = Status(status)
	}

	categories, pagination, err := h.service.ListCategories(r.Context(), filter, page, limit)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch category")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"categories": categories,
		"pagination": pagination,
	})
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Category name is required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Category name is required")
		return
	}

	created, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			httpx.Fail(w, http.StatusBadRequest, "Category with this name already exists")
			return
		}
		h.logger.Error("create category", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	httpx.OKMessage(w, http.StatusCreated, created, "Category created successfully")
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Category name is required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Category name is required")
		return
	}

	updated, err := h.service.RenameCategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.respondLookupError(w, err, "Failed to update category")
		return
	}
	httpx.OKMessage(w, http.StatusOK, updated, "Category updated successfully")
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status Status `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || !ValidStatus(body.Status) {
		httpx.Fail(w, http.StatusBadRequest, "Status must be either active or inactive")
		return
	}

	updated, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		h.respondLookupError(w, err, "Failed to update category status")
		return
	}
	httpx.OKMessage(w, http.StatusOK, updated, "Category status updated to "+string(body.Status))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondLookupError(w, err, "Failed to delete category")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true, Message: "Category deleted successfully"})
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Category not found")
		return
	}
	if errors.Is(err, ErrDuplicateName) {
		httpx.Fail(w, http.StatusBadRequest, "Category with this name already exists")
		return
	}
	h.logger.Error("category lookup", slog.Any("error", err))
	httpx.Fail(w, http.StatusInternalServerError, fallback)
}
