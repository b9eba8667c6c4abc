package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/winkshine/winkshine-admin/internal/platform/httpx"
	"github.com/winkshine/winkshine-admin/internal/shared"
	"github.com/winkshine/winkshine-admin/internal/users"
)

// Handler wires the HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *Gate
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticate)
		r.Get("/me", h.handleMe)
		r.Put("/profile", h.handleUpdateProfile)
		r.Put("/password", h.handleChangePassword)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string     `json:"name" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6,max=72"`
	Role     users.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

type sessionPayload struct {
	User  users.Public `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	account, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			httpx.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, ErrAccountInactive):
			httpx.Fail(w, http.StatusUnauthorized, "Account is inactive. Please contact administrator.")
		default:
			h.logger.Error("login", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.OK(w, http.StatusOK, sessionPayload{User: account.Public(), Token: token})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	// Creating another admin requires an already-authenticated admin;
	// ordinary registration stays open and defaults to the user role.
	if req.Role == users.RoleAdmin && !h.callerIsAdmin(r) {
		httpx.Fail(w, http.StatusForbidden, "Admin access required")
		return
	}

	account, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			httpx.Fail(w, http.StatusBadRequest, "User with this email already exists")
		case errors.Is(err, ErrInvalidInput):
			httpx.Fail(w, http.StatusBadRequest, "Name, email, and password are required")
		default:
			h.logger.Error("register", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.OKMessage(w, http.StatusCreated, sessionPayload{User: account.Public(), Token: token}, "User registered successfully")
}

type meResponse struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      users.Role `json:"role"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	subjectID := shared.SubjectFromContext(r.Context())
	account, err := h.service.ResolveActive(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			httpx.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("resolve current user", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.OK(w, http.StatusOK, meResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role,
		IsActive:  account.IsActive(),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	})
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	subjectID := shared.SubjectFromContext(r.Context())
	account, err := h.service.UpdateProfile(r.Context(), subjectID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			httpx.Fail(w, http.StatusBadRequest, "Email is already taken by another user")
		case errors.Is(err, ErrAccountNotFound):
			httpx.Fail(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("update profile", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.OKMessage(w, http.StatusOK, account.Public(), "Profile updated successfully")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Current and new password are required")
		return
	}

	subjectID := shared.SubjectFromContext(r.Context())
	err := h.service.ChangePassword(r.Context(), subjectID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			httpx.Fail(w, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, ErrAccountNotFound):
			httpx.Fail(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("change password", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true, Message: "Password changed successfully"})
}

// callerIsAdmin checks the optional bearer credential on an otherwise
// open route. Used only to authorize admin-role elevation at register.
func (h *Handler) callerIsAdmin(r *http.Request) bool {
	token := bearerToken(r)
	if token == "" {
		return false
	}
	subjectID, err := h.service.VerifyToken(r.Context(), token)
	if err != nil {
		return false
	}
	account, err := h.service.ResolveActive(r.Context(), subjectID)
	if err != nil {
		return false
	}
	return account.Role == users.RoleAdmin
}
