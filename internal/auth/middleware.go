package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/winkshine/winkshine-admin/internal/platform/httpx"
	"github.com/winkshine/winkshine-admin/internal/shared"

	"github.com/winkshine/winkshine-admin/internal/users"
)

type accountContextKey struct{}

// ContextWithAccount binds the fully resolved account to the context.
func ContextWithAccount(ctx context.Context, account *users.Account) context.Context {
	return context.WithValue(ctx, accountContextKey{}, account)
}

// AccountFromContext extracts the resolved account, if the authorization
// gate has run.
func AccountFromContext(ctx context.Context) *users.Account {
	account, _ := ctx.Value(accountContextKey{}).(*users.Account)
	return account
}

// denial enumerates every way a request can be refused by the gate.
// respondDenial is the single place outcomes turn into status codes, so
// the mapping stays exhaustive and in one switch.
type denial int

const (
	denyMissingToken denial = iota
	denyInvalidToken
	denyNoSubject
	denyAccountGone
	denyRoleMismatch
	denyInternal
)

// Gate applies the two-step access control chain: authentication binds a
// verified subject id to the request, authorization resolves it to an
// account and checks its role. Both steps fail closed on any error.
type Gate struct {
	service *Service
	logger  *slog.Logger
}

// NewGate constructs the middleware gate.
func NewGate(service *Service, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{service: service, logger: logger}
}

// Authenticate requires a valid bearer token. A missing token is 401; a
// token that fails verification (malformed, bad signature, expired, or a
// subject that no longer resolves to a live active account) is 403. The
// asymmetry is part of the compatibility contract with the frontend.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			g.respondDenial(w, denyMissingToken)
			return
		}

		subjectID, err := g.service.VerifyToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				g.respondDenial(w, denyInvalidToken)
				return
			}
			g.logger.Error("verify token", slog.Any("error", err))
			g.respondDenial(w, denyInternal)
			return
		}

		ctx := shared.ContextWithSubject(r.Context(), subjectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole requires the authenticated subject to hold the given role.
// A subject whose account vanished after token verification reports 404,
// not an auth failure; the quirk is preserved for compatibility.
func (g *Gate) RequireRole(role users.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subjectID := shared.SubjectFromContext(r.Context())
			if subjectID == "" {
				g.respondDenial(w, denyNoSubject)
				return
			}

			account, err := g.service.ResolveActive(r.Context(), subjectID)
			if err != nil {
				if errors.Is(err, ErrAccountNotFound) {
					g.respondDenial(w, denyAccountGone)
					return
				}
				g.logger.Error("resolve account", slog.Any("error", err))
				g.respondDenial(w, denyInternal)
				return
			}
			if account.Role != role {
				g.respondDenial(w, denyRoleMismatch)
				return
			}

			ctx := ContextWithAccount(r.Context(), account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is the admin-role gate used by the management routes.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return g.RequireRole(users.RoleAdmin)(next)
}

func (g *Gate) respondDenial(w http.ResponseWriter, d denial) {
	switch d {
	case denyMissingToken:
		httpx.Fail(w, http.StatusUnauthorized, "Access token required")
	case denyInvalidToken:
		httpx.Fail(w, http.StatusForbidden, "Invalid or expired token")
	case denyNoSubject:
		httpx.Fail(w, http.StatusUnauthorized, "Authentication required")
	case denyAccountGone:
		httpx.Fail(w, http.StatusNotFound, "User not found")
	case denyRoleMismatch:
		httpx.Fail(w, http.StatusForbidden, "Admin access required")
	case denyInternal:
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
	default:
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
