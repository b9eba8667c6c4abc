package users

import (
	"context"
	"log/slog"

	"github.com/winkshine/winkshine-admin/internal/shared"
)

// Service handles user-management business logic.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService builds a Service instance. audit may be nil in tests.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ListUsers returns a page of live users plus pagination metadata.
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]Public, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	p := shared.NewPagination(page, limit, total)
	accounts, err := s.repo.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	projected := make([]Public, len(accounts))
	for i := range accounts {
		projected[i] = accounts[i].Public()
	}
	return projected, p, nil
}

// GetUser returns a single live user.
func (s *Service) GetUser(ctx context.Context, id string) (Public, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Public{}, err
	}
	return account.Public(), nil
}

// SetStatus activates or deactivates an account. Deactivation revokes API
// access on the next request: token verification re-checks status live.
func (s *Service) SetStatus(ctx context.Context, actorID, id string, status Status) (Public, error) {
	account, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return Public{}, err
	}
	s.recordAudit(ctx, actorID, "user.status", id, map[string]any{"status": status})
	return account.Public(), nil
}

// SetRole changes an account's role. The new role applies on the next
// request; roles are never embedded in tokens.
func (s *Service) SetRole(ctx context.Context, actorID, id string, role Role) (Public, error) {
	account, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return Public{}, err
	}
	s.recordAudit(ctx, actorID, "user.role", id, map[string]any{"role": role})
	return account.Public(), nil
}

// Delete soft-deletes an account.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "user.delete", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: entityID,
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("record audit", slog.String("action", action), slog.Any("error", err))
	}
}
