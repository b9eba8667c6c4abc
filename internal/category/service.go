package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/winkshine/winkshine-admin/internal/shared"
)

// Service handles category business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListCategories returns a filtered page of live categories.
func (s *Service) ListCategories(ctx context.Context, filter Filter, page, limit int) ([]Category, shared.Pagination, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	p := shared.NewPagination(page, limit, total)
	categories, err := s.repo.List(ctx, filter, p.Limit, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return categories, p, nil
}

// CreateCategory inserts a new active category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	return s.repo.Insert(ctx, &Category{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(name),
		Status: StatusActive,
	})
}

// RenameCategory changes a category's name.
func (s *Service) RenameCategory(ctx context.Context, id, name string) (*Category, error) {
	return s.repo.UpdateName(ctx, id, strings.TrimSpace(name))
}

// SetStatus activates or deactivates a category.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Category, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete soft-deletes a category.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}
