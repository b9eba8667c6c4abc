package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no live category matches the query.
var ErrNotFound = errors.New("category: not found")

// ErrDuplicateName indicates a live category already uses the name.
var ErrDuplicateName = errors.New("category: duplicate name")

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]Category, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Insert(ctx context.Context, c *Category) (*Category, error)
	UpdateName(ctx context.Context, id, name string) (*Category, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Category, error)
	SoftDelete(ctx context.Context, id string) error
}

const categoryColumns = `id, name, status, is_deleted, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns live categories matching the filter, newest first.
func (r *PGRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE is_deleted = FALSE
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, filter.Search, string(filter.Status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// Count returns the number of live categories matching the filter.
func (r *PGRepository) Count(ctx context.Context, filter Filter) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM categories
		WHERE is_deleted = FALSE
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR status = $2)`, filter.Search, string(filter.Status)).Scan(&total)
	return total, err
}

// Insert persists a new category.
func (r *PGRepository) Insert(ctx context.Context, c *Category) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, status)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns, c.ID, c.Name, c.Status)
	return scanCategory(row)
}

// UpdateName renames a live category.
func (r *PGRepository) UpdateName(ctx context.Context, id, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET name = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+categoryColumns, id, name)
	return scanCategory(row)
}

// UpdateStatus sets the status of a live category.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET status = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+categoryColumns, id, status)
	return scanCategory(row)
}

// SoftDelete flags a live category as deleted.
func (r *PGRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Status, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &c, nil
}

var _ Repository = (*PGRepository)(nil)
