package branding

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no logo has been set yet.
var ErrNotFound = errors.New("branding: not found")

// Repository defines persistence operations for logo records.
type Repository interface {
	Latest(ctx context.Context) (*Logo, error)
	Insert(ctx context.Context, logo *Logo) (*Logo, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Latest returns the most recently created logo record.
func (r *PGRepository) Latest(ctx context.Context) (*Logo, error) {
	var l Logo
	err := r.pool.QueryRow(ctx, `
		SELECT id, image, created_at, updated_at FROM logos
		ORDER BY created_at DESC LIMIT 1`).Scan(&l.ID, &l.Image, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Insert persists a new logo record.
func (r *PGRepository) Insert(ctx context.Context, logo *Logo) (*Logo, error) {
	var l Logo
	err := r.pool.QueryRow(ctx, `
		INSERT INTO logos (id, image) VALUES ($1, $2)
		RETURNING id, image, created_at, updated_at`, logo.ID, logo.Image).
		Scan(&l.ID, &l.Image, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

var _ Repository = (*PGRepository)(nil)
