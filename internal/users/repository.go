package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no live account matches the query.
var ErrNotFound = errors.New("users: not found")

// ErrDuplicateEmail indicates the partial unique index rejected an email.
var ErrDuplicateEmail = errors.New("users: duplicate email")

// Repository defines persistence operations for accounts. Every query
// excludes soft-deleted rows; the filter lives here, not in callers.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Insert(ctx context.Context, account *Account) (*Account, error)
	List(ctx context.Context, limit, offset int) ([]Account, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role Role) (int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Account, error)
	UpdateRole(ctx context.Context, id string, role Role) (*Account, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SoftDelete(ctx context.Context, id string) error
}

const accountColumns = `id, name, email, password_hash, role, status, is_deleted, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByID fetches a live account by id.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1 AND is_deleted = FALSE`, id)
	return scanAccount(row)
}

// FindByEmail fetches a live account by email, case-insensitively.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE email = LOWER($1) AND is_deleted = FALSE`, email)
	return scanAccount(row)
}

// Insert persists a new account and returns it with store-assigned timestamps.
func (r *PGRepository) Insert(ctx context.Context, account *Account) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, status)
		VALUES ($1, $2, LOWER($3), $4, $5, $6)
		RETURNING `+accountColumns,
		account.ID, account.Name, account.Email, account.PasswordHash, account.Role, account.Status)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

// List returns live accounts, newest first.
func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+` FROM users
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Status, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Count returns the number of live accounts.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_deleted = FALSE`).Scan(&total)
	return total, err
}

// CountByRole returns the number of live accounts holding the given role.
func (r *PGRepository) CountByRole(ctx context.Context, role Role) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1 AND is_deleted = FALSE`, role).Scan(&total)
	return total, err
}

// UpdateStatus sets the activation status of a live account.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET status = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+accountColumns, id, status)
	return scanAccount(row)
}

// UpdateRole sets the role of a live account.
func (r *PGRepository) UpdateRole(ctx context.Context, id string, role Role) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+accountColumns, id, role)
	return scanAccount(row)
}

// UpdateProfile sets name and email of a live account.
func (r *PGRepository) UpdateProfile(ctx context.Context, id, name, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET name = $2, email = LOWER($3), updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+accountColumns, id, name, email)
	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return account, nil
}

// UpdatePassword replaces the stored digest of a live account.
func (r *PGRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flags a live account as deleted. There is no hard delete and
// no path back.
func (r *PGRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Status, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ Repository = (*PGRepository)(nil)
