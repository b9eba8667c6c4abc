package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/winkshine/winkshine-admin/internal/users"
)

// Service wraps the authentication business rules: login, registration,
// token verification, and the live-identity resolution the gate relies on.
type Service struct {
	repo   users.Repository
	tokens *TokenIssuer
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo users.Repository, tokens *TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Login authenticates email/password credentials and issues a token.
// An unknown email and a wrong password produce the same error; an
// inactive account is reported as such.
func (s *Service) Login(ctx context.Context, email, password string) (*users.Account, string, error) {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !account.IsActive() {
		return nil, "", ErrAccountInactive
	}
	if !VerifyPassword(password, account.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Register creates a new active account and issues a token for it.
// The email must not belong to a live account; a soft-deleted account's
// email is reusable.
func (s *Service) Register(ctx context.Context, name, email, password string, role users.Role) (*users.Account, string, error) {
	if role == "" {
		role = users.RoleUser
	}
	if !users.ValidRole(role) {
		return nil, "", ErrInvalidInput
	}

	email = normalizeEmail(email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, "", err
	}

	digest, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	account, err := s.repo.Insert(ctx, &users.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		Status:       users.StatusActive,
	})
	if err != nil {
		// The partial unique index closes the check/insert race.
		if errors.Is(err, users.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// VerifyToken checks signature and expiry, then requires the subject to
// resolve to a live, active account. Soft deletion or deactivation
// revokes unexpired tokens immediately.
func (s *Service) VerifyToken(ctx context.Context, raw string) (string, error) {
	subjectID, err := s.tokens.Parse(raw)
	if err != nil {
		s.logger.Debug("token rejected", slog.Any("error", err))
		return "", ErrInvalidToken
	}

	account, err := s.repo.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if !account.IsActive() {
		return "", ErrInvalidToken
	}
	return subjectID, nil
}

// ResolveActive maps a subject id to its live account. Status is not
// filtered here; that distinction belongs to login and token checks.
func (s *Service) ResolveActive(ctx context.Context, subjectID string) (*users.Account, error) {
	account, err := s.repo.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// UpdateProfile changes name and email of the subject's account. The new
// email must not belong to another live account.
func (s *Service) UpdateProfile(ctx context.Context, subjectID, name, email string) (*users.Account, error) {
	email = normalizeEmail(email)
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil {
		if existing.ID != subjectID {
			return nil, ErrEmailTaken
		}
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	account, err := s.repo.UpdateProfile(ctx, subjectID, strings.TrimSpace(name), email)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			return nil, ErrAccountNotFound
		case errors.Is(err, users.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return account, nil
}

// ChangePassword verifies the current secret before storing a new digest.
func (s *Service) ChangePassword(ctx context.Context, subjectID, current, next string) error {
	account, err := s.repo.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if !VerifyPassword(current, account.PasswordHash) {
		return ErrInvalidCredentials
	}
	digest, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, subjectID, digest)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
