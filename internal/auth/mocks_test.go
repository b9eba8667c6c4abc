package auth_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/winkshine/winkshine-admin/internal/users"
)

// memRepo is an in-memory users.Repository honoring the soft-delete
// visibility rules of the real store.
type memRepo struct {
	mu       sync.Mutex
	accounts map[string]*users.Account
	failWith error
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: make(map[string]*users.Account)}
}

func (m *memRepo) clone(a *users.Account) *users.Account {
	copied := *a
	return &copied
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	account, ok := m.accounts[id]
	if !ok || account.IsDeleted {
		return nil, users.ErrNotFound
	}
	return m.clone(account), nil
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) (*users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	email = strings.ToLower(email)
	for _, account := range m.accounts {
		if !account.IsDeleted && account.Email == email {
			return m.clone(account), nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memRepo) Insert(ctx context.Context, account *users.Account) (*users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	email := strings.ToLower(account.Email)
	for _, existing := range m.accounts {
		if !existing.IsDeleted && existing.Email == email {
			return nil, users.ErrDuplicateEmail
		}
	}
	stored := *account
	stored.Email = email
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.accounts[stored.ID] = &stored
	return m.clone(&stored), nil
}

func (m *memRepo) List(ctx context.Context, limit, offset int) ([]users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var live []users.Account
	for _, account := range m.accounts {
		if !account.IsDeleted {
			live = append(live, *account)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].CreatedAt.After(live[j].CreatedAt) })
	if offset >= len(live) {
		return nil, nil
	}
	live = live[offset:]
	if limit > 0 && limit < len(live) {
		live = live[:limit]
	}
	return live, nil
}

func (m *memRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	total := 0
	for _, account := range m.accounts {
		if !account.IsDeleted {
			total++
		}
	}
	return total, nil
}

func (m *memRepo) CountByRole(ctx context.Context, role users.Role) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	total := 0
	for _, account := range m.accounts {
		if !account.IsDeleted && account.Role == role {
			total++
		}
	}
	return total, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id string, status users.Status) (*users.Account, error) {
	return m.mutate(id, func(account *users.Account) { account.Status = status })
}

func (m *memRepo) UpdateRole(ctx context.Context, id string, role users.Role) (*users.Account, error) {
	return m.mutate(id, func(account *users.Account) { account.Role = role })
}

func (m *memRepo) UpdateProfile(ctx context.Context, id, name, email string) (*users.Account, error) {
	return m.mutate(id, func(account *users.Account) {
		account.Name = name
		account.Email = strings.ToLower(email)
	})
}

func (m *memRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := m.mutate(id, func(account *users.Account) { account.PasswordHash = passwordHash })
	return err
}

func (m *memRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := m.mutate(id, func(account *users.Account) { account.IsDeleted = true })
	return err
}

func (m *memRepo) mutate(id string, apply func(*users.Account)) (*users.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	account, ok := m.accounts[id]
	if !ok || account.IsDeleted {
		return nil, users.ErrNotFound
	}
	apply(account)
	account.UpdatedAt = time.Now().UTC()
	return m.clone(account), nil
}

var _ users.Repository = (*memRepo)(nil)
