package account

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryAccountRepository implements AccountRepository using in-memory storage
type InMemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
	byEmail  map[string]uuid.UUID
}

// NewInMemoryAccountRepository creates a new in-memory account repository
func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[uuid.UUID]Account),
		byEmail:  make(map[string]uuid.UUID),
	}
}

func (r *InMemoryAccountRepository) Create(ctx context.Context, a Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[a.Email]; taken {
		return Account{}, ErrDuplicateEmail
	}
	r.accounts[a.ID] = a
	r.byEmail[a.Email] = a.ID
	return a, nil
}

func (r *InMemoryAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (r *InMemoryAccountRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return r.accounts[id], nil
}

func (r *InMemoryAccountRepository) Update(ctx context.Context, a Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[a.ID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	if owner, taken := r.byEmail[a.Email]; taken && owner != a.ID {
		return Account{}, ErrDuplicateEmail
	}

	delete(r.byEmail, existing.Email)
	r.byEmail[a.Email] = a.ID
	r.accounts[a.ID] = a
	return a, nil
}

func (r *InMemoryAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	delete(r.byEmail, a.Email)
	delete(r.accounts, id)
	return nil
}

// List returns accounts ordered by creation time.
func (r *InMemoryAccountRepository) List(ctx context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sortAccounts(out)
	return out, nil
}

func sortAccounts(accounts []Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID.String() < accounts[j].ID.String()
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
}

var _ AccountRepository = (*InMemoryAccountRepository)(nil)
