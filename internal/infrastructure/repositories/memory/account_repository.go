package memory

import (
	"context"
	"sync"

	"proctorlink/internal/core/domain"
)

// AccountRepository is an in-memory account store for local development
// and tests.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[domain.UserID]domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[domain.UserID]domain.Account),
	}
}

func (r *AccountRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := account
	return &out, nil
}

func (r *AccountRepository) Put(account domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = account
}
