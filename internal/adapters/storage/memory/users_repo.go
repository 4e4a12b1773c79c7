package memory

import (
	"context"
	"errors"
	"sync"

	"showclinic-backend/internal/domain/users"
)

type UsersRepo struct {
	mu         sync.RWMutex
	byUsername map[string]users.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byUsername: make(map[string]users.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.Username == "" {
		return errors.New("username required")
	}
	if _, exists := r.byUsername[u.Username]; exists {
		return errors.New("user already exists")
	}
	r.byUsername[u.Username] = u
	return nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[username]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}
