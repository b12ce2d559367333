package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"todoapi/internal/domain"
)

var errDuplicateUsername = errors.New("username already exists")

type userRepo struct {
	store *Store
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Username == user.Username {
			return errDuplicateUsername
		}
	}

	u := cloneUser(user)
	r.store.users[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.users[user.ID]
	if !ok {
		return nil
	}

	existing.Name = user.Name
	existing.Username = user.Username
	existing.PasswordHash = user.PasswordHash
	existing.Status = user.Status
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.TodoIDs = append([]uuid.UUID(nil), u.TodoIDs...)
	return &c
}
