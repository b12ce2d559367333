package repository

import (
	"context"

	"github.com/google/uuid"

	"todoapi/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TodoRepository persists todos together with the denormalized
// back-reference on the owning user: Create, CreateAll and Delete keep
// users.todo_ids in sync atomically with the todo row itself.
//
// Lookups that take an ownerID are owner-scoped: rows belonging to other
// users are invisible and come back as (nil, nil).
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	CreateAll(ctx context.Context, todos []*domain.Todo) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Todo, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]domain.Todo, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Update(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error)
}
