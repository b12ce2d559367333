// Package memory holds an in-process implementation of the repository
// interfaces backed by maps. It mirrors the atomicity of the Postgres
// implementation with a single mutex and is used by tests and local
// development without a database.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"todoapi/internal/domain"
	"todoapi/internal/repository"
)

type todoEntry struct {
	todo domain.Todo
	seq  int64
}

type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	todos map[uuid.UUID]*todoEntry
	seq   int64
}

func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]*domain.User),
		todos: make(map[uuid.UUID]*todoEntry),
	}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{store: s}
}

func (s *Store) Todos() repository.TodoRepository {
	return &todoRepo{store: s}
}
