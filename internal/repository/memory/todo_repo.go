package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"todoapi/internal/domain"
)

type todoRepo struct {
	store *Store
}

func (r *todoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.insertLocked(todo)
	return nil
}

func (r *todoRepo) CreateAll(_ context.Context, todos []*domain.Todo) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, todo := range todos {
		r.insertLocked(todo)
	}
	return nil
}

func (r *todoRepo) insertLocked(todo *domain.Todo) {
	r.store.seq++
	t := *todo
	t.Owner = nil
	r.store.todos[t.ID] = &todoEntry{todo: t, seq: r.store.seq}

	if owner, ok := r.store.users[t.UserID]; ok {
		owner.TodoIDs = append(owner.TodoIDs, t.ID)
	}
}

func (r *todoRepo) GetByID(_ context.Context, id, ownerID uuid.UUID) (*domain.Todo, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.todos[id]
	if !ok || e.todo.UserID != ownerID {
		return nil, nil
	}
	t := e.todo
	return &t, nil
}

func (r *todoRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Todo, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.ownedLocked(ownerID, "")
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit < len(entries) {
		entries = entries[:limit]
	}

	todos := make([]domain.Todo, len(entries))
	for i, e := range entries {
		todos[i] = e.todo
	}
	return todos, nil
}

func (r *todoRepo) ListByOwnerAndStatus(_ context.Context, ownerID uuid.UUID, status string) ([]domain.Todo, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.ownedLocked(ownerID, status)
	todos := make([]domain.Todo, len(entries))
	for i, e := range entries {
		todos[i] = e.todo
	}
	return todos, nil
}

func (r *todoRepo) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, e := range r.store.todos {
		if e.todo.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *todoRepo) Update(_ context.Context, todo *domain.Todo) (*domain.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.todos[todo.ID]
	if !ok || e.todo.UserID != todo.UserID {
		return nil, nil
	}

	e.todo.Title = todo.Title
	e.todo.Description = todo.Description
	e.todo.Status = todo.Status

	t := e.todo
	return &t, nil
}

func (r *todoRepo) Delete(_ context.Context, id, ownerID uuid.UUID) (*domain.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.todos[id]
	if !ok || e.todo.UserID != ownerID {
		return nil, nil
	}
	delete(r.store.todos, id)

	if owner, ok := r.store.users[ownerID]; ok {
		for i, tid := range owner.TodoIDs {
			if tid == id {
				owner.TodoIDs = append(owner.TodoIDs[:i], owner.TodoIDs[i+1:]...)
				break
			}
		}
	}

	t := e.todo
	return &t, nil
}

// ownedLocked returns the owner's todos sorted by creation time
// descending, newest insert first on equal timestamps.
func (r *todoRepo) ownedLocked(ownerID uuid.UUID, status string) []*todoEntry {
	var entries []*todoEntry
	for _, e := range r.store.todos {
		if e.todo.UserID != ownerID {
			continue
		}
		if status != "" && e.todo.Status != status {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].todo.CreatedAt.Equal(entries[j].todo.CreatedAt) {
			return entries[i].todo.CreatedAt.After(entries[j].todo.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})
	return entries
}
