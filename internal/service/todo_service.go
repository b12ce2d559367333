package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todoapi/internal/domain"
	"todoapi/internal/repository"
)

var ErrTodoNotFound = errors.New("todo not found")

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Notifier pushes todo changes to the owner's live connection. A nil
// notifier means REST-only operation.
type Notifier interface {
	TodoCreated(ownerID uuid.UUID, todo *domain.Todo)
	TodoUpdated(ownerID uuid.UUID, todo *domain.Todo)
	TodoDeleted(ownerID, todoID uuid.UUID)
}

type TodoService struct {
	todoRepo repository.TodoRepository
	userRepo repository.UserRepository
	notifier Notifier
}

func NewTodoService(todoRepo repository.TodoRepository, userRepo repository.UserRepository, notifier Notifier) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

type TodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// TodoPage is one page of a user's todos plus pagination bookkeeping.
type TodoPage struct {
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
	TotalTodos int64         `json:"totalTodos"`
	Todos      []domain.Todo `json:"todos"`
}

// List returns one page of the caller's todos, newest first. Page and
// limit fall back to 1/10 when unset and are floored at 1. A page past
// the end yields an empty list, not an error.
func (s *TodoService) List(ctx context.Context, ownerID uuid.UUID, page, limit int) (*TodoPage, error) {
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	skip := (page - 1) * limit

	todos, err := s.todoRepo.ListByOwner(ctx, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}

	total, err := s.todoRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.attachOwner(ctx, ownerID, todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}

	return &TodoPage{
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		TotalTodos: total,
		Todos:      todos,
	}, nil
}

// ListByStatus returns all of the caller's todos with the given status,
// newest first. Status membership is enforced at the boundary.
func (s *TodoService) ListByStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]domain.Todo, error) {
	todos, err := s.todoRepo.ListByOwnerAndStatus(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}
	if err := s.attachOwner(ctx, ownerID, todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

// Get returns an owned todo; a todo that does not exist and a todo owned
// by someone else are indistinguishable.
func (s *TodoService) Get(ctx context.Context, ownerID, todoID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, todoID, ownerID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	if err := s.attachOwnerOne(ctx, ownerID, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Create persists a validated todo bound to the caller.
func (s *TodoService) Create(ctx context.Context, ownerID uuid.UUID, input TodoInput) (*domain.Todo, error) {
	todo := newTodo(ownerID, input)
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	if err := s.attachOwnerOne(ctx, ownerID, todo); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.TodoCreated(ownerID, todo)
	}
	return todo, nil
}

// CreateAll persists a validated batch of todos, all bound to the caller,
// newest first in the result.
func (s *TodoService) CreateAll(ctx context.Context, ownerID uuid.UUID, inputs []TodoInput) ([]domain.Todo, error) {
	todos := make([]*domain.Todo, len(inputs))
	for i, input := range inputs {
		todos[i] = newTodo(ownerID, input)
	}

	if err := s.todoRepo.CreateAll(ctx, todos); err != nil {
		return nil, fmt.Errorf("creating todos: %w", err)
	}

	// Same timestamps within one batch: return them in reverse insert
	// order to match the newest-first list ordering.
	result := make([]domain.Todo, len(todos))
	for i, todo := range todos {
		result[len(todos)-1-i] = *todo
	}
	if err := s.attachOwner(ctx, ownerID, result); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		for i := range result {
			s.notifier.TodoCreated(ownerID, &result[i])
		}
	}
	return result, nil
}

// Update rewrites an owned todo's title, description and, when provided,
// status.
func (s *TodoService) Update(ctx context.Context, ownerID, todoID uuid.UUID, input TodoInput) (*domain.Todo, error) {
	existing, err := s.todoRepo.GetByID(ctx, todoID, ownerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTodoNotFound
	}

	existing.Title = input.Title
	existing.Description = input.Description
	if input.Status != "" {
		existing.Status = input.Status
	}

	updated, err := s.todoRepo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("updating todo: %w", err)
	}
	if updated == nil {
		return nil, ErrTodoNotFound
	}

	if err := s.attachOwnerOne(ctx, ownerID, updated); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.TodoUpdated(ownerID, updated)
	}
	return updated, nil
}

// Delete removes an owned todo and returns it.
func (s *TodoService) Delete(ctx context.Context, ownerID, todoID uuid.UUID) (*domain.Todo, error) {
	deleted, err := s.todoRepo.Delete(ctx, todoID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("deleting todo: %w", err)
	}
	if deleted == nil {
		return nil, ErrTodoNotFound
	}

	if err := s.attachOwnerOne(ctx, ownerID, deleted); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.TodoDeleted(ownerID, todoID)
	}
	return deleted, nil
}

func newTodo(ownerID uuid.UUID, input TodoInput) *domain.Todo {
	status := input.Status
	if status == "" {
		status = domain.StatusActive
	}
	return &domain.Todo{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		CreatedAt:   time.Now(),
		UserID:      ownerID,
	}
}

func (s *TodoService) attachOwner(ctx context.Context, ownerID uuid.UUID, todos []domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}
	owner, err := s.ownerInfo(ctx, ownerID)
	if err != nil {
		return err
	}
	for i := range todos {
		todos[i].Owner = owner
	}
	return nil
}

func (s *TodoService) attachOwnerOne(ctx context.Context, ownerID uuid.UUID, todo *domain.Todo) error {
	owner, err := s.ownerInfo(ctx, ownerID)
	if err != nil {
		return err
	}
	todo.Owner = owner
	return nil
}

func (s *TodoService) ownerInfo(ctx context.Context, ownerID uuid.UUID) (*domain.TodoOwner, error) {
	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &domain.TodoOwner{Name: user.Name, Username: user.Username}, nil
}
