package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/domain"
	"todoapi/internal/repository/memory"
)

func newTodoFixture(t *testing.T) (*TodoService, *UserService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	userService := NewUserService(store.Users(), "test-secret", time.Hour)
	todoService := NewTodoService(store.Todos(), store.Users(), nil)
	return todoService, userService, store
}

func signupUser(t *testing.T, svc *UserService, username string) *domain.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), SignupInput{
		Name:     "User " + username,
		Username: username,
		Password: "secret1",
	})
	require.NoError(t, err)
	return user
}

func TestCreateTodo_BindsOwner(t *testing.T) {
	t.Parallel()

	todos, users, store := newTodoFixture(t)
	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	todo, err := todos.Create(ctx, owner.ID, TodoInput{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	assert.Equal(t, owner.ID, todo.UserID)
	assert.Equal(t, domain.StatusActive, todo.Status)
	require.NotNil(t, todo.Owner)
	assert.Equal(t, "a1", todo.Owner.Username)
	assert.Equal(t, "User a1", todo.Owner.Name)

	// The owner's back-reference list picks up the new id.
	stored, err := store.Users().GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{todo.ID}, stored.TodoIDs)
}

func TestGetTodo_OwnerScoped(t *testing.T) {
	t.Parallel()

	todos, users, _ := newTodoFixture(t)
	ctx := context.Background()
	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	todo, err := todos.Create(ctx, alice.ID, TodoInput{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	got, err := todos.Get(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.ID, got.ID)

	// Another user's todo is indistinguishable from a missing one.
	_, err = todos.Get(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	_, err = todos.Update(ctx, bob.ID, todo.ID, TodoInput{Title: "Stolen", Description: "x"})
	assert.ErrorIs(t, err, ErrTodoNotFound)

	_, err = todos.Delete(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestListTodos_Pagination(t *testing.T) {
	t.Parallel()

	todos, users, _ := newTodoFixture(t)
	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	for i := 0; i < 25; i++ {
		_, err := todos.Create(ctx, owner.ID, TodoInput{
			Title:       fmt.Sprintf("todo %02d", i),
			Description: "d",
		})
		require.NoError(t, err)
	}

	page, err := todos.List(ctx, owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(25), page.TotalTodos)
	require.Len(t, page.Todos, 10)

	// Newest first: the last insert leads the first page.
	assert.Equal(t, "todo 24", page.Todos[0].Title)

	page, err = todos.List(ctx, owner.ID, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page.Todos, 5)

	// Past the end: empty list, not an error.
	page, err = todos.List(ctx, owner.ID, 4, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Todos)
	assert.Empty(t, page.Todos)
}

func TestListTodos_DefaultsAndFloors(t *testing.T) {
	t.Parallel()

	todos, users, _ := newTodoFixture(t)
	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	page, err := todos.List(ctx, owner.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)

	page, err = todos.List(ctx, owner.ID, -3, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Limit)
}

func TestListTodos_ScopedToOwner(t *testing.T) {
	t.Parallel()

	todos, users, _ := newTodoFixture(t)
	ctx := context.Background()
	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	_, err := todos.Create(ctx, alice.ID, TodoInput{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	page, err := todos.List(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Todos)
	assert.Equal(t, int64(0), page.TotalTodos)
}

func TestListTodos_ByStatus(t *testing.T) {
	t.Parallel()

	todos, users, _ := newTodoFixture(t)
	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	_, err := todos.Create(ctx, owner.ID, TodoInput{Title: "active one", Description: "d"})
	require.NoError(t, err)
	_, err = todos.Create(ctx, owner.ID, TodoInput{Title: "done one", Description: "d", Status: domain.StatusInactive})
	require.NoError(t, err)

	inactive, err := todos.ListByStatus(ctx, owner.ID, domain.StatusInactive)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "done one", inactive[0].Title)

	active, err := todos.ListByStatus(ctx, owner.ID, domain.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active one", active[0].Title)
}

func TestCreateAll_BindsOwnerToEveryTodo(t *testing.T) {
	t.Parallel()

	todos, users, store := newTodoFixture(t)
	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	created, err := todos.CreateAll(ctx, owner.ID, []TodoInput{
		{Title: "first", Description: "d"},
		{Title: "second", Description: "d"},
		{Title: "third", Description: "d"},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	for _, todo := range created {
		assert.Equal(t, owner.ID, todo.UserID)
		require.NotNil(t, todo.Owner)
		assert.Equal(t, "a1", todo.Owner.Username)
	}

	stored, err := store.Users().GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, stored.TodoIDs, 3)

	page, err := todos.List(ctx, owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalTodos)
}

func TestUpdateTodo_KeepsStatusWhenAbsent(t *testing.T) {
	t.Parallel()

	todos, users, _ := newTodoFixture(t)
	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	todo, err := todos.Create(ctx, owner.ID, TodoInput{Title: "Buy milk", Description: "2%", Status: domain.StatusInactive})
	require.NoError(t, err)

	updated, err := todos.Update(ctx, owner.ID, todo.ID, TodoInput{Title: "Buy oat milk", Description: "barista"})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, domain.StatusInactive, updated.Status)
}

func TestDeleteTodo_RemovesBackReference(t *testing.T) {
	t.Parallel()

	todos, users, store := newTodoFixture(t)
	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	todo, err := todos.Create(ctx, owner.ID, TodoInput{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	deleted, err := todos.Delete(ctx, owner.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.ID, deleted.ID)

	stored, err := store.Users().GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.TodoIDs)

	_, err = todos.Get(ctx, owner.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

type recordingNotifier struct {
	created []uuid.UUID
	updated []uuid.UUID
	deleted []uuid.UUID
}

func (n *recordingNotifier) TodoCreated(_ uuid.UUID, todo *domain.Todo) {
	n.created = append(n.created, todo.ID)
}

func (n *recordingNotifier) TodoUpdated(_ uuid.UUID, todo *domain.Todo) {
	n.updated = append(n.updated, todo.ID)
}

func (n *recordingNotifier) TodoDeleted(_, todoID uuid.UUID) {
	n.deleted = append(n.deleted, todoID)
}

func TestTodoService_NotifiesOwner(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	users := NewUserService(store.Users(), "test-secret", time.Hour)
	notifier := &recordingNotifier{}
	todos := NewTodoService(store.Todos(), store.Users(), notifier)

	ctx := context.Background()
	owner := signupUser(t, users, "a1")

	todo, err := todos.Create(ctx, owner.ID, TodoInput{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	_, err = todos.Update(ctx, owner.ID, todo.ID, TodoInput{Title: "Buy oat milk", Description: "barista"})
	require.NoError(t, err)

	_, err = todos.Delete(ctx, owner.ID, todo.ID)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{todo.ID}, notifier.created)
	assert.Equal(t, []uuid.UUID{todo.ID}, notifier.updated)
	assert.Equal(t, []uuid.UUID{todo.ID}, notifier.deleted)
}
