package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todoapi/internal/domain"
)

type TodoRepo struct {
	pool *pgxpool.Pool
}

func NewTodoRepo(pool *pgxpool.Pool) *TodoRepo {
	return &TodoRepo{pool: pool}
}

// Create inserts the todo and appends its id to the owner's todo_ids in
// one transaction, so a todo row never exists without its back-reference.
func (r *TodoRepo) Create(ctx context.Context, todo *domain.Todo) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO todos (id, title, description, status, created_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Status, todo.CreatedAt, todo.UserID,
	); err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET todo_ids = array_append(todo_ids, $1) WHERE id = $2`,
		todo.ID, todo.UserID,
	); err != nil {
		return fmt.Errorf("updating owner references: %w", err)
	}

	return tx.Commit(ctx)
}

// CreateAll bulk-inserts todos via a pgx batch and appends all new ids to
// the owner's todo_ids in one update, all inside a single transaction.
// Every todo in the slice must share the same owner.
func (r *TodoRepo) CreateAll(ctx context.Context, todos []*domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	ids := make([]uuid.UUID, 0, len(todos))
	for _, todo := range todos {
		batch.Queue(
			`INSERT INTO todos (id, title, description, status, created_at, user_id) VALUES ($1, $2, $3, $4, $5, $6)`,
			todo.ID, todo.Title, todo.Description, todo.Status, todo.CreatedAt, todo.UserID,
		)
		ids = append(ids, todo.ID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting todos: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET todo_ids = array_cat(todo_ids, $1) WHERE id = $2`,
		ids, todos[0].UserID,
	); err != nil {
		return fmt.Errorf("updating owner references: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *TodoRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error) {
	query := `
		SELECT id, title, description, status, created_at, user_id
		FROM todos WHERE id = $1 AND user_id = $2`

	var t domain.Todo
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UserID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Todo, error) {
	query := `
		SELECT id, title, description, status, created_at, user_id
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTodos(rows)
}

func (r *TodoRepo) ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]domain.Todo, error) {
	query := `
		SELECT id, title, description, status, created_at, user_id
		FROM todos
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTodos(rows)
}

func (r *TodoRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM todos WHERE user_id = $1`, ownerID).Scan(&count)
	return count, err
}

// Update writes title/description/status for an owned todo. Returns
// (nil, nil) when no row matches the id and owner.
func (r *TodoRepo) Update(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	query := `
		UPDATE todos SET title = $1, description = $2, status = $3
		WHERE id = $4 AND user_id = $5
		RETURNING id, title, description, status, created_at, user_id`

	var t domain.Todo
	err := r.pool.QueryRow(ctx, query,
		todo.Title, todo.Description, todo.Status, todo.ID, todo.UserID,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes an owned todo and its back-reference on the owner in one
// transaction. Returns (nil, nil) when no row matches the id and owner.
func (r *TodoRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		DELETE FROM todos WHERE id = $1 AND user_id = $2
		RETURNING id, title, description, status, created_at, user_id`

	var t domain.Todo
	err = tx.QueryRow(ctx, query, id, ownerID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UserID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET todo_ids = array_remove(todo_ids, $1) WHERE id = $2`,
		id, ownerID,
	); err != nil {
		return nil, fmt.Errorf("removing owner reference: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTodos(rows pgx.Rows) ([]domain.Todo, error) {
	var todos []domain.Todo
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UserID); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}
