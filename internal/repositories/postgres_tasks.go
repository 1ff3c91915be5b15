package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresTaskRepository provides PostgreSQL-backed persistence for tasks.
type PostgresTaskRepository struct {
	pool db.Pool
}

// NewPostgresTaskRepository constructs a task repository backed by PostgreSQL.
func NewPostgresTaskRepository(pool db.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// List returns every task ordered by external id.
func (r *PostgresTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, task, status, created_at, updated_at
        FROM tasks
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var (
			t      models.Task
			status string
		)
		if err := rows.Scan(&t.ID, &t.Task, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = models.TaskStatus(status)
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// FindByID fetches a task by its external id.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id int64) (models.Task, error) {
	return r.queryOne(ctx, "select task", `
        SELECT id, task, status, created_at, updated_at
        FROM tasks
        WHERE id = $1
    `, id)
}

// Create inserts a task after checking that its external id is free. The
// primary key still rejects a duplicate that slips in between the two steps.
func (r *PostgresTaskRepository) Create(ctx context.Context, task models.Task) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check task id: %w", err)
	}
	if exists {
		return ErrConflict
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO tasks (id, task, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, task.ID, task.Task, string(task.Status), task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return translateWriteError("insert task", err)
	}

	return nil
}

// Update applies the non-nil fields of patch.
func (r *PostgresTaskRepository) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	return r.queryOne(ctx, "update task", `
        UPDATE tasks
        SET task = COALESCE($2, task),
            status = COALESCE($3, status),
            updated_at = $4
        WHERE id = $1
        RETURNING id, task, status, created_at, updated_at
    `, id, patch.Task, status, patch.UpdatedAt)
}

// Delete removes a task and returns the deleted row.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64) (models.Task, error) {
	return r.queryOne(ctx, "delete task", `
        DELETE FROM tasks
        WHERE id = $1
        RETURNING id, task, status, created_at, updated_at
    `, id)
}

func (r *PostgresTaskRepository) queryOne(ctx context.Context, op, query string, args ...any) (models.Task, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var (
		t      models.Task
		status string
	)
	if err := conn.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Task, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, translateWriteError(op, err)
	}
	t.Status = models.TaskStatus(status)

	return t, nil
}

var _ TaskRepository = (*PostgresTaskRepository)(nil)
