package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// TaskRepository exposes data access for the task tracker.
type TaskRepository interface {
	List(ctx context.Context) ([]models.Task, error)
	FindByID(ctx context.Context, id int64) (models.Task, error)
	// Create returns ErrConflict when the external id is already taken.
	Create(ctx context.Context, task models.Task) error
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	// Delete removes the task and returns it as it was.
	Delete(ctx context.Context, id int64) (models.Task, error)
}
