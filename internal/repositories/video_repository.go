package repositories

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// VideoRepository exposes data access for published videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	UpdateDetails(ctx context.Context, id string, update models.VideoDetailsUpdate) (models.Video, error)
	SetPublished(ctx context.Context, id string, published bool, updatedAt time.Time) (models.Video, error)
	SetAssetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
