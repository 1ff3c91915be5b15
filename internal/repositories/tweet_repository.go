package repositories

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// TweetRepository exposes data access for channel tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}
