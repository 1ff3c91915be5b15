package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// LikeRepository toggles likes on videos, comments and tweets.
//
// Toggle creates the like when absent and removes it when present. It reports
// whether the pair is liked afterwards along with the like record in that state.
// A concurrent toggle that already produced the desired state is not an error.
type LikeRepository interface {
	Toggle(ctx context.Context, userID string, target models.LikeTarget, targetID string) (models.Like, bool, error)
}
