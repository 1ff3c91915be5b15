package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// SubscriptionRepository toggles channel subscriptions with the same semantics
// as LikeRepository.Toggle.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (models.Subscription, bool, error)
}
