package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// ViewRepository assembles the read-only projections that join across tables.
// List views return an empty, non-nil slice when nothing matches.
type ViewRepository interface {
	ListVideoComments(ctx context.Context, videoID string, page models.Page) ([]models.CommentView, error)
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
	ListChannelVideos(ctx context.Context, channelID string) ([]models.ChannelVideo, error)
	ListLikedVideos(ctx context.Context, userID string) ([]models.LikedVideo, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.SubscriberView, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.SubscribedChannelView, error)
	SearchVideos(ctx context.Context, query models.VideoQuery) ([]models.VideoListItem, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}
