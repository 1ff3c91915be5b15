package handlers

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/internal/videos"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, login string) (models.User, error)
	UpdateAccount(ctx context.Context, id, fullName, email string, updatedAt time.Time) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	UpdateAvatar(ctx context.Context, id, avatar string, updatedAt time.Time) (models.User, error)
}

// SessionManager issues, rotates and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
	RevokeAll(ctx context.Context, userID string) error
}

// VideoService runs the video workflows that touch remote media.
type VideoService interface {
	Publish(ctx context.Context, ownerID string, in videos.PublishInput) (models.Video, error)
	Get(ctx context.Context, viewerID, id string) (models.Video, error)
	UpdateDetails(ctx context.Context, userID, id string, in videos.UpdateInput) (models.Video, error)
	TogglePublish(ctx context.Context, userID, id string) (models.Video, error)
	Delete(ctx context.Context, userID, id string) (models.Video, error)
}

// VideoLookup resolves a video record regardless of publish state.
type VideoLookup interface {
	FindByID(ctx context.Context, id string) (models.Video, error)
}

// CommentStore captures persistence for comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}

// TweetStore captures persistence for tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// LikeToggler flips a like on a video, comment or tweet.
type LikeToggler interface {
	Toggle(ctx context.Context, userID string, target models.LikeTarget, targetID string) (models.Like, bool, error)
}

// SubscriptionToggler flips a channel subscription.
type SubscriptionToggler interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (models.Subscription, bool, error)
}

// TaskStore captures persistence for the task tracker.
type TaskStore interface {
	List(ctx context.Context) ([]models.Task, error)
	FindByID(ctx context.Context, id int64) (models.Task, error)
	Create(ctx context.Context, task models.Task) error
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) (models.Task, error)
}

// Views assembles the read-only aggregation views.
type Views interface {
	ListVideoComments(ctx context.Context, videoID string, page models.Page) ([]models.CommentView, error)
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
	ListChannelVideos(ctx context.Context, channelID string) ([]models.ChannelVideo, error)
	ListLikedVideos(ctx context.Context, userID string) ([]models.LikedVideo, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.SubscriberView, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.SubscribedChannelView, error)
	SearchVideos(ctx context.Context, query models.VideoQuery) ([]models.VideoListItem, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}

// MediaUploader stores profile images.
type MediaUploader interface {
	Upload(ctx context.Context, kind storage.Kind, localPath string) (storage.Asset, error)
}
