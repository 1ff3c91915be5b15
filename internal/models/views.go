package models

import (
	"strings"
	"time"
)

// CommentView is a comment flattened with its author's public profile.
type CommentView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	CreatedBy PublicProfile `json:"createdBy"`
}

// ChannelStats aggregates a channel's reach. Every field is zero for an empty channel.
type ChannelStats struct {
	TotalViews       int64 `json:"totalViews"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
}

// ChannelVideo is the dashboard projection of one of the caller's videos.
type ChannelVideo struct {
	ID          string    `json:"id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	OwnerID     string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LikedVideo is one row of a user's liked-videos feed.
type LikedVideo struct {
	ID      string           `json:"id"`
	LikedBy string           `json:"likedBy"`
	Video   LikedVideoDetail `json:"video"`
}

// LikedVideoDetail is the video half of a LikedVideo, with the owner joined in.
type LikedVideoDetail struct {
	ID        string        `json:"id"`
	VideoFile string        `json:"videoFile"`
	Thumbnail string        `json:"thumbnail"`
	Title     string        `json:"title"`
	Duration  float64       `json:"duration"`
	Views     int64         `json:"views"`
	Owner     PublicProfile `json:"owner"`
}

// SubscriberView lists one subscriber of a channel.
type SubscriberView struct {
	ID         string        `json:"id"`
	Subscriber PublicProfile `json:"subscriber"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// SubscribedChannelView lists one channel a user subscribes to.
type SubscribedChannelView struct {
	ID        string        `json:"id"`
	Channel   PublicProfile `json:"channel"`
	CreatedAt time.Time     `json:"createdAt"`
}

// VideoListItem is one result of the video search/listing view.
type VideoListItem struct {
	ID          string        `json:"id"`
	VideoFile   string        `json:"videoFile"`
	Thumbnail   string        `json:"thumbnail"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    float64       `json:"duration"`
	Views       int64         `json:"views"`
	CreatedAt   time.Time     `json:"createdAt"`
	CreatedBy   PublicProfile `json:"createdBy"`
}

// ChannelProfile is a user's public channel page.
type ChannelProfile struct {
	PublicProfile
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// Sortable fields of the video listing.
const (
	VideoSortCreatedAt = "createdAt"
	VideoSortViews     = "views"
	VideoSortDuration  = "duration"
	VideoSortTitle     = "title"
)

// VideoQuery parameterises the video search/listing view. An empty Query
// matches every video.
type VideoQuery struct {
	Query     string
	OwnerID   string
	SortBy    string
	Ascending bool
	Page      Page
}

// NewVideoQuery builds a query from raw request values. Unknown sort fields
// fall back to createdAt; any sortType other than "asc" sorts descending.
func NewVideoQuery(query, ownerID, sortBy, sortType string, page Page) VideoQuery {
	switch sortBy {
	case VideoSortCreatedAt, VideoSortViews, VideoSortDuration, VideoSortTitle:
	default:
		sortBy = VideoSortCreatedAt
	}
	return VideoQuery{
		Query:     strings.TrimSpace(query),
		OwnerID:   strings.TrimSpace(ownerID),
		SortBy:    sortBy,
		Ascending: strings.EqualFold(sortType, "asc"),
		Page:      page.Normalize(),
	}
}
