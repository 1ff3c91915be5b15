package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

var videoSortColumns = map[string]string{
	models.VideoSortCreatedAt: "v.created_at",
	models.VideoSortViews:     "v.views",
	models.VideoSortDuration:  "v.duration",
	models.VideoSortTitle:     "v.title",
}

var likePatternEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresViewRepository assembles joined read models with SQL.
type PostgresViewRepository struct {
	pool db.Pool
}

// NewPostgresViewRepository constructs a view repository backed by PostgreSQL.
func NewPostgresViewRepository(pool db.Pool) *PostgresViewRepository {
	return &PostgresViewRepository{pool: pool}
}

// ListVideoComments returns one page of a video's comments, oldest first, with
// each author's public profile. ErrNotFound means the video does not exist; a
// comment whose author row is gone yields ErrInconsistent.
func (r *PostgresViewRepository) ListVideoComments(ctx context.Context, videoID string, page models.Page) ([]models.CommentView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, videoID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check video: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	page = page.Normalize()
	rows, err := conn.Query(ctx, `
        SELECT c.id, c.content, c.created_at, u.id, u.username, u.full_name, u.avatar
        FROM comments c
        LEFT JOIN users u ON u.id = c.owner_id
        WHERE c.video_id = $1
        ORDER BY c.created_at ASC, c.id ASC
        OFFSET $2 LIMIT $3
    `, videoID, page.Offset(), page.Limit())
	if err != nil {
		return nil, fmt.Errorf("query video comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.CommentView, 0, page.Limit())
	for rows.Next() {
		var (
			c       models.CommentView
			profile nullableProfile
		)
		if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt, &profile.id, &profile.username, &profile.fullName, &profile.avatar); err != nil {
			return nil, fmt.Errorf("scan video comment: %w", err)
		}
		owner, ok := profile.resolve()
		if !ok {
			return nil, fmt.Errorf("comment %s has no owner: %w", c.ID, ErrInconsistent)
		}
		c.CreatedBy = owner
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video comments: %w", err)
	}

	return comments, nil
}

// ChannelStats aggregates views, videos, subscribers and likes received by a channel.
func (r *PostgresViewRepository) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var stats models.ChannelStats
	err = conn.QueryRow(ctx, `
        SELECT
            (SELECT COALESCE(SUM(views), 0)::INT8 FROM videos WHERE owner_id = $1),
            (SELECT COUNT(*) FROM videos WHERE owner_id = $1),
            (SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
            (SELECT COUNT(*)
             FROM likes l
             LEFT JOIN videos v ON v.id = l.video_id
             LEFT JOIN comments c ON c.id = l.comment_id
             LEFT JOIN tweets t ON t.id = l.tweet_id
             WHERE v.owner_id = $1 OR c.owner_id = $1 OR t.owner_id = $1)
    `, channelID).Scan(&stats.TotalViews, &stats.TotalVideos, &stats.TotalSubscribers, &stats.TotalLikes)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}

	return stats, nil
}

// ListChannelVideos returns every video owned by the channel, published or not, newest first.
func (r *PostgresViewRepository) ListChannelVideos(ctx context.Context, channelID string) ([]models.ChannelVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, video_file, thumbnail, title, duration, views, is_published, owner_id, created_at, updated_at
        FROM videos
        WHERE owner_id = $1
        ORDER BY created_at DESC, id
    `, channelID)
	if err != nil {
		return nil, fmt.Errorf("query channel videos: %w", err)
	}
	defer rows.Close()

	videos := make([]models.ChannelVideo, 0)
	for rows.Next() {
		var v models.ChannelVideo
		if err := rows.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Duration, &v.Views, &v.IsPublished, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan channel video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel videos: %w", err)
	}

	return videos, nil
}

// ListLikedVideos returns the videos a user liked, most recent like first, each
// with the video owner's public profile.
func (r *PostgresViewRepository) ListLikedVideos(ctx context.Context, userID string) ([]models.LikedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT l.id, l.liked_by,
               v.id, v.video_file, v.thumbnail, v.title, v.duration, v.views,
               u.id, u.username, u.full_name, u.avatar
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.liked_by = $1 AND l.video_id IS NOT NULL
        ORDER BY l.created_at DESC, l.id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	liked := make([]models.LikedVideo, 0)
	for rows.Next() {
		var (
			l     models.LikedVideo
			video = &l.Video
			owner = &l.Video.Owner
		)
		if err := rows.Scan(
			&l.ID, &l.LikedBy,
			&video.ID, &video.VideoFile, &video.Thumbnail, &video.Title, &video.Duration, &video.Views,
			&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar,
		); err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		liked = append(liked, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return liked, nil
}

// ListSubscribers returns the subscribers of a channel, newest first.
func (r *PostgresViewRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.SubscriberView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT s.id, s.created_at, u.id, u.username, u.full_name, u.avatar
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC, s.id
    `, channelID)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := make([]models.SubscriberView, 0)
	for rows.Next() {
		var s models.SubscriberView
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Subscriber.ID, &s.Subscriber.Username, &s.Subscriber.FullName, &s.Subscriber.Avatar); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subscribers, nil
}

// ListSubscribedChannels returns the channels a user subscribes to, newest first.
func (r *PostgresViewRepository) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.SubscribedChannelView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT s.id, s.created_at, u.id, u.username, u.full_name, u.avatar
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC, s.id
    `, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("query subscribed channels: %w", err)
	}
	defer rows.Close()

	channels := make([]models.SubscribedChannelView, 0)
	for rows.Next() {
		var s models.SubscribedChannelView
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Channel.ID, &s.Channel.Username, &s.Channel.FullName, &s.Channel.Avatar); err != nil {
			return nil, fmt.Errorf("scan subscribed channel: %w", err)
		}
		channels = append(channels, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribed channels: %w", err)
	}

	return channels, nil
}

// SearchVideos lists published, fully available videos whose title or
// description contains the query, case-insensitively. An empty query matches
// every video.
func (r *PostgresViewRepository) SearchVideos(ctx context.Context, q models.VideoQuery) ([]models.VideoListItem, error) {
	query, args := buildVideoSearch(q)

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]models.VideoListItem, 0, q.Page.Limit())
	for rows.Next() {
		var v models.VideoListItem
		if err := rows.Scan(
			&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration, &v.Views, &v.CreatedAt,
			&v.CreatedBy.ID, &v.CreatedBy.Username, &v.CreatedBy.FullName, &v.CreatedBy.Avatar,
		); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

func buildVideoSearch(q models.VideoQuery) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString(`
        SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views, v.created_at,
               u.id, u.username, u.full_name, u.avatar
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.is_published AND v.asset_status = `)
	sb.WriteString(arg(models.AssetStatusReady))

	if q.Query != "" {
		pattern := arg("%" + likePatternEscaper.Replace(q.Query) + "%")
		sb.WriteString(" AND (v.title ILIKE " + pattern + " OR v.description ILIKE " + pattern + ")")
	}
	if q.OwnerID != "" {
		sb.WriteString(" AND v.owner_id = " + arg(q.OwnerID))
	}

	column, ok := videoSortColumns[q.SortBy]
	if !ok {
		column = videoSortColumns[models.VideoSortCreatedAt]
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}
	sb.WriteString(" ORDER BY " + column + " " + direction + ", v.id " + direction)

	page := q.Page.Normalize()
	sb.WriteString(" OFFSET " + arg(page.Offset()) + " LIMIT " + arg(page.Limit()))

	return sb.String(), args
}

// ChannelProfile returns a user's channel page as seen by viewerID.
func (r *PostgresViewRepository) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var p models.ChannelProfile
	err = conn.QueryRow(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar, u.cover_image,
            (SELECT COUNT(*) FROM subscriptions WHERE channel_id = u.id),
            (SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = u.id),
            EXISTS (SELECT 1 FROM subscriptions WHERE channel_id = u.id AND subscriber_id = $2)
        FROM users u
        WHERE u.username = $1
    `, strings.ToLower(strings.TrimSpace(username)), viewerID).Scan(
		&p.ID, &p.Username, &p.FullName, &p.Avatar, &p.CoverImage,
		&p.SubscribersCount, &p.ChannelsSubscribedToCount, &p.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return p, nil
}

type nullableProfile struct {
	id, username, fullName, avatar *string
}

func (p nullableProfile) resolve() (models.PublicProfile, bool) {
	if p.id == nil {
		return models.PublicProfile{}, false
	}
	profile := models.PublicProfile{ID: *p.id}
	if p.username != nil {
		profile.Username = *p.username
	}
	if p.fullName != nil {
		profile.FullName = *p.fullName
	}
	if p.avatar != nil {
		profile.Avatar = *p.avatar
	}
	return profile, true
}

var _ ViewRepository = (*PostgresViewRepository)(nil)
