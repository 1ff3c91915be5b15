package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

var likeTargetColumns = map[models.LikeTarget]string{
	models.LikeTargetVideo:   "video_id",
	models.LikeTargetComment: "comment_id",
	models.LikeTargetTweet:   "tweet_id",
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Toggle likes the target when the user has not liked it yet and unlikes it
// otherwise. The partial unique indexes on likes guarantee a single row per
// (user, target); losing an insert race to a concurrent toggle reports the
// winner's row as liked.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, userID string, target models.LikeTarget, targetID string) (models.Like, bool, error) {
	column, ok := likeTargetColumns[target]
	if !ok {
		return models.Like{}, false, fmt.Errorf("unknown like target %q: %w", target, ErrInvalid)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Like{}, false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	like := models.Like{LikedBy: userID, TargetType: target, TargetID: targetID}
	findQuery := `SELECT id, created_at FROM likes WHERE liked_by = $1 AND ` + column + ` = $2`

	err = conn.QueryRow(ctx, findQuery, userID, targetID).Scan(&like.ID, &like.CreatedAt)
	switch {
	case err == nil:
		if _, err := conn.Exec(ctx, `DELETE FROM likes WHERE id = $1`, like.ID); err != nil {
			return models.Like{}, false, fmt.Errorf("delete like: %w", err)
		}
		return like, false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return models.Like{}, false, fmt.Errorf("select like: %w", err)
	}

	like.ID = uuid.NewString()
	like.CreatedAt = time.Now().UTC()
	err = conn.QueryRow(ctx, `
        INSERT INTO likes (id, liked_by, `+column+`, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT DO NOTHING
        RETURNING id, created_at
    `, like.ID, userID, targetID, like.CreatedAt).Scan(&like.ID, &like.CreatedAt)
	if err == nil {
		return like, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Like{}, false, translateWriteError("insert like", err)
	}

	if err := conn.QueryRow(ctx, findQuery, userID, targetID).Scan(&like.ID, &like.CreatedAt); err != nil {
		return models.Like{}, false, fmt.Errorf("reload conflicting like: %w", err)
	}
	return like, true, nil
}

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle subscribes to the channel when not subscribed and unsubscribes otherwise.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (models.Subscription, bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Subscription{}, false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	existing, err := findSubscription(ctx, conn, subscriberID, channelID)
	switch {
	case err == nil:
		if _, err := conn.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, existing.ID); err != nil {
			return models.Subscription{}, false, fmt.Errorf("delete subscription: %w", err)
		}
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return models.Subscription{}, false, err
	}

	sub.ID = uuid.NewString()
	sub.CreatedAt = time.Now().UTC()
	err = conn.QueryRow(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (subscriber_id, channel_id) DO NOTHING
        RETURNING id, created_at
    `, sub.ID, subscriberID, channelID, sub.CreatedAt).Scan(&sub.ID, &sub.CreatedAt)
	if err == nil {
		return sub, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Subscription{}, false, translateWriteError("insert subscription", err)
	}

	existing, err = findSubscription(ctx, conn, subscriberID, channelID)
	if err != nil {
		return models.Subscription{}, false, fmt.Errorf("reload conflicting subscription: %w", err)
	}
	return existing, true, nil
}

func findSubscription(ctx context.Context, conn *pgxpool.Conn, subscriberID, channelID string) (models.Subscription, error) {
	var sub models.Subscription
	err := conn.QueryRow(ctx, `
        SELECT id, subscriber_id, channel_id, created_at
        FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID).Scan(&sub.ID, &sub.SubscriberID, &sub.ChannelID, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subscription{}, ErrNotFound
		}
		return models.Subscription{}, fmt.Errorf("select subscription: %w", err)
	}
	return sub, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
