package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/internal/videos"
)

const loginLimiterTTL = 10 * time.Minute

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup drains the asset reaper.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(context.Context) error, error) {
	media, err := storage.New(ctx, cfg.Media)
	if err != nil {
		return handlers.Dependencies{}, nil, fmt.Errorf("configure media store: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	if err != nil {
		return handlers.Dependencies{}, nil, fmt.Errorf("configure token issuer: %w", err)
	}

	reaper := videos.NewReaper(media, videos.ReaperConfig{
		QueueSize: cfg.Media.ReaperQueue,
		Workers:   cfg.Media.ReaperWorkers,
	}, logger)

	videoRepo := repositories.NewPostgresVideoRepository(pool)
	prober := videos.NewFFProbe(cfg.Media.FFProbePath, cfg.Media.ProbeTimeout)

	var pinger handlers.Pinger
	if p, ok := pool.(handlers.Pinger); ok {
		pinger = p
	}

	deps := handlers.Dependencies{
		Users:         repositories.NewPostgresUserRepository(pool),
		Sessions:      auth.NewManager(tokens, cfg.Auth.RefreshTTL, repositories.NewPostgresSessionStore(pool)),
		Tokens:        tokens,
		Videos:        videos.NewService(videoRepo, media, prober, reaper),
		VideoLookup:   videoRepo,
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Tweets:        repositories.NewPostgresTweetRepository(pool),
		Likes:         repositories.NewPostgresLikeRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Tasks:         repositories.NewPostgresTaskRepository(pool),
		Views:         repositories.NewPostgresViewRepository(pool),
		Media:         media,
		Orphans:       reaper,
		Database:      pinger,
		LoginLimiter:  middleware.NewIPRateLimiter(cfg.Auth.LoginRateRequests, cfg.Auth.LoginRateWindow, cfg.Auth.LoginRateRequests, loginLimiterTTL),
		Uploads:       handlers.Uploads{TempDir: cfg.Server.TempDir, MaxBytes: cfg.Server.MaxUploadBytes},
		CookieSecure:  cfg.Auth.CookieSecure,
		CORSOrigins:   cfg.Server.CORSOrigins,
		RateLimit:     cfg.Server.RateLimitRequests,
		RateWindow:    cfg.Server.RateLimitWindow,
	}

	return deps, reaper.Shutdown, nil
}
