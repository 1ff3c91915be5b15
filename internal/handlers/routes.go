package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/videos"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Tokens        *auth.TokenIssuer
	Videos        VideoService
	VideoLookup   VideoLookup
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeToggler
	Subscriptions SubscriptionToggler
	Tasks         TaskStore
	Views         Views
	Media         MediaUploader
	Orphans       videos.OrphanQueue
	Database      Pinger
	LoginLimiter  RateLimiter
	Uploads       Uploads
	CookieSecure  bool
	CORSOrigins   []string
	RateLimit     int
	RateWindow    time.Duration
}

// NewRouter wires HTTP handlers and middleware into a chi router.
func NewRouter(logger *slog.Logger, deps Dependencies) http.Handler {
	health := HealthHandler{Database: deps.Database}
	users := UserHandler{
		Users:        deps.Users,
		Sessions:     deps.Sessions,
		Views:        deps.Views,
		Media:        deps.Media,
		Orphans:      deps.Orphans,
		Uploads:      deps.Uploads,
		Limiter:      deps.LoginLimiter,
		CookieSecure: deps.CookieSecure,
	}
	videoHandler := VideoHandler{Videos: deps.Videos, Views: deps.Views, Uploads: deps.Uploads}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.VideoLookup, Views: deps.Views}
	tweets := TweetHandler{Tweets: deps.Tweets}
	likes := LikeHandler{Likes: deps.Likes, Views: deps.Views}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Views: deps.Views}
	dashboard := DashboardHandler{Views: deps.Views}
	tasks := TaskHandler{Tasks: deps.Tasks}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if deps.RateLimit > 0 {
		r.Use(httprate.Limit(deps.RateLimit, deps.RateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				respondFailure(r.Context(), w, http.StatusTooManyRequests, "too many requests")
			}),
		))
	}

	r.Get("/healthz", health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	requireUser := auth.RequireUser(deps.Tokens, unauthorized)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", users.Register)
			r.Post("/login", users.Login)
			r.Post("/refresh-token", users.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(requireUser)
				r.Post("/logout", users.Logout)
				r.Get("/current-user", users.CurrentUser)
				r.Patch("/update-account", users.UpdateAccount)
				r.Post("/change-password", users.ChangePassword)
				r.Patch("/avatar", users.UpdateAvatar)
				r.Get("/c/{username}", users.ChannelProfile)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", videoHandler.List)
				r.Post("/", videoHandler.Publish)
				r.Get("/{videoId}", videoHandler.Get)
				r.Patch("/{videoId}", videoHandler.Update)
				r.Delete("/{videoId}", videoHandler.Delete)
				r.Patch("/toggle/publish/{videoId}", videoHandler.TogglePublish)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/video/{videoId}", comments.List)
				r.Post("/video/{videoId}", comments.Add)
				r.Patch("/c/{commentId}", comments.Update)
				r.Delete("/c/{commentId}", comments.Delete)
			})

			r.Route("/tweets", func(r chi.Router) {
				r.Post("/", tweets.Create)
				r.Get("/user/{userId}", tweets.ListByUser)
				r.Patch("/{tweetId}", tweets.Update)
				r.Delete("/{tweetId}", tweets.Delete)
			})

			r.Route("/likes", func(r chi.Router) {
				r.Post("/toggle/v/{videoId}", likes.ToggleVideo)
				r.Post("/toggle/c/{commentId}", likes.ToggleComment)
				r.Post("/toggle/t/{tweetId}", likes.ToggleTweet)
				r.Get("/videos", likes.LikedVideos)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/c/{channelId}", subscriptions.Toggle)
				r.Get("/c/{subscriberId}", subscriptions.SubscribedChannels)
				r.Get("/u/{channelId}", subscriptions.Subscribers)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", dashboard.Stats)
				r.Get("/videos", dashboard.Videos)
			})

			r.Route("/task", func(r chi.Router) {
				r.Get("/all-tasks", tasks.List)
				r.Get("/task-by-id/{id}", tasks.Get)
				r.Post("/create-task", tasks.Create)
				r.Patch("/update-task/{id}", tasks.Update)
				r.Delete("/delete-task/{id}", tasks.Delete)
			})
		})
	})

	return r
}
