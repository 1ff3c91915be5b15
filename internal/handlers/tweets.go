package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
)

// TweetHandler implements channel tweet endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	NowFunc func() time.Time
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	content, ok := readContent(w, r)
	if !ok {
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Tweets.Create(ctx, tweet); err != nil {
		writeError(ctx, w, err, "user not found")
		return
	}
	respondOK(ctx, w, http.StatusCreated, tweet, "tweet created")
}

// ListByUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	tweets, err := h.Tweets.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(r.Context(), w, err, "user not found")
		return
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	respondOK(r.Context(), w, http.StatusOK, tweets, "tweets fetched")
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "tweetId")
	if !ok {
		return
	}

	content, ok := readContent(w, r)
	if !ok {
		return
	}

	existing, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "tweet not found")
		return
	}
	if existing.OwnerID != userID {
		forbidden(ctx, w)
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, id, content, h.now())
	if err != nil {
		writeError(ctx, w, err, "tweet not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, updated, "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "tweetId")
	if !ok {
		return
	}

	existing, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "tweet not found")
		return
	}
	if existing.OwnerID != userID {
		forbidden(ctx, w)
		return
	}

	if err := h.Tweets.Delete(ctx, id); err != nil {
		writeError(ctx, w, err, "tweet not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, existing, "tweet deleted")
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
