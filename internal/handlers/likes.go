package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/models"
)

// LikeHandler implements like toggles and the liked-videos feed.
type LikeHandler struct {
	Likes LikeToggler
	Views Views
}

type likeToggleResponse struct {
	Liked bool        `json:"liked"`
	Like  models.Like `json:"like"`
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, "videoId", "video not found")
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, "commentId", "comment not found")
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, "tweetId", "tweet not found")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, param, notFound string) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, param)
	if !ok {
		return
	}

	like, liked, err := h.Likes.Toggle(r.Context(), userID, target, targetID)
	if err != nil {
		writeError(r.Context(), w, err, notFound)
		return
	}

	message := "like removed"
	if liked {
		message = "like added"
	}
	respondOK(r.Context(), w, http.StatusOK, likeToggleResponse{Liked: liked, Like: like}, message)
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.Views.ListLikedVideos(r.Context(), userID)
	if err != nil {
		writeError(r.Context(), w, err, "")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, list, "liked videos fetched")
}
