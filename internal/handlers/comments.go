package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// CommentHandler implements comment endpoints.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoLookup
	Views    Views
	NowFunc  func() time.Time
}

type contentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// List handles GET /api/v1/comments/video/{videoId}?page&limit. Comments on
// an unpublished video are visible to its owner only.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	if err := h.visible(ctx, userID, videoID); err != nil {
		writeError(ctx, w, err, "video not found")
		return
	}

	page := models.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	comments, err := h.Views.ListVideoComments(ctx, videoID, page)
	if err != nil {
		writeError(ctx, w, err, "video not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, comments, "comments fetched")
}

// Add handles POST /api/v1/comments/video/{videoId}.
func (h CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	content, ok := readContent(w, r)
	if !ok {
		return
	}

	if err := h.visible(ctx, userID, videoID); err != nil {
		writeError(ctx, w, err, "video not found")
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Comments.Create(ctx, comment); err != nil {
		writeError(ctx, w, err, "video not found")
		return
	}
	respondOK(ctx, w, http.StatusCreated, comment, "comment added")
}

// Update handles PATCH /api/v1/comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	content, ok := readContent(w, r)
	if !ok {
		return
	}

	existing, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "comment not found")
		return
	}
	if existing.OwnerID != userID {
		forbidden(ctx, w)
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, id, content, h.now())
	if err != nil {
		writeError(ctx, w, err, "comment not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, updated, "comment updated")
}

// Delete handles DELETE /api/v1/comments/c/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	existing, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "comment not found")
		return
	}
	if existing.OwnerID != userID {
		forbidden(ctx, w)
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		writeError(ctx, w, err, "comment not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, existing, "comment deleted")
}

// visible reports ErrNotFound for missing videos and for unpublished videos
// of another user, matching what GET /videos/{videoId} shows.
func (h CommentHandler) visible(ctx context.Context, userID, videoID string) error {
	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !video.IsPublished && video.OwnerID != userID {
		return repositories.ErrNotFound
	}
	return nil
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

// readContent decodes and validates a {"content": ...} body.
func readContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	req.Content = strings.TrimSpace(req.Content)
	if errs := validateStruct(req); errs != nil {
		respondFailure(r.Context(), w, http.StatusBadRequest, "content is required", errs...)
		return "", false
	}
	return req.Content, true
}
