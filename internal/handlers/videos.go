package handlers

import (
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/videos"
)

// VideoHandler implements the video catalogue endpoints.
type VideoHandler struct {
	Videos  VideoService
	Views   Views
	Uploads Uploads
}

type videoDetailsRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"required,max=5000"`
}

// List handles GET /api/v1/videos with paging, search, sort and owner filters.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	ownerID := strings.TrimSpace(q.Get("userId"))
	if ownerID != "" {
		if err := getValidator().Var(ownerID, "uuid"); err != nil {
			respondFailure(ctx, w, http.StatusBadRequest, "invalid userId", fieldError{Field: "userId", Message: "userId must be a valid id"})
			return
		}
	}

	query := models.NewVideoQuery(
		strings.TrimSpace(q.Get("query")),
		ownerID,
		q.Get("sortBy"),
		q.Get("sortType"),
		models.ParsePage(q.Get("page"), q.Get("limit")),
	)

	list, err := h.Views.SearchVideos(ctx, query)
	if err != nil {
		writeError(ctx, w, err, "")
		return
	}
	respondOK(ctx, w, http.StatusOK, list, "videos fetched")
}

// Publish handles POST /api/v1/videos.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	files, err := h.Uploads.spool(w, r, []string{"videoFile", "thumbnail"}, nil)
	defer files.cleanup(r)
	if err != nil {
		uploadError(w, r, err)
		return
	}

	req := videoDetailsRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if errs := validateStruct(req); errs != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid video details", errs...)
		return
	}

	video, err := h.Videos.Publish(ctx, userID, videos.PublishInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoPath:     files.path("videoFile"),
		ThumbnailPath: files.path("thumbnail"),
	})
	if err != nil {
		writeError(ctx, w, err, "")
		return
	}
	respondOK(ctx, w, http.StatusCreated, video, "video published")
}

// Get handles GET /api/v1/videos/{videoId}.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.Videos.Get(r.Context(), userID, id)
	if err != nil {
		writeError(r.Context(), w, err, "video not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, video, "video fetched")
}

// Update handles PATCH /api/v1/videos/{videoId}. A new thumbnail is required.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	files, err := h.Uploads.spool(w, r, []string{"thumbnail"}, nil)
	defer files.cleanup(r)
	if err != nil {
		uploadError(w, r, err)
		return
	}

	req := videoDetailsRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if errs := validateStruct(req); errs != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid video details", errs...)
		return
	}

	video, err := h.Videos.UpdateDetails(ctx, userID, id, videos.UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: files.path("thumbnail"),
	})
	if err != nil {
		writeError(ctx, w, err, "video not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, video, "video updated")
}

// Delete handles DELETE /api/v1/videos/{videoId}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.Videos.Delete(r.Context(), userID, id)
	if err != nil {
		writeError(r.Context(), w, err, "video not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, video, "video deleted")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.Videos.TogglePublish(r.Context(), userID, id)
	if err != nil {
		writeError(r.Context(), w, err, "video not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, video, "publish status toggled")
}
