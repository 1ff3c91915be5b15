package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/internal/videos"
)

const maxJSONBody = 1 << 20

// envelope is the shape of every JSON response body.
type envelope struct {
	StatusCode int          `json:"statusCode"`
	Data       any          `json:"data,omitempty"`
	Message    string       `json:"message"`
	Success    bool         `json:"success"`
	Errors     []fieldError `json:"errors,omitempty"`
	RequestID  string       `json:"requestId,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload envelope) {
	payload.StatusCode = status
	payload.Success = status < http.StatusBadRequest
	if status >= http.StatusInternalServerError {
		payload.RequestID = logging.RequestIDFromContext(ctx)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "message", payload.Message)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "message", payload.Message)
	}
}

func respondOK(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	respondJSON(ctx, w, status, envelope{Data: data, Message: message})
}

func respondFailure(ctx context.Context, w http.ResponseWriter, status int, message string, fields ...fieldError) {
	respondJSON(ctx, w, status, envelope{Message: message, Errors: fields})
}

// writeError maps domain errors onto response statuses. Unknown errors are
// logged with their cause and reported as 500 without leaking details.
func writeError(ctx context.Context, w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		respondFailure(ctx, w, http.StatusNotFound, notFound)
	case errors.Is(err, repositories.ErrConflict):
		respondFailure(ctx, w, http.StatusBadRequest, "record already exists")
	case errors.Is(err, repositories.ErrInvalid):
		respondFailure(ctx, w, http.StatusBadRequest, "request violates a data constraint")
	case errors.Is(err, videos.ErrForbidden):
		forbidden(ctx, w)
	case errors.Is(err, videos.ErrUnreadableMedia):
		respondFailure(ctx, w, http.StatusBadRequest, "video file could not be read")
	case errors.Is(err, videos.ErrAssetDelete):
		logging.FromContext(ctx).Error("remote asset deletion failed", "error", err)
		respondFailure(ctx, w, http.StatusInternalServerError, "failed to delete video assets, retry later")
	case errors.Is(err, storage.ErrBreakerOpen):
		logging.FromContext(ctx).Error("media store unavailable", "error", err)
		respondFailure(ctx, w, http.StatusInternalServerError, "media service unavailable")
	default:
		logging.FromContext(ctx).Error("unhandled error", "error", err)
		respondFailure(ctx, w, http.StatusInternalServerError, "internal server error")
	}
}

func forbidden(ctx context.Context, w http.ResponseWriter) {
	respondFailure(ctx, w, http.StatusForbidden, "you are not allowed to modify this resource")
}

// unauthorized is installed as the auth middleware's rejection writer.
func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	respondFailure(r.Context(), w, http.StatusUnauthorized, message)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst)
}

// currentUser returns the authenticated caller. Routes mounting handlers that
// call it sit behind auth.RequireUser, so a missing identity is a wiring bug.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondFailure(r.Context(), w, http.StatusUnauthorized, "unauthorized request")
		return "", false
	}
	return userID, true
}
