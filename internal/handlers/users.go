package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/internal/videos"
)

// UserHandler implements account, session and channel profile endpoints.
type UserHandler struct {
	Users        UserStore
	Sessions     SessionManager
	Views        Views
	Media        MediaUploader
	Orphans      videos.OrphanQueue
	Uploads      Uploads
	Limiter      RateLimiter
	CookieSecure bool
	NowFunc      func() time.Time
}

type registerRequest struct {
	Username string `form:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `form:"email" validate:"required,email"`
	FullName string `form:"fullName" validate:"required,max=100"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type authResponse struct {
	User   models.User          `json:"user"`
	Tokens models.SessionTokens `json:"tokens"`
}

// Register handles POST /api/v1/users/register.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondFailure(ctx, w, http.StatusTooManyRequests, "too many registration attempts")
		return
	}

	files, err := h.Uploads.spool(w, r, []string{"avatar"}, []string{"coverImage"})
	defer files.cleanup(r)
	if err != nil {
		uploadError(w, r, err)
		return
	}

	req := registerRequest{
		Username: strings.ToLower(strings.TrimSpace(r.FormValue("username"))),
		Email:    strings.ToLower(strings.TrimSpace(r.FormValue("email"))),
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Password: r.FormValue("password"),
	}
	if errs := validateStruct(req); errs != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid registration", errs...)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(ctx, w, err, "")
		return
	}

	avatar, err := h.Media.Upload(ctx, storage.KindImage, files.path("avatar"))
	if err != nil {
		writeError(ctx, w, err, "")
		return
	}
	uploaded := []storage.Asset{avatar}

	var cover storage.Asset
	if p := files.path("coverImage"); p != "" {
		if cover, err = h.Media.Upload(ctx, storage.KindImage, p); err != nil {
			h.discard(uploaded...)
			writeError(ctx, w, err, "")
			return
		}
		uploaded = append(uploaded, cover)
	}

	now := h.now()
	user := models.User{
		ID:         uuid.NewString(),
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Avatar:     avatar.URL,
		CoverImage: cover.URL,
		Password:   hashed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		h.discard(uploaded...)
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("register conflict", "username", req.Username, "email", req.Email)
			respondFailure(ctx, w, http.StatusConflict, "user with email or username already exists")
			return
		}
		writeError(ctx, w, err, "")
		return
	}

	respondOK(ctx, w, http.StatusCreated, user, "user registered successfully")
}

// Login handles POST /api/v1/users/login. Either username or email identifies the account.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondFailure(ctx, w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	login := strings.ToLower(strings.TrimSpace(req.Username))
	if login == "" {
		login = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if login == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "username or email is required", fieldError{Field: "username", Message: "username or email is required"})
		return
	}
	if errs := validateStruct(req); errs != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid login", errs...)
		return
	}

	user, err := h.Users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondFailure(ctx, w, http.StatusNotFound, "user does not exist")
			return
		}
		writeError(ctx, w, err, "")
		return
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondFailure(ctx, w, http.StatusUnauthorized, "invalid user credentials")
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		writeError(ctx, w, err, "")
		return
	}

	h.setSessionCookies(w, tokens)
	respondOK(ctx, w, http.StatusOK, authResponse{User: user, Tokens: tokens}, "user logged in successfully")
}

// Logout handles POST /api/v1/users/logout.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	if cookie, err := r.Cookie(auth.RefreshTokenCookie); err == nil && cookie.Value != "" {
		h.Sessions.Revoke(r.Context(), cookie.Value)
	}

	h.clearSessionCookies(w)
	respondOK(r.Context(), w, http.StatusOK, map[string]any{}, "user logged out")
}

// RefreshToken handles POST /api/v1/users/refresh-token. The refresh token is
// read from its cookie or the JSON body and is single use.
func (h UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := ""
	if cookie, err := r.Cookie(auth.RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil {
			respondFailure(ctx, w, http.StatusBadRequest, "invalid request body")
			return
		}
		token = strings.TrimSpace(req.RefreshToken)
	}
	if token == "" {
		respondFailure(ctx, w, http.StatusUnauthorized, "refresh token is required")
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenExpired) || errors.Is(err, auth.ErrSessionNotFound) {
			respondFailure(ctx, w, http.StatusUnauthorized, "refresh token is expired or used")
			return
		}
		writeError(ctx, w, err, "")
		return
	}

	h.setSessionCookies(w, tokens)
	respondOK(ctx, w, http.StatusOK, tokens, "access token refreshed")
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.Users.FindByID(r.Context(), userID)
	if err != nil {
		writeError(r.Context(), w, err, "user not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, user, "current user fetched")
}

// UpdateAccount handles PATCH /api/v1/users/update-account.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validateStruct(req); errs != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid account details", errs...)
		return
	}

	user, err := h.Users.UpdateAccount(ctx, userID, req.FullName, req.Email, h.now())
	if err != nil {
		writeError(ctx, w, err, "user not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, user, "account details updated")
}

// ChangePassword handles POST /api/v1/users/change-password. Every session of
// the user is revoked afterwards.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateStruct(req); errs != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid password change", errs...)
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		writeError(ctx, w, err, "user not found")
		return
	}
	if err := auth.CheckPassword(user.Password, req.OldPassword); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid old password")
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(ctx, w, err, "")
		return
	}
	if err := h.Users.UpdatePassword(ctx, userID, hashed, h.now()); err != nil {
		writeError(ctx, w, err, "user not found")
		return
	}
	if err := h.Sessions.RevokeAll(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("revoke sessions after password change", "error", err)
	}

	h.clearSessionCookies(w)
	respondOK(ctx, w, http.StatusOK, map[string]any{}, "password changed successfully")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar. The previous avatar is
// handed to the orphan reaper once the record points at the new one.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	files, err := h.Uploads.spool(w, r, []string{"avatar"}, nil)
	defer files.cleanup(r)
	if err != nil {
		uploadError(w, r, err)
		return
	}

	previous, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		writeError(ctx, w, err, "user not found")
		return
	}

	avatar, err := h.Media.Upload(ctx, storage.KindImage, files.path("avatar"))
	if err != nil {
		writeError(ctx, w, err, "")
		return
	}

	user, err := h.Users.UpdateAvatar(ctx, userID, avatar.URL, h.now())
	if err != nil {
		h.discard(avatar)
		writeError(ctx, w, err, "user not found")
		return
	}
	if previous.Avatar != "" {
		h.discardURL(previous.Avatar)
	}

	respondOK(ctx, w, http.StatusOK, user, "avatar updated")
}

// ChannelProfile handles GET /api/v1/users/c/{username}.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	username := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "username")))
	if username == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	profile, err := h.Views.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		writeError(ctx, w, err, "channel does not exist")
		return
	}
	respondOK(ctx, w, http.StatusOK, profile, "channel fetched")
}

func (h UserHandler) setSessionCookies(w http.ResponseWriter, tokens models.SessionTokens) {
	http.SetCookie(w, h.cookie(auth.AccessTokenCookie, tokens.AccessToken, tokens.AccessExpiresAt))
	http.SetCookie(w, h.cookie(auth.RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresAt))
}

func (h UserHandler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
		c := h.cookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h UserHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h UserHandler) discard(assets ...storage.Asset) {
	if h.Orphans == nil {
		return
	}
	for _, a := range assets {
		_ = h.Orphans.Enqueue(videos.Orphan{PublicID: a.PublicID, Kind: a.Kind})
	}
}

func (h UserHandler) discardURL(url string) {
	if h.Orphans == nil {
		return
	}
	_ = h.Orphans.Enqueue(videos.OrphanFromURL(url, storage.KindImage))
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
