package handlers

import "net/http"

// DashboardHandler serves the acting channel's statistics and uploads.
type DashboardHandler struct {
	Views Views
}

// Stats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.Views.ChannelStats(r.Context(), userID)
	if err != nil {
		writeError(r.Context(), w, err, "")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, stats, "channel stats fetched")
}

// Videos handles GET /api/v1/dashboard/videos.
func (h DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.Views.ListChannelVideos(r.Context(), userID)
	if err != nil {
		writeError(r.Context(), w, err, "")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, list, "channel videos fetched")
}
