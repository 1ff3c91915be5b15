package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/models"
)

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionToggler
	Views         Views
}

type subscriptionToggleResponse struct {
	Subscribed   bool                `json:"subscribed"`
	Subscription models.Subscription `json:"subscription"`
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	channelID, ok := pathID(w, r, "channelId")
	if !ok {
		return
	}
	if channelID == userID {
		respondFailure(r.Context(), w, http.StatusBadRequest, "cannot subscribe to your own channel")
		return
	}

	sub, subscribed, err := h.Subscriptions.Toggle(r.Context(), userID, channelID)
	if err != nil {
		writeError(r.Context(), w, err, "channel not found")
		return
	}

	message := "unsubscribed"
	if subscribed {
		message = "subscribed"
	}
	respondOK(r.Context(), w, http.StatusOK, subscriptionToggleResponse{Subscribed: subscribed, Subscription: sub}, message)
}

// SubscribedChannels handles GET /api/v1/subscriptions/c/{subscriberId}.
func (h SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	subscriberID, ok := pathID(w, r, "subscriberId")
	if !ok {
		return
	}

	list, err := h.Views.ListSubscribedChannels(r.Context(), subscriberID)
	if err != nil {
		writeError(r.Context(), w, err, "user not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, list, "subscribed channels fetched")
}

// Subscribers handles GET /api/v1/subscriptions/u/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "channelId")
	if !ok {
		return
	}

	list, err := h.Views.ListSubscribers(r.Context(), channelID)
	if err != nil {
		writeError(r.Context(), w, err, "channel not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, list, "subscribers fetched")
}
