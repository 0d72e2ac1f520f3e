package http

import (
	"net/http"

	"github.com/videotube/backend/internal/middleware"
)

func (h *Handler) ToggleSubscription(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	channelID, err := pathID(r, "channelId", "channel")
	if err != nil {
		return err
	}
	subscribed, err := h.subscriptions.Toggle(r.Context(), user.ID, channelID)
	if err != nil {
		return err
	}
	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	respond(w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
	return nil
}

func (h *Handler) ChannelSubscribers(w http.ResponseWriter, r *http.Request) error {
	channelID, err := pathID(r, "channelId", "channel")
	if err != nil {
		return err
	}
	subscribers, err := h.subscriptions.Subscribers(r.Context(), channelID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, subscribers, "Subscribers fetched successfully")
	return nil
}

func (h *Handler) SubscribedChannels(w http.ResponseWriter, r *http.Request) error {
	subscriberID, err := pathID(r, "subscriberId", "subscriber")
	if err != nil {
		return err
	}
	channels, err := h.subscriptions.SubscribedChannels(r.Context(), subscriberID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, channels, "Subscribed channels fetched successfully")
	return nil
}
