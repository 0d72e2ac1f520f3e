package http

import (
	"net/http"

	"github.com/videotube/backend/internal/middleware"
)

func (h *Handler) ChannelStats(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	stats, err := h.dashboard.Stats(r.Context(), user.ID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, stats, "Channel stats fetched successfully")
	return nil
}

func (h *Handler) ChannelVideos(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videos, err := h.dashboard.Videos(r.Context(), user.ID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, videos, "Channel videos fetched successfully")
	return nil
}
