package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/middleware"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Create(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, playlist, "Playlist created successfully")
	return nil
}

func (h *Handler) UserPlaylists(w http.ResponseWriter, r *http.Request) error {
	userID, err := pathID(r, "userId", "user")
	if err != nil {
		return err
	}
	playlists, err := h.playlists.ListByUser(r.Context(), userID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, playlists, "User playlists fetched successfully")
	return nil
}

func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) error {
	playlistID, err := pathID(r, "playlistId", "playlist")
	if err != nil {
		return err
	}
	playlist, err := h.playlists.Get(r.Context(), playlistID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, playlist, "Playlist fetched successfully")
	return nil
}

func (h *Handler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	playlistID, err := pathID(r, "playlistId", "playlist")
	if err != nil {
		return err
	}
	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Update(r.Context(), user.ID, playlistID, req.Name, req.Description)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, playlist, "Playlist updated successfully")
	return nil
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	playlistID, err := pathID(r, "playlistId", "playlist")
	if err != nil {
		return err
	}
	if err := h.playlists.Delete(r.Context(), user.ID, playlistID); err != nil {
		return err
	}
	respond(w, http.StatusOK, nil, "Playlist deleted successfully")
	return nil
}

func (h *Handler) playlistVideoIDs(r *http.Request) (videoID, playlistID uuid.UUID, err error) {
	if videoID, err = pathID(r, "videoId", "video"); err != nil {
		return
	}
	playlistID, err = pathID(r, "playlistId", "playlist")
	return
}

func (h *Handler) AddVideoToPlaylist(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, playlistID, err := h.playlistVideoIDs(r)
	if err != nil {
		return err
	}
	playlist, err := h.playlists.AddVideo(r.Context(), user.ID, videoID, playlistID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, playlist, "Added video to playlist successfully")
	return nil
}

func (h *Handler) RemoveVideoFromPlaylist(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, playlistID, err := h.playlistVideoIDs(r)
	if err != nil {
		return err
	}
	playlist, err := h.playlists.RemoveVideo(r.Context(), user.ID, videoID, playlistID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, playlist, "Removed video from playlist successfully")
	return nil
}
