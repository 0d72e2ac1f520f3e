package http

import (
	"net/http"

	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/middleware"
)

func (h *Handler) ToggleVideoLike(w http.ResponseWriter, r *http.Request) error {
	return h.toggleLike(w, r, domain.LikeVideo, "videoId", "video")
}

func (h *Handler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) error {
	return h.toggleLike(w, r, domain.LikeComment, "commentId", "comment")
}

func (h *Handler) ToggleTweetLike(w http.ResponseWriter, r *http.Request) error {
	return h.toggleLike(w, r, domain.LikeTweet, "tweetId", "tweet")
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request, kind domain.LikeKind, param, label string) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	id, err := pathID(r, param, label)
	if err != nil {
		return err
	}
	liked, err := h.likes.Toggle(r.Context(), user.ID, domain.LikeTarget{Kind: kind, ID: id})
	if err != nil {
		return err
	}
	message := "Like removed successfully"
	if liked {
		message = "Liked successfully"
	}
	respond(w, http.StatusOK, map[string]bool{"liked": liked}, message)
	return nil
}

func (h *Handler) LikedVideos(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videos, err := h.likes.LikedVideos(r.Context(), user.ID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, videos, "Liked videos fetched successfully")
	return nil
}
