package http

import (
	"net/http"

	"github.com/videotube/backend/internal/middleware"
)

type contentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		return err
	}
	comments, err := h.comments.List(r.Context(), user.ID, videoID, pageRequest(r))
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, comments, "Comments fetched successfully")
	return nil
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		return err
	}
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	comment, err := h.comments.Add(r.Context(), user.ID, videoID, req.Content)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, comment, "Comment added successfully")
	return nil
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	commentID, err := pathID(r, "commentId", "comment")
	if err != nil {
		return err
	}
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(r.Context(), user.ID, commentID, req.Content)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, comment, "Comment edited successfully")
	return nil
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	commentID, err := pathID(r, "commentId", "comment")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(r.Context(), user.ID, commentID); err != nil {
		return err
	}
	respond(w, http.StatusOK, map[string]string{"commentId": commentID.String()}, "Comment deleted successfully")
	return nil
}
