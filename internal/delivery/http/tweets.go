package http

import (
	"net/http"

	"github.com/videotube/backend/internal/middleware"
)

func (h *Handler) CreateTweet(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Create(r.Context(), user.ID, req.Content)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, tweet, "Tweet created successfully")
	return nil
}

func (h *Handler) UserTweets(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	userID, err := pathID(r, "userId", "user")
	if err != nil {
		return err
	}
	tweets, err := h.tweets.ListByUser(r.Context(), user.ID, userID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, tweets, "Tweets fetched successfully")
	return nil
}

func (h *Handler) UpdateTweet(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	tweetID, err := pathID(r, "tweetId", "tweet")
	if err != nil {
		return err
	}
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Update(r.Context(), user.ID, tweetID, req.Content)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, tweet, "Tweet updated successfully")
	return nil
}

func (h *Handler) DeleteTweet(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	tweetID, err := pathID(r, "tweetId", "tweet")
	if err != nil {
		return err
	}
	if err := h.tweets.Delete(r.Context(), user.ID, tweetID); err != nil {
		return err
	}
	respond(w, http.StatusOK, map[string]string{"tweetId": tweetID.String()}, "Tweet deleted successfully")
	return nil
}
