package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/usecase"
)

func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	q := r.URL.Query()
	page := pageRequest(r)
	in := usecase.ListVideosInput{
		Page:     page.Page,
		Limit:    page.Limit,
		Query:    q.Get("query"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
	}
	if raw := q.Get("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.BadRequest("Invalid user id")
		}
		in.UserID = &id
	}

	videos, err := h.videos.List(r.Context(), user.ID, in)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, videos, "Videos fetched successfully")
	return nil
}

func (h *Handler) PublishVideo(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	files, err := h.parseMultipart(w, r)
	if err != nil {
		return err
	}
	defer files.cleanup(r)

	var duration float64
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperr.BadRequest("Invalid duration")
		}
	}
	videoPath, err := files.save(r, "videoFile")
	if err != nil {
		return err
	}
	thumbnailPath, err := files.save(r, "thumbnail")
	if err != nil {
		return err
	}

	video, err := h.videos.Publish(r.Context(), user.ID, usecase.PublishVideoInput{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Duration:      duration,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, video, "Video uploaded successfully")
	return nil
}

func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		return err
	}
	video, err := h.videos.Watch(r.Context(), user.ID, videoID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, video, "Video details fetched successfully")
	return nil
}

func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		return err
	}
	files, err := h.parseMultipart(w, r)
	if err != nil {
		return err
	}
	defer files.cleanup(r)

	thumbnailPath, err := files.save(r, "thumbnail")
	if err != nil {
		return err
	}
	video, err := h.videos.Update(r.Context(), user.ID, videoID, usecase.UpdateVideoInput{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, video, "Video updated successfully")
	return nil
}

func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		return err
	}
	if err := h.videos.Delete(r.Context(), user.ID, videoID); err != nil {
		return err
	}
	respond(w, http.StatusOK, nil, "Video deleted successfully")
	return nil
}

func (h *Handler) TogglePublish(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		return err
	}
	published, err := h.videos.TogglePublish(r.Context(), user.ID, videoID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, map[string]bool{"isPublished": published}, "Video publish toggled successfully")
	return nil
}
