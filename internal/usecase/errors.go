package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

// lookupError maps a repository failure to a 404 with notFoundMsg, or a 500.
func lookupError(err error, notFoundMsg string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	return apperr.Internal("Something went wrong", err)
}

func requireOwner(ownerID, userID uuid.UUID, msg string) error {
	if ownerID != userID {
		return apperr.Forbidden(msg)
	}
	return nil
}

// visibleVideo loads a video the viewer may see. Unpublished videos exist only
// for their owner.
func visibleVideo(ctx context.Context, repo domain.VideoRepository, viewerID, videoID uuid.UUID) (*domain.Video, error) {
	video, err := repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, lookupError(err, "Video not found")
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperr.NotFound("Video not found")
	}
	return video, nil
}
