package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type LikeUsecase struct {
	likeRepo    domain.LikeRepository
	videoRepo   domain.VideoRepository
	commentRepo domain.CommentRepository
	tweetRepo   domain.TweetRepository
}

func NewLikeUsecase(likeRepo domain.LikeRepository, videoRepo domain.VideoRepository, commentRepo domain.CommentRepository, tweetRepo domain.TweetRepository) *LikeUsecase {
	return &LikeUsecase{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// Toggle likes target on behalf of userID, or removes the like if one exists.
// It reports whether the target is liked afterwards.
func (u *LikeUsecase) Toggle(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) (bool, error) {
	if err := u.ensureTarget(ctx, userID, target); err != nil {
		return false, err
	}

	existing, err := u.likeRepo.Find(ctx, target, userID)
	switch {
	case err == nil:
		if err := u.likeRepo.Delete(ctx, existing.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return false, apperr.Internal("Something went wrong while toggling the like", err)
		}
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, apperr.Internal("Something went wrong while toggling the like", err)
	}

	if err := u.likeRepo.Create(ctx, domain.NewLike(target, userID)); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return true, nil
		}
		return false, apperr.Internal("Something went wrong while toggling the like", err)
	}
	return true, nil
}

func (u *LikeUsecase) ensureTarget(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error {
	var err error
	switch target.Kind {
	case domain.LikeVideo:
		_, err = visibleVideo(ctx, u.videoRepo, userID, target.ID)
		return err
	case domain.LikeComment:
		_, err = u.commentRepo.GetByID(ctx, target.ID)
		return lookupOrNil(err, "Comment not found")
	case domain.LikeTweet:
		_, err = u.tweetRepo.GetByID(ctx, target.ID)
		return lookupOrNil(err, "Tweet not found")
	}
	return apperr.BadRequest("Invalid like target")
}

func lookupOrNil(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	return lookupError(err, notFoundMsg)
}

func (u *LikeUsecase) LikedVideos(ctx context.Context, userID uuid.UUID) ([]*domain.LikedVideo, error) {
	videos, err := u.likeRepo.ListLikedVideos(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching liked videos", err)
	}
	if videos == nil {
		videos = []*domain.LikedVideo{}
	}
	return videos, nil
}
