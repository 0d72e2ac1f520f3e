package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type TweetUsecase struct {
	tweetRepo domain.TweetRepository
	likeRepo  domain.LikeRepository
	userRepo  domain.UserRepository
}

func NewTweetUsecase(tweetRepo domain.TweetRepository, likeRepo domain.LikeRepository, userRepo domain.UserRepository) *TweetUsecase {
	return &TweetUsecase{
		tweetRepo: tweetRepo,
		likeRepo:  likeRepo,
		userRepo:  userRepo,
	}
}

func (u *TweetUsecase) Create(ctx context.Context, userID uuid.UUID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("content is required")
	}
	tweet := &domain.Tweet{Content: content, OwnerID: userID}
	if err := u.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, apperr.Internal("failed to create tweet please try again", err)
	}
	return tweet, nil
}

func (u *TweetUsecase) ListByUser(ctx context.Context, viewerID, userID uuid.UUID) ([]*domain.TweetView, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, lookupError(err, "User not found")
	}
	tweets, err := u.tweetRepo.ListByOwner(ctx, userID, viewerID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching tweets", err)
	}
	if tweets == nil {
		tweets = []*domain.TweetView{}
	}
	return tweets, nil
}

func (u *TweetUsecase) Update(ctx context.Context, userID, tweetID uuid.UUID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("content is required")
	}
	tweet, err := u.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, lookupError(err, "Tweet not found")
	}
	if err := requireOwner(tweet.OwnerID, userID, "only owner can edit their tweet"); err != nil {
		return nil, err
	}
	updated, err := u.tweetRepo.UpdateContent(ctx, tweetID, content)
	if err != nil {
		return nil, lookupError(err, "Tweet not found")
	}
	return updated, nil
}

// Delete removes a tweet and every like it received.
func (u *TweetUsecase) Delete(ctx context.Context, userID, tweetID uuid.UUID) error {
	tweet, err := u.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return lookupError(err, "Tweet not found")
	}
	if err := requireOwner(tweet.OwnerID, userID, "only owner can delete their tweet"); err != nil {
		return err
	}
	if _, err := u.likeRepo.DeleteByTarget(ctx, domain.LikeTarget{Kind: domain.LikeTweet, ID: tweetID}); err != nil {
		return apperr.Internal("Something went wrong while deleting the tweet", err)
	}
	if err := u.tweetRepo.Delete(ctx, tweetID); err != nil {
		return lookupError(err, "Tweet not found")
	}
	return nil
}
