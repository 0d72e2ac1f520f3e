package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type SubscriptionUsecase struct {
	subscriptionRepo domain.SubscriptionRepository
	userRepo         domain.UserRepository
}

func NewSubscriptionUsecase(subscriptionRepo domain.SubscriptionRepository, userRepo domain.UserRepository) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
	}
}

// Toggle subscribes subscriberID to channelID, or unsubscribes if already
// subscribed. It reports whether the subscription exists afterwards.
func (u *SubscriptionUsecase) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if subscriberID == channelID {
		return false, apperr.BadRequest("You cannot subscribe to your own channel")
	}
	if _, err := u.userRepo.GetByID(ctx, channelID); err != nil {
		return false, lookupError(err, "Channel not found")
	}

	existing, err := u.subscriptionRepo.Find(ctx, subscriberID, channelID)
	switch {
	case err == nil:
		if err := u.subscriptionRepo.Delete(ctx, existing.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return false, apperr.Internal("Something went wrong while toggling the subscription", err)
		}
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, apperr.Internal("Something went wrong while toggling the subscription", err)
	}

	sub := &domain.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := u.subscriptionRepo.Create(ctx, sub); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return false, apperr.Internal("Something went wrong while toggling the subscription", err)
	}
	return true, nil
}

func (u *SubscriptionUsecase) Subscribers(ctx context.Context, channelID uuid.UUID) ([]*domain.Subscriber, error) {
	if _, err := u.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, lookupError(err, "Channel not found")
	}
	subs, err := u.subscriptionRepo.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching subscribers", err)
	}
	if subs == nil {
		subs = []*domain.Subscriber{}
	}
	return subs, nil
}

func (u *SubscriptionUsecase) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]*domain.SubscribedChannel, error) {
	if _, err := u.userRepo.GetByID(ctx, subscriberID); err != nil {
		return nil, lookupError(err, "User not found")
	}
	channels, err := u.subscriptionRepo.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching subscribed channels", err)
	}
	if channels == nil {
		channels = []*domain.SubscribedChannel{}
	}
	return channels, nil
}
