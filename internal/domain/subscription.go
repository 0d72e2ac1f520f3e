package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID           uuid.UUID `json:"_id"`
	SubscriberID uuid.UUID `json:"subscriber"`
	ChannelID    uuid.UUID `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Subscriber struct {
	UserSummary
	SubscribersCount int       `json:"subscribersCount"`
	SubscribedAt     time.Time `json:"subscribedAt"`
}

type SubscribedChannel struct {
	UserSummary
	LatestVideo  *PlaylistVideo `json:"latestVideo,omitempty"`
	SubscribedAt time.Time      `json:"subscribedAt"`
}

type SubscriptionRepository interface {
	Find(ctx context.Context, subscriberID, channelID uuid.UUID) (*Subscription, error)
	Create(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]*Subscriber, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]*SubscribedChannel, error)
}
