package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Tweet struct {
	ID        uuid.UUID `json:"_id"`
	Content   string    `json:"content"`
	OwnerID   uuid.UUID `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TweetOwner struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

type TweetView struct {
	ID           uuid.UUID  `json:"_id"`
	Content      string     `json:"content"`
	OwnerDetails TweetOwner `json:"ownerDetails"`
	LikesCount   int        `json:"likesCount"`
	IsLiked      bool       `json:"isLiked"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tweet, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*Tweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID, viewerID uuid.UUID) ([]*TweetView, error)
}
