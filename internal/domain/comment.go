package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"_id"`
	Content   string    `json:"content"`
	VideoID   uuid.UUID `json:"video"`
	OwnerID   uuid.UUID `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentView struct {
	ID         uuid.UUID   `json:"_id"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"createdAt"`
	LikesCount int         `json:"likesCount"`
	Owner      UserSummary `json:"owner"`
	IsLiked    bool        `json:"isLiked"`
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByVideo removes every comment of a video and returns their ids.
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error)
	ListByVideo(ctx context.Context, videoID, viewerID uuid.UUID, page PageRequest) (*Page[*CommentView], error)
}
