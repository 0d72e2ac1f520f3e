package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LikeKind string

const (
	LikeVideo   LikeKind = "video"
	LikeComment LikeKind = "comment"
	LikeTweet   LikeKind = "tweet"
)

// LikeTarget identifies the single resource a like points at.
type LikeTarget struct {
	Kind LikeKind
	ID   uuid.UUID
}

type Like struct {
	ID        uuid.UUID  `json:"_id"`
	VideoID   *uuid.UUID `json:"video,omitempty"`
	CommentID *uuid.UUID `json:"comment,omitempty"`
	TweetID   *uuid.UUID `json:"tweet,omitempty"`
	LikedBy   uuid.UUID  `json:"likedBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewLike builds a like of target by userID.
func NewLike(target LikeTarget, userID uuid.UUID) *Like {
	like := &Like{LikedBy: userID}
	id := target.ID
	switch target.Kind {
	case LikeVideo:
		like.VideoID = &id
	case LikeComment:
		like.CommentID = &id
	case LikeTweet:
		like.TweetID = &id
	}
	return like
}

// Target returns what the like points at.
func (l *Like) Target() LikeTarget {
	switch {
	case l.VideoID != nil:
		return LikeTarget{Kind: LikeVideo, ID: *l.VideoID}
	case l.CommentID != nil:
		return LikeTarget{Kind: LikeComment, ID: *l.CommentID}
	case l.TweetID != nil:
		return LikeTarget{Kind: LikeTweet, ID: *l.TweetID}
	}
	return LikeTarget{}
}

type LikedVideo struct {
	LikedAt    time.Time      `json:"likedAt"`
	LikedVideo VideoWithOwner `json:"likedVideo"`
}

type LikeRepository interface {
	Find(ctx context.Context, target LikeTarget, userID uuid.UUID) (*Like, error)
	Create(ctx context.Context, like *Like) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByTarget(ctx context.Context, target LikeTarget) (int, error)
	DeleteByTarget(ctx context.Context, target LikeTarget) (int64, error)
	DeleteByComments(ctx context.Context, commentIDs []uuid.UUID) (int64, error)
	ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]*LikedVideo, error)
}
