package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID `json:"_id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	OwnerID     uuid.UUID `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoWithOwner is a video joined with its owner's public profile.
type VideoWithOwner struct {
	ID          uuid.UUID   `json:"_id"`
	VideoFile   string      `json:"videoFile"`
	Thumbnail   string      `json:"thumbnail"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Duration    float64     `json:"duration"`
	Views       int64       `json:"views"`
	IsPublished bool        `json:"isPublished"`
	CreatedAt   time.Time   `json:"createdAt"`
	Owner       UserSummary `json:"owner"`
}

// VideoOwner is the owner block of a VideoDetail.
type VideoOwner struct {
	UserSummary
	SubscribersCount int  `json:"subscribersCount"`
	IsSubscribed     bool `json:"isSubscribed"`
}

// VideoDetail is a single video as seen by a viewer.
type VideoDetail struct {
	ID          uuid.UUID  `json:"_id"`
	VideoFile   string     `json:"videoFile"`
	Thumbnail   string     `json:"thumbnail"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	IsPublished bool       `json:"isPublished"`
	CreatedAt   time.Time  `json:"createdAt"`
	Owner       VideoOwner `json:"owner"`
	LikesCount  int        `json:"likesCount"`
	IsLiked     bool       `json:"isLiked"`
}

// ChannelVideo is a row of the creator dashboard.
type ChannelVideo struct {
	ID          uuid.UUID `json:"_id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	LikesCount  int       `json:"likesCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ChannelStats struct {
	TotalVideos      int   `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int   `json:"totalSubscribers"`
	TotalLikes       int   `json:"totalLikes"`
}

// Sortable video columns.
const (
	VideoSortCreatedAt = "createdAt"
	VideoSortViews     = "views"
	VideoSortDuration  = "duration"
	VideoSortTitle     = "title"
)

type VideoFilter struct {
	Query   string
	OwnerID *uuid.UUID
	// IncludeUnpublished lists the owner's unpublished videos too. Only
	// meaningful together with OwnerID.
	IncludeUnpublished bool
	SortBy             string
	SortDesc           bool
}

type VideoRepository interface {
	Create(ctx context.Context, video *Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*Video, error)
	List(ctx context.Context, filter VideoFilter, page PageRequest) (*Page[*VideoWithOwner], error)
	GetDetail(ctx context.Context, id, viewerID uuid.UUID) (*VideoDetail, error)
	Update(ctx context.Context, video *Video) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ChannelVideo, error)
	GetChannelStats(ctx context.Context, ownerID uuid.UUID) (*ChannelStats, error)
}
