package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	ID          uuid.UUID   `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	OwnerID     uuid.UUID   `json:"owner"`
	Videos      []uuid.UUID `json:"videos"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type PlaylistSummary struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int       `json:"totalVideos"`
	TotalViews  int64     `json:"totalViews"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PlaylistVideo struct {
	ID          uuid.UUID `json:"_id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PlaylistDetail lists only the published videos of a playlist.
type PlaylistDetail struct {
	ID          uuid.UUID        `json:"_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	TotalVideos int              `json:"totalVideos"`
	TotalViews  int64            `json:"totalViews"`
	Videos      []*PlaylistVideo `json:"videos"`
	Owner       UserSummary      `json:"owner"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Playlist, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) (*Playlist, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AddVideo is idempotent: adding a video twice keeps one entry.
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*Playlist, error)
	RemoveVideoFromAll(ctx context.Context, videoID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*PlaylistSummary, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*PlaylistDetail, error)
}
