package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `json:"_id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	Avatar           string    `json:"avatar"`
	CoverImage       string    `json:"coverImage"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserSummary is the public slice of a user embedded in other results.
type UserSummary struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

// ChannelProfile is a user seen as a channel by a viewer.
type ChannelProfile struct {
	ID                        uuid.UUID `json:"_id"`
	Username                  string    `json:"username"`
	Email                     string    `json:"email"`
	FullName                  string    `json:"fullName"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	SubscribersCount          int       `json:"subscribersCount"`
	ChannelsSubscribedToCount int       `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
	CreatedAt                 time.Time `json:"createdAt"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) (*User, error)

	// SetRefreshTokenHash overwrites the stored refresh token. An empty hash
	// ends the session.
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error
	// RotateRefreshTokenHash replaces oldHash with newHash only if oldHash is
	// still the stored value. It reports whether the swap happened.
	RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) (bool, error)

	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*ChannelProfile, error)
	AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*VideoWithOwner, error)
}
