package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type PlaylistUsecase struct {
	playlistRepo domain.PlaylistRepository
	videoRepo    domain.VideoRepository
	userRepo     domain.UserRepository
}

func NewPlaylistUsecase(playlistRepo domain.PlaylistRepository, videoRepo domain.VideoRepository, userRepo domain.UserRepository) *PlaylistUsecase {
	return &PlaylistUsecase{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
	}
}

func (u *PlaylistUsecase) Create(ctx context.Context, userID uuid.UUID, name, description string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apperr.BadRequest("name and description both are required")
	}
	playlist := &domain.Playlist{
		Name:        name,
		Description: description,
		OwnerID:     userID,
		Videos:      []uuid.UUID{},
	}
	if err := u.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, apperr.Internal("failed to create playlist", err)
	}
	return playlist, nil
}

func (u *PlaylistUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PlaylistSummary, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, lookupError(err, "User not found")
	}
	playlists, err := u.playlistRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching playlists", err)
	}
	if playlists == nil {
		playlists = []*domain.PlaylistSummary{}
	}
	return playlists, nil
}

func (u *PlaylistUsecase) Get(ctx context.Context, playlistID uuid.UUID) (*domain.PlaylistDetail, error) {
	detail, err := u.playlistRepo.GetDetail(ctx, playlistID)
	if err != nil {
		return nil, lookupError(err, "Playlist not found")
	}
	return detail, nil
}

func (u *PlaylistUsecase) Update(ctx context.Context, userID, playlistID uuid.UUID, name, description string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apperr.BadRequest("name and description both are required")
	}
	if _, err := u.owned(ctx, userID, playlistID, "only owner can edit the playlist"); err != nil {
		return nil, err
	}
	playlist, err := u.playlistRepo.Update(ctx, playlistID, name, description)
	if err != nil {
		return nil, lookupError(err, "Playlist not found")
	}
	return playlist, nil
}

func (u *PlaylistUsecase) Delete(ctx context.Context, userID, playlistID uuid.UUID) error {
	if _, err := u.owned(ctx, userID, playlistID, "only owner can delete the playlist"); err != nil {
		return err
	}
	if err := u.playlistRepo.Delete(ctx, playlistID); err != nil {
		return lookupError(err, "Playlist not found")
	}
	return nil
}

// AddVideo adds a video to the playlist. Adding a video already present is a
// no-op.
func (u *PlaylistUsecase) AddVideo(ctx context.Context, userID, videoID, playlistID uuid.UUID) (*domain.Playlist, error) {
	if _, err := u.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, lookupError(err, "Video not found")
	}
	if _, err := u.owned(ctx, userID, playlistID, "only owner can add video to their playlist"); err != nil {
		return nil, err
	}
	playlist, err := u.playlistRepo.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, lookupError(err, "Playlist not found")
	}
	return playlist, nil
}

func (u *PlaylistUsecase) RemoveVideo(ctx context.Context, userID, videoID, playlistID uuid.UUID) (*domain.Playlist, error) {
	if _, err := u.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, lookupError(err, "Video not found")
	}
	if _, err := u.owned(ctx, userID, playlistID, "only owner can remove video from their playlist"); err != nil {
		return nil, err
	}
	playlist, err := u.playlistRepo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, lookupError(err, "Playlist not found")
	}
	return playlist, nil
}

func (u *PlaylistUsecase) owned(ctx context.Context, userID, playlistID uuid.UUID, forbiddenMsg string) (*domain.Playlist, error) {
	playlist, err := u.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, lookupError(err, "Playlist not found")
	}
	if err := requireOwner(playlist.OwnerID, userID, forbiddenMsg); err != nil {
		return nil, err
	}
	return playlist, nil
}
