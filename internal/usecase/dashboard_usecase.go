package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type DashboardUsecase struct {
	videoRepo domain.VideoRepository
}

func NewDashboardUsecase(videoRepo domain.VideoRepository) *DashboardUsecase {
	return &DashboardUsecase{videoRepo: videoRepo}
}

func (u *DashboardUsecase) Stats(ctx context.Context, channelID uuid.UUID) (*domain.ChannelStats, error) {
	stats, err := u.videoRepo.GetChannelStats(ctx, channelID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching channel stats", err)
	}
	return stats, nil
}

func (u *DashboardUsecase) Videos(ctx context.Context, channelID uuid.UUID) ([]*domain.ChannelVideo, error) {
	videos, err := u.videoRepo.ListByOwner(ctx, channelID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching channel videos", err)
	}
	if videos == nil {
		videos = []*domain.ChannelVideo{}
	}
	return videos, nil
}
