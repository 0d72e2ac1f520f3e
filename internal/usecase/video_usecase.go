package usecase

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/logging"
)

type VideoUsecase struct {
	videoRepo    domain.VideoRepository
	commentRepo  domain.CommentRepository
	likeRepo     domain.LikeRepository
	playlistRepo domain.PlaylistRepository
	userRepo     domain.UserRepository
	media        MediaHost
}

func NewVideoUsecase(
	videoRepo domain.VideoRepository,
	commentRepo domain.CommentRepository,
	likeRepo domain.LikeRepository,
	playlistRepo domain.PlaylistRepository,
	userRepo domain.UserRepository,
	media MediaHost,
) *VideoUsecase {
	return &VideoUsecase{
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		playlistRepo: playlistRepo,
		userRepo:     userRepo,
		media:        media,
	}
}

type ListVideosInput struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   *uuid.UUID
}

var validVideoSorts = map[string]bool{
	domain.VideoSortCreatedAt: true,
	domain.VideoSortViews:     true,
	domain.VideoSortDuration:  true,
	domain.VideoSortTitle:     true,
}

// List returns published videos; a caller listing their own channel also
// sees their unpublished ones.
func (u *VideoUsecase) List(ctx context.Context, viewerID uuid.UUID, in ListVideosInput) (*domain.Page[*domain.VideoWithOwner], error) {
	filter := domain.VideoFilter{
		Query:    strings.TrimSpace(in.Query),
		OwnerID:  in.UserID,
		SortBy:   domain.VideoSortCreatedAt,
		SortDesc: true,
	}
	if in.SortBy != "" {
		if !validVideoSorts[in.SortBy] {
			return nil, apperr.BadRequest("Invalid sortBy").WithDetails("sortBy must be one of createdAt, views, duration, title")
		}
		filter.SortBy = in.SortBy
	}
	switch strings.ToLower(in.SortType) {
	case "", "desc":
	case "asc":
		filter.SortDesc = false
	default:
		return nil, apperr.BadRequest("Invalid sortType").WithDetails("sortType must be asc or desc")
	}
	if in.UserID != nil && *in.UserID == viewerID {
		filter.IncludeUnpublished = true
	}

	page, err := u.videoRepo.List(ctx, filter, domain.PageRequest{Page: in.Page, Limit: in.Limit})
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching videos", err)
	}
	return page, nil
}

type PublishVideoInput struct {
	Title         string
	Description   string
	Duration      float64
	VideoPath     string
	ThumbnailPath string
}

func (u *VideoUsecase) Publish(ctx context.Context, ownerID uuid.UUID, in PublishVideoInput) (*domain.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperr.BadRequest("Title and description are required")
	}
	if in.VideoPath == "" {
		return nil, apperr.BadRequest("Video file is required")
	}
	if in.ThumbnailPath == "" {
		return nil, apperr.BadRequest("Thumbnail is required")
	}
	if in.Duration < 0 || math.IsNaN(in.Duration) || math.IsInf(in.Duration, 0) {
		return nil, apperr.BadRequest("Invalid duration")
	}

	videoFile, err := u.media.Upload(ctx, in.VideoPath, folderVideos)
	if err != nil {
		return nil, apperr.Internal("Error while uploading video file", err)
	}
	thumbnail, err := u.media.Upload(ctx, in.ThumbnailPath, folderThumbnails)
	if err != nil {
		removeMedia(ctx, u.media, videoFile.URL)
		return nil, apperr.Internal("Error while uploading thumbnail", err)
	}

	video := &domain.Video{
		VideoFile:   videoFile.URL,
		Thumbnail:   thumbnail.URL,
		Title:       title,
		Description: description,
		Duration:    in.Duration,
		IsPublished: true,
		OwnerID:     ownerID,
	}
	if err := u.videoRepo.Create(ctx, video); err != nil {
		removeMedia(ctx, u.media, videoFile.URL)
		removeMedia(ctx, u.media, thumbnail.URL)
		return nil, apperr.Internal("Something went wrong while publishing the video", err)
	}
	return video, nil
}

// Watch returns a video for viewerID, counts the view and records it in the
// viewer's history.
func (u *VideoUsecase) Watch(ctx context.Context, viewerID, videoID uuid.UUID) (*domain.VideoDetail, error) {
	if _, err := visibleVideo(ctx, u.videoRepo, viewerID, videoID); err != nil {
		return nil, err
	}

	if err := u.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, apperr.Internal("Something went wrong while fetching the video", err)
	}
	if err := u.userRepo.AddToWatchHistory(ctx, viewerID, videoID); err != nil {
		logging.FromContext(ctx).Warn("watch history update failed", "video_id", videoID, "error", err)
	}

	detail, err := u.videoRepo.GetDetail(ctx, videoID, viewerID)
	if err != nil {
		return nil, lookupError(err, "Video not found")
	}
	return detail, nil
}

type UpdateVideoInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

func (u *VideoUsecase) Update(ctx context.Context, userID, videoID uuid.UUID, in UpdateVideoInput) (*domain.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperr.BadRequest("Title and description are required")
	}

	video, err := u.owned(ctx, userID, videoID, "You can't edit this video as you are not the owner")
	if err != nil {
		return nil, err
	}

	oldThumbnail := ""
	if in.ThumbnailPath != "" {
		asset, err := u.media.Upload(ctx, in.ThumbnailPath, folderThumbnails)
		if err != nil {
			return nil, apperr.Internal("Error while uploading thumbnail", err)
		}
		oldThumbnail = video.Thumbnail
		video.Thumbnail = asset.URL
	}
	video.Title = title
	video.Description = description

	if err := u.videoRepo.Update(ctx, video); err != nil {
		if oldThumbnail != "" {
			removeMedia(ctx, u.media, video.Thumbnail)
		}
		return nil, lookupError(err, "Video not found")
	}
	removeMedia(ctx, u.media, oldThumbnail)
	return video, nil
}

// Delete removes a video together with its likes, its comments and their
// likes, and its playlist entries.
func (u *VideoUsecase) Delete(ctx context.Context, userID, videoID uuid.UUID) error {
	video, err := u.owned(ctx, userID, videoID, "You can't delete this video as you are not the owner")
	if err != nil {
		return err
	}

	if _, err := u.likeRepo.DeleteByTarget(ctx, domain.LikeTarget{Kind: domain.LikeVideo, ID: videoID}); err != nil {
		return apperr.Internal("Something went wrong while deleting the video", err)
	}
	commentIDs, err := u.commentRepo.DeleteByVideo(ctx, videoID)
	if err != nil {
		return apperr.Internal("Something went wrong while deleting the video", err)
	}
	if len(commentIDs) > 0 {
		if _, err := u.likeRepo.DeleteByComments(ctx, commentIDs); err != nil {
			return apperr.Internal("Something went wrong while deleting the video", err)
		}
	}
	if err := u.playlistRepo.RemoveVideoFromAll(ctx, videoID); err != nil {
		return apperr.Internal("Something went wrong while deleting the video", err)
	}
	if err := u.videoRepo.Delete(ctx, videoID); err != nil {
		return lookupError(err, "Video not found")
	}

	removeMedia(ctx, u.media, video.VideoFile)
	removeMedia(ctx, u.media, video.Thumbnail)
	return nil
}

func (u *VideoUsecase) TogglePublish(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	video, err := u.owned(ctx, userID, videoID, "You can't toggle publish status as you are not the owner")
	if err != nil {
		return false, err
	}
	video.IsPublished = !video.IsPublished
	if err := u.videoRepo.Update(ctx, video); err != nil {
		return false, lookupError(err, "Video not found")
	}
	return video.IsPublished, nil
}

func (u *VideoUsecase) owned(ctx context.Context, userID, videoID uuid.UUID, forbiddenMsg string) (*domain.Video, error) {
	video, err := u.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, lookupError(err, "Video not found")
	}
	if err := requireOwner(video.OwnerID, userID, forbiddenMsg); err != nil {
		return nil, err
	}
	return video, nil
}
