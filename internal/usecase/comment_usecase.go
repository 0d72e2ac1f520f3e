package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type CommentUsecase struct {
	commentRepo domain.CommentRepository
	videoRepo   domain.VideoRepository
	likeRepo    domain.LikeRepository
}

func NewCommentUsecase(commentRepo domain.CommentRepository, videoRepo domain.VideoRepository, likeRepo domain.LikeRepository) *CommentUsecase {
	return &CommentUsecase{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		likeRepo:    likeRepo,
	}
}

func (u *CommentUsecase) List(ctx context.Context, viewerID, videoID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.CommentView], error) {
	if _, err := visibleVideo(ctx, u.videoRepo, viewerID, videoID); err != nil {
		return nil, err
	}
	comments, err := u.commentRepo.ListByVideo(ctx, videoID, viewerID, page)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching comments", err)
	}
	return comments, nil
}

func (u *CommentUsecase) Add(ctx context.Context, userID, videoID uuid.UUID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Content is required")
	}
	if _, err := visibleVideo(ctx, u.videoRepo, userID, videoID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Content: content,
		VideoID: videoID,
		OwnerID: userID,
	}
	if err := u.commentRepo.Create(ctx, comment); err != nil {
		return nil, apperr.Internal("Failed to add comment please try again", err)
	}
	return comment, nil
}

func (u *CommentUsecase) Update(ctx context.Context, userID, commentID uuid.UUID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Content is required")
	}
	comment, err := u.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, "Comment not found")
	}
	if err := requireOwner(comment.OwnerID, userID, "only comment owner can edit their comment"); err != nil {
		return nil, err
	}

	updated, err := u.commentRepo.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, lookupError(err, "Comment not found")
	}
	return updated, nil
}

// Delete removes a comment and every like it received.
func (u *CommentUsecase) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := u.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return lookupError(err, "Comment not found")
	}
	if err := requireOwner(comment.OwnerID, userID, "only comment owner can delete their comment"); err != nil {
		return err
	}

	if _, err := u.likeRepo.DeleteByTarget(ctx, domain.LikeTarget{Kind: domain.LikeComment, ID: commentID}); err != nil {
		return apperr.Internal("Something went wrong while deleting the comment", err)
	}
	if err := u.commentRepo.Delete(ctx, commentID); err != nil {
		return lookupError(err, "Comment not found")
	}
	return nil
}
