package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/backend/internal/domain"
)

type LikeRepository struct {
	db *pgxpool.Pool
}

func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

var likeTargetColumns = map[domain.LikeKind]string{
	domain.LikeVideo:   "video_id",
	domain.LikeComment: "comment_id",
	domain.LikeTweet:   "tweet_id",
}

func targetColumn(target domain.LikeTarget) (string, error) {
	column, ok := likeTargetColumns[target.Kind]
	if !ok {
		return "", fmt.Errorf("unknown like target %q", target.Kind)
	}
	return column, nil
}

func (r *LikeRepository) Find(ctx context.Context, target domain.LikeTarget, userID uuid.UUID) (*domain.Like, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	column, err := targetColumn(target)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, video_id, comment_id, tweet_id, liked_by, created_at FROM likes WHERE ` + column + ` = $1 AND liked_by = $2`
	like := &domain.Like{}
	err = r.db.QueryRow(ctx, query, target.ID, userID).Scan(
		&like.ID, &like.VideoID, &like.CommentID, &like.TweetID, &like.LikedBy, &like.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return like, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	like.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx,
		`INSERT INTO likes (id, video_id, comment_id, tweet_id, liked_by, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		like.ID, like.VideoID, like.CommentID, like.TweetID, like.LikedBy, like.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return affectedOne(tag)
}

func (r *LikeRepository) CountByTarget(ctx context.Context, target domain.LikeTarget) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	column, err := targetColumn(target)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE `+column+` = $1`, target.ID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

func (r *LikeRepository) DeleteByTarget(ctx context.Context, target domain.LikeTarget) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	column, err := targetColumn(target)
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE `+column+` = $1`, target.ID)
	if err != nil {
		return 0, fmt.Errorf("delete likes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *LikeRepository) DeleteByComments(ctx context.Context, commentIDs []uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	if len(commentIDs) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE comment_id = ANY($1)`, commentIDs)
	if err != nil {
		return 0, fmt.Errorf("delete comment likes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]*domain.LikedVideo, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT l.created_at, ` + videoWithOwnerColumns + `
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE l.liked_by = $1 AND v.is_published
		ORDER BY l.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked videos: %w", err)
	}
	defer rows.Close()

	var out []*domain.LikedVideo
	for rows.Next() {
		lv := &domain.LikedVideo{}
		v := &lv.LikedVideo
		err := rows.Scan(
			&lv.LikedAt,
			&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt,
			&v.Owner.ID, &v.Owner.Username, &v.Owner.FullName, &v.Owner.Avatar,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, lv)
	}
	return out, rows.Err()
}
