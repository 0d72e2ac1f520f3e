package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/backend/internal/domain"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, content, video_id, owner_id, created_at, updated_at`

func scanComment(row pgx.Row) (*domain.Comment, error) {
	c := &domain.Comment{}
	if err := row.Scan(&c.ID, &c.Content, &c.VideoID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO comments (`+commentColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.Content, comment.VideoID, comment.OwnerID, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + commentColumns
	return scanComment(r.db.QueryRow(ctx, query, id, content))
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return affectedOne(tag)
}

func (r *CommentRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `DELETE FROM comments WHERE video_id = $1 RETURNING id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("delete video comments: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("delete video comments: %w", err)
	}
	return ids, nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID, viewerID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.CommentView], error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	page = page.Normalize()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	query := `
		SELECT c.id, c.content, c.created_at,
			(SELECT COUNT(*) FROM likes l WHERE l.comment_id = c.id),
			EXISTS (SELECT 1 FROM likes l WHERE l.comment_id = c.id AND l.liked_by = $2),
			o.id, o.username, o.full_name, o.avatar
		FROM comments c
		JOIN users o ON o.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, videoID, viewerID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var docs []*domain.CommentView
	for rows.Next() {
		c := &domain.CommentView{}
		err := rows.Scan(
			&c.ID, &c.Content, &c.CreatedAt, &c.LikesCount, &c.IsLiked,
			&c.Owner.ID, &c.Owner.Username, &c.Owner.FullName, &c.Owner.Avatar,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewPage(docs, total, page), nil
}
