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

type TweetRepository struct {
	db *pgxpool.Pool
}

func NewTweetRepository(db *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{db: db}
}

const tweetColumns = `id, content, owner_id, created_at, updated_at`

func scanTweet(row pgx.Row) (*domain.Tweet, error) {
	t := &domain.Tweet{}
	if err := row.Scan(&t.ID, &t.Content, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if tweet.ID == uuid.Nil {
		tweet.ID = uuid.New()
	}
	now := time.Now()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO tweets (`+tweetColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		tweet.ID, tweet.Content, tweet.OwnerID, tweet.CreatedAt, tweet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tweet, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return scanTweet(r.db.QueryRow(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE id = $1`, id))
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*domain.Tweet, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `UPDATE tweets SET content = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + tweetColumns
	return scanTweet(r.db.QueryRow(ctx, query, id, content))
}

func (r *TweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	return affectedOne(tag)
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID, viewerID uuid.UUID) ([]*domain.TweetView, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT t.id, t.content, t.created_at,
			o.id, o.username, o.avatar,
			(SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id),
			EXISTS (SELECT 1 FROM likes l WHERE l.tweet_id = t.id AND l.liked_by = $2)
		FROM tweets t
		JOIN users o ON o.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	defer rows.Close()

	var out []*domain.TweetView
	for rows.Next() {
		t := &domain.TweetView{}
		err := rows.Scan(
			&t.ID, &t.Content, &t.CreatedAt,
			&t.OwnerDetails.ID, &t.OwnerDetails.Username, &t.OwnerDetails.Avatar,
			&t.LikesCount, &t.IsLiked,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
