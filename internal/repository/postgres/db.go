package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videotube/backend/internal/domain"
)

// Per-statement timeouts.
const (
	rowTimeout       = 5 * time.Second
	aggregateTimeout = 10 * time.Second
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// notFound turns pgx.ErrNoRows into domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func affectedOne(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var (
	_ domain.UserRepository         = (*UserRepository)(nil)
	_ domain.VideoRepository        = (*VideoRepository)(nil)
	_ domain.CommentRepository      = (*CommentRepository)(nil)
	_ domain.LikeRepository         = (*LikeRepository)(nil)
	_ domain.TweetRepository        = (*TweetRepository)(nil)
	_ domain.PlaylistRepository     = (*PlaylistRepository)(nil)
	_ domain.SubscriptionRepository = (*SubscriptionRepository)(nil)
)
