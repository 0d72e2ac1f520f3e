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

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, full_name, avatar, cover_image, password_hash, refresh_token_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `
		INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash, refresh_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.CoverImage,
		user.PasswordHash,
		user.RefreshTokenHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `
		UPDATE users SET full_name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, fullName, email))
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicate
	}
	return user, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return affectedOne(tag)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `UPDATE users SET avatar = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, url))
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `UPDATE users SET cover_image = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, url))
}

func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE users SET refresh_token_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	return affectedOne(tag)
}

func (r *UserRepository) RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $3 WHERE id = $1 AND refresh_token_hash = $2 AND refresh_token_hash <> ''`,
		id, oldHash, newHash,
	)
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*domain.ChannelProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT u.id, u.username, u.email, u.full_name, u.avatar, u.cover_image, u.created_at,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
		FROM users u
		WHERE u.username = $1
	`

	p := &domain.ChannelProfile{}
	err := r.db.QueryRow(ctx, query, username, viewerID).Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.FullName,
		&p.Avatar,
		&p.CoverImage,
		&p.CreatedAt,
		&p.SubscribersCount,
		&p.ChannelsSubscribedToCount,
		&p.IsSubscribed,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *UserRepository) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
	`
	if _, err := r.db.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("add watch history: %w", err)
	}
	return nil
}

func (r *UserRepository) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*domain.VideoWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT ` + videoWithOwnerColumns + `
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var videos []*domain.VideoWithOwner
	for rows.Next() {
		v, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
