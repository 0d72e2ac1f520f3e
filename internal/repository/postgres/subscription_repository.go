package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/backend/internal/domain"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Find(ctx context.Context, subscriberID, channelID uuid.UUID) (*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	s := &domain.Subscription{}
	err := r.db.QueryRow(ctx,
		`SELECT id, subscriber_id, channel_id, created_at FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID,
	).Scan(&s.ID, &s.SubscriberID, &s.ChannelID, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx,
		`INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at) VALUES ($1, $2, $3, $4)`,
		sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return affectedOne(tag)
}

func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar,
			(SELECT COUNT(*) FROM subscriptions x WHERE x.channel_id = u.id),
			s.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Subscriber
	for rows.Next() {
		s := &domain.Subscriber{}
		if err := rows.Scan(&s.ID, &s.Username, &s.FullName, &s.Avatar, &s.SubscribersCount, &s.SubscribedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]*domain.SubscribedChannel, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar, s.created_at,
			lv.id, lv.video_file, lv.thumbnail, lv.title, lv.description, lv.duration, lv.views, lv.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		LEFT JOIN LATERAL (
			SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views, v.created_at
			FROM videos v
			WHERE v.owner_id = u.id AND v.is_published
			ORDER BY v.created_at DESC
			LIMIT 1
		) lv ON TRUE
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscribed channels: %w", err)
	}
	defer rows.Close()

	var out []*domain.SubscribedChannel
	for rows.Next() {
		c := &domain.SubscribedChannel{}
		var (
			videoID                           *uuid.UUID
			videoFile, thumbnail, title, desc *string
			duration                          *float64
			views                             *int64
			createdAt                         *time.Time
		)
		err := rows.Scan(
			&c.ID, &c.Username, &c.FullName, &c.Avatar, &c.SubscribedAt,
			&videoID, &videoFile, &thumbnail, &title, &desc, &duration, &views, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		if videoID != nil {
			c.LatestVideo = &domain.PlaylistVideo{
				ID:          *videoID,
				VideoFile:   *videoFile,
				Thumbnail:   *thumbnail,
				Title:       *title,
				Description: *desc,
				Duration:    *duration,
				Views:       *views,
				CreatedAt:   *createdAt,
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
