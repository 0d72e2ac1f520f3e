package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/backend/internal/domain"
)

type VideoRepository struct {
	db *pgxpool.Pool
}

func NewVideoRepository(db *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, video_file, thumbnail, title, description, duration, views, is_published, owner_id, created_at, updated_at`

// videoWithOwnerColumns expects videos aliased as v and the owner as o.
const videoWithOwnerColumns = `v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views, v.is_published, v.created_at,
	o.id, o.username, o.full_name, o.avatar`

var videoSortColumns = map[string]string{
	domain.VideoSortCreatedAt: "v.created_at",
	domain.VideoSortViews:     "v.views",
	domain.VideoSortDuration:  "v.duration",
	domain.VideoSortTitle:     "v.title",
}

func scanVideo(row pgx.Row) (*domain.Video, error) {
	v := &domain.Video{}
	err := row.Scan(
		&v.ID,
		&v.VideoFile,
		&v.Thumbnail,
		&v.Title,
		&v.Description,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.OwnerID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func scanVideoWithOwner(row pgx.Row) (*domain.VideoWithOwner, error) {
	v := &domain.VideoWithOwner{}
	err := row.Scan(
		&v.ID,
		&v.VideoFile,
		&v.Thumbnail,
		&v.Title,
		&v.Description,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.Owner.ID,
		&v.Owner.Username,
		&v.Owner.FullName,
		&v.Owner.Avatar,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.VideoFile,
		video.Thumbnail,
		video.Title,
		video.Description,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.OwnerID,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return scanVideo(r.db.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
}

func (r *VideoRepository) List(ctx context.Context, filter domain.VideoFilter, page domain.PageRequest) (*domain.Page[*domain.VideoWithOwner], error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	page = page.Normalize()

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != nil {
		where = append(where, "v.owner_id = "+arg(*filter.OwnerID))
	}
	if !(filter.IncludeUnpublished && filter.OwnerID != nil) {
		where = append(where, "v.is_published")
	}
	if filter.Query != "" {
		p := arg("%" + escapeLike(filter.Query) + "%")
		where = append(where, "(v.title ILIKE "+p+" OR v.description ILIKE "+p+")")
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM videos v ` + whereSQL
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}

	sortColumn, ok := videoSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "v.created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		JOIN users o ON o.id = v.owner_id
		%s
		ORDER BY %s %s, v.id
		LIMIT %s OFFSET %s
	`, videoWithOwnerColumns, whereSQL, sortColumn, direction, arg(page.Limit), arg(page.Offset()))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var docs []*domain.VideoWithOwner
	for rows.Next() {
		v, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewPage(docs, total, page), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *VideoRepository) GetDetail(ctx context.Context, id, viewerID uuid.UUID) (*domain.VideoDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views, v.is_published, v.created_at,
			o.id, o.username, o.full_name, o.avatar,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = o.id),
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = o.id AND s.subscriber_id = $2),
			(SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id),
			EXISTS (SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.liked_by = $2)
		FROM videos v
		JOIN users o ON o.id = v.owner_id
		WHERE v.id = $1
	`

	d := &domain.VideoDetail{}
	err := r.db.QueryRow(ctx, query, id, viewerID).Scan(
		&d.ID,
		&d.VideoFile,
		&d.Thumbnail,
		&d.Title,
		&d.Description,
		&d.Duration,
		&d.Views,
		&d.IsPublished,
		&d.CreatedAt,
		&d.Owner.ID,
		&d.Owner.Username,
		&d.Owner.FullName,
		&d.Owner.Avatar,
		&d.Owner.SubscribersCount,
		&d.Owner.IsSubscribed,
		&d.LikesCount,
		&d.IsLiked,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (r *VideoRepository) Update(ctx context.Context, video *domain.Video) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `
		UPDATE videos SET title = $2, description = $3, thumbnail = $4, is_published = $5, updated_at = $6
		WHERE id = $1
	`

	video.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, query, video.ID, video.Title, video.Description, video.Thumbnail, video.IsPublished, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return affectedOne(tag)
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return affectedOne(tag)
}

func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return affectedOne(tag)
}

func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ChannelVideo, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.views, v.is_published,
			(SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id),
			v.created_at
		FROM videos v
		WHERE v.owner_id = $1
		ORDER BY v.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list channel videos: %w", err)
	}
	defer rows.Close()

	var videos []*domain.ChannelVideo
	for rows.Next() {
		v := &domain.ChannelVideo{}
		if err := rows.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Views, &v.IsPublished, &v.LikesCount, &v.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) GetChannelStats(ctx context.Context, ownerID uuid.UUID) (*domain.ChannelStats, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE owner_id = $1),
			(SELECT COALESCE(SUM(views), 0)::bigint FROM videos WHERE owner_id = $1),
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
			(SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.video_id WHERE v.owner_id = $1)
	`
	stats := &domain.ChannelStats{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&stats.TotalVideos, &stats.TotalViews, &stats.TotalSubscribers, &stats.TotalLikes)
	if err != nil {
		return nil, fmt.Errorf("channel stats: %w", err)
	}
	return stats, nil
}
