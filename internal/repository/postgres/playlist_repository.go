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

type PlaylistRepository struct {
	db *pgxpool.Pool
}

func NewPlaylistRepository(db *pgxpool.Pool) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistQuery = `
	SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		COALESCE(ARRAY(SELECT pv.video_id FROM playlist_videos pv WHERE pv.playlist_id = p.id ORDER BY pv.added_at), '{}')
	FROM playlists p
	WHERE p.id = $1
`

func scanPlaylist(row pgx.Row) (*domain.Playlist, error) {
	p := &domain.Playlist{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.Videos); err != nil {
		return nil, notFound(err)
	}
	if p.Videos == nil {
		p.Videos = []uuid.UUID{}
	}
	return p, nil
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	now := time.Now()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []uuid.UUID{}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO playlists (id, name, description, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		playlist.ID, playlist.Name, playlist.Description, playlist.OwnerID, playlist.CreatedAt, playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return scanPlaylist(r.db.QueryRow(ctx, playlistQuery, id))
}

func (r *PlaylistRepository) Update(ctx context.Context, id uuid.UUID, name, description string) (*domain.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE playlists SET name = $2, description = $3, updated_at = NOW() WHERE id = $1`, id, name, description)
	if err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	if err := affectedOne(tag); err != nil {
		return nil, err
	}
	return scanPlaylist(r.db.QueryRow(ctx, playlistQuery, id))
}

func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return affectedOne(tag)
}

// changeVideos runs stmt inside a transaction that also bumps the playlist's
// updated_at, and returns the playlist as committed.
func (r *PlaylistRepository) changeVideos(ctx context.Context, playlistID, videoID uuid.UUID, stmt string) (*domain.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var playlist *domain.Playlist
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE playlists SET updated_at = NOW() WHERE id = $1`, playlistID)
		if err != nil {
			return err
		}
		if err := affectedOne(tag); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, stmt, playlistID, videoID); err != nil {
			return err
		}
		playlist, err = scanPlaylist(tx.QueryRow(ctx, playlistQuery, playlistID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*domain.Playlist, error) {
	return r.changeVideos(ctx, playlistID, videoID,
		`INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2) ON CONFLICT (playlist_id, video_id) DO NOTHING`)
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*domain.Playlist, error) {
	return r.changeVideos(ctx, playlistID, videoID,
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`)
}

func (r *PlaylistRepository) RemoveVideoFromAll(ctx context.Context, videoID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, `DELETE FROM playlist_videos WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("remove video from playlists: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.PlaylistSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	query := `
		SELECT p.id, p.name, p.description, p.updated_at,
			COUNT(v.id), COALESCE(SUM(v.views), 0)::bigint
		FROM playlists p
		LEFT JOIN playlist_videos pv ON pv.playlist_id = p.id
		LEFT JOIN videos v ON v.id = pv.video_id
		WHERE p.owner_id = $1
		GROUP BY p.id
		ORDER BY p.updated_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var out []*domain.PlaylistSummary
	for rows.Next() {
		s := &domain.PlaylistSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.UpdatedAt, &s.TotalVideos, &s.TotalViews); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PlaylistRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.PlaylistDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	d := &domain.PlaylistDetail{Videos: []*domain.PlaylistVideo{}}
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.name, p.description, p.created_at, p.updated_at,
			o.id, o.username, o.full_name, o.avatar
		FROM playlists p
		JOIN users o ON o.id = p.owner_id
		WHERE p.id = $1
	`, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt,
		&d.Owner.ID, &d.Owner.Username, &d.Owner.FullName, &d.Owner.Avatar,
	)
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views, v.created_at
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = $1 AND v.is_published
		ORDER BY pv.added_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("playlist videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v := &domain.PlaylistVideo{}
		if err := rows.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration, &v.Views, &v.CreatedAt); err != nil {
			return nil, err
		}
		d.Videos = append(d.Videos, v)
		d.TotalVideos++
		d.TotalViews += v.Views
	}
	return d, rows.Err()
}
