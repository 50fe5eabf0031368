package videos

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists videos.
type Repository interface {
	List(ctx context.Context) ([]Video, error)
	Get(ctx context.Context, id string) (*Video, error)
	Upsert(ctx context.Context, v Video) error
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns every video, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Video, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, youtube_url, added_by, created_at
		FROM videos ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.Title, &v.YouTubeURL, &v.AddedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Get fetches a single video by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Video, error) {
	var v Video
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, youtube_url, added_by, created_at
		FROM videos WHERE id = $1`, id).
		Scan(&v.ID, &v.Title, &v.YouTubeURL, &v.AddedBy, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Upsert inserts or replaces a video keyed by ID.
func (r *PGRepository) Upsert(ctx context.Context, v Video) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO videos (id, title, youtube_url, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			youtube_url = EXCLUDED.youtube_url`,
		v.ID, v.Title, v.YouTubeURL, v.AddedBy, v.CreatedAt)
	return err
}

// Delete removes a video, a no-op when absent.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
