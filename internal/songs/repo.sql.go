package songs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists songs.
type Repository interface {
	List(ctx context.Context) ([]Song, error)
	Get(ctx context.Context, id string) (*Song, error)
	Upsert(ctx context.Context, s Song) error
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

// List returns every song, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Song, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, artist, audio_url, added_by, created_at
		FROM songs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Song
	for rows.Next() {
		var s Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.AudioURL, &s.AddedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches a single song by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Song, error) {
	var s Song
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, artist, audio_url, added_by, created_at
		FROM songs WHERE id = $1`, id).
		Scan(&s.ID, &s.Title, &s.Artist, &s.AudioURL, &s.AddedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Upsert inserts or replaces a song keyed by ID.
func (r *PGRepository) Upsert(ctx context.Context, s Song) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO songs (id, title, artist, audio_url, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			artist = EXCLUDED.artist,
			audio_url = EXCLUDED.audio_url`,
		s.ID, s.Title, s.Artist, s.AudioURL, s.AddedBy, s.CreatedAt)
	return err
}

// Delete removes a song, a no-op when absent.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
