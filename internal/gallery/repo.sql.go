package gallery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists gallery images.
type Repository interface {
	List(ctx context.Context) ([]Image, error)
	Get(ctx context.Context, id string) (*Image, error)
	Upsert(ctx context.Context, img Image) error
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

// List returns every image, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Image, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, url, caption, added_by, created_at
		FROM gallery_images ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.URL, &img.Caption, &img.AddedBy, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// Get fetches a single image by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Image, error) {
	var img Image
	err := r.pool.QueryRow(ctx, `
		SELECT id, url, caption, added_by, created_at
		FROM gallery_images WHERE id = $1`, id).
		Scan(&img.ID, &img.URL, &img.Caption, &img.AddedBy, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

// Upsert inserts or replaces an image keyed by ID.
func (r *PGRepository) Upsert(ctx context.Context, img Image) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO gallery_images (id, url, caption, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			caption = EXCLUDED.caption`,
		img.ID, img.URL, img.Caption, img.AddedBy, img.CreatedAt)
	return err
}

// Delete removes an image, a no-op when absent.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
