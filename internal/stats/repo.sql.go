package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Snapshot holds the public content counters.
type Snapshot struct {
	Words  int64 `json:"words"`
	Books  int64 `json:"books"`
	Photos int64 `json:"photos"`
	Songs  int64 `json:"songs"`
	Videos int64 `json:"videos"`
}

// Repository counts content rows.
type Repository interface {
	Counts(ctx context.Context) (Snapshot, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Counts gathers all five counters in parallel.
func (r *PGRepository) Counts(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	count := func(table string, dest *int64) func() error {
		return func() error {
			return r.pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(dest)
		}
	}

	g.Go(count("words", &snap.Words))
	g.Go(count("books", &snap.Books))
	g.Go(count("gallery_images", &snap.Photos))
	g.Go(count("songs", &snap.Songs))
	g.Go(count("videos", &snap.Videos))

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

var _ Repository = (*PGRepository)(nil)
