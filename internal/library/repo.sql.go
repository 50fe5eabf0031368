package library

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists books.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id string) (*Book, error)
	Upsert(ctx context.Context, b Book) error
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

const bookColumns = `id, title, author, description, pdf_url, added_by, created_at`

func scanBook(row pgx.Row) (*Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.PDFURL, &b.AddedBy, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns every book, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// Get fetches a single book by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Upsert inserts or replaces a book keyed by ID.
func (r *PGRepository) Upsert(ctx context.Context, b Book) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO books (id, title, author, description, pdf_url, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			description = EXCLUDED.description,
			pdf_url = EXCLUDED.pdf_url`,
		b.ID, b.Title, b.Author, b.Description, b.PDFURL, b.AddedBy, b.CreatedAt)
	return err
}

// Delete removes a book, a no-op when absent.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
