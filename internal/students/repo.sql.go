package students

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists student access requests.
type Repository interface {
	List(ctx context.Context) ([]Request, error)
	Get(ctx context.Context, id string) (*Request, error)
	Upsert(ctx context.Context, req Request) error
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

const requestColumns = `id, name, phone, password, email, address, photo_url, status, requested_at, can_access_exam`

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.Name, &req.Phone, &req.Password, &req.Email, &req.Address,
		&req.PhotoURL, &req.Status, &req.RequestedAt, &req.CanAccessExam)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns every request, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+requestColumns+` FROM student_requests ORDER BY requested_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

// Get fetches a single request by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Request, error) {
	req, err := scanRequest(r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM student_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// Upsert inserts or replaces a request keyed by ID.
func (r *PGRepository) Upsert(ctx context.Context, req Request) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO student_requests (id, name, phone, password, email, address, photo_url, status, requested_at, can_access_exam)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			password = EXCLUDED.password,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			photo_url = EXCLUDED.photo_url,
			status = EXCLUDED.status,
			can_access_exam = EXCLUDED.can_access_exam`,
		req.ID, req.Name, req.Phone, req.Password, req.Email, req.Address,
		req.PhotoURL, req.Status, req.RequestedAt, req.CanAccessExam)
	return err
}

// Delete removes a request, a no-op when absent.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM student_requests WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
