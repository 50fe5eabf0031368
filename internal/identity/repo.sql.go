package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FetchOwnerCredential loads the singleton owner row, nil when absent.
func (r *PGRepository) FetchOwnerCredential(ctx context.Context) (*OwnerCredential, error) {
	var cred OwnerCredential
	err := r.pool.QueryRow(ctx, `SELECT phone, password, name FROM owner_credential WHERE id = 1`).
		Scan(&cred.Phone, &cred.Password, &cred.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// SaveOwnerCredential inserts or replaces the singleton owner row.
func (r *PGRepository) SaveOwnerCredential(ctx context.Context, cred OwnerCredential) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO owner_credential (id, phone, password, name, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET phone = EXCLUDED.phone, password = EXCLUDED.password, name = EXCLUDED.name, updated_at = NOW()`,
		cred.Phone, cred.Password, cred.Name)
	return err
}

// FetchAllStaff returns every staff record.
func (r *PGRepository) FetchAllStaff(ctx context.Context) ([]StaffRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT phone, password, name,
		       perm_dictionary, perm_library, perm_gallery, perm_songs, perm_videos, perm_exams
		FROM staff_records ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []StaffRecord
	for rows.Next() {
		var rec StaffRecord
		if err := rows.Scan(
			&rec.Phone, &rec.Password, &rec.Name,
			&rec.Permissions.Dictionary, &rec.Permissions.Library, &rec.Permissions.Gallery,
			&rec.Permissions.Songs, &rec.Permissions.Videos, &rec.Permissions.Exams,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveStaffRecord upserts a staff record keyed by phone.
func (r *PGRepository) SaveStaffRecord(ctx context.Context, rec StaffRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_records (phone, password, name, perm_dictionary, perm_library, perm_gallery, perm_songs, perm_videos, perm_exams, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (phone) DO UPDATE SET
			password = EXCLUDED.password,
			name = EXCLUDED.name,
			perm_dictionary = EXCLUDED.perm_dictionary,
			perm_library = EXCLUDED.perm_library,
			perm_gallery = EXCLUDED.perm_gallery,
			perm_songs = EXCLUDED.perm_songs,
			perm_videos = EXCLUDED.perm_videos,
			perm_exams = EXCLUDED.perm_exams,
			updated_at = NOW()`,
		rec.Phone, rec.Password, rec.Name,
		rec.Permissions.Dictionary, rec.Permissions.Library, rec.Permissions.Gallery,
		rec.Permissions.Songs, rec.Permissions.Videos, rec.Permissions.Exams)
	return err
}

// DeleteStaffRecord removes a staff record, a no-op when absent.
func (r *PGRepository) DeleteStaffRecord(ctx context.Context, phone string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM staff_records WHERE phone = $1`, phone)
	return err
}

var _ Repository = (*PGRepository)(nil)
