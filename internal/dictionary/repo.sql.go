package dictionary

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

const wordColumns = `id, english, assamese, tai_khamyang, additional_lang, pronunciation,
	example_sentence, sentence_meaning, category, added_by, image_url, audio_url, offline_ready, created_at`

func scanWord(row pgx.Row) (*Word, error) {
	var w Word
	err := row.Scan(
		&w.ID, &w.English, &w.Assamese, &w.TaiKhamyang, &w.AdditionalLang, &w.Pronunciation,
		&w.ExampleSentence, &w.SentenceMeaning, &w.Category, &w.AddedBy, &w.ImageURL, &w.AudioURL,
		&w.OfflineReady, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns every word, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Word, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+wordColumns+` FROM words ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, *w)
	}
	return words, rows.Err()
}

// Get fetches a single word by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Word, error) {
	w, err := scanWord(r.pool.QueryRow(ctx, `SELECT `+wordColumns+` FROM words WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

// Upsert inserts or replaces a word keyed by ID.
func (r *PGRepository) Upsert(ctx context.Context, w Word) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO words (id, english, assamese, tai_khamyang, additional_lang, pronunciation,
			example_sentence, sentence_meaning, category, added_by, image_url, audio_url, offline_ready, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			english = EXCLUDED.english,
			assamese = EXCLUDED.assamese,
			tai_khamyang = EXCLUDED.tai_khamyang,
			additional_lang = EXCLUDED.additional_lang,
			pronunciation = EXCLUDED.pronunciation,
			example_sentence = EXCLUDED.example_sentence,
			sentence_meaning = EXCLUDED.sentence_meaning,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			audio_url = EXCLUDED.audio_url,
			offline_ready = EXCLUDED.offline_ready`,
		w.ID, w.English, w.Assamese, w.TaiKhamyang, w.AdditionalLang, w.Pronunciation,
		w.ExampleSentence, w.SentenceMeaning, w.Category, w.AddedBy, w.ImageURL, w.AudioURL,
		w.OfflineReady, w.CreatedAt)
	return err
}

// Delete removes a word, a no-op when absent.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM words WHERE id = $1`, id)
	return err
}

// SetMedia updates generated media URLs without touching the entry itself.
// Empty arguments leave the corresponding column unchanged.
func (r *PGRepository) SetMedia(ctx context.Context, id, imageURL, audioURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE words SET
			image_url = COALESCE(NULLIF($2, ''), image_url),
			audio_url = COALESCE(NULLIF($3, ''), audio_url)
		WHERE id = $1`, id, imageURL, audioURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
