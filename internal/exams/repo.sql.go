package exams

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists exams and submissions. Question and answer lists
// are stored as JSONB documents next to the scalar columns.
type Repository interface {
	List(ctx context.Context) ([]Exam, error)
	Get(ctx context.Context, id string) (*Exam, error)
	Upsert(ctx context.Context, e Exam) error
	Delete(ctx context.Context, id string) error

	SaveSubmission(ctx context.Context, sub Submission) error
	ListSubmissions(ctx context.Context, examID string) ([]Submission, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const examColumns = `id, title, description, questions, created_by, created_at, time_limit_minutes, difficulty, is_published`

func scanExam(row pgx.Row) (*Exam, error) {
	var e Exam
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Questions, &e.CreatedBy,
		&e.CreatedAt, &e.TimeLimitMinutes, &e.Difficulty, &e.IsPublished)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every exam, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Exam, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+examColumns+` FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Get fetches a single exam by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Exam, error) {
	e, err := scanExam(r.pool.QueryRow(ctx, `SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Upsert inserts or replaces an exam keyed by ID.
func (r *PGRepository) Upsert(ctx context.Context, e Exam) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exams (id, title, description, questions, created_by, created_at, time_limit_minutes, difficulty, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			questions = EXCLUDED.questions,
			time_limit_minutes = EXCLUDED.time_limit_minutes,
			difficulty = EXCLUDED.difficulty,
			is_published = EXCLUDED.is_published`,
		e.ID, e.Title, e.Description, e.Questions, e.CreatedBy, e.CreatedAt,
		e.TimeLimitMinutes, e.Difficulty, e.IsPublished)
	return err
}

// Delete removes an exam and its submissions.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM exam_submissions WHERE exam_id = $1`, id); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

// SaveSubmission records a scored attempt.
func (r *PGRepository) SaveSubmission(ctx context.Context, sub Submission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exam_submissions (id, exam_id, student_id, student_name, answers, submitted_at, score, total_questions, grade)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.ExamID, sub.StudentID, sub.StudentName, sub.Answers,
		sub.SubmittedAt, sub.Score, sub.TotalQuestions, sub.Grade)
	return err
}

// ListSubmissions returns all attempts for one exam, newest first.
func (r *PGRepository) ListSubmissions(ctx context.Context, examID string) ([]Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, exam_id, student_id, student_name, answers, submitted_at, score, total_questions, grade
		FROM exam_submissions WHERE exam_id = $1 ORDER BY submitted_at DESC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		err := rows.Scan(&sub.ID, &sub.ExamID, &sub.StudentID, &sub.StudentName, &sub.Answers,
			&sub.SubmittedAt, &sub.Score, &sub.TotalQuestions, &sub.Grade)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
