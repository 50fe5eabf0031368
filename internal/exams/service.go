package exams

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taihub/taihub/internal/students"
)

// AccessChecker answers whether a phone number belongs to an approved
// student with exam access.
type AccessChecker interface {
	ExamEligible(ctx context.Context, phone string) (bool, *students.Request, error)
}

// Service owns exam authoring, publication and scoring.
type Service struct {
	repo   Repository
	access AccessChecker
}

// NewService constructs a Service.
func NewService(repo Repository, access AccessChecker) *Service {
	return &Service{repo: repo, access: access}
}

// List returns every exam, drafts included.
func (s *Service) List(ctx context.Context) ([]Exam, error) {
	return s.repo.List(ctx)
}

// Get fetches a single exam with its answer key.
func (s *Service) Get(ctx context.Context, id string) (*Exam, error) {
	return s.repo.Get(ctx, id)
}

// Save creates or updates an exam. Question IDs are assigned where
// missing so answers can reference them.
func (s *Service) Save(ctx context.Context, e Exam, createdBy string) (*Exam, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
		e.CreatedAt = time.Now().UTC()
		e.CreatedBy = createdBy
	} else {
		existing, err := s.repo.Get(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.CreatedAt = existing.CreatedAt
		e.CreatedBy = existing.CreatedBy
	}
	for i := range e.Questions {
		if e.Questions[i].ID == "" {
			e.Questions[i].ID = uuid.NewString()
		}
	}
	if err := s.repo.Upsert(ctx, e); err != nil {
		return nil, fmt.Errorf("upsert exam: %w", err)
	}
	return &e, nil
}

// SetPublished flips the publication flag.
func (s *Service) SetPublished(ctx context.Context, id string, published bool) (*Exam, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e.IsPublished = published
	if err := s.repo.Upsert(ctx, *e); err != nil {
		return nil, fmt.Errorf("publish exam: %w", err)
	}
	return e, nil
}

// Delete removes an exam together with its submissions.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Paper returns the student-facing view of a published exam: eligibility
// is checked by phone and the answer key is stripped.
func (s *Service) Paper(ctx context.Context, examID, phone string) (*Exam, error) {
	eligible, _, err := s.access.ExamEligible(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	e, err := s.repo.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !e.IsPublished {
		return nil, ErrNotPublished
	}

	redacted := *e
	redacted.Questions = make([]Question, len(e.Questions))
	for i, q := range e.Questions {
		q.CorrectAnswer = ""
		redacted.Questions[i] = q
	}
	return &redacted, nil
}

// Submit scores an eligible student's answers against the exam's key and
// records the attempt.
func (s *Service) Submit(ctx context.Context, examID, phone string, answers []Answer) (*Submission, error) {
	eligible, student, err := s.access.ExamEligible(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	e, err := s.repo.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !e.IsPublished {
		return nil, ErrNotPublished
	}

	score := scoreAnswers(e.Questions, answers)
	sub := Submission{
		ID:             uuid.NewString(),
		ExamID:         e.ID,
		StudentID:      student.ID,
		StudentName:    student.Name,
		Answers:        answers,
		SubmittedAt:    time.Now().UTC(),
		Score:          score,
		TotalQuestions: len(e.Questions),
		Grade:          gradeFor(score, len(e.Questions)),
	}
	if err := s.repo.SaveSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	return &sub, nil
}

// Submissions lists recorded attempts for one exam.
func (s *Service) Submissions(ctx context.Context, examID string) ([]Submission, error) {
	if _, err := s.repo.Get(ctx, examID); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissions(ctx, examID)
}

// scoreAnswers counts exact matches against the key. Comparison ignores
// surrounding whitespace and letter case; a question answered twice
// counts once.
func scoreAnswers(questions []Question, answers []Answer) int {
	byQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, seen := byQuestion[a.QuestionID]; !seen {
			byQuestion[a.QuestionID] = a.Answer
		}
	}

	score := 0
	for _, q := range questions {
		given, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(q.CorrectAnswer)) {
			score++
		}
	}
	return score
}

// gradeFor maps a score fraction onto a letter grade.
func gradeFor(score, total int) string {
	if total == 0 {
		return "N/A"
	}
	pct := float64(score) / float64(total) * 100
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 75:
		return "A"
	case pct >= 60:
		return "B"
	case pct >= 40:
		return "C"
	default:
		return "D"
	}
}
