package exams

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taihub/taihub/internal/students"
)

type memRepo struct {
	exams       map[string]Exam
	submissions []Submission
}

func newMemRepo() *memRepo {
	return &memRepo{exams: make(map[string]Exam)}
}

func (m *memRepo) List(ctx context.Context) ([]Exam, error) {
	out := make([]Exam, 0, len(m.exams))
	for _, e := range m.exams {
		out = append(out, e)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Exam, error) {
	e, ok := m.exams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *memRepo) Upsert(ctx context.Context, e Exam) error {
	m.exams[e.ID] = e
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.exams, id)
	return nil
}

func (m *memRepo) SaveSubmission(ctx context.Context, sub Submission) error {
	m.submissions = append(m.submissions, sub)
	return nil
}

func (m *memRepo) ListSubmissions(ctx context.Context, examID string) ([]Submission, error) {
	var out []Submission
	for _, sub := range m.submissions {
		if sub.ExamID == examID {
			out = append(out, sub)
		}
	}
	return out, nil
}

type stubAccess struct {
	eligible bool
	student  students.Request
}

func (s *stubAccess) ExamEligible(ctx context.Context, phone string) (bool, *students.Request, error) {
	st := s.student
	return s.eligible, &st, nil
}

func fixtureExam(t *testing.T, svc *Service, published bool) *Exam {
	t.Helper()
	e, err := svc.Save(context.Background(), Exam{
		Title:            "Basics I",
		TimeLimitMinutes: 30,
		Difficulty:       "Beginner",
		IsPublished:      published,
		Questions: []Question{
			{Type: QuestionTranslation, Word: "Water", CorrectAnswer: "Nam"},
			{Type: QuestionMCQ, Word: "Fire", CorrectAnswer: "Fai", Options: []string{"Fai", "Nam", "Din"}},
			{Type: QuestionTranslation, Word: "Moon", CorrectAnswer: "Luen"},
		},
	}, "Mina")
	require.NoError(t, err)
	return e
}

func TestSaveAssignsQuestionIDs(t *testing.T) {
	svc := NewService(newMemRepo(), &stubAccess{})
	e := fixtureExam(t, svc, false)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Mina", e.CreatedBy)
	for _, q := range e.Questions {
		assert.NotEmpty(t, q.ID)
	}
}

func TestScoringExactMatch(t *testing.T) {
	access := &stubAccess{eligible: true, student: students.Request{ID: "stu-1", Name: "Nang"}}
	svc := NewService(newMemRepo(), access)
	e := fixtureExam(t, svc, true)

	sub, err := svc.Submit(context.Background(), e.ID, "9876543210", []Answer{
		{QuestionID: e.Questions[0].ID, Answer: "  nam "}, // case and whitespace ignored
		{QuestionID: e.Questions[1].ID, Answer: "Din"},    // wrong
		{QuestionID: e.Questions[2].ID, Answer: "Luen"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Score)
	assert.Equal(t, 3, sub.TotalQuestions)
	assert.Equal(t, "B", sub.Grade)
	assert.Equal(t, "Nang", sub.StudentName)

	subs, err := svc.Submissions(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestDuplicateAnswersCountOnce(t *testing.T) {
	access := &stubAccess{eligible: true, student: students.Request{ID: "stu-1", Name: "Nang"}}
	svc := NewService(newMemRepo(), access)
	e := fixtureExam(t, svc, true)

	sub, err := svc.Submit(context.Background(), e.ID, "9876543210", []Answer{
		{QuestionID: e.Questions[0].ID, Answer: "wrong"},
		{QuestionID: e.Questions[0].ID, Answer: "Nam"}, // later duplicate ignored
	})
	require.NoError(t, err)
	assert.Equal(t, 0, sub.Score)
}

func TestSubmitRequiresEligibilityAndPublication(t *testing.T) {
	repo := newMemRepo()
	access := &stubAccess{eligible: false}
	svc := NewService(repo, access)
	draft := fixtureExam(t, svc, false)

	_, err := svc.Submit(context.Background(), draft.ID, "9876543210", []Answer{{QuestionID: "q", Answer: "a"}})
	assert.ErrorIs(t, err, ErrNotEligible)

	access.eligible = true
	_, err = svc.Submit(context.Background(), draft.ID, "9876543210", []Answer{{QuestionID: "q", Answer: "a"}})
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = svc.SetPublished(context.Background(), draft.ID, true)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), draft.ID, "9876543210", []Answer{{QuestionID: "q", Answer: "a"}})
	assert.NoError(t, err)
}

func TestPaperStripsAnswerKey(t *testing.T) {
	access := &stubAccess{eligible: true, student: students.Request{ID: "stu-1", Name: "Nang"}}
	svc := NewService(newMemRepo(), access)
	e := fixtureExam(t, svc, true)

	paper, err := svc.Paper(context.Background(), e.ID, "9876543210")
	require.NoError(t, err)
	require.Len(t, paper.Questions, 3)
	for _, q := range paper.Questions {
		assert.Empty(t, q.CorrectAnswer)
	}

	// The stored exam keeps its key.
	stored, err := svc.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nam", stored.Questions[0].CorrectAnswer)
}

func TestGradeBands(t *testing.T) {
	assert.Equal(t, "A+", gradeFor(9, 10))
	assert.Equal(t, "A", gradeFor(8, 10))
	assert.Equal(t, "B", gradeFor(6, 10))
	assert.Equal(t, "C", gradeFor(4, 10))
	assert.Equal(t, "D", gradeFor(1, 10))
	assert.Equal(t, "N/A", gradeFor(0, 0))
}
