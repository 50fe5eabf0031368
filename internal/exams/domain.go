package exams

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the requested exam or submission is absent.
	ErrNotFound = errors.New("exam not found")
	// ErrNotPublished indicates a student tried to sit an unpublished exam.
	ErrNotPublished = errors.New("exam is not published")
	// ErrNotEligible indicates the phone has no approved request with exam
	// access.
	ErrNotEligible = errors.New("student is not eligible for exams")
)

// QuestionType distinguishes free translation answers from multiple choice.
type QuestionType string

const (
	QuestionTranslation QuestionType = "translation"
	QuestionMCQ         QuestionType = "mcq"
)

// Question is a single exam item. Options is populated for MCQ only.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Word          string       `json:"word"`
	CorrectAnswer string       `json:"correctAnswer"`
	Options       []string     `json:"options,omitempty"`
	AudioURL      string       `json:"audioUrl,omitempty"`
}

// Exam is a timed test assembled by the teaching staff.
type Exam struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Questions        []Question `json:"questions"`
	CreatedBy        string     `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"`
	Difficulty       string     `json:"difficulty"`
	IsPublished      bool       `json:"isPublished"`
}

// Answer pairs a question with the student's response.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// Submission is a completed exam attempt with its computed result.
type Submission struct {
	ID             string    `json:"id"`
	ExamID         string    `json:"examId"`
	StudentID      string    `json:"studentId"`
	StudentName    string    `json:"studentName"`
	Answers        []Answer  `json:"answers"`
	SubmittedAt    time.Time `json:"submittedAt"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Grade          string    `json:"grade"`
}
