package dictionary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Service wraps dictionary business rules.
type Service struct {
	repo   Repository
	folder cases.Caser
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, folder: cases.Fold()}
}

// fold prepares a string for script-insensitive substring matching. Entries
// mix Latin, Assamese and Tai scripts with inconsistent Unicode forms, so
// comparison happens on NFC-normalized, case-folded text.
func (s *Service) fold(v string) string {
	return s.folder.String(norm.NFC.String(v))
}

// Search returns words matching the query substring in any language field,
// optionally restricted to a category. An empty query returns everything.
func (s *Service) Search(ctx context.Context, query, category string) ([]Word, error) {
	words, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	if query == "" && category == "" {
		return words, nil
	}

	needle := s.fold(query)
	matched := make([]Word, 0, len(words))
	for _, w := range words {
		if category != "" && w.Category != category {
			continue
		}
		if needle == "" ||
			strings.Contains(s.fold(w.English), needle) ||
			strings.Contains(s.fold(w.Assamese), needle) ||
			strings.Contains(s.fold(w.TaiKhamyang), needle) {
			matched = append(matched, w)
		}
	}
	return matched, nil
}

// Get fetches a single word.
func (s *Service) Get(ctx context.Context, id string) (*Word, error) {
	return s.repo.Get(ctx, id)
}

// Save creates or updates a word. New entries receive a generated ID and
// timestamp; updates preserve both.
func (s *Service) Save(ctx context.Context, w Word, addedBy string) (*Word, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
		w.CreatedAt = time.Now().UTC()
		w.AddedBy = addedBy
	} else {
		existing, err := s.repo.Get(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		w.CreatedAt = existing.CreatedAt
		w.AddedBy = existing.AddedBy
	}
	if w.Category == "" {
		w.Category = "General"
	}
	if err := s.repo.Upsert(ctx, w); err != nil {
		return nil, fmt.Errorf("upsert word: %w", err)
	}
	return &w, nil
}

// Delete removes a word.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AttachMedia records generated media URLs on a word.
func (s *Service) AttachMedia(ctx context.Context, id, imageURL, audioURL string) error {
	return s.repo.SetMedia(ctx, id, imageURL, audioURL)
}
