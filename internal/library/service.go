package library

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns book shelving rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all shelved books.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// Get fetches a single book.
func (s *Service) Get(ctx context.Context, id string) (*Book, error) {
	return s.repo.Get(ctx, id)
}

// Save creates or updates a book. Provenance is set on creation and
// preserved on update.
func (s *Service) Save(ctx context.Context, b Book, addedBy string) (*Book, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
		b.CreatedAt = time.Now().UTC()
		b.AddedBy = addedBy
	} else {
		existing, err := s.repo.Get(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.CreatedAt = existing.CreatedAt
		b.AddedBy = existing.AddedBy
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, fmt.Errorf("upsert book: %w", err)
	}
	return &b, nil
}

// Delete removes a book.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
