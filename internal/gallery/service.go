package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns gallery rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all gallery images.
func (s *Service) List(ctx context.Context) ([]Image, error) {
	return s.repo.List(ctx)
}

// Get fetches a single image.
func (s *Service) Get(ctx context.Context, id string) (*Image, error) {
	return s.repo.Get(ctx, id)
}

// Save creates or updates an image. Provenance is set on creation and
// preserved on update.
func (s *Service) Save(ctx context.Context, img Image, addedBy string) (*Image, error) {
	if img.ID == "" {
		img.ID = uuid.NewString()
		img.CreatedAt = time.Now().UTC()
		img.AddedBy = addedBy
	} else {
		existing, err := s.repo.Get(ctx, img.ID)
		if err != nil {
			return nil, err
		}
		img.CreatedAt = existing.CreatedAt
		img.AddedBy = existing.AddedBy
	}
	if err := s.repo.Upsert(ctx, img); err != nil {
		return nil, fmt.Errorf("upsert image: %w", err)
	}
	return &img, nil
}

// Delete removes an image.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
