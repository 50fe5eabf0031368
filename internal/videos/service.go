package videos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns video catalogue rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all videos.
func (s *Service) List(ctx context.Context) ([]Video, error) {
	return s.repo.List(ctx)
}

// Get fetches a single video.
func (s *Service) Get(ctx context.Context, id string) (*Video, error) {
	return s.repo.Get(ctx, id)
}

// Save creates or updates a video. Provenance is set on creation and
// preserved on update.
func (s *Service) Save(ctx context.Context, v Video, addedBy string) (*Video, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
		v.CreatedAt = time.Now().UTC()
		v.AddedBy = addedBy
	} else {
		existing, err := s.repo.Get(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		v.CreatedAt = existing.CreatedAt
		v.AddedBy = existing.AddedBy
	}
	if err := s.repo.Upsert(ctx, v); err != nil {
		return nil, fmt.Errorf("upsert video: %w", err)
	}
	return &v, nil
}

// Delete removes a video.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
