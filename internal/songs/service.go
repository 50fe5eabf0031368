package songs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns song archive rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all songs.
func (s *Service) List(ctx context.Context) ([]Song, error) {
	return s.repo.List(ctx)
}

// Get fetches a single song.
func (s *Service) Get(ctx context.Context, id string) (*Song, error) {
	return s.repo.Get(ctx, id)
}

// Save creates or updates a song. Provenance is set on creation and
// preserved on update.
func (s *Service) Save(ctx context.Context, song Song, addedBy string) (*Song, error) {
	if song.ID == "" {
		song.ID = uuid.NewString()
		song.CreatedAt = time.Now().UTC()
		song.AddedBy = addedBy
	} else {
		existing, err := s.repo.Get(ctx, song.ID)
		if err != nil {
			return nil, err
		}
		song.CreatedAt = existing.CreatedAt
		song.AddedBy = existing.AddedBy
	}
	if err := s.repo.Upsert(ctx, song); err != nil {
		return nil, fmt.Errorf("upsert song: %w", err)
	}
	return &song, nil
}

// Delete removes a song.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
