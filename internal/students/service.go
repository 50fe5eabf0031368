package students

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taihub/taihub/internal/identity"
)

// Service owns the admission workflow.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit files a new access request in pending state.
func (s *Service) Submit(ctx context.Context, req Request) (*Request, error) {
	req.ID = uuid.NewString()
	req.Phone = identity.NormalizePhone(req.Phone)
	req.Status = StatusPending
	req.RequestedAt = time.Now().UTC()
	req.CanAccessExam = false
	if err := s.repo.Upsert(ctx, req); err != nil {
		return nil, fmt.Errorf("submit request: %w", err)
	}
	return &req, nil
}

// List returns every request for review.
func (s *Service) List(ctx context.Context) ([]Request, error) {
	return s.repo.List(ctx)
}

// StatusByPhone locates an applicant's request by phone suffix, the same
// rule used at login. Returns ErrNotFound when no request matches.
func (s *Service) StatusByPhone(ctx context.Context, phone string) (*Request, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if identity.PhonesMatch(all[i].Phone, phone) {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// Review records an approve or reject decision.
func (s *Service) Review(ctx context.Context, id string, status Status) (*Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, fmt.Errorf("invalid review status %q", status)
	}
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Status = status
	if status == StatusRejected {
		req.CanAccessExam = false
	}
	if err := s.repo.Upsert(ctx, *req); err != nil {
		return nil, fmt.Errorf("review request: %w", err)
	}
	return req, nil
}

// SetExamAccess toggles the exam gate for an approved student. Requests
// that are not approved cannot be granted access.
func (s *Service) SetExamAccess(ctx context.Context, id string, allowed bool) (*Request, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if allowed && req.Status != StatusApproved {
		return nil, fmt.Errorf("request %s is not approved", id)
	}
	req.CanAccessExam = allowed
	if err := s.repo.Upsert(ctx, *req); err != nil {
		return nil, fmt.Errorf("set exam access: %w", err)
	}
	return req, nil
}

// ExamEligible reports whether the phone belongs to an approved student
// with exam access.
func (s *Service) ExamEligible(ctx context.Context, phone string) (bool, *Request, error) {
	req, err := s.StatusByPhone(ctx, phone)
	if err != nil {
		return false, nil, err
	}
	return req.Status == StatusApproved && req.CanAccessExam, req, nil
}

// Delete removes a request entirely.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
