package students

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	requests map[string]Request
	order    []string
}

func newMemRepo() *memRepo {
	return &memRepo{requests: make(map[string]Request)}
}

func (m *memRepo) List(ctx context.Context) ([]Request, error) {
	out := make([]Request, 0, len(m.order))
	for _, id := range m.order {
		if r, ok := m.requests[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *memRepo) Upsert(ctx context.Context, r Request) error {
	if _, ok := m.requests[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.requests[r.ID] = r
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

func TestSubmitStartsPending(t *testing.T) {
	svc := NewService(newMemRepo())

	req, err := svc.Submit(context.Background(), Request{
		Name:     "Nang",
		Phone:    "+91 98765 43210",
		Password: "secret",
		Status:   StatusApproved, // caller cannot pre-approve
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "919876543210", req.Phone)
	assert.False(t, req.CanAccessExam)
	assert.NotEmpty(t, req.ID)
}

func TestStatusByPhoneSuffix(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Submit(ctx, Request{Name: "Nang", Phone: "+91 98765 43210", Password: "secret"})
	require.NoError(t, err)

	// Suffix match across country-code variants.
	found, err := svc.StatusByPhone(ctx, "09876543210")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.StatusByPhone(ctx, "1112223334")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewTransitions(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Submit(ctx, Request{Name: "Nang", Phone: "9876543210", Password: "secret"})
	require.NoError(t, err)

	approved, err := svc.Review(ctx, created.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = svc.Review(ctx, created.ID, Status("maybe"))
	assert.Error(t, err)

	rejected, err := svc.Review(ctx, created.ID, StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.False(t, rejected.CanAccessExam)
}

func TestExamAccessRequiresApproval(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Submit(ctx, Request{Name: "Nang", Phone: "9876543210", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.SetExamAccess(ctx, created.ID, true)
	assert.Error(t, err)

	_, err = svc.Review(ctx, created.ID, StatusApproved)
	require.NoError(t, err)

	granted, err := svc.SetExamAccess(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, granted.CanAccessExam)

	eligible, _, err := svc.ExamEligible(ctx, "+91-9876543210")
	require.NoError(t, err)
	assert.True(t, eligible)

	revoked, err := svc.SetExamAccess(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, revoked.CanAccessExam)
}
