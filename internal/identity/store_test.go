package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	owner *OwnerCredential
	staff map[string]StaffRecord

	fetchOwnerErr error
	fetchStaffErr error
	saveErr       error
}

func newStubRepo() *stubRepo {
	return &stubRepo{staff: make(map[string]StaffRecord)}
}

func (s *stubRepo) FetchOwnerCredential(ctx context.Context) (*OwnerCredential, error) {
	if s.fetchOwnerErr != nil {
		return nil, s.fetchOwnerErr
	}
	return s.owner, nil
}

func (s *stubRepo) SaveOwnerCredential(ctx context.Context, cred OwnerCredential) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.owner = &cred
	return nil
}

func (s *stubRepo) FetchAllStaff(ctx context.Context) ([]StaffRecord, error) {
	if s.fetchStaffErr != nil {
		return nil, s.fetchStaffErr
	}
	out := make([]StaffRecord, 0, len(s.staff))
	for _, rec := range s.staff {
		out = append(out, rec)
	}
	return out, nil
}

func (s *stubRepo) SaveStaffRecord(ctx context.Context, rec StaffRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.staff[rec.Phone] = rec
	return nil
}

func (s *stubRepo) DeleteStaffRecord(ctx context.Context, phone string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	delete(s.staff, phone)
	return nil
}

func TestStoreInitializeOwnerOnce(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newStubRepo(), nil)
	require.NoError(t, store.Load(ctx))

	assert.True(t, store.SetupRequired())

	_, err := store.InitializeOwner(ctx, "9000000001", "root1234", "Admin")
	require.NoError(t, err)
	assert.False(t, store.SetupRequired())

	_, err = store.InitializeOwner(ctx, "9000000009", "other", "Impostor")
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// Setup stays complete permanently.
	assert.False(t, store.SetupRequired())
}

func TestStoreRotatePreservesName(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	repo.owner = testOwner()
	store := NewStore(repo, nil)
	require.NoError(t, store.Load(ctx))

	cred, err := store.RotateOwnerCredential(ctx, "9111111111", "newpass")
	require.NoError(t, err)
	assert.Equal(t, "Admin", cred.Name)
	assert.Equal(t, "9111111111", cred.Phone)

	p, err := store.Authenticate("9111111111", "newpass")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, p.Role)
}

func TestStoreRotateBeforeSetup(t *testing.T) {
	store := NewStore(newStubRepo(), nil)
	require.NoError(t, store.Load(context.Background()))

	_, err := store.RotateOwnerCredential(context.Background(), "9", "p")
	assert.ErrorIs(t, err, ErrSetupRequired)
}

func TestStoreUpsertStaffIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	store := NewStore(repo, nil)
	require.NoError(t, store.Load(ctx))

	first := StaffRecord{Phone: "8000000002", Password: "pass", Name: "Mina", Permissions: PermissionSet{Dictionary: true}}
	require.NoError(t, store.UpsertStaff(ctx, first))

	second := first
	second.Permissions = PermissionSet{Library: true}
	require.NoError(t, store.UpsertStaff(ctx, second))

	list := store.StaffList()
	require.Len(t, list, 1)
	assert.Equal(t, PermissionSet{Library: true}, list[0].Permissions)
	assert.Len(t, repo.staff, 1)
}

func TestStoreRemoveStaffAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newStubRepo(), nil)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.UpsertStaff(ctx, StaffRecord{Phone: "8000000002", Password: "p", Name: "Mina"}))
	require.NoError(t, store.RemoveStaff(ctx, "7000000000"))
	assert.Len(t, store.StaffList(), 1)

	require.NoError(t, store.RemoveStaff(ctx, "8000000002"))
	assert.Empty(t, store.StaffList())
}

func TestStoreLoadFailureIsUnreachableNotCrash(t *testing.T) {
	repo := newStubRepo()
	repo.owner = testOwner()
	repo.fetchStaffErr = errors.New("backing store down")
	store := NewStore(repo, nil)

	err := store.Load(context.Background())
	require.Error(t, err)

	// Fail-safe empty snapshot: setup looks required, logins fail, and the
	// condition is surfaced distinctly.
	assert.True(t, store.SetupRequired())
	assert.True(t, store.Unreachable())
	_, authErr := store.Authenticate("9000000001", "root1234")
	assert.Error(t, authErr)
}

func TestStoreUnreachableClearsAfterSetup(t *testing.T) {
	repo := newStubRepo()
	repo.fetchOwnerErr = errors.New("down")
	store := NewStore(repo, nil)
	require.Error(t, store.Load(context.Background()))
	require.True(t, store.Unreachable())

	repo.fetchOwnerErr = nil
	_, err := store.InitializeOwner(context.Background(), "9000000001", "root1234", "Admin")
	require.NoError(t, err)
	assert.False(t, store.Unreachable())
}
