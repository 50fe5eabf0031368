package identity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Store keeps an in-memory snapshot of the owner credential and staff
// records, bulk-loaded once at startup and written through on mutation.
// The resolver operates on the snapshot, so authentication never races a
// half-finished load: before Load completes the snapshot is simply empty
// and every login fails closed.
type Store struct {
	repo   Repository
	logger *slog.Logger

	mu      sync.RWMutex
	owner   *OwnerCredential
	staff   []StaffRecord
	loaded  bool
	loadErr error
}

// NewStore constructs a Store.
func NewStore(repo Repository, logger *slog.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Load fetches the owner credential and staff records in parallel. A failed
// load leaves the snapshot empty, which forces the setup-required state;
// Unreachable distinguishes that from a genuinely uninitialised deployment.
func (s *Store) Load(ctx context.Context) error {
	var (
		owner *OwnerCredential
		staff []StaffRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owner, err = s.repo.FetchOwnerCredential(gctx)
		if err != nil {
			return fmt.Errorf("fetch owner credential: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		staff, err = s.repo.FetchAllStaff(gctx)
		if err != nil {
			return fmt.Errorf("fetch staff: %w", err)
		}
		return nil
	})

	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.loadErr = err
	if err != nil {
		if s.logger != nil {
			s.logger.Error("identity bulk load failed", slog.Any("error", err))
		}
		s.owner = nil
		s.staff = nil
		return err
	}
	s.owner = owner
	s.staff = staff
	return nil
}

// Authenticate resolves credentials against the current snapshot.
func (s *Store) Authenticate(phoneInput, passwordInput string) (Principal, error) {
	s.mu.RLock()
	owner := s.owner
	staff := s.staff
	s.mu.RUnlock()
	return Authenticate(phoneInput, passwordInput, owner, staff)
}

// SetupRequired reports whether no owner credential exists yet.
func (s *Store) SetupRequired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SetupRequired(s.owner)
}

// Unreachable reports whether the snapshot is empty because the backing
// store could not be read, rather than because setup never happened.
func (s *Store) Unreachable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded && s.loadErr != nil
}

// Owner returns a copy of the owner credential, nil when absent.
func (s *Store) Owner() *OwnerCredential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.owner == nil {
		return nil
	}
	cred := *s.owner
	return &cred
}

// StaffList returns a copy of the staff records.
func (s *Store) StaffList() []StaffRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StaffRecord, len(s.staff))
	copy(out, s.staff)
	return out
}

// InitializeOwner creates the owner credential exactly once.
func (s *Store) InitializeOwner(ctx context.Context, phone, password, name string) (OwnerCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != nil {
		return OwnerCredential{}, ErrAlreadyInitialized
	}
	cred := OwnerCredential{Phone: phone, Password: password, Name: name}
	if err := s.repo.SaveOwnerCredential(ctx, cred); err != nil {
		return OwnerCredential{}, fmt.Errorf("save owner credential: %w", err)
	}
	s.owner = &cred
	s.loadErr = nil
	return cred, nil
}

// RotateOwnerCredential replaces the owner phone and password, preserving
// the display name. Callers must have verified owner identity first.
func (s *Store) RotateOwnerCredential(ctx context.Context, newPhone, newPassword string) (OwnerCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == nil {
		return OwnerCredential{}, ErrSetupRequired
	}
	cred := OwnerCredential{Phone: newPhone, Password: newPassword, Name: s.owner.Name}
	if err := s.repo.SaveOwnerCredential(ctx, cred); err != nil {
		return OwnerCredential{}, fmt.Errorf("save owner credential: %w", err)
	}
	s.owner = &cred
	return cred, nil
}

// UpsertStaff inserts or replaces the record with the same phone.
func (s *Store) UpsertStaff(ctx context.Context, rec StaffRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveStaffRecord(ctx, rec); err != nil {
		return fmt.Errorf("save staff record: %w", err)
	}
	for i := range s.staff {
		if s.staff[i].Phone == rec.Phone {
			s.staff[i] = rec
			return nil
		}
	}
	s.staff = append(s.staff, rec)
	return nil
}

// RemoveStaff deletes the record with the given phone, a no-op when absent.
func (s *Store) RemoveStaff(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.DeleteStaffRecord(ctx, phone); err != nil {
		return fmt.Errorf("delete staff record: %w", err)
	}
	for i := range s.staff {
		if s.staff[i].Phone == phone {
			s.staff = append(s.staff[:i], s.staff[i+1:]...)
			break
		}
	}
	return nil
}
