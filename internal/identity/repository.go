package identity

import "context"

// Repository defines persistence operations for the identity module.
// FetchOwnerCredential returns (nil, nil) while no owner has registered.
type Repository interface {
	FetchOwnerCredential(ctx context.Context) (*OwnerCredential, error)
	SaveOwnerCredential(ctx context.Context, cred OwnerCredential) error
	FetchAllStaff(ctx context.Context) ([]StaffRecord, error)
	SaveStaffRecord(ctx context.Context, rec StaffRecord) error
	DeleteStaffRecord(ctx context.Context, phone string) error
}
