package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taihub/taihub/internal/shared"
)

func testOwner() *OwnerCredential {
	return &OwnerCredential{Phone: "9000000001", Password: "root1234", Name: "Admin"}
}

func testStaff() []StaffRecord {
	return []StaffRecord{
		{
			Phone:    "8000000002",
			Password: "pass",
			Name:     "Mina",
			Permissions: PermissionSet{
				Dictionary: true,
			},
		},
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "919000000001", NormalizePhone("+91 9000-000-001"))
	assert.Equal(t, "", NormalizePhone("abc"))
	assert.Equal(t, "8000000002", NormalizePhone("8000000002"))
}

func TestAuthenticateOwner(t *testing.T) {
	p, err := Authenticate("+91 9000000001", "root1234", testOwner(), testStaff())
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, p.Role)
	assert.Equal(t, "Admin", p.Name)
	assert.Equal(t, FullPermissions(), p.Permissions)
}

func TestAuthenticateOwnerWrongPassword(t *testing.T) {
	_, err := Authenticate("9000000001", "nope", testOwner(), testStaff())
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateStaff(t *testing.T) {
	p, err := Authenticate("8000000002", "pass", testOwner(), testStaff())
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, p.Role)
	assert.Equal(t, "Mina", p.Name)
	assert.True(t, CanMutate(p, DomainDictionary))
	assert.False(t, CanMutate(p, DomainLibrary))
}

func TestAuthenticateStaffWrongPassword(t *testing.T) {
	_, err := Authenticate("8000000002", "wrong", testOwner(), testStaff())
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownPhone(t *testing.T) {
	_, err := Authenticate("7000000003", "pass", testOwner(), testStaff())
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateNoOwnerNoStaff(t *testing.T) {
	// Before the bulk load completes or before setup, any login fails
	// rather than crashing.
	_, err := Authenticate("9000000001", "root1234", nil, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.True(t, SetupRequired(nil))
	assert.False(t, SetupRequired(testOwner()))
}

func TestAuthenticateOwnerPrecedenceOnSuffixCollision(t *testing.T) {
	// A staff phone colliding with the owner's last ten digits resolves to
	// the owner when the owner password matches: first-match-wins.
	owner := testOwner()
	staff := []StaffRecord{{Phone: "+919000000001", Password: "staffpass", Name: "Shadow"}}

	p, err := Authenticate("9000000001", "root1234", owner, staff)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, p.Role)

	// With the staff password instead, the owner check fails on password
	// and the scan falls through to the staff record.
	p, err = Authenticate("9000000001", "staffpass", owner, staff)
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, p.Role)
}

func TestCanViewPublicDomains(t *testing.T) {
	anon := Anonymous()
	for _, d := range []Domain{DomainDictionary, DomainLibrary, DomainGallery, DomainSongs, DomainVideos} {
		assert.True(t, CanView(anon, d), "domain %s should be publicly viewable", d)
		assert.False(t, CanMutate(anon, d), "anonymous must never mutate %s", d)
	}
	assert.False(t, CanView(anon, DomainExams))
}

func TestCanMutateOwnerAlwaysTrue(t *testing.T) {
	p := Principal{Role: RoleOwner, Permissions: PermissionSet{}}
	for _, d := range Domains {
		assert.True(t, CanMutate(p, d))
		assert.True(t, CanView(p, d))
	}
}

func TestStaffPermissionsFrozenOnPrincipal(t *testing.T) {
	staff := testStaff()
	p, err := Authenticate("8000000002", "pass", nil, staff)
	require.NoError(t, err)

	// Mutating the record after login must not affect the issued principal.
	staff[0].Permissions.Library = true
	assert.False(t, CanMutate(p, DomainLibrary))
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain("gallery")
	require.NoError(t, err)
	assert.Equal(t, DomainGallery, d)

	_, err = ParseDomain("music")
	assert.Error(t, err)
}
