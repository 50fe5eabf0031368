package identity

import (
	"strings"

	"github.com/taihub/taihub/internal/shared"
)

// phoneSuffixLen is the number of trailing digits compared during login.
// Numbers are stored and entered with inconsistent country prefixes, so
// only the last ten digits participate in matching.
const phoneSuffixLen = 10

// NormalizePhone strips every non-digit character from the input.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// phoneTail returns the last phoneSuffixLen digits of a normalized number.
func phoneTail(normalized string) string {
	if len(normalized) <= phoneSuffixLen {
		return normalized
	}
	return normalized[len(normalized)-phoneSuffixLen:]
}

// phonesMatch compares two raw phone numbers by their digit suffix.
func phonesMatch(a, b string) bool {
	ta := phoneTail(NormalizePhone(a))
	tb := phoneTail(NormalizePhone(b))
	return ta != "" && ta == tb
}

// PhonesMatch reports whether two raw phone numbers refer to the same
// line under the suffix rule used at login.
func PhonesMatch(a, b string) bool {
	return phonesMatch(a, b)
}

// Authenticate resolves login credentials against the owner credential and
// staff records. The owner is checked first; a staff number colliding with
// the owner's in its last ten digits therefore resolves to the owner when
// the password also matches. Passwords are compared exactly as stored.
// Every failure mode yields the same generic error.
func Authenticate(phoneInput, passwordInput string, owner *OwnerCredential, staff []StaffRecord) (Principal, error) {
	normalized := NormalizePhone(phoneInput)
	if normalized == "" {
		return Principal{}, shared.ErrInvalidCredentials
	}

	if owner != nil && phonesMatch(normalized, owner.Phone) && passwordInput == owner.Password {
		return Principal{
			ID:          normalized,
			Name:        owner.Name,
			Role:        RoleOwner,
			Permissions: FullPermissions(),
		}, nil
	}

	for _, rec := range staff {
		if !phonesMatch(normalized, rec.Phone) {
			continue
		}
		if passwordInput != rec.Password {
			break
		}
		return Principal{
			ID:          normalized,
			Name:        rec.Name,
			Role:        RoleStaff,
			Permissions: rec.Permissions,
		}, nil
	}

	return Principal{}, shared.ErrInvalidCredentials
}

// publicDomain reports whether anonymous visitors may read the domain's
// listings. Exams are the only member-gated domain.
func publicDomain(d Domain) bool {
	return d != DomainExams
}

// CanView reports read eligibility for a domain.
func CanView(p Principal, d Domain) bool {
	if publicDomain(d) {
		return true
	}
	switch p.Role {
	case RoleOwner:
		return true
	case RoleStaff:
		return p.Permissions.Allows(d)
	}
	return false
}

// CanMutate reports write eligibility for a domain.
func CanMutate(p Principal, d Domain) bool {
	switch p.Role {
	case RoleOwner:
		return true
	case RoleStaff:
		return p.Permissions.Allows(d)
	}
	return false
}

// SetupRequired reports whether the one-time owner registration flow is
// still pending.
func SetupRequired(owner *OwnerCredential) bool {
	return owner == nil
}
