package identity

import (
	"errors"
	"fmt"
)

// Role classifies the authenticated actor.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleStaff     Role = "staff"
	RoleAnonymous Role = "anonymous"
)

// Domain enumerates the content categories gated by permissions.
type Domain string

const (
	DomainDictionary Domain = "dictionary"
	DomainLibrary    Domain = "library"
	DomainGallery    Domain = "gallery"
	DomainSongs      Domain = "songs"
	DomainVideos     Domain = "videos"
	DomainExams      Domain = "exams"
)

// Domains lists every known domain in a stable order.
var Domains = []Domain{DomainDictionary, DomainLibrary, DomainGallery, DomainSongs, DomainVideos, DomainExams}

// ParseDomain validates a raw domain string.
func ParseDomain(raw string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == raw {
			return d, nil
		}
	}
	return "", fmt.Errorf("identity: unknown domain %q", raw)
}

// PermissionSet carries one explicit capability per content domain.
type PermissionSet struct {
	Dictionary bool `json:"dictionary"`
	Library    bool `json:"library"`
	Gallery    bool `json:"gallery"`
	Songs      bool `json:"songs"`
	Videos     bool `json:"videos"`
	Exams      bool `json:"exams"`
}

// FullPermissions returns a set with every capability enabled.
func FullPermissions() PermissionSet {
	return PermissionSet{
		Dictionary: true,
		Library:    true,
		Gallery:    true,
		Songs:      true,
		Videos:     true,
		Exams:      true,
	}
}

// Allows reports whether the set grants the given domain.
func (p PermissionSet) Allows(d Domain) bool {
	switch d {
	case DomainDictionary:
		return p.Dictionary
	case DomainLibrary:
		return p.Library
	case DomainGallery:
		return p.Gallery
	case DomainSongs:
		return p.Songs
	case DomainVideos:
		return p.Videos
	case DomainExams:
		return p.Exams
	}
	return false
}

// OwnerCredential is the single root administrator record. At most one
// exists; the application is unusable until it has been created once.
type OwnerCredential struct {
	Phone    string `json:"phone"`
	Password string `json:"-"`
	Name     string `json:"name"`
}

// StaffRecord is a secondary administrator keyed by phone number.
type StaffRecord struct {
	Phone       string        `json:"phone"`
	Password    string        `json:"password,omitempty"`
	Name        string        `json:"name"`
	Permissions PermissionSet `json:"permissions"`
}

// Principal is the resolved identity of the current actor. The permission
// set is frozen at the moment the principal was issued; later staff record
// edits do not affect live sessions.
type Principal struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Role        Role          `json:"role"`
	Permissions PermissionSet `json:"permissions"`
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{Role: RoleAnonymous}
}

// IsAnonymous reports whether the principal carries no identity.
func (p Principal) IsAnonymous() bool {
	return p.Role == RoleAnonymous || p.Role == ""
}

var (
	// ErrAlreadyInitialized is returned when owner registration is repeated.
	ErrAlreadyInitialized = errors.New("identity: owner credential already initialized")
	// ErrSetupRequired is returned for operations that need an owner credential first.
	ErrSetupRequired = errors.New("identity: owner setup required")
	// ErrForbidden is returned when the acting principal lacks the capability.
	ErrForbidden = errors.New("identity: forbidden")
)
