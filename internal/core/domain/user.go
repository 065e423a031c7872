package domain

// RoleID is the closed set of role identifiers known to the system.
type RoleID string

const (
	RoleAdmin     RoleID = "ADMIN"
	RoleUser      RoleID = "USER"
	RoleInvited   RoleID = "INVITED"
	RoleDeveloper RoleID = "DEVELOPER"
)

// KnownRoles lists every valid role identifier.
var KnownRoles = []RoleID{RoleAdmin, RoleUser, RoleInvited, RoleDeveloper}

// Valid reports whether the role identifier belongs to the closed enumeration.
func (r RoleID) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleInvited, RoleDeveloper:
		return true
	}
	return false
}

// Permission is an atomic capability, unique by name and immutable after
// provisioning.
type Permission struct {
	Name string `json:"name"`
}

// Role bundles a set of permissions under a role identifier. Roles are shared
// between users; the provisioning process owns them.
//
// A nil Permissions slice means the permission set was never loaded and the
// authority resolver will refuse it. An empty (non-nil) slice is a valid role
// with no permissions.
type Role struct {
	ID          RoleID       `json:"id"`
	Permissions []Permission `json:"permissions"`
}

// User is a principal record as stored by the credential store. The lookup
// contract guarantees Roles and every nested Permissions slice are fully
// populated (non-nil) — there is no lazy loading anywhere in the graph.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`

	Enabled               bool `json:"enabled"`
	AccountNonExpired     bool `json:"account_non_expired"`
	AccountNonLocked      bool `json:"account_non_locked"`
	CredentialsNonExpired bool `json:"credentials_non_expired"`

	Roles []Role `json:"roles"`
}
