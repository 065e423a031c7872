package domain

import (
	"encoding/json"
	"sort"
)

// RolePrefix is prepended to a role identifier when it is projected into the
// authority namespace, e.g. ADMIN → ROLE_ADMIN.
const RolePrefix = "ROLE_"

// Authorities is a deduplicated set of authority strings. An authority is
// either a role projection ("ROLE_ADMIN") or a raw permission name ("READ").
type Authorities map[string]struct{}

// NewAuthorities builds a set from the given values, collapsing duplicates.
func NewAuthorities(values ...string) Authorities {
	a := make(Authorities, len(values))
	for _, v := range values {
		a[v] = struct{}{}
	}
	return a
}

// Has reports whether the set contains the given authority.
func (a Authorities) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// HasAny reports whether the set contains at least one of the given authorities.
func (a Authorities) HasAny(names ...string) bool {
	for _, n := range names {
		if a.Has(n) {
			return true
		}
	}
	return false
}

// HasAll reports whether the set contains every one of the given authorities.
func (a Authorities) HasAll(names ...string) bool {
	for _, n := range names {
		if !a.Has(n) {
			return false
		}
	}
	return true
}

// Values returns the authorities sorted lexicographically. Sorting is only for
// stable JSON output and test assertions; the set itself is unordered.
func (a Authorities) Values() []string {
	out := make([]string, 0, len(a))
	for v := range a {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON renders the set as a sorted JSON array.
func (a Authorities) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Values())
}

// Equal reports whether both sets hold exactly the same authorities.
func (a Authorities) Equal(b Authorities) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b.Has(v) {
			return false
		}
	}
	return true
}

// Principal is an authenticated-principal snapshot: the username, the account
// state at lookup time, and the flattened authority set. It is rebuilt on
// every authentication and never cached across requests, so role or
// permission changes take effect on the next login.
type Principal struct {
	Username string `json:"username"`

	Enabled               bool `json:"-"`
	AccountNonExpired     bool `json:"-"`
	AccountNonLocked      bool `json:"-"`
	CredentialsNonExpired bool `json:"-"`

	// PasswordHash is carried only so the authentication manager can verify
	// the presented secret; it never leaves the process.
	PasswordHash string `json:"-"`

	Authorities Authorities `json:"authorities"`
}
