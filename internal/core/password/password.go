// Package password implements credential verification over scheme-tagged
// stored hashes. Every stored value carries a scheme marker ("{bcrypt}...",
// "{noop}...") so the matching variant can be selected explicitly; an
// unrecognized marker is a configuration error, never a silent fallback.
package password

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/guardpost/access-api/internal/core/domain"
)

const (
	SchemeBcrypt = "bcrypt"
	SchemeNoop   = "noop"
)

// Verifier compares a presented secret against a stored hash and produces
// stored hashes for provisioning. Verify returns (false, nil) on a mismatch;
// a non-nil error always means the stored value itself is unusable.
type Verifier interface {
	Scheme() string
	Hash(plaintext string) (string, error)
	Verify(presented, stored string) (bool, error)
}

// Bcrypt is the production variant: salted, CPU-hard, constant-time compare.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt verifier at the given cost. Costs outside the
// bcrypt range fall back to the library default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Scheme() string { return SchemeBcrypt }

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(h), nil
}

func (b *Bcrypt) Verify(presented, stored string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented))
	switch {
	case err == nil:
		return true, nil
	case err == bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		// The stored value is not a parseable bcrypt hash: a provisioning
		// bug, not a failed login.
		return false, fmt.Errorf("%w: malformed bcrypt hash: %v", domain.ErrConfiguration, err)
	}
}

// Noop is the plaintext-equality variant for tests and demos. It is never
// registered unless explicitly enabled, so it cannot ship to production by
// accident.
type Noop struct{}

func (Noop) Scheme() string { return SchemeNoop }

func (Noop) Hash(plaintext string) (string, error) { return plaintext, nil }

func (Noop) Verify(presented, stored string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1, nil
}

// Delegating routes Verify calls to the variant named by the stored hash's
// scheme tag and produces new hashes with the default (bcrypt) scheme. A bare
// "$2a$..." value without a tag is accepted as bcrypt for compatibility with
// seeds written before tagging.
type Delegating struct {
	variants map[string]Verifier
	def      Verifier
	cost     int
}

// NewDelegating builds the delegating verifier. allowNoop registers the
// plaintext variant; it must come from an explicit deploy flag and defaults
// to off everywhere.
func NewDelegating(bcryptCost int, allowNoop bool) *Delegating {
	b := NewBcrypt(bcryptCost)
	d := &Delegating{
		variants: map[string]Verifier{SchemeBcrypt: b},
		def:      b,
		cost:     b.cost,
	}
	if allowNoop {
		d.variants[SchemeNoop] = Noop{}
	}
	return d
}

// Scheme names the default variant new hashes are produced with.
func (d *Delegating) Scheme() string { return d.def.Scheme() }

// Hash produces a scheme-tagged stored hash using the default variant.
func (d *Delegating) Hash(plaintext string) (string, error) {
	h, err := d.def.Hash(plaintext)
	if err != nil {
		return "", err
	}
	return "{" + d.def.Scheme() + "}" + h, nil
}

// Verify selects the variant named by the stored hash's tag and delegates.
// Unknown or disabled schemes surface domain.ErrConfiguration.
func (d *Delegating) Verify(presented, stored string) (bool, error) {
	scheme, rest, err := splitScheme(stored)
	if err != nil {
		return false, err
	}
	v, ok := d.variants[scheme]
	if !ok {
		return false, fmt.Errorf("%w: password scheme %q not enabled", domain.ErrConfiguration, scheme)
	}
	return v.Verify(presented, rest)
}

// NeedsRehash reports whether a stored hash should be upgraded: either it
// uses a non-default scheme or its bcrypt cost is below the configured cost.
// Malformed values report false; Verify is the place that rejects them.
func (d *Delegating) NeedsRehash(stored string) bool {
	scheme, rest, err := splitScheme(stored)
	if err != nil {
		return false
	}
	if scheme != d.def.Scheme() {
		return true
	}
	cost, err := bcrypt.Cost([]byte(rest))
	if err != nil {
		return false
	}
	return cost < d.cost
}

// splitScheme separates "{scheme}hash" into its parts. Untagged bcrypt
// output ("$2a$", "$2b$", "$2y$") maps to the bcrypt scheme.
func splitScheme(stored string) (scheme, rest string, err error) {
	if strings.HasPrefix(stored, "{") {
		end := strings.IndexByte(stored, '}')
		if end <= 1 {
			return "", "", fmt.Errorf("%w: malformed scheme tag in stored hash", domain.ErrConfiguration)
		}
		return stored[1:end], stored[end+1:], nil
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return SchemeBcrypt, stored, nil
	}
	return "", "", fmt.Errorf("%w: stored hash carries no recognizable scheme", domain.ErrConfiguration)
}
