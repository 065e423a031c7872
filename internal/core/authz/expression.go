// Package authz is the authorization decision engine: required-authority
// expressions, pure allow/deny evaluation, and the startup-built policy
// registry consulted by the route-level and operation-level guards.
package authz

import (
	"strings"

	"github.com/guardpost/access-api/internal/core/domain"
)

// Decision is the outcome of evaluating one expression against one authority
// set. It is a value, produced per evaluation; denials are ordinary outcomes,
// never process-level failures.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Deny reason codes.
const (
	ReasonGranted          = "granted"
	ReasonAlwaysDeny       = "always_deny"
	ReasonMissingAuthority = "missing_authority"
	ReasonUnregistered     = "unregistered"
)

// Expression is a required-authority rule. Evaluation is a pure
// set-membership test: no I/O, no mutation, safe for unbounded concurrency.
type Expression interface {
	Evaluate(granted domain.Authorities) Decision
	String() string
}

// Decide evaluates an expression against the granted set. A nil expression
// means nothing was registered for the guard point and denies — the
// fail-closed default is an invariant, not a convenience.
func Decide(expr Expression, granted domain.Authorities) Decision {
	if expr == nil {
		return Decision{Allowed: false, Reason: ReasonUnregistered}
	}
	return expr.Evaluate(granted)
}

type alwaysAllow struct{}

func (alwaysAllow) Evaluate(domain.Authorities) Decision {
	return Decision{Allowed: true, Reason: ReasonGranted}
}

func (alwaysAllow) String() string { return "alwaysAllow" }

// AlwaysAllow permits every caller, including anonymous ones.
func AlwaysAllow() Expression { return alwaysAllow{} }

type alwaysDeny struct{}

func (alwaysDeny) Evaluate(domain.Authorities) Decision {
	return Decision{Allowed: false, Reason: ReasonAlwaysDeny}
}

func (alwaysDeny) String() string { return "alwaysDeny" }

// AlwaysDeny rejects every caller regardless of authorities.
func AlwaysDeny() Expression { return alwaysDeny{} }

type hasAuthority struct {
	name string
}

func (e hasAuthority) Evaluate(granted domain.Authorities) Decision {
	if granted.Has(e.name) {
		return Decision{Allowed: true, Reason: ReasonGranted}
	}
	return Decision{Allowed: false, Reason: ReasonMissingAuthority}
}

func (e hasAuthority) String() string { return "hasAuthority(" + e.name + ")" }

// HasAuthority requires exactly one named authority.
func HasAuthority(name string) Expression { return hasAuthority{name: name} }

type hasAnyAuthority struct {
	names []string
}

func (e hasAnyAuthority) Evaluate(granted domain.Authorities) Decision {
	if granted.HasAny(e.names...) {
		return Decision{Allowed: true, Reason: ReasonGranted}
	}
	return Decision{Allowed: false, Reason: ReasonMissingAuthority}
}

func (e hasAnyAuthority) String() string {
	return "hasAnyAuthority(" + strings.Join(e.names, ",") + ")"
}

// HasAnyAuthority requires at least one of the named authorities. With no
// names it can never match and degenerates to a deny.
func HasAnyAuthority(names ...string) Expression {
	return hasAnyAuthority{names: append([]string(nil), names...)}
}

type hasAllAuthorities struct {
	names []string
}

func (e hasAllAuthorities) Evaluate(granted domain.Authorities) Decision {
	if granted.HasAll(e.names...) {
		return Decision{Allowed: true, Reason: ReasonGranted}
	}
	return Decision{Allowed: false, Reason: ReasonMissingAuthority}
}

func (e hasAllAuthorities) String() string {
	return "hasAllAuthorities(" + strings.Join(e.names, ",") + ")"
}

// HasAllAuthorities requires every one of the named authorities.
func HasAllAuthorities(names ...string) Expression {
	return hasAllAuthorities{names: append([]string(nil), names...)}
}

// AnyRole is shorthand for HasAnyAuthority over the ROLE_ projection of the
// given role identifiers — the "any authenticated principal" rule used at
// route level before an operation guard narrows it.
func AnyRole(roles ...domain.RoleID) Expression {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, domain.RolePrefix+string(r))
	}
	return HasAnyAuthority(names...)
}
