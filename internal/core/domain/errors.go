package domain

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned by the credential store and the principal
// loader when no record matches the username. It never crosses the
// authentication manager boundary: callers of Authenticate see
// ErrInvalidCredentials instead, so responses cannot reveal whether a
// username exists.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials covers both an unknown username and a wrong secret.
// The two cases are deliberately merged for enumeration resistance.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountUnavailable is the common ancestor of every account-state
// failure. Use errors.Is against it to catch any of the four reasons, or
// against a specific reason to distinguish them.
var ErrAccountUnavailable = errors.New("account unavailable")

var (
	ErrAccountDisabled    = fmt.Errorf("%w: disabled", ErrAccountUnavailable)
	ErrAccountExpired     = fmt.Errorf("%w: expired", ErrAccountUnavailable)
	ErrAccountLocked      = fmt.Errorf("%w: locked", ErrAccountUnavailable)
	ErrCredentialsExpired = fmt.Errorf("%w: credentials expired", ErrAccountUnavailable)
)

// ErrDataIntegrity flags a malformed role/permission graph (blank permission
// name, unloaded role set). It is a provisioning bug: fatal to the request,
// never retried, and logged for the operator rather than shown to the caller.
var ErrDataIntegrity = errors.New("data integrity violation")

// ErrConfiguration flags a broken deployment: an unrecognized password hash
// scheme, or a scheme present in stored data but disabled by configuration.
// Distinguishable from a verification failure so operators see a provisioning
// bug instead of a security event.
var ErrConfiguration = errors.New("configuration error")
