package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/guardpost/access-api/internal/api/metrics"
	"github.com/guardpost/access-api/internal/core/domain"
	"github.com/guardpost/access-api/internal/core/ports"
)

// LoginThrottle tracks consecutive failed logins per username and reports
// when an account crossed the lockout threshold. It is the account-lock
// lifecycle collaborator; the core authentication manager stays unaware of
// it.
type LoginThrottle interface {
	Locked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) (locked bool, err error)
	Reset(ctx context.Context, username string) error
}

// RehashEnqueuer accepts credential-upgrade requests for background
// processing.
type RehashEnqueuer interface {
	Enqueue(req ports.CredentialUpgrade)
}

// Authenticator decorates the core authentication manager with the
// transport-side concerns: failed-login lockout, background hash upgrades,
// and login metrics. It implements ports.AuthService so handlers and the
// route guard consume it exactly like the core service.
type Authenticator struct {
	auth        ports.AuthService
	throttle    LoginThrottle  // nil disables lockout
	rehash      RehashEnqueuer // nil disables upgrades
	needsRehash func(storedHash string) bool
	logger      zerolog.Logger
}

func NewAuthenticator(auth ports.AuthService, throttle LoginThrottle, rehash RehashEnqueuer, needsRehash func(string) bool, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		auth:        auth,
		throttle:    throttle,
		rehash:      rehash,
		needsRehash: needsRehash,
		logger:      logger,
	}
}

// Authenticate runs the lockout check, delegates to the core manager, and
// accounts for the outcome. A lockout presents as the account-locked state so
// callers cannot tell an operator lock from a throttle lock.
func (a *Authenticator) Authenticate(ctx context.Context, username, secret string) (*domain.Principal, error) {
	start := time.Now()

	if a.throttle != nil && username != "" {
		locked, err := a.throttle.Locked(ctx, username)
		if err != nil {
			a.logger.Warn().Err(err).Msg("login throttle unavailable, continuing without it")
		} else if locked {
			a.observe("locked_out", start)
			return nil, domain.ErrAccountLocked
		}
	}

	principal, err := a.auth.Authenticate(ctx, username, secret)
	if err != nil {
		a.observe(outcomeLabel(err), start)
		if errors.Is(err, domain.ErrInvalidCredentials) && a.throttle != nil && username != "" {
			if locked, terr := a.throttle.RecordFailure(ctx, username); terr != nil {
				a.logger.Warn().Err(terr).Msg("recording failed login")
			} else if locked {
				metrics.AccountLockoutsTotal.Inc()
				a.logger.Warn().Str("username", username).Msg("account locked after repeated failed logins")
			}
		}
		return nil, err
	}

	if a.throttle != nil {
		if terr := a.throttle.Reset(ctx, username); terr != nil {
			a.logger.Warn().Err(terr).Msg("resetting login throttle")
		}
	}
	if a.rehash != nil && a.needsRehash != nil && a.needsRehash(principal.PasswordHash) {
		a.rehash.Enqueue(ports.CredentialUpgrade{Username: username, Secret: secret})
	}

	a.observe("success", start)
	return principal, nil
}

func (a *Authenticator) observe(outcome string, start time.Time) {
	metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	metrics.LoginDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountUnavailable):
		return "account_unavailable"
	default:
		return "error"
	}
}
