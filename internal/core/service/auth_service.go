package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/guardpost/access-api/internal/core/domain"
	"github.com/guardpost/access-api/internal/core/password"
)

// AuthService is the authentication manager: it loads the principal, checks
// account state, then verifies the presented secret. The check order is part
// of the contract — an unknown username and a wrong secret produce the same
// error, while account-state problems are reported precisely once the
// identity is known to exist.
type AuthService struct {
	loader   *PrincipalLoader
	verifier password.Verifier
	logger   zerolog.Logger
}

func NewAuthService(loader *PrincipalLoader, verifier password.Verifier, logger zerolog.Logger) *AuthService {
	return &AuthService{loader: loader, verifier: verifier, logger: logger}
}

// Authenticate validates username/secret and returns the principal snapshot
// with its resolved authorities. Failure modes:
//
//   - unknown username or wrong secret → domain.ErrInvalidCredentials
//   - disabled/expired/locked account  → a reason wrapping domain.ErrAccountUnavailable
//   - malformed stored hash            → domain.ErrConfiguration
//   - malformed role/permission graph  → domain.ErrDataIntegrity
func (s *AuthService) Authenticate(ctx context.Context, username, secret string) (*domain.Principal, error) {
	if username == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	principal, err := s.loader.Load(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Collapsed with the wrong-secret case: responses must not
			// reveal whether the username exists.
			return nil, domain.ErrInvalidCredentials
		}
		if errors.Is(err, domain.ErrDataIntegrity) {
			s.logger.Error().Err(err).Str("username", username).Msg("provisioning bug: malformed authority graph")
		}
		return nil, err
	}

	if err := accountState(principal); err != nil {
		return nil, err
	}

	ok, err := s.verifier.Verify(secret, principal.PasswordHash)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("provisioning bug: unusable stored hash")
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return principal, nil
}

// accountState reports the first failing account flag, in the documented
// order: enabled, account expiry, lock, credential expiry.
func accountState(p *domain.Principal) error {
	switch {
	case !p.Enabled:
		return domain.ErrAccountDisabled
	case !p.AccountNonExpired:
		return domain.ErrAccountExpired
	case !p.AccountNonLocked:
		return domain.ErrAccountLocked
	case !p.CredentialsNonExpired:
		return domain.ErrCredentialsExpired
	}
	return nil
}
