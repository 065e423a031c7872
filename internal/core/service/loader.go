package service

import (
	"context"
	"fmt"

	"github.com/guardpost/access-api/internal/core/domain"
	"github.com/guardpost/access-api/internal/core/ports"
)

// PrincipalLoader builds authenticated-principal snapshots from the
// credential store. It owns no state beyond the injected repository and is
// safe for concurrent use.
type PrincipalLoader struct {
	repo ports.UserRepository
}

func NewPrincipalLoader(repo ports.UserRepository) *PrincipalLoader {
	return &PrincipalLoader{repo: repo}
}

// Load looks up the user and resolves its authorities into an immutable
// snapshot. An absent user yields domain.ErrUserNotFound so callers can tell
// "no such user" from a store failure; the authentication manager collapses
// that distinction before it reaches the outside.
func (l *PrincipalLoader) Load(ctx context.Context, username string) (*domain.Principal, error) {
	user, err := l.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	authorities, err := ResolveAuthorities(*user)
	if err != nil {
		return nil, fmt.Errorf("load principal %q: %w", username, err)
	}

	return &domain.Principal{
		Username:              user.Username,
		Enabled:               user.Enabled,
		AccountNonExpired:     user.AccountNonExpired,
		AccountNonLocked:      user.AccountNonLocked,
		CredentialsNonExpired: user.CredentialsNonExpired,
		PasswordHash:          user.PasswordHash,
		Authorities:           authorities,
	}, nil
}
