package ports

import (
	"context"

	"github.com/guardpost/access-api/internal/core/domain"
)

// AuthService authenticates a username/secret pair against the credential
// store and returns the principal snapshot with its resolved authorities.
type AuthService interface {
	Authenticate(ctx context.Context, username, secret string) (*domain.Principal, error)
}
