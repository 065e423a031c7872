package ports

import (
	"context"

	"github.com/guardpost/access-api/internal/core/domain"
)

// UserRepository is the credential store collaborator. FindByUsername must
// return the user with its role set and every role's permission set fully
// populated — the core refuses partially loaded graphs rather than resolving
// an incomplete authority set.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) error
}
