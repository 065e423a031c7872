package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/guardpost/access-api/internal/core/password"
	"github.com/guardpost/access-api/internal/core/ports"
)

// RehashService re-hashes a verified credential at the current default
// scheme and cost, then writes it back through the credential store. It is
// only ever invoked with a secret that just passed verification.
type RehashService struct {
	repo     ports.UserRepository
	verifier *password.Delegating
	logger   zerolog.Logger
}

func NewRehashService(repo ports.UserRepository, verifier *password.Delegating, logger zerolog.Logger) *RehashService {
	return &RehashService{repo: repo, verifier: verifier, logger: logger}
}

func (s *RehashService) Upgrade(ctx context.Context, req ports.CredentialUpgrade) error {
	hash, err := s.verifier.Hash(req.Secret)
	if err != nil {
		return fmt.Errorf("rehash credential: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, req.Username, hash); err != nil {
		return fmt.Errorf("store upgraded credential: %w", err)
	}
	s.logger.Info().Str("username", req.Username).Msg("credential upgraded to current scheme")
	return nil
}
