package ports

import "context"

// CredentialUpgrade is a request to re-hash one user's credential at the
// current scheme and cost. Produced by the login path when it verifies a
// secret against a legacy hash, consumed by the rehash dispatcher.
type CredentialUpgrade struct {
	Username string
	Secret   string
}

// CredentialUpgrader re-hashes and persists a single credential.
type CredentialUpgrader interface {
	Upgrade(ctx context.Context, req CredentialUpgrade) error
}
