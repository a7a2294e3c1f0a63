// internal/auth/provider.go
package auth

import (
	"context"

	"github.com/anquilosaurios/backend-core/internal/models"
)

// UserDirectory is the subset of the user repository the identity provider
// needs: lookup by login identifier (email or username).
type UserDirectory interface {
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// IdentityProvider resolves a user from login credentials. A nil user with
// a nil error is the expected outcome for any credential mismatch; errors
// are reserved for store failures.
type IdentityProvider interface {
	Authenticate(ctx context.Context, identifier, rawPassword string) (*models.User, error)
	ProviderName() models.AuthProvider
}

// LocalProvider authenticates password-based accounts against the user
// directory.
type LocalProvider struct {
	users UserDirectory
}

// NewLocalProvider returns a LocalProvider backed by the given directory.
func NewLocalProvider(users UserDirectory) *LocalProvider {
	return &LocalProvider{users: users}
}

// ProviderName reports the auth provider this implementation serves.
func (p *LocalProvider) ProviderName() models.AuthProvider {
	return models.ProviderLocal
}

// Authenticate looks the user up by email-or-username, compares the
// password digest, and checks the account is active. Unknown identifier,
// wrong password, a federated account with no stored hash, and an inactive
// account all resolve to (nil, nil) — normal outcomes, not errors.
func (p *LocalProvider) Authenticate(ctx context.Context, identifier, rawPassword string) (*models.User, error) {
	user, err := p.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if !VerifyPassword(rawPassword, user.PasswordHash) {
		return nil, nil
	}

	if !user.IsAccountActive {
		return nil, nil
	}

	return user, nil
}
