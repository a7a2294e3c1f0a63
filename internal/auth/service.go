// internal/auth/service.go
package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/audit"
	"github.com/anquilosaurios/backend-core/internal/models"
)

// Service composes an identity provider with the token service into the
// single authenticate operation the HTTP layer calls.
type Service struct {
	provider IdentityProvider
	tokens   *TokenService
	auditor  audit.Recorder
	logger   *logrus.Logger
}

// NewService wires the auth orchestrator. A nil auditor is replaced with a
// no-op recorder.
func NewService(provider IdentityProvider, tokens *TokenService, auditor audit.Recorder, logger *logrus.Logger) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{provider: provider, tokens: tokens, auditor: auditor, logger: logger}
}

// Authenticate resolves the user and, on success, issues a token. A failed
// credential check returns (nil, "", nil) — user and token are absent
// together, never one without the other.
func (s *Service) Authenticate(ctx context.Context, identifier, rawPassword string) (*models.User, string, error) {
	user, err := s.provider.Authenticate(ctx, identifier, rawPassword)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", nil
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	if err := s.auditor.Record(ctx, audit.ActionLogin, user.ID, map[string]string{"identifier": identifier}); err != nil {
		s.logger.WithError(err).Warn("failed to record login audit event")
	}

	return user, token, nil
}

// SignOut is a stateless no-op apart from the audit trail: tokens are
// self-contained and remain valid until natural expiry.
func (s *Service) SignOut(ctx context.Context, userID uuid.UUID) error {
	if err := s.auditor.Record(ctx, audit.ActionLogout, userID, nil); err != nil {
		s.logger.WithError(err).Warn("failed to record logout audit event")
	}
	return nil
}

// Tokens exposes the token service for the bearer middleware.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}
