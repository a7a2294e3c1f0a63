// internal/auth/token.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/anquilosaurios/backend-core/internal/models"
)

// ErrMissingSigningSecret is returned when a TokenService is constructed
// without a signing secret. This is a configuration error and must abort
// startup.
var ErrMissingSigningSecret = errors.New("jwt signing secret is not configured")

const (
	DefaultIssuer            = "aquilosaurios"
	DefaultAudience          = "aquilosaurios_users"
	DefaultExpirationMinutes = 15

	// RoleAdmin and RoleUser are the values of the role claim, derived
	// from the user's admin flag at issuance.
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// TokenConfig is the immutable configuration for a TokenService.
type TokenConfig struct {
	Secret            string
	Issuer            string
	Audience          string
	ExpirationMinutes int
}

// Claims is the payload embedded in every issued token. The boolean admin
// flag is carried as the string "true"/"false" for parity with the claim
// format consumed by existing game clients.
type Claims struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsAdmin      string `json:"isAdmin"`
	AuthProvider string `json:"authProvider"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed, time-bounded credentials.
// Issuance and validation are pure CPU work; no server-side state backs
// a token once issued.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
}

// NewTokenService builds a TokenService from config, applying defaults for
// issuer, audience, and expiry. An empty secret is a fatal configuration
// error surfaced to the caller.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningSecret
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultAudience
	}
	if cfg.ExpirationMinutes <= 0 {
		cfg.ExpirationMinutes = DefaultExpirationMinutes
	}
	return &TokenService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		expiry:   time.Duration(cfg.ExpirationMinutes) * time.Minute,
	}, nil
}

// Generate issues a compact signed token for the user. Every call mints a
// fresh token id, so two tokens for the same user are never identical.
func (s *TokenService) Generate(user *models.User) (string, error) {
	now := time.Now()

	role := RoleUser
	isAdmin := "false"
	if user.IsAdmin {
		role = RoleAdmin
		isAdmin = "true"
	}

	claims := Claims{
		UserID:       user.ID.String(),
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		IsAdmin:      isAdmin,
		AuthProvider: string(user.AuthProvider),
		Role:         role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies signature, issuer, audience, and expiry with no clock
// skew tolerance. Every failure collapses into false; callers cannot and
// must not distinguish sub-reasons through this method.
func (s *TokenService) Validate(tokenString string) bool {
	_, err := s.ParseClaims(tokenString)
	return err == nil
}

// ParseClaims validates the token and returns its claims, for callers that
// need the authenticated principal's attributes (e.g. the bearer middleware).
func (s *TokenService) ParseClaims(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("jwt parse error: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
