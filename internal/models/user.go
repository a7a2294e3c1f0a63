package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthProvider names the mechanism that established a user's identity.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "LOCAL"
	ProviderGoogle   AuthProvider = "GOOGLE"
	ProviderFacebook AuthProvider = "FACEBOOK"
)

// Achievement is a single unlocked achievement, embedded in the user document.
// Records are immutable once appended.
type Achievement struct {
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description" json:"description"`
	UnlockedDate time.Time `bson:"unlockedDate" json:"unlocked_date"`
}

// ProfileStats holds cumulative gameplay statistics embedded in the user document.
type ProfileStats struct {
	PlayedMatches int `bson:"playedMatches" json:"played_matches"`
	WinnedMatches int `bson:"winnedMatches" json:"winned_matches"`
	Deaths        int `bson:"deaths" json:"deaths"`
}

func (s *ProfileStats) SetPlayedMatches(n int) { s.PlayedMatches = n }
func (s *ProfileStats) SetWinnedMatches(n int) { s.WinnedMatches = n }
func (s *ProfileStats) SetDeaths(n int)        { s.Deaths = n }

// User is a registered player. The document id is the UUID, stored as a string.
type User struct {
	ID          uuid.UUID `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email,omitempty"`
	Username    string    `bson:"username" json:"username,omitempty"`
	CreatedDate time.Time `bson:"createdDate" json:"created_date"`

	// PasswordHash is empty for accounts established through an external
	// provider; those must never go through a hash comparison.
	PasswordHash string       `bson:"passwordHash" json:"-"`
	AuthProvider AuthProvider `bson:"authProvider" json:"auth_provider"`

	MatchesIDs   []uuid.UUID   `bson:"matchesIds" json:"matches_ids"`
	PurchasesIDs []uuid.UUID   `bson:"purchasesIds" json:"purchases_ids"`
	Achievements []Achievement `bson:"achievements" json:"achievements"`
	Stats        ProfileStats  `bson:"stats" json:"stats"`

	IsAdmin         bool `bson:"isAdmin" json:"is_admin"`
	IsEmailVerified bool `bson:"isEmailVerified" json:"is_email_verified"`
	IsAccountActive bool `bson:"isAccountActive" json:"is_account_active"`
}

// NewLocalUser builds a user registered with password-based authentication.
// The caller supplies the already-hashed password.
func NewLocalUser(name, email, username, passwordHash string) *User {
	return &User{
		ID:              uuid.New(),
		Name:            name,
		Email:           email,
		Username:        username,
		CreatedDate:     time.Now().UTC(),
		PasswordHash:    passwordHash,
		AuthProvider:    ProviderLocal,
		MatchesIDs:      []uuid.UUID{},
		PurchasesIDs:    []uuid.UUID{},
		Achievements:    []Achievement{},
		IsAccountActive: true,
	}
}

// NewProviderUser builds a user established through an external auth provider.
// No password hash is ever set for these accounts.
func NewProviderUser(name string, provider AuthProvider) *User {
	return &User{
		ID:              uuid.New(),
		Name:            name,
		CreatedDate:     time.Now().UTC(),
		AuthProvider:    provider,
		MatchesIDs:      []uuid.UUID{},
		PurchasesIDs:    []uuid.UUID{},
		Achievements:    []Achievement{},
		IsAccountActive: true,
	}
}

func (u *User) SetName(name string)            { u.Name = name }
func (u *User) SetPasswordHash(hash string)    { u.PasswordHash = hash }
func (u *User) SetAuthProvider(p AuthProvider) { u.AuthProvider = p }
func (u *User) SetIsAccountActive(active bool) { u.IsAccountActive = active }
func (u *User) SetIsAdmin(admin bool)          { u.IsAdmin = admin }
func (u *User) VerifyEmail()                   { u.IsEmailVerified = true }

// AddAchievement appends an achievement. Duplicates are allowed; achievement
// identity is not deduplicated at this layer.
func (u *User) AddAchievement(a Achievement) {
	u.Achievements = append(u.Achievements, a)
}

// AddMatchID appends a match reference, rejecting duplicates.
func (u *User) AddMatchID(matchID uuid.UUID) {
	for _, id := range u.MatchesIDs {
		if id == matchID {
			return
		}
	}
	u.MatchesIDs = append(u.MatchesIDs, matchID)
}

// AddPurchaseID appends a purchase reference, rejecting duplicates.
func (u *User) AddPurchaseID(purchaseID uuid.UUID) {
	for _, id := range u.PurchasesIDs {
		if id == purchaseID {
			return
		}
	}
	u.PurchasesIDs = append(u.PurchasesIDs, purchaseID)
}
