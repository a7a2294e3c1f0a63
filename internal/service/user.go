// internal/service/user.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/auth"
	"github.com/anquilosaurios/backend-core/internal/database"
	"github.com/anquilosaurios/backend-core/internal/models"
)

// ErrUserNotFound is returned by mutators when the referenced user id does
// not resolve to a stored user.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the persistence surface the user service operates on.
type UserStore interface {
	GetByFilters(ctx context.Context, filters database.UserFilters) ([]models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateInput carries a partial profile update. Empty fields are left
// untouched on the stored user.
type UpdateInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserService implements registration, profile updates, account toggles,
// email verification, and achievement grants over the user store.
type UserService struct {
	users  UserStore
	logger *logrus.Logger
}

func NewUserService(users UserStore, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &UserService{users: users, logger: logger}
}

// GetUsers lists users matching the given filters.
func (s *UserService) GetUsers(ctx context.Context, filters database.UserFilters) ([]models.User, error) {
	return s.users.GetByFilters(ctx, filters)
}

// CreateUser registers a LOCAL user. Uniqueness of email/username is not
// checked here; the store's indexes decide.
func (s *UserService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := models.NewLocalUser(in.Name, in.Email, in.Username, auth.HashPassword(in.Password))
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.WithField("user_id", user.ID).Info("registered user")
	return user, nil
}

// UpdateUser applies a partial update to name and password. Blank fields
// leave the stored values unchanged.
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, in UpdateInput) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if in.Name != "" {
		user.SetName(in.Name)
	}
	if in.Password != "" {
		user.SetPasswordHash(auth.HashPassword(in.Password))
	}

	return s.users.Update(ctx, user)
}

// AddAchievements appends one achievement entry per requested type.
// Repeated grants for the same type accumulate additional entries.
func (s *UserService) AddAchievements(ctx context.Context, userID uuid.UUID, types []models.AchievementType) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, t := range types {
		user.AddAchievement(models.Achievement{
			Name:         string(t),
			Description:  t.Describe(),
			UnlockedDate: now,
		})
	}

	return s.users.Update(ctx, user)
}

// UpdateAccountStatus enables or disables the account.
func (s *UserService) UpdateAccountStatus(ctx context.Context, userID uuid.UUID, active bool) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	user.SetIsAccountActive(active)
	return s.users.Update(ctx, user)
}

// ChangeAdminPrivileges grants or revokes the admin flag.
func (s *UserService) ChangeAdminPrivileges(ctx context.Context, userID uuid.UUID, admin bool) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	user.SetIsAdmin(admin)
	return s.users.Update(ctx, user)
}

// VerifyEmail marks the user's email address as verified.
func (s *UserService) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	user.VerifyEmail()
	return s.users.Update(ctx, user)
}

func (s *UserService) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
