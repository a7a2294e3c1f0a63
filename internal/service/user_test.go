// internal/service/user_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anquilosaurios/backend-core/internal/auth"
	"github.com/anquilosaurios/backend-core/internal/database"
	"github.com/anquilosaurios/backend-core/internal/models"
)

// memoryStore is an in-memory UserStore for service tests.
type memoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[uuid.UUID]models.User)}
}

func (m *memoryStore) GetByFilters(_ context.Context, filters database.UserFilters) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if filters.Email != "" && u.Email != filters.Email {
			continue
		}
		if filters.Username != "" && u.Username != filters.Username {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryStore) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if (u.Email != "" && u.Email == identifier) || (u.Username != "" && u.Username == identifier) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memoryStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryStore) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func TestCreateUserDefaults(t *testing.T) {
	store := newMemoryStore()
	svc := NewUserService(store, nil)

	user, err := svc.CreateUser(context.Background(), RegisterInput{
		Name:     "Anna",
		Username: "au",
		Email:    "a@x.com",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProviderLocal, user.AuthProvider)
	assert.True(t, user.IsAccountActive)
	assert.False(t, user.IsAdmin)
	assert.False(t, user.IsEmailVerified)
	assert.Equal(t, auth.HashPassword("secret"), user.PasswordHash)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Empty(t, user.Achievements)
}

func TestUpdateUserPartial(t *testing.T) {
	store := newMemoryStore()
	svc := NewUserService(store, nil)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, RegisterInput{Name: "Anna", Username: "au", Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	originalHash := user.PasswordHash

	// name only
	require.NoError(t, svc.UpdateUser(ctx, user.ID, UpdateInput{Name: "Annika"}))
	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annika", stored.Name)
	assert.Equal(t, originalHash, stored.PasswordHash)

	// password only
	require.NoError(t, svc.UpdateUser(ctx, user.ID, UpdateInput{Password: "newpass"}))
	stored, err = store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annika", stored.Name)
	assert.Equal(t, auth.HashPassword("newpass"), stored.PasswordHash)

	// both blank leaves everything untouched
	require.NoError(t, svc.UpdateUser(ctx, user.ID, UpdateInput{}))
	stored, err = store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annika", stored.Name)
	assert.Equal(t, auth.HashPassword("newpass"), stored.PasswordHash)
}

func TestMutatorsNotFound(t *testing.T) {
	svc := NewUserService(newMemoryStore(), nil)
	ctx := context.Background()
	missing := uuid.New()

	assert.ErrorIs(t, svc.UpdateUser(ctx, missing, UpdateInput{Name: "x"}), ErrUserNotFound)
	assert.ErrorIs(t, svc.UpdateAccountStatus(ctx, missing, false), ErrUserNotFound)
	assert.ErrorIs(t, svc.ChangeAdminPrivileges(ctx, missing, true), ErrUserNotFound)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, missing), ErrUserNotFound)
	assert.ErrorIs(t, svc.AddAchievements(ctx, missing, nil), ErrUserNotFound)
}

func TestAddAchievementsAccumulates(t *testing.T) {
	store := newMemoryStore()
	svc := NewUserService(store, nil)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, RegisterInput{Name: "Anna", Username: "au", Password: "secret"})
	require.NoError(t, err)

	err = svc.AddAchievements(ctx, user.ID, []models.AchievementType{
		models.AchievementFirstBloodWinner,
		models.AchievementFirstBloodWinner,
	})
	require.NoError(t, err)

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Achievements, 2)
	for _, a := range stored.Achievements {
		assert.Equal(t, string(models.AchievementFirstBloodWinner), a.Name)
		assert.Equal(t, "Achievement: FIRST_BLOOD_WINNER", a.Description)
		assert.False(t, a.UnlockedDate.IsZero())
	}

	// a later grant appends again, no dedup across calls
	require.NoError(t, svc.AddAchievements(ctx, user.ID, []models.AchievementType{models.AchievementFirstBloodWinner}))
	stored, err = store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Achievements, 3)
}

func TestAccountToggles(t *testing.T) {
	store := newMemoryStore()
	svc := NewUserService(store, nil)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, RegisterInput{Name: "Anna", Username: "au", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateAccountStatus(ctx, user.ID, false))
	require.NoError(t, svc.ChangeAdminPrivileges(ctx, user.ID, true))
	require.NoError(t, svc.VerifyEmail(ctx, user.ID))

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAccountActive)
	assert.True(t, stored.IsAdmin)
	assert.True(t, stored.IsEmailVerified)
}
