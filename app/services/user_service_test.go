package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/app/repositories"
	"github.com/shashiranjanraj/camtools/pkg/auth"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]models.User{}}
}

func (m *memUserStore) Upsert(_ context.Context, email string, fields map[string]interface{}) (models.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, existed := m.users[email]
	u.Email = email
	if name, ok := fields["name"].(string); ok {
		u.Name = name
	}
	m.users[email] = u

	if existed {
		return models.UpsertResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return models.UpsertResult{UpsertedID: email}, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (m *memUserStore) All(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUserStore) PromoteToAdmin(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Role = models.AdminRole
	m.users[email] = u
	return nil
}

func (m *memUserStore) IsAdmin(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return false, nil
	}
	return u.IsAdmin(), nil
}

func TestLoginUpsertsAndIssuesToken(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store)

	result, token, err := svc.Login(context.Background(), "ansel@example.com", map[string]interface{}{
		"name": "Ansel",
	})
	require.NoError(t, err)
	assert.NotNil(t, result.UpsertedID, "first login inserts")
	require.NotEmpty(t, token)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ansel@example.com", claims.Email)

	// Second login updates the existing record and mints a fresh token.
	result, token2, err := svc.Login(context.Background(), "ansel@example.com", map[string]interface{}{
		"name": "Ansel Adams",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.MatchedCount)
	assert.NotEmpty(t, token2)

	u, err := store.FindByEmail(context.Background(), "ansel@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ansel Adams", u.Name)
}

func TestPromoteAndIsAdmin(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store)

	_, _, err := svc.Login(context.Background(), "boss@example.com", nil)
	require.NoError(t, err)

	isAdmin, err := svc.IsAdmin(context.Background(), "boss@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, svc.Promote(context.Background(), "boss@example.com"))

	isAdmin, err = svc.IsAdmin(context.Background(), "boss@example.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestPromoteUnknownUser(t *testing.T) {
	svc := NewUserService(newMemUserStore())

	err := svc.Promote(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestIsAdminUnknownUser(t *testing.T) {
	svc := NewUserService(newMemUserStore())

	isAdmin, err := svc.IsAdmin(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin, "unknown users are not admins")
}
