package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-api/internal/domain"
)

func TestUserService_CreateUser(t *testing.T) {
	t.Run("creates a valid user", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo())

		user, err := svc.CreateUser(context.Background(), domain.User{
			Name:  "Ana Costa",
			Email: "ana@example.com",
			Role:  domain.RoleStudent,
		})

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo())

		_, err := svc.CreateUser(context.Background(), domain.User{
			Name:  "Ana Costa",
			Email: "ana@example.com",
			Role:  "admin",
		})

		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		existing := domain.User{ID: 1, Name: "Ana Costa", Email: "ana@example.com", Role: domain.RoleStudent}
		svc := NewUserService(newFakeUserRepo(existing))

		_, err := svc.CreateUser(context.Background(), domain.User{
			Name:  "Another Ana",
			Email: existing.Email,
			Role:  domain.RoleStudent,
		})

		assert.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestUserService_FindOrCreateByIdentity(t *testing.T) {
	existing := domain.User{ID: 1, Name: "Ana Costa", Email: "ana@example.com", Role: domain.RoleStudent}

	t.Run("finds by email first", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(existing))

		user, err := svc.FindOrCreateByIdentity(context.Background(), "someone else", existing.Email)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
	})

	t.Run("falls back to name", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(existing))

		user, err := svc.FindOrCreateByIdentity(context.Background(), existing.Name, "")

		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
	})

	t.Run("creates a student with a derived email when nothing matches", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(existing))

		user, err := svc.FindOrCreateByIdentity(context.Background(), "Walk In Kid", "")

		require.NoError(t, err)
		assert.NotEqual(t, existing.ID, user.ID)
		assert.Equal(t, domain.RoleStudent, user.Role)
		assert.Equal(t, "walk.in.kid@example.com", user.Email)
	})
}

func TestQRPayloadRoundTrip(t *testing.T) {
	user := domain.User{ID: 42, Name: "Ana Costa", Email: "ana@example.com", Role: domain.RoleStudent}
	svc := NewUserService(newFakeUserRepo(user))

	payload := QRPayload(user)
	assert.Equal(t, "42:Ana Costa", payload)

	resolved, err := svc.ResolveQRPayload(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestUserService_ResolveQRPayload_Invalid(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	tests := []string{"", "no-separator", "abc:Name"}
	for _, payload := range tests {
		_, err := svc.ResolveQRPayload(context.Background(), payload)
		assert.ErrorIs(t, err, ErrInvalidQRData, "payload %q", payload)
	}
}
