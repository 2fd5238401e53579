package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-api/internal/pkg/jwthelper"
)

func TestAuthService_LoginCoach(t *testing.T) {
	svc := NewAuthService("courtside2024", "test-signing-key")

	t.Run("issues a coach token for the right password", func(t *testing.T) {
		token, err := svc.LoginCoach("courtside2024", "test-agent")
		require.NoError(t, err)

		claims, err := jwthelper.ParseToken([]byte("test-signing-key"), token)
		require.NoError(t, err)
		assert.Equal(t, "coach", claims.Role)
		assert.Equal(t, "test-agent", claims.UserAgent)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.LoginCoach("wrong-password", "test-agent")

		assert.ErrorIs(t, err, ErrWrongPassword)
	})
}
