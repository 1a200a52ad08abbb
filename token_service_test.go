package chat_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ponyexpress/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdentity implements chat.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func TestTokenService_Generate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := chat.NewTokenService(signingKey, 30, "test-issuer", jwt.ClaimStrings{"test-audience"}, nil)

	identity := &MockIdentity{}
	identity.On("ID").Return("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	t.Run("generates a signed token", func(t *testing.T) {
		token, err := service.Generate(identity)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("token carries subject, issuer and audience", func(t *testing.T) {
		token, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", claims.Subject())
		assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", claims.UserID())
	})

	t.Run("token expires after the configured TTL", func(t *testing.T) {
		token, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		remaining := time.Until(claims.Expires())
		assert.Greater(t, remaining, 29*time.Minute)
		assert.LessOrEqual(t, remaining, 30*time.Minute)
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := chat.NewTokenService(signingKey, 30, "test-issuer", jwt.ClaimStrings{"test-audience"}, nil)

	identity := &MockIdentity{}
	identity.On("ID").Return("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	t.Run("accepts a token it minted", func(t *testing.T) {
		token, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(token)
		require.NoError(t, err)
		assert.NotNil(t, claims)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		other := chat.NewTokenService([]byte("other-key"), 30, "test-issuer", jwt.ClaimStrings{"test-audience"}, nil)
		token, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
		assert.True(t, chat.IsMalformedError(err))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.Validate("not.a.token")
		require.Error(t, err)
		assert.True(t, chat.IsMalformedError(err))
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		now := time.Now()
		claims := &chat.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   "f47ac10b-58cc-4372-a567-0e02b2c3d479",
				Audience:  jwt.ClaimStrings{"test-audience"},
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
			},
			UID: "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		}

		token, err := service.SignClaims(claims)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
		assert.True(t, chat.IsTokenExpiredError(err))
	})

	t.Run("rejects a token minted for a different audience", func(t *testing.T) {
		other := chat.NewTokenService(signingKey, 30, "test-issuer", jwt.ClaimStrings{"someone-else"}, nil)
		token, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.Error(t, err)
	})
}
