package chat_test

import (
	"context"
	"testing"

	"github.com/ponyexpress/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdentityProvider implements chat.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (chat.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(chat.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (chat.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(chat.Identity), args.Error(1)
}

type testConfig struct {
	signingKey      string
	tokenExpiration int
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string    { return "session" }
func (c testConfig) GetTokenExpiration() int {
	if c.tokenExpiration > 0 {
		return c.tokenExpiration
	}
	return 30
}
func (c testConfig) GetTokenLookup() string { return "header:Authorization" }
func (c testConfig) GetAuthScheme() string  { return "Bearer" }
func (c testConfig) GetIssuer() string      { return "test-issuer" }
func (c testConfig) GetAudience() []string  { return []string{"test-audience"} }

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a token for valid credentials", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("f47ac10b-58cc-4372-a567-0e02b2c3d479")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "sarah", "super-secret").Return(identity, nil)

		auther := chat.NewAuthenticator(provider, testConfig{signingKey: "test-signing-key"})

		token, err := auther.Login(ctx, "sarah", "super-secret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		session, err := auther.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", session.GetUserID())
	})

	t.Run("propagates the uniform credential failure", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "sarah", "wrong").Return(nil, chat.ErrMismatchedHashAndPassword)

		auther := chat.NewAuthenticator(provider, testConfig{signingKey: "test-signing-key"})

		_, err := auther.Login(ctx, "sarah", "wrong")
		assert.ErrorIs(t, err, chat.ErrMismatchedHashAndPassword)
	})

	t.Run("nil identity is an identity not found", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "sarah", "super-secret").Return(nil, nil)

		auther := chat.NewAuthenticator(provider, testConfig{signingKey: "test-signing-key"})

		_, err := auther.Login(ctx, "sarah", "super-secret")
		assert.ErrorIs(t, err, chat.ErrIdentityNotFound)
	})
}

func TestAuther_SessionFromToken(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := chat.NewAuthenticator(provider, testConfig{signingKey: "test-signing-key"})

	t.Run("rejects tokens signed elsewhere", func(t *testing.T) {
		other := chat.NewAuthenticator(provider, testConfig{signingKey: "other-key"})

		identity := &MockIdentity{}
		identity.On("ID").Return("f47ac10b-58cc-4372-a567-0e02b2c3d479")
		token, err := other.TokenService().Generate(identity)
		require.NoError(t, err)

		_, err = auther.SessionFromToken(token)
		require.Error(t, err)
		assert.True(t, chat.IsMalformedError(err))
	})

	t.Run("session exposes the token envelope", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("f47ac10b-58cc-4372-a567-0e02b2c3d479")
		token, err := auther.TokenService().Generate(identity)
		require.NoError(t, err)

		session, err := auther.SessionFromToken(token)
		require.NoError(t, err)

		assert.Equal(t, "test-issuer", session.GetIssuer())
		assert.Equal(t, []string{"test-audience"}, session.GetAudience())
		assert.NotNil(t, session.GetIssuedAt())
		assert.NotNil(t, session.GetExpiration())
		assert.True(t, chat.HasUserUUID(session))

		id, err := session.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", id.String())
	})
}

func TestAuther_IdentityFromSession(t *testing.T) {
	ctx := context.Background()

	identity := &MockIdentity{}
	identity.On("ID").Return("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	identity.On("Username").Return("sarah")

	provider := &MockIdentityProvider{}
	provider.On("FindIdentityByIdentifier", ctx, "f47ac10b-58cc-4372-a567-0e02b2c3d479").Return(identity, nil)

	auther := chat.NewAuthenticator(provider, testConfig{signingKey: "test-signing-key"})

	t.Run("resolves the session subject", func(t *testing.T) {
		session := &chat.SessionObject{UserID: "f47ac10b-58cc-4372-a567-0e02b2c3d479"}

		got, err := auther.IdentityFromSession(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, "sarah", got.Username())
	})

	t.Run("reports vanished subjects", func(t *testing.T) {
		missing := &MockIdentityProvider{}
		missing.On("FindIdentityByIdentifier", ctx, "ghost").Return(nil, chat.ErrIdentityNotFound)

		auther := chat.NewAuthenticator(missing, testConfig{signingKey: "test-signing-key"})

		session := &chat.SessionObject{UserID: "ghost"}
		_, err := auther.IdentityFromSession(ctx, session)
		assert.ErrorIs(t, err, chat.ErrIdentityNotFound)
	})
}
