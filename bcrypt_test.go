package chat_test

import (
	"testing"

	"github.com/ponyexpress/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a password", func(t *testing.T) {
		hash, err := chat.HashPassword("super-secret")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "super-secret", hash)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := chat.HashPassword("")
		assert.ErrorIs(t, err, chat.ErrNoEmptyString)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		a, err := chat.HashPassword("super-secret")
		require.NoError(t, err)
		b, err := chat.HashPassword("super-secret")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := chat.HashPassword("super-secret")
	require.NoError(t, err)

	t.Run("accepts the right password", func(t *testing.T) {
		assert.NoError(t, chat.ComparePasswordAndHash("super-secret", hash))
	})

	t.Run("rejects the wrong password", func(t *testing.T) {
		err := chat.ComparePasswordAndHash("not-the-password", hash)
		assert.ErrorIs(t, err, chat.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects garbage hashes", func(t *testing.T) {
		err := chat.ComparePasswordAndHash("super-secret", "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}
