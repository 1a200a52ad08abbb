package chat_test

import (
	"testing"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/ponyexpress/chat"
	"github.com/ponyexpress/chat/middleware/jwtware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityNotFound(t *testing.T) {
	err := chat.NewEntityNotFound("User", "f47ac10b-58cc-4372-a567-0e02b2c3d479")

	require.NotNil(t, err)
	assert.Equal(t, errors.CategoryNotFound, err.Category)
	assert.Equal(t, "entity_not_found", err.TextCode)
	assert.Equal(t, "User", err.Metadata["entity_name"])
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", err.Metadata["entity_id"])
}

func TestNewDuplicateEntity(t *testing.T) {
	err := chat.NewDuplicateEntity("User", "username", "sarah")

	require.NotNil(t, err)
	assert.Equal(t, errors.CategoryConflict, err.Category)
	assert.Equal(t, "duplicate_entity", err.TextCode)
	assert.Equal(t, "username", err.Metadata["entity_field"])
	assert.Equal(t, "sarah", err.Metadata["entity_value"])
}

func TestTokenErrorChecks(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		assert.True(t, chat.IsTokenExpiredError(chat.ErrTokenExpired))
		assert.False(t, chat.IsTokenExpiredError(nil))
		assert.False(t, chat.IsTokenExpiredError(chat.ErrTokenMalformed))
	})

	t.Run("malformed", func(t *testing.T) {
		assert.True(t, chat.IsMalformedError(chat.ErrTokenMalformed))
		assert.False(t, chat.IsMalformedError(nil))
		assert.False(t, chat.IsMalformedError(chat.ErrTokenExpired))
	})

	t.Run("missing bearer token counts as malformed", func(t *testing.T) {
		assert.True(t, chat.IsMalformedError(jwtware.ErrJWTMissingOrMalformed))
	})
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, chat.IsNotFoundError(chat.NewEntityNotFound("User", "x")))
	assert.True(t, chat.IsNotFoundError(repository.NewRecordNotFound()))
	assert.False(t, chat.IsNotFoundError(nil))
	assert.False(t, chat.IsNotFoundError(chat.ErrTokenExpired))
}
