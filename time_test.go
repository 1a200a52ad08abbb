package chat_test

import (
	"testing"
	"time"

	"github.com/ponyexpress/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdPeriod(t *testing.T) {
	t.Run("recent time is within the window", func(t *testing.T) {
		within, err := chat.IsWithinThresholdPeriod(time.Now().Add(-time.Minute), "15m")
		require.NoError(t, err)
		assert.True(t, within)

		outside, err := chat.IsOutsideThresholdPeriod(time.Now().Add(-time.Minute), "15m")
		require.NoError(t, err)
		assert.False(t, outside)
	})

	t.Run("stale time is outside the window", func(t *testing.T) {
		within, err := chat.IsWithinThresholdPeriod(time.Now().Add(-time.Hour), "15m")
		require.NoError(t, err)
		assert.False(t, within)

		outside, err := chat.IsOutsideThresholdPeriod(time.Now().Add(-time.Hour), "15m")
		require.NoError(t, err)
		assert.True(t, outside)
	})

	t.Run("bad duration pattern errors", func(t *testing.T) {
		_, err := chat.IsWithinThresholdPeriod(time.Now(), "not-a-duration")
		assert.Error(t, err)

		_, err = chat.IsOutsideThresholdPeriod(time.Now(), "not-a-duration")
		assert.Error(t, err)
	})
}
