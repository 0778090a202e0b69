package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotPool(t *testing.T) {
	var pool SlotPool

	for want := 1; want <= 8; want++ {
		got, err := pool.Allocate()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, pool.Available())

	_, err := pool.Allocate()
	assert.ErrorIs(t, err, ErrSlotsExhausted)

	pool.Free(3)
	got, err := pool.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	t.Run("Claim", func(t *testing.T) {
		var pool SlotPool
		assert.True(t, pool.Claim(5))
		assert.False(t, pool.Claim(5))
		assert.False(t, pool.Claim(0))
		assert.False(t, pool.Claim(9))
		assert.True(t, pool.InUse(5))
		assert.Equal(t, 7, pool.Available())

		pool.Free(42)
		pool.Free(5)
		assert.False(t, pool.InUse(5))
	})
}

func TestSlotColor(t *testing.T) {
	assert.Equal(t, "#e6194b", SlotColor(1))
	assert.Equal(t, "#bfef45", SlotColor(8))
	assert.Equal(t, "#808080", SlotColor(0))
}
