package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpritePriorityBufferLowerXWins(t *testing.T) {
	var buf spritePriorityBuffer
	buf.clear()

	assert.True(t, buf.tryClaimPixel(10, 0, 20), "first claim always succeeds")
	assert.False(t, buf.tryClaimPixel(10, 1, 30), "higher X loses to the existing claim")
	assert.True(t, buf.tryClaimPixel(10, 2, 5), "lower X wins over the existing claim")
	assert.Equal(t, 2, buf.owner(10))
}

func TestSpritePriorityBufferTiesGoToLowerOAMIndex(t *testing.T) {
	var buf spritePriorityBuffer
	buf.clear()

	buf.tryClaimPixel(5, 3, 40)
	claimed := buf.tryClaimPixel(5, 1, 40) // same X, lower OAM index
	assert.True(t, claimed)
	assert.Equal(t, 1, buf.owner(5))

	claimed = buf.tryClaimPixel(5, 7, 40) // same X, higher OAM index
	assert.False(t, claimed)
	assert.Equal(t, 1, buf.owner(5))
}

func TestSpritePriorityBufferUnclaimedPixelHasNoOwner(t *testing.T) {
	var buf spritePriorityBuffer
	buf.clear()
	assert.Equal(t, -1, buf.owner(0))
}

func TestSpritePriorityBufferOutOfRangeIsSafe(t *testing.T) {
	var buf spritePriorityBuffer
	buf.clear()
	assert.False(t, buf.tryClaimPixel(-1, 0, 0))
	assert.False(t, buf.tryClaimPixel(Width, 0, 0))
	assert.Equal(t, -1, buf.owner(-1))
}
