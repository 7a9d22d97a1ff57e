package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramebufferSetAndAt(t *testing.T) {
	fb := NewFramebuffer()
	fb.Set(5, 10, 3)
	assert.Equal(t, uint8(3), fb.At(5, 10))
	assert.Equal(t, uint8(0), fb.At(6, 10), "unset pixels start at shade 0")
}

func TestFramebufferOutOfBoundsIsSafe(t *testing.T) {
	fb := NewFramebuffer()
	fb.Set(-1, 0, 3)
	fb.Set(Width, 0, 3)
	assert.Equal(t, uint8(0), fb.At(-1, 0))
	assert.Equal(t, uint8(0), fb.At(Width, 0))
}

func TestFramebufferRow(t *testing.T) {
	fb := NewFramebuffer()
	fb.Set(0, 2, 1)
	fb.Set(1, 2, 2)
	row := fb.Row(2)
	assert.Equal(t, uint8(1), row[0])
	assert.Equal(t, uint8(2), row[1])
}
