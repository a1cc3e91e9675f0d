package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBigEndianU64 verifies the helpers behind every pointer and count
// field of a node page.
func TestBigEndianU64(t *testing.T) {
	b := make([]byte, 8)
	var v uint64 = 0x0102030405060708

	PutU64BE(b, v)
	// BE: most-significant byte first
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, b)
	assert.Equal(t, v, U64BE(b))

	buf := make([]byte, 16)
	PutU64BEAt(buf, 6, v)
	assert.Equal(t, v, U64BEAt(buf, 6))
	assert.Equal(t, make([]byte, 6), buf[:6])
}

func TestPtrAt(t *testing.T) {
	buf := make([]byte, 2+PtrWidth)

	PutPtrAt(buf, 2, 3)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 3}, buf)
	assert.Equal(t, uint64(3), PtrAt(buf, 2))
}

func TestPadCopyAndTrimPad(t *testing.T) {
	slot := []byte{9, 9, 9, 9}

	assert.True(t, PadCopy(slot, []byte("ab")))
	assert.Equal(t, []byte{'a', 'b', 0, 0}, slot)
	assert.Equal(t, []byte("ab"), TrimPad(slot))

	// too long: slot untouched
	assert.False(t, PadCopy(slot, []byte("abcde")))
	assert.Equal(t, []byte{'a', 'b', 0, 0}, slot)

	// exact fit keeps every byte
	assert.True(t, PadCopy(slot, []byte("wxyz")))
	assert.Equal(t, []byte("wxyz"), TrimPad(slot))

	assert.Empty(t, TrimPad([]byte{0, 0, 0}))
}
