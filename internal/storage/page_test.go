package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage_ZeroFilled(t *testing.T) {
	p := NewPage()
	snap := p.Snapshot()
	assert.Equal(t, [PageSize]byte{}, snap)
	assert.True(t, p.IsZero())
}

func TestPage_PointerRoundTrip(t *testing.T) {
	p := NewPage()

	require.NoError(t, p.WritePointer(0x0102030405060708, 2))
	v, err := p.ReadPointer(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v)

	// big-endian on the wire
	raw, err := p.ReadBytes(2, PtrSize)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, raw)

	// last pointer that fits
	require.NoError(t, p.WritePointer(42, PageSize-PtrSize))
	v, err = p.ReadPointer(PageSize - PtrSize)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestPage_OverwritesPriorContent(t *testing.T) {
	p := NewPage()
	require.NoError(t, p.WriteBytes([]byte("hello"), 100))
	require.NoError(t, p.WriteBytes([]byte("HE"), 100))

	b, err := p.ReadBytes(100, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("HEllo"), b)
}

func TestPage_OutOfBounds(t *testing.T) {
	p := NewPage()

	_, err := p.ReadPointer(PageSize - PtrSize + 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = p.ReadPointer(-1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = p.ReadBytes(PageSize-3, 4)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = p.ReadBytes(0, PageSize+1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.ErrorIs(t, p.WritePointer(1, PageSize), ErrOutOfBounds)
	assert.ErrorIs(t, p.WriteBytes([]byte("abc"), PageSize-2), ErrOutOfBounds)
	assert.ErrorIs(t, p.WriteByteAt(1, PageSize), ErrOutOfBounds)

	_, err = p.ReadByteAt(PageSize)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	// a failed write leaves the page untouched
	assert.True(t, p.IsZero())

	// empty read at the very end is in range
	b, err := p.ReadBytes(PageSize, 0)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestPage_WriteSlot(t *testing.T) {
	p := NewPage()
	require.NoError(t, p.WriteBytes(bytes.Repeat([]byte{0xff}, 10), 20))

	ok, err := p.WriteSlot([]byte("abc"), 20, 10)
	require.NoError(t, err)
	require.True(t, ok)

	b, err := p.ReadBytes(20, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0, 0, 0, 0, 0, 0}, b)

	ok, err = p.WriteSlot([]byte("0123456789x"), 20, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.WriteSlot([]byte("a"), PageSize-5, 10)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestPageFromBytes(t *testing.T) {
	raw := make([]byte, PageSize)
	raw[0] = 1
	raw[PageSize-1] = 7

	p, err := PageFromBytes(raw)
	require.NoError(t, err)
	snap := p.Snapshot()
	assert.Equal(t, byte(1), snap[0])
	assert.Equal(t, byte(7), snap[PageSize-1])

	// page owns its copy
	raw[0] = 9
	b, err := p.ReadByteAt(0)
	require.NoError(t, err)
	assert.Equal(t, byte(1), b)

	_, err = PageFromBytes(make([]byte, PageSize-1))
	assert.ErrorIs(t, err, ErrWrongSize)
}

func TestPage_SnapshotIsCopy(t *testing.T) {
	p := NewPage()
	snap := p.Snapshot()
	snap[0] = 1
	assert.True(t, p.IsZero())

	require.NoError(t, p.WriteByteAt(1, 0))
	assert.False(t, p.IsZero())
	p.Reset()
	assert.True(t, p.IsZero())
}

func TestPage_DumpHex(t *testing.T) {
	p := NewPage()
	require.NoError(t, p.WriteBytes([]byte("AB"), 0))

	var buf bytes.Buffer
	require.NoError(t, p.DumpHex(&buf, 16))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "00000000  41 42 00"))
	assert.Contains(t, out, "|AB..............|")

	require.NotEmpty(t, p.DebugString())
}
