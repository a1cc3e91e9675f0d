package storage

import (
	"fmt"

	"github.com/tuannm99/novanode/internal/alias/bx"
)

// Page is one fixed-size block of the backing store. It owns its bytes and
// carries no structure of its own; the node codec imposes the layout.
//
// A Page is not safe for concurrent mutation. Whoever holds it (the pager,
// the buffer pool or the codec) owns it exclusively.
type Page struct {
	buf [PageSize]byte
}

// NewPage returns a zero-filled page.
func NewPage() *Page {
	return &Page{}
}

// PageFromBytes copies a raw PageSize buffer into a new page.
func PageFromBytes(b []byte) (*Page, error) {
	if len(b) != PageSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrWrongSize, len(b))
	}
	p := &Page{}
	copy(p.buf[:], b)
	return p, nil
}

func checkRange(off, size int) error {
	if off < 0 || size < 0 || off > PageSize-size {
		return fmt.Errorf("%w: [%d, %d+%d) of %d", ErrOutOfBounds, off, off, size, PageSize)
	}
	return nil
}

// ReadPointer reads a PtrSize big-endian integer at off.
func (p *Page) ReadPointer(off int) (uint64, error) {
	if err := checkRange(off, PtrSize); err != nil {
		return 0, err
	}
	return bx.PtrAt(p.buf[:], off), nil
}

// ReadBytes returns a view of size bytes at off. The view aliases the page
// and must be treated as read-only; copy it to keep it past the next write.
func (p *Page) ReadBytes(off, size int) ([]byte, error) {
	if err := checkRange(off, size); err != nil {
		return nil, err
	}
	return p.buf[off : off+size : off+size], nil
}

// ReadByteAt reads the single byte at off.
func (p *Page) ReadByteAt(off int) (byte, error) {
	if err := checkRange(off, 1); err != nil {
		return 0, err
	}
	return p.buf[off], nil
}

// WritePointer writes v as PtrSize big-endian bytes at off.
func (p *Page) WritePointer(v uint64, off int) error {
	if err := checkRange(off, PtrSize); err != nil {
		return err
	}
	bx.PutPtrAt(p.buf[:], off, v)
	return nil
}

// WriteBytes overwrites len(b) bytes at off.
func (p *Page) WriteBytes(b []byte, off int) error {
	if err := checkRange(off, len(b)); err != nil {
		return err
	}
	copy(p.buf[off:], b)
	return nil
}

// WriteByteAt overwrites the single byte at off.
func (p *Page) WriteByteAt(v byte, off int) error {
	if err := checkRange(off, 1); err != nil {
		return err
	}
	p.buf[off] = v
	return nil
}

// WriteSlot writes b left-aligned into a width-byte slot at off, zero
// padding the remainder. It reports false, leaving the page untouched, when
// b is wider than the slot.
func (p *Page) WriteSlot(b []byte, off, width int) (bool, error) {
	if err := checkRange(off, width); err != nil {
		return false, err
	}
	return bx.PadCopy(p.buf[off:off+width], b), nil
}

// Snapshot returns a copy of the whole page.
func (p *Page) Snapshot() [PageSize]byte {
	return p.buf
}

// Reset zeroes the page.
func (p *Page) Reset() {
	clear(p.buf[:])
}

// IsZero reports whether every byte of the page is zero, which is how a
// never-written page reads back from the pager.
func (p *Page) IsZero() bool {
	for _, b := range p.buf {
		if b != 0 {
			return false
		}
	}
	return true
}
