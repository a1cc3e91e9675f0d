// stand for bytes helper
package bx

import "encoding/binary"

// BE is the byte order of every multi-byte integer in a node page.
var BE = binary.BigEndian

// PtrWidth is the on-disk width of a pointer or count field. It is fixed at
// 8 bytes so pages stay readable across platforms with different int sizes.
const PtrWidth = 8

// --- BE: 64-bit ---
func U64BE(b []byte) uint64       { return BE.Uint64(b) }
func PutU64BE(b []byte, v uint64) { BE.PutUint64(b, v) }

func U64BEAt(b []byte, off int) uint64       { return U64BE(b[off:]) }
func PutU64BEAt(b []byte, off int, v uint64) { PutU64BE(b[off:], v) }

// --- pointer-width fields ---
func PtrAt(b []byte, off int) uint64       { return U64BEAt(b, off) }
func PutPtrAt(b []byte, off int, v uint64) { PutU64BEAt(b, off, v) }

// PadCopy copies src into the fixed-width slot dst and zero-fills the rest.
// It returns false without touching dst when src does not fit.
func PadCopy(dst, src []byte) bool {
	if len(src) > len(dst) {
		return false
	}
	n := copy(dst, src)
	clear(dst[n:])
	return true
}

// TrimPad drops the trailing zero bytes of a fixed-width slot.
func TrimPad(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
