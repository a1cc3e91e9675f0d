package storage

import (
	"errors"

	"github.com/tuannm99/novanode/internal/alias/bx"
)

const (
	OneB  = 1 << 0  // 1
	OneKB = 1 << 10 // 1,024

	PageSize = 4 * OneKB   // 4,096 (4 KiB)
	PtrSize  = bx.PtrWidth // 8, fixed on disk regardless of platform int size
)

const (
	FileMode0644 = 0o644
	FileMode0664 = 0o664
	FileMode0755 = 0o755
)

var (
	ErrOutOfBounds    = errors.New("storage: range exceeds page size")
	ErrWrongSize      = errors.New("storage: buffer size != PageSize")
	ErrInvalidPageID  = errors.New("storage: invalid page id")
	ErrPagerClosed    = errors.New("storage: pager is closed")
	ErrLayoutMismatch = errors.New("storage: on-disk layout does not match this build")
	ErrStorageIO      = errors.New("storage: I/O error")
	ErrStoreNotFound  = errors.New("storage: store does not exist")
)
