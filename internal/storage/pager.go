package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"
)

const maxPageID = math.MaxInt64/PageSize - 1

// Pager manages the database file and provides direct page access by page
// id. Page id N lives at byte N*PageSize of the file.
type Pager struct {
	path      string
	file      *os.File
	pageCount uint64 // pages backed by the file
	next      uint64 // next id handed out by Allocate
	closed    bool
	mu        sync.RWMutex
}

// OpenPager opens or creates the page file at path.
func OpenPager(path string) (*Pager, error) {
	return openPager(path, os.O_RDWR|os.O_CREATE)
}

// OpenExistingPager opens the page file at path and fails with
// ErrStoreNotFound when it does not exist.
func OpenExistingPager(path string) (*Pager, error) {
	return openPager(path, os.O_RDWR)
}

func openPager(path string, flag int) (*Pager, error) {
	file, err := os.OpenFile(path, flag, FileMode0664)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open page file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat page file: %w", err)
	}

	// a torn trailing page still counts as allocated
	count := uint64((info.Size() + PageSize - 1) / PageSize)

	slog.Debug("storage.Pager.Open", "path", path, "pageCount", count)
	return &Pager{
		path:      path,
		file:      file,
		pageCount: count,
		next:      count,
	}, nil
}

func pagePos(id uint64) (int64, error) {
	if id > maxPageID {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPageID, id)
	}
	return int64(id) * PageSize, nil
}

// ReadPage reads page id from disk. Pages beyond the end of the file, and
// the tail of a short final page, read back as zeros.
func (p *Pager) ReadPage(id uint64) (*Page, error) {
	pos, err := pagePos(id)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPagerClosed
	}

	page := NewPage()
	n, err := p.file.ReadAt(page.buf[:], pos)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read page %d: %v", ErrStorageIO, id, err)
	}
	clear(page.buf[n:])
	return page, nil
}

// WritePage writes page to disk at id, growing the file if needed.
func (p *Pager) WritePage(id uint64, page *Page) error {
	pos, err := pagePos(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPagerClosed
	}

	n, err := p.file.WriteAt(page.buf[:], pos)
	if err != nil {
		return fmt.Errorf("%w: write page %d: %v", ErrStorageIO, id, err)
	}
	if n != PageSize {
		return fmt.Errorf("%w: write page %d: %v", ErrStorageIO, id, io.ErrShortWrite)
	}

	if id >= p.pageCount {
		p.pageCount = id + 1
	}
	if p.next < p.pageCount {
		p.next = p.pageCount
	}

	slog.Debug("storage.Pager.WritePage", "pageID", id)
	return nil
}

// Allocate reserves the next unused page id. The page becomes backed by the
// file on its first WritePage.
func (p *Pager) Allocate() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrPagerClosed
	}
	if p.next > maxPageID {
		return 0, fmt.Errorf("%w: page file is full", ErrInvalidPageID)
	}
	id := p.next
	p.next++
	return id, nil
}

// PageCount returns the number of pages backed by the file.
func (p *Pager) PageCount() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pageCount
}

// Path returns the page file path.
func (p *Pager) Path() string { return p.path }

// Sync flushes the file to stable storage.
func (p *Pager) Sync() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPagerClosed
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", ErrStorageIO, err)
	}
	return nil
}

// Close closes the page file. Closing twice is a no-op.
func (p *Pager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.file.Close()
}
