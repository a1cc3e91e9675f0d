package bufferpool

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tuannm99/novanode/internal/storage"
)

var (
	DefaultCapacity = 128

	ErrNoFreeFrame = errors.New("bufferpool: no free frame available (all pinned)")
	ErrPagePinned  = errors.New("bufferpool: page is pinned")
	ErrNotCached   = errors.New("bufferpool: page is not cached")
)

// PageStore is the backing store the pool reads from and writes back to.
type PageStore interface {
	ReadPage(id uint64) (*storage.Page, error)
	WritePage(id uint64, page *storage.Page) error
}

var _ PageStore = (*storage.Pager)(nil)

// Manager is the page-cache surface used by the node store.
type Manager interface {
	GetPage(id uint64) (*storage.Page, error)
	Unpin(id uint64, dirty bool) error
	FlushPage(id uint64) error
	FlushAll() error
}

type Frame struct {
	PageID uint64
	Page   *storage.Page
	Dirty  bool
	Pin    int32
}

var _ Manager = (*Pool)(nil)

// Pool caches a fixed number of pages from a PageStore. A page handed out by
// GetPage stays pinned, and is never evicted, until the matching Unpin.
// Callers mutating the same pinned page must coordinate among themselves.
type Pool struct {
	store PageStore

	mu        sync.Mutex
	frames    []*Frame       // len == capacity, nil == free slot
	pageTable map[uint64]int // page id -> frame index

	replacer Replacer
}

func NewPool(store PageStore, capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		store:     store,
		frames:    make([]*Frame, capacity),
		pageTable: make(map[uint64]int),
		replacer:  newClock(capacity),
	}
}

// Capacity returns the number of frames.
func (p *Pool) Capacity() int { return len(p.frames) }

// GetPage returns the cached page for id, loading it on a miss, and pins it.
func (p *Pool) GetPage(id uint64) (*storage.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// 1) hit
	if idx, ok := p.pageTable[id]; ok {
		f := p.frames[idx]
		f.Pin++
		p.replacer.RecordAccess(idx)
		p.replacer.SetEvictable(idx, false)
		return f.Page, nil
	}

	// 2) free slot, else 3) evict
	idx := p.freeFrame()
	if idx == -1 {
		var err error
		if idx, err = p.evict(); err != nil {
			return nil, err
		}
	}

	page, err := p.store.ReadPage(id)
	if err != nil {
		return nil, err
	}

	p.frames[idx] = &Frame{PageID: id, Page: page, Pin: 1}
	p.pageTable[id] = idx
	p.replacer.RecordAccess(idx)
	p.replacer.SetEvictable(idx, false)
	return page, nil
}

func (p *Pool) freeFrame() int {
	for i, f := range p.frames {
		if f == nil {
			return i
		}
	}
	return -1
}

// evict writes back and frees one unpinned frame.
func (p *Pool) evict() (int, error) {
	idx, ok := p.replacer.Evict()
	if !ok {
		return -1, ErrNoFreeFrame
	}

	victim := p.frames[idx]
	if victim.Dirty {
		if err := p.store.WritePage(victim.PageID, victim.Page); err != nil {
			// keep the victim; it is still the only copy
			p.replacer.RecordAccess(idx)
			p.replacer.SetEvictable(idx, true)
			return -1, fmt.Errorf("bufferpool: write back page %d: %w", victim.PageID, err)
		}
	}

	slog.Debug("bufferpool.Pool.evict", "pageID", victim.PageID, "dirty", victim.Dirty, "frame", idx)
	delete(p.pageTable, victim.PageID)
	p.frames[idx] = nil
	return idx, nil
}

// Unpin releases one pin on id. dirty marks the page for write-back.
func (p *Pool) Unpin(id uint64, dirty bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotCached, id)
	}

	f := p.frames[idx]
	if dirty {
		f.Dirty = true
	}
	if f.Pin > 0 {
		f.Pin--
		if f.Pin == 0 {
			p.replacer.SetEvictable(idx, true)
		}
	}
	return nil
}

// FlushPage writes id back if it is cached and dirty.
func (p *Pool) FlushPage(id uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[id]
	if !ok {
		return nil
	}
	return p.flushFrame(p.frames[idx])
}

func (p *Pool) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, f := range p.frames {
		if f == nil {
			continue
		}
		if err := p.flushFrame(f); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pool) flushFrame(f *Frame) error {
	if !f.Dirty {
		return nil
	}
	if err := p.store.WritePage(f.PageID, f.Page); err != nil {
		return fmt.Errorf("bufferpool: flush page %d: %w", f.PageID, err)
	}
	f.Dirty = false
	return nil
}

// Discard drops id from the cache after writing it back. Pinned pages
// cannot be discarded.
func (p *Pool) Discard(id uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[id]
	if !ok {
		return nil
	}

	f := p.frames[idx]
	if f.Pin != 0 {
		return ErrPagePinned
	}
	if err := p.flushFrame(f); err != nil {
		return err
	}

	p.frames[idx] = nil
	delete(p.pageTable, id)
	p.replacer.Remove(idx)
	return nil
}
