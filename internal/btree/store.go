package btree

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/novanode/internal/bufferpool"
	"github.com/tuannm99/novanode/internal/storage"
)

// NodeStore reads and writes nodes by page offset through a buffer pool
// over a page file.
type NodeStore struct {
	pager *storage.Pager
	bp    *bufferpool.Pool
	meta  storage.Meta
}

// OpenNodeStore opens (or creates) the page file at path and its meta file,
// and checks that the file was written with this build's Layout.
func OpenNodeStore(path string, cachePages int) (*NodeStore, error) {
	meta, created, err := storage.LoadOrCreateMeta(storage.MetaPath(path), Layout)
	if err != nil {
		return nil, err
	}

	pager, err := storage.OpenPager(path)
	if err != nil {
		return nil, err
	}
	return newNodeStore(path, pager, meta, created, cachePages), nil
}

// OpenExistingNodeStore is OpenNodeStore for a store that must already
// exist. A missing meta or page file fails with storage.ErrStoreNotFound and
// nothing is created on disk.
func OpenExistingNodeStore(path string, cachePages int) (*NodeStore, error) {
	meta, err := storage.LoadMeta(storage.MetaPath(path), Layout)
	if err != nil {
		return nil, err
	}

	pager, err := storage.OpenExistingPager(path)
	if err != nil {
		return nil, err
	}
	return newNodeStore(path, pager, meta, false, cachePages), nil
}

func newNodeStore(path string, pager *storage.Pager, meta storage.Meta, created bool, cachePages int) *NodeStore {
	slog.Debug("btree.NodeStore.Open",
		"path", path,
		"storeID", meta.StoreID,
		"created", created,
		"pageCount", pager.PageCount(),
	)
	return &NodeStore{
		pager: pager,
		bp:    bufferpool.NewPool(pager, cachePages),
		meta:  meta,
	}
}

// Meta returns the store's meta record.
func (s *NodeStore) Meta() storage.Meta { return s.meta }

// PageCount returns the number of pages backed by the file.
func (s *NodeStore) PageCount() uint64 { return s.pager.PageCount() }

// ReadNode decodes the node stored at off.
func (s *NodeStore) ReadNode(off Offset) (Node, error) {
	page, err := s.bp.GetPage(uint64(off))
	if err != nil {
		return Node{}, err
	}
	n, err := Decode(page)
	if uerr := s.bp.Unpin(uint64(off), false); uerr != nil && err == nil {
		err = uerr
	}
	if err != nil {
		return Node{}, fmt.Errorf("read node %s: %w", off, err)
	}
	return n, nil
}

// ReadPage returns a copy of the raw page at off.
func (s *NodeStore) ReadPage(off Offset) (*storage.Page, error) {
	page, err := s.bp.GetPage(uint64(off))
	if err != nil {
		return nil, err
	}
	snap := page.Snapshot()
	if err := s.bp.Unpin(uint64(off), false); err != nil {
		return nil, err
	}
	return storage.PageFromBytes(snap[:])
}

// WriteNode encodes n and stores it at off. If encoding fails the page at
// off keeps its previous content.
func (s *NodeStore) WriteNode(off Offset, n Node) error {
	encoded, err := Encode(n)
	if err != nil {
		return fmt.Errorf("write node %s: %w", off, err)
	}

	page, err := s.bp.GetPage(uint64(off))
	if err != nil {
		return err
	}
	*page = *encoded
	if err := s.bp.Unpin(uint64(off), true); err != nil {
		return err
	}

	slog.Debug("btree.NodeStore.WriteNode", "offset", uint64(off), "type", n.Type, "root", n.IsRoot)
	return nil
}

// AppendNode stores n at a newly allocated offset.
func (s *NodeStore) AppendNode(n Node) (Offset, error) {
	// encode first so a bad node does not burn an offset
	if _, err := Encode(n); err != nil {
		return 0, fmt.Errorf("append node: %w", err)
	}
	id, err := s.pager.Allocate()
	if err != nil {
		return 0, err
	}
	off := Offset(id)
	if err := s.WriteNode(off, n); err != nil {
		return 0, err
	}
	return off, nil
}

// Flush writes all dirty pages and syncs the file.
func (s *NodeStore) Flush() error {
	if err := s.bp.FlushAll(); err != nil {
		return err
	}
	return s.pager.Sync()
}

// Close flushes and closes the store.
func (s *NodeStore) Close() error {
	return errors.Join(s.Flush(), s.pager.Close())
}
