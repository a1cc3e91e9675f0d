package btree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novanode/internal/storage"
)

func newTestStore(t *testing.T) (*NodeStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodes.db")
	s, err := OpenNodeStore(path, 4)
	require.NoError(t, err)
	return s, path
}

func TestNodeStore_WriteReadReopen(t *testing.T) {
	s, path := newTestStore(t)

	root := NewRootNode(&Internal{Children: []Offset{1, 2}, Keys: []Key{"m"}})
	left := NewChildNode(&Leaf{Pairs: []KeyValuePair{{"a", "1"}, {"b", "2"}}}, 0)
	right := NewChildNode(&Leaf{Pairs: []KeyValuePair{{"m", "3"}, {"z", "4"}}}, 0)

	require.NoError(t, s.WriteNode(0, root))
	require.NoError(t, s.WriteNode(1, left))
	require.NoError(t, s.WriteNode(2, right))

	got, err := s.ReadNode(1)
	require.NoError(t, err)
	assert.Equal(t, left, got)

	storeID := s.Meta().StoreID
	require.NoError(t, s.Close())

	reopened, err := OpenNodeStore(path, 4)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	assert.Equal(t, storeID, reopened.Meta().StoreID)
	assert.Equal(t, uint64(3), reopened.PageCount())

	for off, want := range []Node{root, left, right} {
		got, err := reopened.ReadNode(Offset(off))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNodeStore_AppendNode(t *testing.T) {
	s, _ := newTestStore(t)
	defer func() { _ = s.Close() }()

	off0, err := s.AppendNode(NewRootNode(&Leaf{Pairs: []KeyValuePair{{"a", "1"}}}))
	require.NoError(t, err)
	off1, err := s.AppendNode(NewChildNode(&Leaf{Pairs: []KeyValuePair{{"b", "2"}}}, off0))
	require.NoError(t, err)
	assert.Equal(t, Offset(0), off0)
	assert.Equal(t, Offset(1), off1)

	// invalid node does not consume an offset
	_, err = s.AppendNode(NewNode(&Leaf{}, false, nil))
	assert.ErrorIs(t, err, ErrMissingParentOffset)

	off2, err := s.AppendNode(NewRootNode(&Leaf{}))
	require.NoError(t, err)
	assert.Equal(t, Offset(2), off2)

	got, err := s.ReadNode(off1)
	require.NoError(t, err)
	p, ok := got.ParentOffset()
	require.True(t, ok)
	assert.Equal(t, off0, p)
}

func TestNodeStore_FailedWriteKeepsPage(t *testing.T) {
	s, _ := newTestStore(t)
	defer func() { _ = s.Close() }()

	orig := NewRootNode(&Leaf{Pairs: []KeyValuePair{{"a", "1"}}})
	require.NoError(t, s.WriteNode(5, orig))

	err := s.WriteNode(5, NewRootNode(&Leaf{Pairs: []KeyValuePair{{"a-key-too-long", "1"}}}))
	assert.ErrorIs(t, err, ErrKeyTooLong)

	got, err := s.ReadNode(5)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestNodeStore_ReadUnwrittenPage(t *testing.T) {
	s, _ := newTestStore(t)
	defer func() { _ = s.Close() }()

	_, err := s.ReadNode(42)
	assert.ErrorIs(t, err, ErrInvalidNodeType)
}

func TestNodeStore_ManyNodesThroughSmallCache(t *testing.T) {
	s, _ := newTestStore(t)
	defer func() { _ = s.Close() }()

	// 4 frames, 20 pages: forces eviction and write-back
	for i := range 20 {
		n := NewChildNode(&Leaf{Pairs: []KeyValuePair{{"k", string(rune('a' + i))}}}, Offset(i))
		require.NoError(t, s.WriteNode(Offset(i), n))
	}
	for i := range 20 {
		got, err := s.ReadNode(Offset(i))
		require.NoError(t, err)
		assert.Equal(t, string(rune('a'+i)), got.Type.(*Leaf).Pairs[0].Value)
	}
}

func TestNodeStore_ReadPageIsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.WriteNode(0, NewRootNode(&Leaf{})))
	page, err := s.ReadPage(0)
	require.NoError(t, err)

	tag, err := page.ReadByteAt(NodeTypeOffset)
	require.NoError(t, err)
	assert.Equal(t, TagLeaf, tag)

	page.Reset()
	_, err = s.ReadNode(0)
	require.NoError(t, err)
}

func TestOpenNodeStore_LayoutMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.db")
	other := Layout
	other.KeySize = 16
	require.NoError(t, storage.SaveMeta(storage.MetaPath(path), storage.Meta{Version: 1, Layout: other}))

	_, err := OpenNodeStore(path, 4)
	assert.ErrorIs(t, err, storage.ErrLayoutMismatch)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "data file must not be created on mismatch")
}

func TestOpenExistingNodeStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.db")

	_, err := OpenExistingNodeStore(path, 4)
	assert.ErrorIs(t, err, storage.ErrStoreNotFound)
	_, statErr := os.Stat(storage.MetaPath(path))
	assert.True(t, os.IsNotExist(statErr), "meta file must not be created")

	s, err := OpenNodeStore(path, 4)
	require.NoError(t, err)
	leaf := NewRootNode(&Leaf{Pairs: []KeyValuePair{{"a", "1"}}})
	require.NoError(t, s.WriteNode(0, leaf))
	id := s.Meta().StoreID
	require.NoError(t, s.Close())

	s, err = OpenExistingNodeStore(path, 4)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	assert.Equal(t, id, s.Meta().StoreID)
	got, err := s.ReadNode(0)
	require.NoError(t, err)
	assert.Equal(t, leaf, got)
}
