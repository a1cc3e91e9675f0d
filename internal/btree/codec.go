package btree

import (
	"fmt"
	"unicode/utf8"

	"github.com/tuannm99/novanode/internal/alias/bx"
	"github.com/tuannm99/novanode/internal/storage"
)

// Encode serializes n into a fresh zero-filled page.
//
// A root node never has its Parent read. A non-root node without a parent
// fails with ErrMissingParentOffset. Keys and values longer than their
// slots fail with ErrKeyTooLong / ErrValueTooLong, and the Unspecified type
// fails with ErrInvalidNodeType, as does a nil *Internal or *Leaf. On error the partial page is dropped.
func Encode(n Node) (*storage.Page, error) {
	page := storage.NewPage()

	var isRoot byte
	if n.IsRoot {
		isRoot = 1
	}
	if err := page.WriteByteAt(isRoot, IsRootOffset); err != nil {
		return nil, err
	}

	tag := TagUnspecified
	if n.Type != nil {
		tag = n.Type.Tag()
	}
	if err := page.WriteByteAt(tag, NodeTypeOffset); err != nil {
		return nil, err
	}

	if !n.IsRoot {
		parent, ok := n.ParentOffset()
		if !ok {
			return nil, ErrMissingParentOffset
		}
		if err := page.WritePointer(uint64(parent), ParentPointerOffset); err != nil {
			return nil, err
		}
	}

	var err error
	switch t := n.Type.(type) {
	case *Internal:
		if t == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrInvalidNodeType, t)
		}
		err = encodeInternal(page, t)
	case *Leaf:
		if t == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrInvalidNodeType, t)
		}
		err = encodeLeaf(page, t)
	case Unspecified, nil:
		err = ErrInvalidNodeType
	default:
		err = fmt.Errorf("%w: %T", ErrInvalidNodeType, t)
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func encodeInternal(page *storage.Page, t *Internal) error {
	if err := page.WritePointer(uint64(len(t.Children)), InternalNodeNumChildrenOffset); err != nil {
		return err
	}

	off := InternalNodeHeaderSize
	for i, child := range t.Children {
		if err := page.WritePointer(uint64(child), off); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
		off += storage.PtrSize
	}

	for i, key := range t.Keys {
		ok, err := page.WriteSlot([]byte(key), off, KeySize)
		if err != nil {
			return fmt.Errorf("key %d: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("%w: key %d (%d bytes)", ErrKeyTooLong, i, len(key))
		}
		off += KeySize
	}
	return nil
}

func encodeLeaf(page *storage.Page, t *Leaf) error {
	if err := page.WritePointer(uint64(len(t.Pairs)), LeafNodeNumPairsOffset); err != nil {
		return err
	}

	off := LeafNodeHeaderSize
	for i, kv := range t.Pairs {
		ok, err := page.WriteSlot([]byte(kv.Key), off, KeySize)
		if err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("%w: pair %d key (%d bytes)", ErrKeyTooLong, i, len(kv.Key))
		}
		off += KeySize

		ok, err = page.WriteSlot([]byte(kv.Value), off, ValueSize)
		if err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("%w: pair %d value (%d bytes)", ErrValueTooLong, i, len(kv.Value))
		}
		off += ValueSize
	}
	return nil
}

// Decode rebuilds a node from page. Only byte-level well-formedness is
// checked: counts are trusted, and a count that runs past the page fails
// with storage.ErrOutOfBounds.
func Decode(page *storage.Page) (Node, error) {
	isRoot, err := page.ReadByteAt(IsRootOffset)
	if err != nil {
		return Node{}, err
	}
	tag, err := page.ReadByteAt(NodeTypeOffset)
	if err != nil {
		return Node{}, err
	}

	n := Node{
		Type:   NodeTypeFromTag(tag),
		IsRoot: isRoot != 0,
	}

	if !n.IsRoot {
		p, err := page.ReadPointer(ParentPointerOffset)
		if err != nil {
			return Node{}, err
		}
		parent := Offset(p)
		n.Parent = &parent
	}

	switch t := n.Type.(type) {
	case *Internal:
		err = decodeInternal(page, t)
	case *Leaf:
		err = decodeLeaf(page, t)
	default:
		err = fmt.Errorf("%w: tag 0x%02x", ErrInvalidNodeType, tag)
	}
	if err != nil {
		return Node{}, err
	}
	return n, nil
}

func decodeInternal(page *storage.Page, t *Internal) error {
	count, err := page.ReadPointer(InternalNodeNumChildrenOffset)
	if err != nil {
		return err
	}

	t.Children = make([]Offset, 0, min(count, uint64(MaxInternalChildren())))
	off := InternalNodeHeaderSize
	for i := uint64(0); i < count; i++ {
		child, err := page.ReadPointer(off)
		if err != nil {
			return fmt.Errorf("child %d of %d: %w", i, count, err)
		}
		t.Children = append(t.Children, Offset(child))
		off += storage.PtrSize
	}

	if count == 0 {
		return nil
	}
	numKeys := count - 1
	t.Keys = make([]Key, 0, min(numKeys, uint64(MaxInternalChildren())))
	for i := uint64(0); i < numKeys; i++ {
		s, err := readSlot(page, off, KeySize)
		if err != nil {
			return fmt.Errorf("key %d: %w", i, err)
		}
		t.Keys = append(t.Keys, Key(s))
		off += KeySize
	}
	return nil
}

func decodeLeaf(page *storage.Page, t *Leaf) error {
	count, err := page.ReadPointer(LeafNodeNumPairsOffset)
	if err != nil {
		return err
	}

	t.Pairs = make([]KeyValuePair, 0, min(count, uint64(MaxLeafPairs())))
	off := LeafNodeHeaderSize
	for i := uint64(0); i < count; i++ {
		key, err := readSlot(page, off, KeySize)
		if err != nil {
			return fmt.Errorf("pair %d of %d key: %w", i, count, err)
		}
		off += KeySize

		value, err := readSlot(page, off, ValueSize)
		if err != nil {
			return fmt.Errorf("pair %d of %d value: %w", i, count, err)
		}
		off += ValueSize

		t.Pairs = append(t.Pairs, NewKeyValuePair(key, value))
	}
	return nil
}

// readSlot reads a zero-padded text slot. Trailing NULs are padding, so text
// that itself ends in NUL does not survive a round trip.
func readSlot(page *storage.Page, off, width int) (string, error) {
	raw, err := page.ReadBytes(off, width)
	if err != nil {
		return "", err
	}
	b := bx.TrimPad(raw)
	if !utf8.Valid(b) {
		return "", ErrUTF8Decode
	}
	return string(b), nil
}
