package btree

import (
	"fmt"
	"strings"
)

// Node is the in-memory form of one B-tree node. It is a plain value: the
// page it is stored in is decided by the caller.
//
// IsRoot is true exactly when Parent is nil.
type Node struct {
	Type   NodeType
	IsRoot bool
	Parent *Offset
}

// NewNode builds a node from its parts without checking them.
func NewNode(nodeType NodeType, isRoot bool, parent *Offset) Node {
	return Node{Type: nodeType, IsRoot: isRoot, Parent: parent}
}

// NewRootNode builds a root node, which has no parent.
func NewRootNode(nodeType NodeType) Node {
	return Node{Type: nodeType, IsRoot: true}
}

// NewChildNode builds a non-root node under parent.
func NewChildNode(nodeType NodeType, parent Offset) Node {
	return Node{Type: nodeType, Parent: &parent}
}

// NewLeafNode is shorthand for a leaf node holding pairs.
func NewLeafNode(isRoot bool, parent *Offset, pairs ...KeyValuePair) Node {
	return NewNode(&Leaf{Pairs: pairs}, isRoot, parent)
}

// NewInternalNode is shorthand for an internal node.
func NewInternalNode(isRoot bool, parent *Offset, children []Offset, keys []Key) Node {
	return NewNode(&Internal{Children: children, Keys: keys}, isRoot, parent)
}

// ParentOffset returns the parent page and whether the node has one.
func (n Node) ParentOffset() (Offset, bool) {
	if n.Parent == nil {
		return 0, false
	}
	return *n.Parent, true
}

// Validate checks the structural invariants the codec relies on callers to
// keep: root iff no parent, children = keys + 1, and slot widths. Encode
// enforces only the parent and slot-width parts; decoded nodes are not
// validated.
func (n Node) Validate() error {
	if !n.IsRoot && n.Parent == nil {
		return ErrMissingParentOffset
	}
	if n.IsRoot && n.Parent != nil {
		return fmt.Errorf("btree: root node carries parent %s", *n.Parent)
	}

	switch t := n.Type.(type) {
	case *Internal:
		if t == nil {
			return fmt.Errorf("%w: nil %T", ErrInvalidNodeType, t)
		}
		if len(t.Children) > 0 && len(t.Children) != len(t.Keys)+1 {
			return fmt.Errorf("btree: internal node has %d children and %d keys", len(t.Children), len(t.Keys))
		}
		if len(t.Children) == 0 && len(t.Keys) != 0 {
			return fmt.Errorf("btree: internal node has %d keys and no children", len(t.Keys))
		}
		for i, k := range t.Keys {
			if len(k) > KeySize {
				return fmt.Errorf("%w: key %d (%d bytes)", ErrKeyTooLong, i, len(k))
			}
		}
	case *Leaf:
		if t == nil {
			return fmt.Errorf("%w: nil %T", ErrInvalidNodeType, t)
		}
		for i, kv := range t.Pairs {
			if len(kv.Key) > KeySize {
				return fmt.Errorf("%w: pair %d key (%d bytes)", ErrKeyTooLong, i, len(kv.Key))
			}
			if len(kv.Value) > ValueSize {
				return fmt.Errorf("%w: pair %d value (%d bytes)", ErrValueTooLong, i, len(kv.Value))
			}
		}
	case Unspecified, nil:
		return ErrInvalidNodeType
	default:
		return fmt.Errorf("%w: %T", ErrInvalidNodeType, t)
	}
	return nil
}

func (n Node) String() string {
	var sb strings.Builder
	sb.WriteString("Node{")
	if n.IsRoot {
		sb.WriteString("root")
	} else if p, ok := n.ParentOffset(); ok {
		fmt.Fprintf(&sb, "parent=%s", p)
	} else {
		sb.WriteString("parent=<none>")
	}

	switch t := n.Type.(type) {
	case *Internal:
		if t == nil {
			sb.WriteString(" internal <nil>")
			break
		}
		fmt.Fprintf(&sb, " internal children=%v keys=%q", t.Children, t.Keys)
	case *Leaf:
		if t == nil {
			sb.WriteString(" leaf <nil>")
			break
		}
		fmt.Fprintf(&sb, " leaf pairs=%v", t.Pairs)
	case nil:
		sb.WriteString(" <nil>")
	default:
		sb.WriteString(" " + t.String())
	}
	sb.WriteString("}")
	return sb.String()
}
