package btree

import "github.com/tuannm99/novanode/internal/storage"

// Page layout of a node. All integers are big-endian, PtrSize wide.
//
//	+----------------------+ 0
//	| is_root   (1 byte)   |
//	| node type (1 byte)   |
//	| parent    (PtrSize)  | zero on the root
//	+----------------------+ CommonNodeHeaderSize
//	| num children / pairs |
//	+----------------------+ InternalNodeHeaderSize / LeafNodeHeaderSize
//	| Internal: children[n] (PtrSize each), then keys[n-1] (KeySize each)
//	| Leaf:     pairs[n] as key (KeySize) + value (ValueSize)
//	+----------------------+ PageSize
const (
	IsRootSize           = 1
	IsRootOffset         = 0
	NodeTypeSize         = 1
	NodeTypeOffset       = IsRootOffset + IsRootSize
	ParentPointerOffset  = NodeTypeOffset + NodeTypeSize
	ParentPointerSize    = storage.PtrSize
	CommonNodeHeaderSize = IsRootSize + NodeTypeSize + ParentPointerSize

	InternalNodeNumChildrenOffset = CommonNodeHeaderSize
	InternalNodeNumChildrenSize   = storage.PtrSize
	InternalNodeHeaderSize        = CommonNodeHeaderSize + InternalNodeNumChildrenSize

	LeafNodeNumPairsOffset = CommonNodeHeaderSize
	LeafNodeNumPairsSize   = storage.PtrSize
	LeafNodeHeaderSize     = CommonNodeHeaderSize + LeafNodeNumPairsSize

	KeySize   = 10
	ValueSize = 10
)

// Layout is the on-disk contract recorded in a store's meta file.
var Layout = storage.Layout{
	PageSize:  storage.PageSize,
	PtrSize:   storage.PtrSize,
	KeySize:   KeySize,
	ValueSize: ValueSize,
}

// MaxLeafPairs is how many key-value pairs fit on one leaf page.
func MaxLeafPairs() int {
	return (storage.PageSize - LeafNodeHeaderSize) / (KeySize + ValueSize)
}

// MaxInternalChildren is how many children fit on one internal page, with
// one fewer separator key than children.
func MaxInternalChildren() int {
	// n*PtrSize + (n-1)*KeySize <= free
	free := storage.PageSize - InternalNodeHeaderSize
	return (free + KeySize) / (storage.PtrSize + KeySize)
}
