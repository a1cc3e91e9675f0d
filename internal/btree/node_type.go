package btree

// Type tag bytes written at NodeTypeOffset.
const (
	TagInternal    byte = 0x01
	TagLeaf        byte = 0x02
	TagUnspecified byte = 0x03
)

// NodeType is the payload of a node: exactly one of *Internal, *Leaf or
// Unspecified. The set is closed; only this package can add variants.
type NodeType interface {
	Tag() byte
	String() string
	isNodeType()
}

// Internal holds child offsets and the separator keys between them.
// len(Children) == len(Keys)+1 whenever Children is non-empty.
type Internal struct {
	Children []Offset
	Keys     []Key
}

// Leaf holds key-value pairs sorted by key. The sort order is kept by the
// tree, not checked here.
type Leaf struct {
	Pairs []KeyValuePair
}

// Unspecified marks a page whose type could not be determined. It is never
// encoded.
type Unspecified struct{}

func (*Internal) Tag() byte   { return TagInternal }
func (*Leaf) Tag() byte       { return TagLeaf }
func (Unspecified) Tag() byte { return TagUnspecified }

func (*Internal) String() string   { return "internal" }
func (*Leaf) String() string       { return "leaf" }
func (Unspecified) String() string { return "unspecified" }

func (*Internal) isNodeType()   {}
func (*Leaf) isNodeType()       {}
func (Unspecified) isNodeType() {}

// NodeTypeFromTag returns an empty shell for tag. Tags other than
// TagInternal and TagLeaf map to Unspecified.
func NodeTypeFromTag(tag byte) NodeType {
	switch tag {
	case TagInternal:
		return &Internal{Children: []Offset{}, Keys: []Key{}}
	case TagLeaf:
		return &Leaf{Pairs: []KeyValuePair{}}
	default:
		return Unspecified{}
	}
}
