package btree

import (
	"cmp"
	"fmt"
)

// Offset identifies a page by its index in the backing store.
type Offset uint64

func (o Offset) String() string { return fmt.Sprintf("@%d", uint64(o)) }

// Key is a separator in an internal node. Keys order lexicographically by
// their bytes.
type Key string

// Compare returns -1, 0 or +1.
func (k Key) Compare(other Key) int { return cmp.Compare(k, other) }

// KeyValuePair is one entry of a leaf node. Pairs order by key only; two
// pairs are equal when both key and value match.
type KeyValuePair struct {
	Key   string
	Value string
}

func NewKeyValuePair(key, value string) KeyValuePair {
	return KeyValuePair{Key: key, Value: value}
}

// Compare orders pairs by key, ignoring the value.
func (kv KeyValuePair) Compare(other KeyValuePair) int {
	return cmp.Compare(kv.Key, other.Key)
}

func (kv KeyValuePair) String() string {
	return fmt.Sprintf("%q=%q", kv.Key, kv.Value)
}
