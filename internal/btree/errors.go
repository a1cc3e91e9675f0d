package btree

import "errors"

var (
	// ErrInvalidNodeType is returned when a page carries an unknown type tag,
	// or when asked to encode the Unspecified sentinel.
	ErrInvalidNodeType = errors.New("btree: invalid node type")

	ErrUTF8Decode          = errors.New("btree: slot is not valid utf-8")
	ErrKeyTooLong          = errors.New("btree: key exceeds slot width")
	ErrValueTooLong        = errors.New("btree: value exceeds slot width")
	ErrMissingParentOffset = errors.New("btree: non-root node has no parent offset")
)
