package classfile

import (
	"errors"
	"fmt"
)

var (
	ErrNotAClassFile  = errors.New("not a class file")
	ErrTruncatedInput = errors.New("truncated input")
	ErrMalformedUtf8  = errors.New("malformed modified utf-8")
)

// FormatError reports a malformed header or structural field.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classfile: %s: %v", e.Reason, e.Err)
	}
	return "classfile: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

type UnsupportedConstantTagError struct {
	Tag   uint8
	Index uint16
}

func (e *UnsupportedConstantTagError) Error() string {
	return fmt.Sprintf("classfile: unsupported constant pool tag %d at index %d", e.Tag, e.Index)
}

// ConstantRefError reports a constant pool index that is out of range, points
// at a reserved slot, or names an entry of the wrong kind.
type ConstantRefError struct {
	Index uint16
	Want  ConstantTag
	Got   ConstantTag
	Count int
}

func (e *ConstantRefError) Error() string {
	switch {
	case e.Index == 0 || int(e.Index) > e.Count:
		return fmt.Sprintf("classfile: constant pool index %d out of range [1, %d]", e.Index, e.Count)
	case e.Got == ConstantReserved:
		return fmt.Sprintf("classfile: constant pool index %d is a reserved slot", e.Index)
	default:
		return fmt.Sprintf("classfile: constant pool index %d is %s, want %s", e.Index, e.Got, e.Want)
	}
}
