// Package descriptor decodes JVM field and method descriptors into a small
// generic type vocabulary shared with non-JVM RPC peers.
package descriptor

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindByte
	KindString
	KindFloat
	KindInt
	KindLong
	KindList
	KindDict
	KindDate
	KindObject
)

var kindNames = [...]string{
	KindVoid:   "void",
	KindBool:   "bool",
	KindByte:   "byte",
	KindString: "string",
	KindFloat:  "float",
	KindInt:    "int",
	KindLong:   "long",
	KindList:   "list",
	KindDict:   "dict",
	KindDate:   "date",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsScalar reports whether values of k fit in a single literal.
func (k Kind) IsScalar() bool {
	switch k {
	case KindBool, KindByte, KindString, KindFloat, KindInt, KindLong:
		return true
	}
	return false
}

// Type is one decoded descriptor. Name is set only for KindObject.
type Type struct {
	Kind       Kind
	Name       string
	ArrayDepth int
}

// String renders the type the way RPC peers spell it: one '[' per array
// dimension followed by the kind name, or the class name for opaque objects.
func (t Type) String() string {
	base := t.Kind.String()
	if t.Kind == KindObject {
		base = t.Name
	}
	return strings.Repeat("[", t.ArrayDepth) + base
}

func (t Type) IsArray() bool { return t.ArrayDepth > 0 }

type Method struct {
	Params []Type
	Return Type
}

func (m Method) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") ")
	sb.WriteString(m.Return.String())
	return sb.String()
}

// UnexpectedCharError reports a character that cannot start a type.
type UnexpectedCharError struct {
	Char   byte
	Offset int
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("descriptor: unexpected %q at offset %d", e.Char, e.Offset)
}

// UnexpectedEndError reports a descriptor that ends in the middle of a type.
type UnexpectedEndError struct {
	Offset int
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("descriptor: unexpected end at offset %d", e.Offset)
}

// Decode reads one type starting at offset and returns it together with the
// offset just past it.
func Decode(desc string, offset int) (Type, int, error) {
	if offset < 0 {
		return Type{}, offset, &UnexpectedEndError{Offset: offset}
	}
	var t Type
	i := offset

	for i < len(desc) && desc[i] == '[' {
		t.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return Type{}, i, &UnexpectedEndError{Offset: i}
	}

	switch c := desc[i]; c {
	case 'V':
		t.Kind = KindVoid
	case 'Z':
		t.Kind = KindBool
	case 'B':
		t.Kind = KindByte
	case 'C':
		t.Kind = KindString
	case 'D', 'F':
		t.Kind = KindFloat
	case 'I', 'S':
		t.Kind = KindInt
	case 'J':
		t.Kind = KindLong
	case 'L':
		end := strings.IndexByte(desc[i+1:], ';')
		if end == -1 {
			return Type{}, len(desc), &UnexpectedEndError{Offset: len(desc)}
		}
		name := strings.ReplaceAll(desc[i+1:i+1+end], "/", ".")
		if kind, ok := Lookup(name); ok {
			t.Kind = kind
		} else {
			t.Kind = KindObject
			t.Name = name
		}
		return t, i + end + 2, nil
	default:
		return Type{}, i, &UnexpectedCharError{Char: c, Offset: i}
	}
	return t, i + 1, nil
}

// DecodeAll decodes a run of concatenated types, such as the parameter
// segment of a method descriptor.
func DecodeAll(desc string) ([]Type, error) {
	var types []Type
	for offset := 0; offset < len(desc); {
		t, next, err := Decode(desc, offset)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		offset = next
	}
	return types, nil
}

// DecodeMethod splits "(params)return" and decodes both parts.
func DecodeMethod(desc string) (Method, error) {
	if len(desc) == 0 {
		return Method{}, &UnexpectedEndError{Offset: 0}
	}
	if desc[0] != '(' {
		return Method{}, &UnexpectedCharError{Char: desc[0], Offset: 0}
	}

	var m Method
	i := 1
	for i < len(desc) && desc[i] != ')' {
		t, next, err := Decode(desc, i)
		if err != nil {
			return Method{}, err
		}
		m.Params = append(m.Params, t)
		i = next
	}
	if i >= len(desc) {
		return Method{}, &UnexpectedEndError{Offset: i}
	}

	ret, next, err := Decode(desc, i+1)
	if err != nil {
		return Method{}, err
	}
	if next != len(desc) {
		return Method{}, &UnexpectedCharError{Char: desc[next], Offset: next}
	}
	m.Return = ret
	return m, nil
}

// IsPrimitive reports whether desc is a single primitive type code.
func IsPrimitive(desc string) bool {
	if len(desc) != 1 {
		return false
	}
	switch desc[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return true
	}
	return false
}
