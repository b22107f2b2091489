package classfile

import (
	"encoding/binary"
	"fmt"
)

// AttributeInfo is a named, length-prefixed blob. Payloads are kept raw; only
// ConstantValue has an accessor.
type AttributeInfo struct {
	NameIndex uint16
	Name      string
	Info      []byte
}

// ConstantValueIndex returns the constant pool index carried by a
// ConstantValue attribute.
func (a *AttributeInfo) ConstantValueIndex() (uint16, error) {
	if a.Name != "ConstantValue" {
		return 0, fmt.Errorf("attribute %q is not ConstantValue", a.Name)
	}
	if len(a.Info) != 2 {
		return 0, &FormatError{Reason: fmt.Sprintf("ConstantValue payload is %d bytes, want 2", len(a.Info))}
	}
	return binary.BigEndian.Uint16(a.Info), nil
}

func findAttribute(attrs []AttributeInfo, name string) *AttributeInfo {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}
