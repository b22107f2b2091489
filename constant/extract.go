// Package constant turns the public static final fields of a decoded class
// into attributes on an object.Object.
package constant

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/javameta/classfile"
	"github.com/dhamidi/javameta/descriptor"
	"github.com/dhamidi/javameta/object"
)

var log = commonlog.GetLogger("javameta.constant")

const publicStaticFinal = classfile.AccPublic | classfile.AccStatic | classfile.AccFinal

// Eligible reports whether f can carry a literal constant: it must be public
// static final and typed as a primitive or a java.lang boxed/String type.
func Eligible(f *classfile.FieldInfo) bool {
	if !f.AccessFlags.Has(publicStaticFinal) {
		return false
	}
	desc := f.Descriptor()
	if descriptor.IsPrimitive(desc) {
		return true
	}
	if desc == "" || desc[0] != 'L' {
		return false
	}
	t, next, err := descriptor.Decode(desc, 0)
	if err != nil || next != len(desc) || !t.Kind.IsScalar() {
		return false
	}
	// Decode has already mapped well-known names to kinds, so recover the
	// class name from the descriptor itself.
	return descriptor.IsBoxedLiteral(classfile.InternalToSourceName(desc[1 : len(desc)-1]))
}

// Declared assigns every eligible field with a nil value. Use it when only the
// presence of the constants matters.
func Declared(cf *classfile.ClassFile) *object.Object {
	obj := object.New(cf.ClassName())
	for i := range cf.Fields {
		f := &cf.Fields[i]
		if !Eligible(f) {
			continue
		}
		obj.Set(f.Name(), nil)
	}
	return obj
}

// Values assigns every eligible field that has a resolvable ConstantValue
// attribute. Other fields are skipped.
func Values(cf *classfile.ClassFile) *object.Object {
	obj := object.New(cf.ClassName())
	for i := range cf.Fields {
		f := &cf.Fields[i]
		if !Eligible(f) {
			continue
		}
		attr := f.GetAttribute("ConstantValue")
		if attr == nil {
			continue
		}
		value, err := resolve(cf.ConstantPool, f.Descriptor(), attr)
		if err != nil {
			log.Debugf("skipping %s.%s: %v", cf.ClassName(), f.Name(), err)
			continue
		}
		obj.Set(f.Name(), value)
	}
	return obj
}

func resolve(cp classfile.ConstantPool, desc string, attr *classfile.AttributeInfo) (any, error) {
	idx, err := attr.ConstantValueIndex()
	if err != nil {
		return nil, err
	}

	switch desc {
	case "B", "C":
		v, err := cp.Integer(idx)
		if err != nil {
			return nil, err
		}
		return string(rune(v)), nil
	case "D", "F", "I", "J", "S":
		return numeric(cp, idx)
	case "Z":
		v, err := cp.Integer(idx)
		if err != nil {
			return nil, err
		}
		return v != 0, nil
	}

	entry, err := cp.Entry(idx)
	if err != nil {
		return nil, err
	}
	if entry.Tag() == classfile.ConstantString {
		return cp.StringValue(idx)
	}
	return numeric(cp, idx)
}

func numeric(cp classfile.ConstantPool, idx uint16) (any, error) {
	entry, err := cp.Entry(idx)
	if err != nil {
		return nil, err
	}
	switch e := entry.(type) {
	case *classfile.ConstantIntegerInfo:
		return e.Value, nil
	case *classfile.ConstantFloatInfo:
		return e.Value, nil
	case *classfile.ConstantLongInfo:
		return e.Value, nil
	case *classfile.ConstantDoubleInfo:
		return e.Value, nil
	}
	return nil, fmt.Errorf("constant pool index %d is %s, not a numeric literal", idx, entry.Tag())
}
