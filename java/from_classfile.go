package java

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javameta/classfile"
	"github.com/dhamidi/javameta/descriptor"
)

func ClassModelFromFile(path string) (*ClassModel, error) {
	cf, err := classfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf)
}

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf)
}

func ClassModelFromClassFile(cf *classfile.ClassFile) (*ClassModel, error) {
	className := cf.ClassName()
	pkg, simpleName := splitClassName(className)

	model := &ClassModel{
		Name:         className,
		SimpleName:   simpleName,
		Package:      pkg,
		SuperClass:   cf.SuperClassName(),
		Interfaces:   cf.InterfaceNames(),
		MajorVersion: cf.MajorVersion,
		MinorVersion: cf.MinorVersion,
		Visibility:   visibilityFromAccessFlags(cf.AccessFlags),
		Kind:         classKindFromClassFile(cf),
		IsFinal:      cf.AccessFlags.IsFinal(),
		IsAbstract:   cf.AccessFlags.IsAbstract(),
		overloads:    make(map[string][]int),
	}

	for i := range cf.Fields {
		field := &cf.Fields[i]
		if field.IsSynthetic() {
			continue
		}
		fm, err := fieldModelFromFieldInfo(field)
		if err != nil {
			return nil, fmt.Errorf("%s: field %s: %w", className, field.Name(), err)
		}
		model.Fields = append(model.Fields, fm)
	}

	for i := range cf.Methods {
		method := &cf.Methods[i]
		if method.IsSynthetic() || method.IsBridge() || method.IsStaticInitializer() {
			continue
		}
		mm, err := methodModelFromMethodInfo(method)
		if err != nil {
			return nil, fmt.Errorf("%s: method %s: %w", className, method.Name(), err)
		}
		model.overloads[mm.Name] = append(model.overloads[mm.Name], len(model.Methods))
		model.Methods = append(model.Methods, mm)
	}

	return model, nil
}

func splitClassName(fullName string) (pkg, simpleName string) {
	lastDot := strings.LastIndex(fullName, ".")
	if lastDot == -1 {
		return "", fullName
	}
	return fullName[:lastDot], fullName[lastDot+1:]
}

func visibilityFromAccessFlags(flags classfile.AccessFlags) Visibility {
	if flags.IsPublic() {
		return VisibilityPublic
	}
	if flags.IsProtected() {
		return VisibilityProtected
	}
	if flags.IsPrivate() {
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func classKindFromClassFile(cf *classfile.ClassFile) ClassKind {
	if cf.IsAnnotation() {
		return ClassKindAnnotation
	}
	if cf.IsEnum() {
		return ClassKindEnum
	}
	if cf.IsInterface() {
		return ClassKindInterface
	}
	return ClassKindClass
}

func fieldModelFromFieldInfo(f *classfile.FieldInfo) (FieldModel, error) {
	desc := f.Descriptor()
	t, next, err := descriptor.Decode(desc, 0)
	if err != nil {
		return FieldModel{}, err
	}
	if next != len(desc) {
		return FieldModel{}, &descriptor.UnexpectedCharError{Char: desc[next], Offset: next}
	}
	return FieldModel{
		Name:       f.Name(),
		Descriptor: desc,
		Type:       t,
		Visibility: visibilityFromAccessFlags(f.AccessFlags),
		IsStatic:   f.IsStatic(),
		IsFinal:    f.IsFinal(),
	}, nil
}

func methodModelFromMethodInfo(m *classfile.MethodInfo) (MethodModel, error) {
	md, err := descriptor.DecodeMethod(m.Descriptor())
	if err != nil {
		return MethodModel{}, err
	}
	return MethodModel{
		Name:       m.Name(),
		Descriptor: m.Descriptor(),
		Parameters: md.Params,
		ReturnType: md.Return,
		Visibility: visibilityFromAccessFlags(m.AccessFlags),
		IsStatic:   m.IsStatic(),
		IsAbstract: m.IsAbstract(),
		IsVarargs:  m.IsVarargs(),
	}, nil
}
