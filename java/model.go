package java

import (
	"sort"

	"github.com/dhamidi/javameta/descriptor"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
)

// ClassModel is the call-time view of a remote service class: its fields and
// its methods grouped by name, with types in the generic vocabulary.
type ClassModel struct {
	Name         string
	SimpleName   string
	Package      string
	SuperClass   string
	Interfaces   []string
	Visibility   Visibility
	Kind         ClassKind
	IsFinal      bool
	IsAbstract   bool
	MajorVersion uint16
	MinorVersion uint16
	Fields       []FieldModel
	Methods      []MethodModel

	overloads map[string][]int
}

type FieldModel struct {
	Name       string
	Descriptor string
	Type       descriptor.Type
	Visibility Visibility
	IsStatic   bool
	IsFinal    bool
}

type MethodModel struct {
	Name       string
	Descriptor string
	Parameters []descriptor.Type
	ReturnType descriptor.Type
	Visibility Visibility
	IsStatic   bool
	IsAbstract bool
	IsVarargs  bool
}

// Overloads returns the methods named name in declaration order.
func (c *ClassModel) Overloads(name string) []MethodModel {
	idx := c.overloads[name]
	methods := make([]MethodModel, len(idx))
	for i, j := range idx {
		methods[i] = c.Methods[j]
	}
	return methods
}

// MethodNames returns the distinct method names, sorted.
func (c *ClassModel) MethodNames() []string {
	names := make([]string, 0, len(c.overloads))
	for name := range c.overloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *ClassModel) Field(name string) *FieldModel {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}
