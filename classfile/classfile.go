package classfile

import (
	"fmt"
	"sort"
	"strings"
)

// ClassFile is one decoded class. It is shared read-only once returned by Parse.
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []AttributeInfo

	className      string
	superClassName string
	interfaceNames []string
	methodsByName  map[string][]*MethodInfo
}

// ClassName returns the dotted name of this class.
func (cf *ClassFile) ClassName() string {
	return cf.className
}

// SuperClassName returns the dotted name of the super class, or "" for
// java.lang.Object and module descriptors.
func (cf *ClassFile) SuperClassName() string {
	return cf.superClassName
}

func (cf *ClassFile) InterfaceNames() []string {
	return cf.interfaceNames
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool {
	return cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsEnum() bool {
	return cf.AccessFlags.IsEnum()
}

func (cf *ClassFile) GetField(name string) *FieldInfo {
	for i := range cf.Fields {
		if cf.Fields[i].Name() == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// GetMethod returns the overload of name with the given descriptor, or the
// first overload when descriptor is empty.
func (cf *ClassFile) GetMethod(name, descriptor string) *MethodInfo {
	for _, m := range cf.methodsByName[name] {
		if descriptor == "" || m.Descriptor() == descriptor {
			return m
		}
	}
	return nil
}

// GetMethods returns every overload of name in declaration order.
func (cf *ClassFile) GetMethods(name string) []*MethodInfo {
	return cf.methodsByName[name]
}

// MethodNames returns the distinct method names, sorted.
func (cf *ClassFile) MethodNames() []string {
	names := make([]string, 0, len(cf.methodsByName))
	for name := range cf.methodsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	return findAttribute(cf.Attributes, name)
}

func (cf *ClassFile) resolveNames() error {
	name, err := cf.ConstantPool.ClassName(cf.ThisClass)
	if err != nil {
		return fmt.Errorf("this_class: %w", err)
	}
	cf.className = InternalToSourceName(name)

	if cf.SuperClass != 0 {
		super, err := cf.ConstantPool.ClassName(cf.SuperClass)
		if err != nil {
			return fmt.Errorf("super_class: %w", err)
		}
		cf.superClassName = InternalToSourceName(super)
	}

	cf.interfaceNames = make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		iface, err := cf.ConstantPool.ClassName(idx)
		if err != nil {
			return fmt.Errorf("interface %d: %w", i, err)
		}
		cf.interfaceNames[i] = InternalToSourceName(iface)
	}
	return nil
}

func (cf *ClassFile) indexMethods() {
	cf.methodsByName = make(map[string][]*MethodInfo)
	for i := range cf.Methods {
		m := &cf.Methods[i]
		cf.methodsByName[m.Name()] = append(cf.methodsByName[m.Name()], m)
	}
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
