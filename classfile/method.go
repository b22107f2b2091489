package classfile

type MethodInfo member

func (m *MethodInfo) Name() string       { return m.name }
func (m *MethodInfo) Descriptor() string { return m.descriptor }

func (m *MethodInfo) GetAttribute(name string) *AttributeInfo {
	return findAttribute(m.Attributes, name)
}

func (m *MethodInfo) IsPublic() bool       { return m.AccessFlags.IsPublic() }
func (m *MethodInfo) IsPrivate() bool      { return m.AccessFlags.IsPrivate() }
func (m *MethodInfo) IsProtected() bool    { return m.AccessFlags.IsProtected() }
func (m *MethodInfo) IsStatic() bool       { return m.AccessFlags.IsStatic() }
func (m *MethodInfo) IsFinal() bool        { return m.AccessFlags.IsFinal() }
func (m *MethodInfo) IsSynchronized() bool { return m.AccessFlags.IsSynchronized() }
func (m *MethodInfo) IsBridge() bool       { return m.AccessFlags.IsBridge() }
func (m *MethodInfo) IsVarargs() bool      { return m.AccessFlags.IsVarargs() }
func (m *MethodInfo) IsNative() bool       { return m.AccessFlags.IsNative() }
func (m *MethodInfo) IsAbstract() bool     { return m.AccessFlags.IsAbstract() }
func (m *MethodInfo) IsSynthetic() bool    { return m.AccessFlags.IsSynthetic() }

func (m *MethodInfo) IsConstructor() bool {
	return m.name == "<init>"
}

func (m *MethodInfo) IsStaticInitializer() bool {
	return m.name == "<clinit>"
}
