package classfile

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

// ConstantUtf8Info holds the undecoded bytes of a Utf8 entry. Text decodes them.
type ConstantUtf8Info struct {
	Bytes []byte
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

func (c *ConstantUtf8Info) Text() (string, error) {
	return decodeModifiedUtf8(c.Bytes)
}

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

// ConstantMemberRefInfo covers Fieldref, Methodref and InterfaceMethodref;
// the three share one layout and differ only in tag.
type ConstantMemberRefInfo struct {
	Kind             ConstantTag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMemberRefInfo) Tag() ConstantTag { return c.Kind }

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return ConstantNameAndType }

type reservedEntry struct{}

func (reservedEntry) Tag() ConstantTag { return ConstantReserved }

// ConstantPool is indexed exactly like the class file: slot 0 is unused and
// entries live at 1..len-1.
type ConstantPool []ConstantPoolEntry

// Count returns the number of addressable slots, including reserved ones.
func (cp ConstantPool) Count() int {
	if len(cp) == 0 {
		return 0
	}
	return len(cp) - 1
}

func (cp ConstantPool) Entry(index uint16) (ConstantPoolEntry, error) {
	if index == 0 || int(index) >= len(cp) {
		return nil, &ConstantRefError{Index: index, Count: cp.Count()}
	}
	entry := cp[index]
	if entry == nil || entry.Tag() == ConstantReserved {
		return nil, &ConstantRefError{Index: index, Got: ConstantReserved, Count: cp.Count()}
	}
	return entry, nil
}

func (cp ConstantPool) expect(index uint16, want ConstantTag) (ConstantPoolEntry, error) {
	entry, err := cp.Entry(index)
	if err != nil {
		if refErr, ok := err.(*ConstantRefError); ok {
			refErr.Want = want
		}
		return nil, err
	}
	if entry.Tag() != want {
		return nil, &ConstantRefError{Index: index, Want: want, Got: entry.Tag(), Count: cp.Count()}
	}
	return entry, nil
}

func (cp ConstantPool) Utf8(index uint16) (string, error) {
	entry, err := cp.expect(index, ConstantUtf8)
	if err != nil {
		return "", err
	}
	return entry.(*ConstantUtf8Info).Text()
}

// ClassName returns the internal (slash separated) name of a Class entry.
func (cp ConstantPool) ClassName(index uint16) (string, error) {
	entry, err := cp.expect(index, ConstantClass)
	if err != nil {
		return "", err
	}
	return cp.Utf8(entry.(*ConstantClassInfo).NameIndex)
}

func (cp ConstantPool) StringValue(index uint16) (string, error) {
	entry, err := cp.expect(index, ConstantString)
	if err != nil {
		return "", err
	}
	return cp.Utf8(entry.(*ConstantStringInfo).StringIndex)
}

func (cp ConstantPool) Integer(index uint16) (int32, error) {
	entry, err := cp.expect(index, ConstantInteger)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantIntegerInfo).Value, nil
}

func (cp ConstantPool) Float(index uint16) (float32, error) {
	entry, err := cp.expect(index, ConstantFloat)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantFloatInfo).Value, nil
}

func (cp ConstantPool) Long(index uint16) (int64, error) {
	entry, err := cp.expect(index, ConstantLong)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantLongInfo).Value, nil
}

func (cp ConstantPool) Double(index uint16) (float64, error) {
	entry, err := cp.expect(index, ConstantDouble)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantDoubleInfo).Value, nil
}

func (cp ConstantPool) NameAndType(index uint16) (name, descriptor string, err error) {
	entry, err := cp.expect(index, ConstantNameAndType)
	if err != nil {
		return "", "", err
	}
	nat := entry.(*ConstantNameAndTypeInfo)
	if name, err = cp.Utf8(nat.NameIndex); err != nil {
		return "", "", err
	}
	if descriptor, err = cp.Utf8(nat.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// MemberRef resolves a Fieldref, Methodref or InterfaceMethodref entry.
func (cp ConstantPool) MemberRef(index uint16) (className, name, descriptor string, err error) {
	entry, err := cp.Entry(index)
	if err != nil {
		return "", "", "", err
	}
	ref, ok := entry.(*ConstantMemberRefInfo)
	if !ok {
		return "", "", "", &ConstantRefError{Index: index, Want: ConstantMethodref, Got: entry.Tag(), Count: cp.Count()}
	}
	if className, err = cp.ClassName(ref.ClassIndex); err != nil {
		return "", "", "", err
	}
	name, descriptor, err = cp.NameAndType(ref.NameAndTypeIndex)
	if err != nil {
		return "", "", "", err
	}
	return className, name, descriptor, nil
}

// validate checks that every symbolic reference inside the pool lands on an
// entry of the right kind. Utf8 payloads are not decoded here.
func (cp ConstantPool) validate() error {
	for i := 1; i < len(cp); i++ {
		switch e := cp[i].(type) {
		case *ConstantClassInfo:
			if _, err := cp.expect(e.NameIndex, ConstantUtf8); err != nil {
				return err
			}
		case *ConstantStringInfo:
			if _, err := cp.expect(e.StringIndex, ConstantUtf8); err != nil {
				return err
			}
		case *ConstantMemberRefInfo:
			if _, err := cp.expect(e.ClassIndex, ConstantClass); err != nil {
				return err
			}
			if _, err := cp.expect(e.NameAndTypeIndex, ConstantNameAndType); err != nil {
				return err
			}
		case *ConstantNameAndTypeInfo:
			if _, err := cp.expect(e.NameIndex, ConstantUtf8); err != nil {
				return err
			}
			if _, err := cp.expect(e.DescriptorIndex, ConstantUtf8); err != nil {
				return err
			}
		}
	}
	return nil
}
