package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) fill(buf []byte) {
	if r.err != nil {
		return
	}
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncatedInput
		}
		r.err = err
	}
}

func (r *reader) readU1() uint8 {
	var buf [1]byte
	r.fill(buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	var buf [2]byte
	r.fill(buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	var buf [4]byte
	r.fill(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readU8() uint64 {
	var buf [8]byte
	r.fill(buf[:])
	return binary.BigEndian.Uint64(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n <= 1<<16 {
		buf := make([]byte, n)
		r.fill(buf)
		return buf
	}
	// Attribute lengths are u4; grow with the data instead of trusting the header.
	buf, err := io.ReadAll(io.LimitReader(r.r, int64(n)))
	if err != nil {
		r.err = err
		return nil
	}
	if len(buf) != n {
		r.err = ErrTruncatedInput
		return nil
	}
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func ParseBytes(data []byte) (*ClassFile, error) {
	return Parse(bytes.NewReader(data))
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, &FormatError{
			Reason: fmt.Sprintf("invalid magic number 0x%08X (expected 0xCAFEBABE)", magic),
			Err:    ErrNotAClassFile,
		}
	}

	cf := &ClassFile{
		Magic:        magic,
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read version: %w", r.err)
	}

	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", r.err)
	}
	if constantPoolCount == 0 {
		return nil, &FormatError{Reason: "constant pool count is zero"}
	}

	pool, err := readConstantPool(r, constantPoolCount)
	if err != nil {
		return nil, err
	}
	cf.ConstantPool = pool

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.err)
	}

	cf.Interfaces = make([]uint16, interfacesCount)
	for i := uint16(0); i < interfacesCount; i++ {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read interfaces: %w", r.err)
	}

	fieldsCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read fields count: %w", r.err)
	}

	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := uint16(0); i < fieldsCount; i++ {
		if err := readMember(r, cf.ConstantPool, (*member)(&cf.Fields[i])); err != nil {
			return nil, fmt.Errorf("failed to read field %d: %w", i, err)
		}
	}

	methodsCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read methods count: %w", r.err)
	}

	cf.Methods = make([]MethodInfo, methodsCount)
	for i := uint16(0); i < methodsCount; i++ {
		if err := readMember(r, cf.ConstantPool, (*member)(&cf.Methods[i])); err != nil {
			return nil, fmt.Errorf("failed to read method %d: %w", i, err)
		}
	}

	cf.Attributes, err = readAttributes(r, cf.ConstantPool)
	if err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}

	if err := cf.resolveNames(); err != nil {
		return nil, err
	}
	cf.indexMethods()

	return cf, nil
}

// ReadConstantPool decodes count-1 constant pool entries from a stream
// positioned just after the constant_pool_count field.
func ReadConstantPool(rd io.Reader, count uint16) (ConstantPool, error) {
	return readConstantPool(&reader{r: rd}, count)
}

func readConstantPool(r *reader, count uint16) (ConstantPool, error) {
	if count == 0 {
		return ConstantPool{}, nil
	}
	pool := make(ConstantPool, count)
	pool[0] = reservedEntry{}
	for i := uint16(1); i < count; i++ {
		entry, err := readConstantPoolEntry(r, i)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		pool[i] = entry
		if tag := entry.Tag(); tag == ConstantLong || tag == ConstantDouble {
			i++
			if i < count {
				pool[i] = reservedEntry{}
			}
		}
	}
	if err := pool.validate(); err != nil {
		return nil, fmt.Errorf("invalid constant pool: %w", err)
	}
	return pool, nil
}

func readConstantPoolEntry(r *reader, index uint16) (ConstantPoolEntry, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, r.err
	}

	var entry ConstantPoolEntry
	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		entry = &ConstantUtf8Info{Bytes: r.readBytes(int(length))}
	case ConstantInteger:
		entry = &ConstantIntegerInfo{Value: int32(r.readU4())}
	case ConstantFloat:
		entry = &ConstantFloatInfo{Value: math.Float32frombits(r.readU4())}
	case ConstantLong:
		entry = &ConstantLongInfo{Value: int64(r.readU8())}
	case ConstantDouble:
		entry = &ConstantDoubleInfo{Value: math.Float64frombits(r.readU8())}
	case ConstantClass:
		entry = &ConstantClassInfo{NameIndex: r.readU2()}
	case ConstantString:
		entry = &ConstantStringInfo{StringIndex: r.readU2()}
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref:
		entry = &ConstantMemberRefInfo{
			Kind:             tag,
			ClassIndex:       r.readU2(),
			NameAndTypeIndex: r.readU2(),
		}
	case ConstantNameAndType:
		entry = &ConstantNameAndTypeInfo{
			NameIndex:       r.readU2(),
			DescriptorIndex: r.readU2(),
		}
	default:
		return nil, &UnsupportedConstantTagError{Tag: uint8(tag), Index: index}
	}
	if r.err != nil {
		return nil, r.err
	}
	return entry, nil
}

// member is the shared layout of field_info and method_info.
type member struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo

	name       string
	descriptor string
}

func readMember(r *reader, cp ConstantPool, m *member) error {
	m.AccessFlags = AccessFlags(r.readU2())
	m.NameIndex = r.readU2()
	m.DescriptorIndex = r.readU2()
	if r.err != nil {
		return r.err
	}

	var err error
	if m.name, err = cp.Utf8(m.NameIndex); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	if m.descriptor, err = cp.Utf8(m.DescriptorIndex); err != nil {
		return fmt.Errorf("descriptor: %w", err)
	}

	m.Attributes, err = readAttributes(r, cp)
	return err
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	attributesCount := r.readU2()
	if r.err != nil {
		return nil, r.err
	}

	attrs := make([]AttributeInfo, attributesCount)
	for i := uint16(0); i < attributesCount; i++ {
		if err := readAttributeInfo(r, cp, &attrs[i]); err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
	}
	return attrs, nil
}

func readAttributeInfo(r *reader, cp ConstantPool, attr *AttributeInfo) error {
	attr.NameIndex = r.readU2()
	length := r.readU4()
	if r.err != nil {
		return r.err
	}

	name, err := cp.Utf8(attr.NameIndex)
	if err != nil {
		return err
	}
	attr.Name = name

	attr.Info = r.readBytes(int(length))
	return r.err
}

// decodeModifiedUtf8 decodes the class file flavour of UTF-8: NUL is two
// bytes and supplementary characters are surrogate pairs of three bytes each.
func decodeModifiedUtf8(b []byte) (string, error) {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w at byte %d", ErrMalformedUtf8, i)
			}
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w at byte %d", ErrMalformedUtf8, i)
			}
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
			if r >= 0xD800 && r <= 0xDBFF && i+2 < len(b) && b[i] == 0xED && b[i+1]&0xF0 == 0xB0 && b[i+2]&0xC0 == 0x80 {
				low := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
				r = 0x10000 + (r-0xD800)<<10 + (low - 0xDC00)
				i += 3
			}
			runes = append(runes, r)
		default:
			return "", fmt.Errorf("%w at byte %d", ErrMalformedUtf8, i)
		}
	}
	return string(runes), nil
}
