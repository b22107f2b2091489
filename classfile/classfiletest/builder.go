// Package classfiletest assembles small class files in memory for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
)

const (
	AccPublic = 0x0001
	AccStatic = 0x0008
	AccFinal  = 0x0010

	// PublicStaticFinal is the flag set constant fields are declared with.
	PublicStaticFinal = AccPublic | AccStatic | AccFinal
)

type Attribute struct {
	Name string
	Info []byte
}

type member struct {
	flags      uint16
	name       string
	descriptor string
	attrs      []Attribute
}

// Builder collects constant pool entries and members and serialises them in
// class file order. Utf8 and Class entries are interned.
type Builder struct {
	Major uint16
	Minor uint16
	Flags uint16

	pool    bytes.Buffer
	next    uint16
	utf8    map[string]uint16
	classes map[string]uint16

	this       uint16
	super      uint16
	interfaces []uint16
	fields     []member
	methods    []member
	attrs      []Attribute
}

// New starts a class named with dotted name; super may be empty.
func New(name, super string) *Builder {
	b := &Builder{
		Major:   52,
		Flags:   AccPublic | 0x0020,
		next:    1,
		utf8:    make(map[string]uint16),
		classes: make(map[string]uint16),
	}
	b.this = b.Class(name)
	if super != "" {
		b.super = b.Class(super)
	}
	return b
}

func (b *Builder) take(slots uint16) uint16 {
	idx := b.next
	b.next += slots
	return idx
}

func (b *Builder) u1(v uint8)  { b.pool.WriteByte(v) }
func (b *Builder) u2(v uint16) { binary.Write(&b.pool, binary.BigEndian, v) }
func (b *Builder) u4(v uint32) { binary.Write(&b.pool, binary.BigEndian, v) }
func (b *Builder) u8(v uint64) { binary.Write(&b.pool, binary.BigEndian, v) }

func (b *Builder) Utf8(s string) uint16 {
	if idx, ok := b.utf8[s]; ok {
		return idx
	}
	return b.RawUtf8([]byte(s))
}

// RawUtf8 appends a Utf8 entry without interning or encoding.
func (b *Builder) RawUtf8(raw []byte) uint16 {
	b.u1(1)
	b.u2(uint16(len(raw)))
	b.pool.Write(raw)
	idx := b.take(1)
	b.utf8[string(raw)] = idx
	return idx
}

func (b *Builder) Class(dotted string) uint16 {
	if idx, ok := b.classes[dotted]; ok {
		return idx
	}
	name := b.Utf8(strings.ReplaceAll(dotted, ".", "/"))
	b.u1(7)
	b.u2(name)
	idx := b.take(1)
	b.classes[dotted] = idx
	return idx
}

func (b *Builder) String(s string) uint16 {
	value := b.Utf8(s)
	b.u1(8)
	b.u2(value)
	return b.take(1)
}

func (b *Builder) Integer(v int32) uint16 {
	b.u1(3)
	b.u4(uint32(v))
	return b.take(1)
}

func (b *Builder) Float(v float32) uint16 {
	b.u1(4)
	b.u4(math.Float32bits(v))
	return b.take(1)
}

// Long appends a Long entry, which occupies two slots.
func (b *Builder) Long(v int64) uint16 {
	b.u1(5)
	b.u8(uint64(v))
	return b.take(2)
}

// Double appends a Double entry, which occupies two slots.
func (b *Builder) Double(v float64) uint16 {
	b.u1(6)
	b.u8(math.Float64bits(v))
	return b.take(2)
}

func (b *Builder) NameAndType(name, descriptor string) uint16 {
	n, d := b.Utf8(name), b.Utf8(descriptor)
	b.u1(12)
	b.u2(n)
	b.u2(d)
	return b.take(1)
}

func (b *Builder) Methodref(class, name, descriptor string) uint16 {
	c, nat := b.Class(class), b.NameAndType(name, descriptor)
	b.u1(10)
	b.u2(c)
	b.u2(nat)
	return b.take(1)
}

// RawEntry appends arbitrary bytes as one pool slot, for malformed input.
func (b *Builder) RawEntry(raw ...byte) uint16 {
	b.pool.Write(raw)
	return b.take(1)
}

func (b *Builder) Interface(dotted string) *Builder {
	b.interfaces = append(b.interfaces, b.Class(dotted))
	return b
}

func (b *Builder) Field(flags uint16, name, descriptor string, attrs ...Attribute) *Builder {
	b.Utf8(name)
	b.Utf8(descriptor)
	for _, a := range attrs {
		b.Utf8(a.Name)
	}
	b.fields = append(b.fields, member{flags, name, descriptor, attrs})
	return b
}

func (b *Builder) Method(flags uint16, name, descriptor string, attrs ...Attribute) *Builder {
	b.Utf8(name)
	b.Utf8(descriptor)
	for _, a := range attrs {
		b.Utf8(a.Name)
	}
	b.methods = append(b.methods, member{flags, name, descriptor, attrs})
	return b
}

func (b *Builder) Attribute(a Attribute) *Builder {
	b.Utf8(a.Name)
	b.attrs = append(b.attrs, a)
	return b
}

// ConstantValue builds a ConstantValue attribute pointing at pool index idx.
func (b *Builder) ConstantValue(idx uint16) Attribute {
	b.Utf8("ConstantValue")
	return Attribute{Name: "ConstantValue", Info: []byte{byte(idx >> 8), byte(idx)}}
}

// Bytes serialises the class. The builder stays usable.
func (b *Builder) Bytes() []byte {
	var out bytes.Buffer
	w := func(v any) { binary.Write(&out, binary.BigEndian, v) }

	w(uint32(0xCAFEBABE))
	w(b.Minor)
	w(b.Major)
	w(b.next)
	out.Write(b.pool.Bytes())
	w(b.Flags)
	w(b.this)
	w(b.super)
	w(uint16(len(b.interfaces)))
	for _, i := range b.interfaces {
		w(i)
	}
	writeMembers := func(members []member) {
		w(uint16(len(members)))
		for _, m := range members {
			w(m.flags)
			w(b.utf8[m.name])
			w(b.utf8[m.descriptor])
			b.writeAttributes(&out, m.attrs)
		}
	}
	writeMembers(b.fields)
	writeMembers(b.methods)
	b.writeAttributes(&out, b.attrs)
	return out.Bytes()
}

func (b *Builder) writeAttributes(out *bytes.Buffer, attrs []Attribute) {
	binary.Write(out, binary.BigEndian, uint16(len(attrs)))
	for _, a := range attrs {
		binary.Write(out, binary.BigEndian, b.utf8[a.Name])
		binary.Write(out, binary.BigEndian, uint32(len(a.Info)))
		out.Write(a.Info)
	}
}
