package constant

import (
	"testing"

	"github.com/dhamidi/javameta/classfile"
	"github.com/dhamidi/javameta/classfile/classfiletest"
)

const psf = classfiletest.PublicStaticFinal

func parse(t *testing.T, b *classfiletest.Builder) *classfile.ClassFile {
	t.Helper()
	cf, err := classfile.ParseBytes(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cf
}

func TestValuesIntegerConstant(t *testing.T) {
	b := classfiletest.New("com.example.Limits", "java.lang.Object")
	b.Field(psf, "MAX", "I", b.ConstantValue(b.Integer(42)))

	obj := Values(parse(t, b))
	if obj.Class() != "com.example.Limits" {
		t.Errorf("Class() = %q, want %q", obj.Class(), "com.example.Limits")
	}
	v, ok := obj.Get("MAX")
	if !ok {
		t.Fatal("MAX not assigned")
	}
	if v != int32(42) {
		t.Errorf("MAX = %v (%T), want 42", v, v)
	}
}

func TestValuesCoercion(t *testing.T) {
	b := classfiletest.New("com.example.Consts", "java.lang.Object")
	b.Field(psf, "LETTER", "C", b.ConstantValue(b.Integer('A')))
	b.Field(psf, "SMALL", "B", b.ConstantValue(b.Integer(0x62)))
	b.Field(psf, "ENABLED", "Z", b.ConstantValue(b.Integer(1)))
	b.Field(psf, "DISABLED", "Z", b.ConstantValue(b.Integer(0)))
	b.Field(psf, "SHORT", "S", b.ConstantValue(b.Integer(-3)))
	b.Field(psf, "BIG", "J", b.ConstantValue(b.Long(1<<40)))
	b.Field(psf, "RATIO", "F", b.ConstantValue(b.Float(0.5)))
	b.Field(psf, "PI", "D", b.ConstantValue(b.Double(3.25)))
	b.Field(psf, "GREETING", "Ljava/lang/String;", b.ConstantValue(b.String("hello")))

	obj := Values(parse(t, b))

	tests := []struct {
		name string
		want any
	}{
		{"LETTER", "A"},
		{"SMALL", "b"},
		{"ENABLED", true},
		{"DISABLED", false},
		{"SHORT", int32(-3)},
		{"BIG", int64(1 << 40)},
		{"RATIO", float32(0.5)},
		{"PI", 3.25},
		{"GREETING", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := obj.Get(tt.name)
			if !ok {
				t.Fatalf("%s not assigned", tt.name)
			}
			if got != tt.want {
				t.Errorf("%s = %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}

	wantOrder := []string{"LETTER", "SMALL", "ENABLED", "DISABLED", "SHORT", "BIG", "RATIO", "PI", "GREETING"}
	keys := obj.Keys()
	if len(keys) != len(wantOrder) {
		t.Fatalf("Keys() = %v, want %v", keys, wantOrder)
	}
	for i := range wantOrder {
		if keys[i] != wantOrder[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], wantOrder[i])
		}
	}
}

func TestValuesSkipsIneligibleFields(t *testing.T) {
	b := classfiletest.New("com.example.Mixed", "java.lang.Object")
	v := b.ConstantValue(b.Integer(1))
	b.Field(classfiletest.AccPublic|classfiletest.AccStatic, "NOT_FINAL", "I", v)
	b.Field(classfiletest.AccStatic|classfiletest.AccFinal, "NOT_PUBLIC", "I", v)
	b.Field(psf, "ARRAY", "[I", v)
	b.Field(psf, "LIST", "Ljava/util/List;", v)
	b.Field(psf, "OBJECT", "Ljava/lang/Object;", v)
	b.Field(psf, "CUSTOM", "Lcom/example/Thing;", v)
	b.Field(psf, "NO_VALUE", "I")
	b.Field(psf, "BAD_INDEX", "I", classfiletest.Attribute{Name: "ConstantValue", Info: []byte{0x7F, 0x00}})
	b.Field(psf, "WRONG_KIND", "I", b.ConstantValue(b.String("nope")))
	b.Field(psf, "KEPT", "I", v)

	obj := Values(parse(t, b))
	keys := obj.Keys()
	if len(keys) != 1 || keys[0] != "KEPT" {
		t.Errorf("Keys() = %v, want [KEPT]", keys)
	}
}

func TestValuesBoxedTypes(t *testing.T) {
	b := classfiletest.New("com.example.Boxed", "java.lang.Object")
	b.Field(psf, "COUNT", "Ljava/lang/Integer;", b.ConstantValue(b.Integer(9)))
	b.Field(psf, "LABEL", "Ljava/lang/Character;", b.ConstantValue(b.String("x")))

	obj := Values(parse(t, b))
	if v, _ := obj.Get("COUNT"); v != int32(9) {
		t.Errorf("COUNT = %v (%T), want 9", v, v)
	}
	if v, _ := obj.Get("LABEL"); v != "x" {
		t.Errorf("LABEL = %v, want x", v)
	}
}

func TestDeclared(t *testing.T) {
	b := classfiletest.New("com.example.Codes", "java.lang.Object")
	b.Field(psf, "OK", "I", b.ConstantValue(b.Integer(200)))
	b.Field(psf, "NAME", "Ljava/lang/String;")
	b.Field(classfiletest.AccPublic, "instance", "I")
	b.Field(psf, "MAP", "Ljava/util/Map;")

	obj := Declared(parse(t, b))
	keys := obj.Keys()
	if len(keys) != 2 || keys[0] != "OK" || keys[1] != "NAME" {
		t.Fatalf("Keys() = %v, want [OK NAME]", keys)
	}
	for _, k := range keys {
		if v, _ := obj.Get(k); v != nil {
			t.Errorf("%s = %v, want nil", k, v)
		}
	}
}
