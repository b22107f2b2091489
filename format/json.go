package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/javameta/descriptor"
	"github.com/dhamidi/javameta/java"
	"github.com/dhamidi/javameta/object"
)

type JSONEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(ClassData(e.class), "", "  ")
}

// EncodeObject writes the attributes of obj under its class name.
func (e *JSONEncoder) EncodeObject(obj *object.Object) error {
	data, err := json.MarshalIndent(ObjectData(obj), "", "  ")
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(data, '\n'))
	return err
}

type JSONClass struct {
	Name       string       `json:"name"`
	SimpleName string       `json:"simpleName"`
	Package    string       `json:"package"`
	SuperClass string       `json:"superClass,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty"`
	Visibility string       `json:"visibility"`
	Kind       string       `json:"kind"`
	Modifiers  []string     `json:"modifiers,omitempty"`
	Version    JSONVersion  `json:"version"`
	Fields     []JSONField  `json:"fields,omitempty"`
	Methods    []JSONMethod `json:"methods,omitempty"`
}

type JSONVersion struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

type JSONField struct {
	Name       string   `json:"name"`
	Type       JSONType `json:"type"`
	Visibility string   `json:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty"`
}

type JSONMethod struct {
	Name       string     `json:"name"`
	Descriptor string     `json:"descriptor"`
	ReturnType JSONType   `json:"returnType"`
	Parameters []JSONType `json:"parameters"`
	Visibility string     `json:"visibility"`
	Modifiers  []string   `json:"modifiers,omitempty"`
}

type JSONType struct {
	Kind       string `json:"kind"`
	Name       string `json:"name,omitempty"`
	ArrayDepth int    `json:"arrayDepth,omitempty"`
}

type JSONObject struct {
	Class      string         `json:"class"`
	Attributes *object.Object `json:"attributes"`
}

// ClassData converts a class model to its wire shape. The RPC server answers
// describe calls with the same value.
func ClassData(c *java.ClassModel) JSONClass {
	data := JSONClass{
		Name:       c.Name,
		SimpleName: c.SimpleName,
		Package:    c.Package,
		SuperClass: c.SuperClass,
		Interfaces: c.Interfaces,
		Visibility: string(c.Visibility),
		Kind:       string(c.Kind),
		Modifiers:  classModifiers(c),
		Version: JSONVersion{
			Major: c.MajorVersion,
			Minor: c.MinorVersion,
		},
		Fields:  make([]JSONField, len(c.Fields)),
		Methods: make([]JSONMethod, len(c.Methods)),
	}
	for i, f := range c.Fields {
		data.Fields[i] = JSONField{
			Name:       f.Name,
			Type:       TypeData(f.Type),
			Visibility: string(f.Visibility),
			Modifiers:  fieldModifiers(f),
		}
	}
	for i, m := range c.Methods {
		params := make([]JSONType, len(m.Parameters))
		for j, p := range m.Parameters {
			params[j] = TypeData(p)
		}
		data.Methods[i] = JSONMethod{
			Name:       m.Name,
			Descriptor: m.Descriptor,
			ReturnType: TypeData(m.ReturnType),
			Parameters: params,
			Visibility: string(m.Visibility),
			Modifiers:  methodModifiers(m),
		}
	}
	return data
}

func TypeData(t descriptor.Type) JSONType {
	return JSONType{
		Kind:       t.Kind.String(),
		Name:       t.Name,
		ArrayDepth: t.ArrayDepth,
	}
}

func ObjectData(obj *object.Object) JSONObject {
	return JSONObject{Class: obj.Class(), Attributes: obj}
}

func classModifiers(c *java.ClassModel) []string {
	var mods []string
	if c.IsFinal {
		mods = append(mods, "final")
	}
	if c.IsAbstract {
		mods = append(mods, "abstract")
	}
	return mods
}

func fieldModifiers(f java.FieldModel) []string {
	var mods []string
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	return mods
}

func methodModifiers(m java.MethodModel) []string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	if m.IsVarargs {
		mods = append(mods, "varargs")
	}
	return mods
}
