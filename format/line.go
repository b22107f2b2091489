package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javameta/descriptor"
	"github.com/dhamidi/javameta/java"
	"github.com/dhamidi/javameta/object"
)

// LineEncoder writes one tab separated record per class, field, method and
// constant, for use with grep, cut and awk.
type LineEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\n", c.Kind, c.Name, joinModifiers(string(c.Visibility), classModifiers(c)))

	for _, f := range c.Fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name,
			f.Type,
			f.Visibility,
			joinModifiers("", fieldModifiers(f)),
		)
	}

	for _, m := range c.Methods {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.Name,
			m.ReturnType,
			parametersStr(m.Parameters),
			m.Visibility,
			joinModifiers("", methodModifiers(m)),
		)
	}

	return []byte(sb.String()), nil
}

// EncodeObject writes a "constant" record per attribute in assignment order.
// Values are rendered with %v; unresolved declarations print as "-".
func (e *LineEncoder) EncodeObject(obj *object.Object) error {
	var sb strings.Builder
	for _, name := range obj.Keys() {
		v, _ := obj.Get(name)
		value := "-"
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		fmt.Fprintf(&sb, "constant\t%s\t%s\t%s\n", obj.Class(), name, value)
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

// EncodeTypes writes one decoded type per line.
func (e *LineEncoder) EncodeTypes(types []descriptor.Type) error {
	var sb strings.Builder
	for _, t := range types {
		fmt.Fprintf(&sb, "%s\n", t)
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func joinModifiers(first string, mods []string) string {
	if first != "" {
		mods = append([]string{first}, mods...)
	}
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func parametersStr(params []descriptor.Type) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}
