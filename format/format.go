// Package format renders class models and constant objects for the command
// line, either as tab separated lines or as JSON.
package format

import (
	"encoding"
	"fmt"

	"github.com/dhamidi/javameta/java"
	"github.com/dhamidi/javameta/object"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.ClassModel) error
}

type ObjectEncoder interface {
	EncodeObject(obj *object.Object) error
}

// Format names an output style accepted by the -f flag.
type Format string

const (
	FormatLine Format = "line"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatLine, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (want line or json)", s)
}
