package main

import (
	"fmt"
	"io"

	"github.com/dhamidi/javameta/format"
	"github.com/dhamidi/javameta/java"
	"github.com/dhamidi/javameta/object"
)

func encodeModel(w io.Writer, f string, model *java.ClassModel) error {
	ff, err := format.ParseFormat(f)
	if err != nil {
		return err
	}
	var enc format.Encoder = format.NewLineEncoder(w)
	if ff == format.FormatJSON {
		enc = format.NewJSONEncoder(w)
	}
	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("encode %s: %w", ff, err)
	}
	return nil
}

func encodeObject(w io.Writer, f string, obj *object.Object) error {
	ff, err := format.ParseFormat(f)
	if err != nil {
		return err
	}
	var enc format.ObjectEncoder = format.NewLineEncoder(w)
	if ff == format.FormatJSON {
		enc = format.NewJSONEncoder(w)
	}
	if err := enc.EncodeObject(obj); err != nil {
		return fmt.Errorf("encode %s: %w", ff, err)
	}
	return nil
}
