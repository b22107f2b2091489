// Package object provides the dynamic attribute container that decoded
// constants are assigned onto before they reach the RPC layer.
package object

import (
	"bytes"
	"encoding/json"
)

// Object is a named bag of attributes that remembers assignment order.
// Reassigning an attribute keeps its original position.
type Object struct {
	class  string
	keys   []string
	values map[string]any
}

func New(class string) *Object {
	return &Object{class: class, values: make(map[string]any)}
}

func (o *Object) Class() string { return o.class }

func (o *Object) Set(name string, value any) {
	if _, ok := o.values[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.values[name] = value
}

func (o *Object) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

func (o *Object) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Keys returns attribute names in assignment order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int { return len(o.keys) }

// MarshalJSON writes the attributes as a JSON object in assignment order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
