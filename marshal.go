//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package yaml

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Marshal renders v as a single YAML document, the reflective bridge from
// Go values to the Node tree (ambient surface, not part of the core value
// model/scanner/builder/serializer pipeline).
func Marshal(v interface{}) ([]byte, error) {
	n, err := encodeValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	s, err := Serialize(n)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Unmarshal decodes a single YAML document into v, which must be a
// non-nil pointer.
func Unmarshal(data []byte, v interface{}) error {
	n, err := DeserializeBytes(data)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &TypeError{Msg: "Unmarshal requires a non-nil pointer"}
	}
	return decodeInto(n, rv.Elem())
}

// fieldInfo describes one exported struct field's yaml tag.
type fieldInfo struct {
	name      string
	index     []int
	omitempty bool
	inline    bool
}

func structFields(t reflect.Type) []fieldInfo {
	var fields []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}
		tag := f.Tag.Get("yaml")
		if tag == "-" {
			continue
		}
		name := strings.ToLower(f.Name)
		omitempty := false
		inline := false
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				switch opt {
				case "omitempty":
					omitempty = true
				case "inline":
					inline = true
				}
			}
		}
		if inline && f.Type.Kind() == reflect.Struct {
			for _, nested := range structFields(f.Type) {
				nested.index = append(append([]int{}, i), nested.index...)
				fields = append(fields, nested)
			}
			continue
		}
		fields = append(fields, fieldInfo{name: name, index: []int{i}, omitempty: omitempty})
	}
	return fields
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

func encodeValue(v reflect.Value) (*Node, error) {
	if !v.IsValid() {
		return NewNull(), nil
	}
	if v.CanInterface() && v.Type().Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return NewString(string(text)), nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return NewNull(), nil
		}
		return encodeValue(v.Elem())
	case reflect.Bool:
		return NewBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewInt(int64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return NewFloat(v.Float()), nil
	case reflect.String:
		return NewString(v.String()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return NewNull(), nil
		}
		seq := NewSequence()
		for i := 0; i < v.Len(); i++ {
			elem, err := encodeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			seq.Seq = append(seq.Seq, elem)
		}
		return seq, nil
	case reflect.Map:
		if v.IsNil() {
			return NewNull(), nil
		}
		m := NewMapping()
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			keyNode, err := encodeValue(k)
			if err != nil {
				return nil, err
			}
			valNode, err := encodeValue(v.MapIndex(k))
			if err != nil {
				return nil, err
			}
			m.Map.Append(keyNode, valNode)
		}
		return m, nil
	case reflect.Struct:
		m := NewMapping()
		for _, fi := range structFields(v.Type()) {
			fv := v.FieldByIndex(fi.index)
			if fi.omitempty && isEmptyValue(fv) {
				continue
			}
			valNode, err := encodeValue(fv)
			if err != nil {
				return nil, err
			}
			m.Map.Append(NewString(fi.name), valNode)
		}
		return m, nil
	}
	return nil, &TypeError{Msg: "cannot marshal value of kind " + v.Kind().String()}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func decodeInto(n *Node, out reflect.Value) error {
	if out.Kind() == reflect.Ptr {
		if out.IsNil() {
			out.Set(reflect.New(out.Type().Elem()))
		}
		if out.CanInterface() && out.Type().Implements(textUnmarshalerType) && n.IsString() {
			return out.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.Str))
		}
		return decodeInto(n, out.Elem())
	}

	if out.CanAddr() {
		addr := out.Addr()
		if addr.CanInterface() && addr.Type().Implements(textUnmarshalerType) && n.IsString() {
			return addr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.Str))
		}
	}

	switch n.Kind {
	case NullKind:
		out.Set(reflect.Zero(out.Type()))
		return nil
	case BooleanKind:
		if out.Kind() != reflect.Bool {
			return &TypeError{Msg: "cannot decode boolean into " + out.Kind().String()}
		}
		out.SetBool(n.Bool)
		return nil
	case IntegerKind:
		switch out.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out.SetInt(n.Int)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out.SetUint(uint64(n.Int))
		case reflect.Float32, reflect.Float64:
			out.SetFloat(float64(n.Int))
		case reflect.Interface:
			out.Set(reflect.ValueOf(n.Int))
		default:
			return &TypeError{Msg: "cannot decode integer into " + out.Kind().String()}
		}
		return nil
	case FloatKind:
		switch out.Kind() {
		case reflect.Float32, reflect.Float64:
			out.SetFloat(n.Float)
		case reflect.Interface:
			out.Set(reflect.ValueOf(n.Float))
		default:
			return &TypeError{Msg: "cannot decode float into " + out.Kind().String()}
		}
		return nil
	case StringKind:
		switch out.Kind() {
		case reflect.String:
			out.SetString(n.Str)
		case reflect.Interface:
			out.Set(reflect.ValueOf(n.Str))
		default:
			return &TypeError{Msg: "cannot decode string into " + out.Kind().String()}
		}
		return nil
	case SequenceKind:
		return decodeSequence(n, out)
	case MappingKind:
		return decodeMapping(n, out)
	}
	return &TypeError{Msg: "cannot decode node of unknown kind"}
}

func decodeSequence(n *Node, out reflect.Value) error {
	switch out.Kind() {
	case reflect.Slice:
		slice := reflect.MakeSlice(out.Type(), len(n.Seq), len(n.Seq))
		for i, elem := range n.Seq {
			if err := decodeInto(elem, slice.Index(i)); err != nil {
				return err
			}
		}
		out.Set(slice)
		return nil
	case reflect.Array:
		for i, elem := range n.Seq {
			if i >= out.Len() {
				break
			}
			if err := decodeInto(elem, out.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Interface:
		vals := make([]interface{}, len(n.Seq))
		for i, elem := range n.Seq {
			var v interface{}
			if err := decodeInto(elem, reflect.ValueOf(&v).Elem()); err != nil {
				return err
			}
			vals[i] = v
		}
		out.Set(reflect.ValueOf(vals))
		return nil
	}
	return &TypeError{Msg: "cannot decode sequence into " + out.Kind().String()}
}

func decodeMapping(n *Node, out reflect.Value) error {
	switch out.Kind() {
	case reflect.Struct:
		fields := structFields(out.Type())
		byName := make(map[string]fieldInfo, len(fields))
		for _, fi := range fields {
			byName[fi.name] = fi
		}
		for _, p := range n.Map.Pairs() {
			key, err := p.Key.AsString()
			if err != nil {
				continue
			}
			fi, ok := byName[strings.ToLower(key)]
			if !ok {
				continue
			}
			if err := decodeInto(p.Value, out.FieldByIndex(fi.index)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if out.IsNil() {
			out.Set(reflect.MakeMap(out.Type()))
		}
		for _, p := range n.Map.Pairs() {
			key := reflect.New(out.Type().Key()).Elem()
			if err := decodeInto(p.Key, key); err != nil {
				return err
			}
			val := reflect.New(out.Type().Elem()).Elem()
			if err := decodeInto(p.Value, val); err != nil {
				return err
			}
			out.SetMapIndex(key, val)
		}
		return nil
	case reflect.Interface:
		m := make(map[string]interface{}, n.Map.Len())
		for _, p := range n.Map.Pairs() {
			key, err := p.Key.AsString()
			if err != nil {
				return err
			}
			var v interface{}
			if err := decodeInto(p.Value, reflect.ValueOf(&v).Elem()); err != nil {
				return err
			}
			m[key] = v
		}
		out.Set(reflect.ValueOf(m))
		return nil
	}
	return &TypeError{Msg: "cannot decode mapping into " + out.Kind().String()}
}
