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

// Package yaml implements a YAML 1.2 value model, scanner, deserializer and
// serializer.
package yaml

import "github.com/yamlcore/yamlcore/internal/value"

// The value model lives in internal/value so that internal/builder can
// construct the tree it returns to Deserialize without an import cycle
// through this package. Node and Mapping here are the same types, not
// copies: methods defined on value.Node/value.Mapping are visible directly
// on yaml.Node/yaml.Mapping.
type (
	Kind     = value.Kind
	Node     = value.Node
	Mapping  = value.Mapping
	Pair     = value.Pair
	Iterator = value.Iterator
)

const (
	NullKind     = value.NullKind
	BooleanKind  = value.BooleanKind
	IntegerKind  = value.IntegerKind
	FloatKind    = value.FloatKind
	StringKind   = value.StringKind
	SequenceKind = value.SequenceKind
	MappingKind  = value.MappingKind
)

var (
	NewNull     = value.NewNull
	NewBool     = value.NewBool
	NewInt      = value.NewInt
	NewFloat    = value.NewFloat
	NewString   = value.NewString
	NewSequence = value.NewSequence
	NewMapping  = value.NewMapping
)
