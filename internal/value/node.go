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

// Package value implements the YAML value tree (spec §3): Node, Mapping
// and the Iterator façade, shared by the root yaml package (via type
// aliases) and internal/builder (which constructs the tree) to avoid an
// import cycle between the two.
package value

import "math"

// Kind discriminates the storage a Node carries.
type Kind int

const (
	NullKind Kind = iota
	BooleanKind
	IntegerKind
	FloatKind
	StringKind
	SequenceKind
	MappingKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BooleanKind:
		return "boolean"
	case IntegerKind:
		return "integer"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case SequenceKind:
		return "sequence"
	case MappingKind:
		return "mapping"
	}
	return "unknown"
}

// Node is a single value in a YAML document tree: a tagged union of the
// seven kinds above, plus the orthogonal node properties (anchor name, tag
// name, alias flag) that YAML allows any node to carry.
//
// The zero Node is Null, satisfying the "default-constructed node is Null"
// invariant.
type Node struct {
	Kind Kind

	Bool  bool
	Int   int64
	Float float64
	Str   string
	Seq   []*Node
	Map   *Mapping

	Anchor  string
	Tag     string
	IsAlias bool

	// Line and Column are 1-based source positions. The deserializer sets
	// them on scalar nodes only; they are zero on sequence and mapping nodes
	// and on programmatically constructed nodes.
	Line, Column int
}

// --- factories ---

func NewNull() *Node { return &Node{Kind: NullKind} }

func NewBool(b bool) *Node { return &Node{Kind: BooleanKind, Bool: b} }

func NewInt(i int64) *Node { return &Node{Kind: IntegerKind, Int: i} }

func NewFloat(f float64) *Node { return &Node{Kind: FloatKind, Float: f} }

func NewString(s string) *Node { return &Node{Kind: StringKind, Str: s} }

func NewSequence() *Node { return &Node{Kind: SequenceKind} }

func NewMapping() *Node { return &Node{Kind: MappingKind, Map: newMapping()} }

// --- predicates ---

func (n *Node) IsNull() bool     { return n.Kind == NullKind }
func (n *Node) IsBool() bool     { return n.Kind == BooleanKind }
func (n *Node) IsInt() bool      { return n.Kind == IntegerKind }
func (n *Node) IsFloat() bool    { return n.Kind == FloatKind }
func (n *Node) IsString() bool   { return n.Kind == StringKind }
func (n *Node) IsSequence() bool { return n.Kind == SequenceKind }
func (n *Node) IsMapping() bool  { return n.Kind == MappingKind }

// --- typed accessors ---

func (n *Node) AsBool() (bool, error) {
	if n.Kind != BooleanKind {
		return false, &TypeError{Msg: "node is " + n.Kind.String() + ", not boolean"}
	}
	return n.Bool, nil
}

// AsInt returns the node's integer value. A FloatKind node whose value has
// no fractional part and lies within the int64 range converts without
// error; a non-integral or out-of-range float is an OutOfRangeError rather
// than a silent truncation (spec open question 2).
func (n *Node) AsInt() (int64, error) {
	switch n.Kind {
	case IntegerKind:
		return n.Int, nil
	case FloatKind:
		if math.Trunc(n.Float) != n.Float || math.IsInf(n.Float, 0) || math.IsNaN(n.Float) ||
			n.Float < math.MinInt64 || n.Float >= math.MaxInt64 {
			return 0, &OutOfRangeError{Msg: "float value is not representable as an integer"}
		}
		return int64(n.Float), nil
	}
	return 0, &TypeError{Msg: "node is " + n.Kind.String() + ", not integer"}
}

func (n *Node) AsFloat() (float64, error) {
	switch n.Kind {
	case FloatKind:
		return n.Float, nil
	case IntegerKind:
		return float64(n.Int), nil
	}
	return 0, &TypeError{Msg: "node is " + n.Kind.String() + ", not float"}
}

func (n *Node) AsString() (string, error) {
	if n.Kind != StringKind {
		return "", &TypeError{Msg: "node is " + n.Kind.String() + ", not string"}
	}
	return n.Str, nil
}

func (n *Node) AsSequence() ([]*Node, error) {
	if n.Kind != SequenceKind {
		return nil, &TypeError{Msg: "node is " + n.Kind.String() + ", not sequence"}
	}
	return n.Seq, nil
}

func (n *Node) AsMapping() (*Mapping, error) {
	if n.Kind != MappingKind {
		return nil, &TypeError{Msg: "node is " + n.Kind.String() + ", not mapping"}
	}
	return n.Map, nil
}

// --- size / containment ---

// Size returns the number of elements for a container, the byte length for
// a string, and 0 otherwise.
func (n *Node) Size() int {
	switch n.Kind {
	case SequenceKind:
		return len(n.Seq)
	case MappingKind:
		return n.Map.Len()
	case StringKind:
		return len(n.Str)
	}
	return 0
}

func (n *Node) Empty() bool { return n.Size() == 0 }

// Contains reports whether a mapping node has the given key. It is a
// TypeError to call Contains on a non-mapping node.
func (n *Node) Contains(key *Node) (bool, error) {
	if n.Kind != MappingKind {
		return false, &TypeError{Msg: "node is " + n.Kind.String() + ", not mapping"}
	}
	_, ok := n.Map.Get(key)
	return ok, nil
}

// Index returns the sequence element at i, raising an OutOfRangeError if i
// is out of bounds.
func (n *Node) Index(i int) (*Node, error) {
	if n.Kind != SequenceKind {
		return nil, &TypeError{Msg: "node is " + n.Kind.String() + ", not sequence"}
	}
	if i < 0 || i >= len(n.Seq) {
		return nil, &OutOfRangeError{Msg: "sequence index out of range"}
	}
	return n.Seq[i], nil
}

// At is the strict accessor named in §6.1: for mappings it looks up key and
// raises OutOfRangeError if absent; for sequences it behaves like Index.
func (n *Node) At(keyOrIndex interface{}) (*Node, error) {
	switch n.Kind {
	case SequenceKind:
		i, ok := keyOrIndex.(int)
		if !ok {
			return nil, &TypeError{Msg: "sequence requires an int index"}
		}
		return n.Index(i)
	case MappingKind:
		key, ok := keyOrIndex.(*Node)
		if !ok {
			key = scalarKeyNode(keyOrIndex)
		}
		v, ok := n.Map.Get(key)
		if !ok {
			return nil, &OutOfRangeError{Msg: "mapping key not found"}
		}
		return v, nil
	}
	return nil, &TypeError{Msg: "node is " + n.Kind.String() + ", not a container"}
}

// Get looks up key in a mapping node, inserting a null value if absent (the
// non-const operator[] behavior of §6.1). It is a TypeError on a non-mapping
// node.
func (n *Node) Get(key *Node) (*Node, error) {
	if n.Kind != MappingKind {
		return nil, &TypeError{Msg: "node is " + n.Kind.String() + ", not mapping"}
	}
	v, ok := n.Map.Get(key)
	if !ok {
		v = NewNull()
		n.Map.Set(key, v)
	}
	return v, nil
}

// Set inserts or updates key -> value in a mapping node.
func (n *Node) Set(key, value *Node) error {
	if n.Kind != MappingKind {
		return &TypeError{Msg: "node is " + n.Kind.String() + ", not mapping"}
	}
	n.Map.Set(key, value)
	return nil
}

// Append adds value to the end of a sequence node.
func (n *Node) Append(value *Node) error {
	if n.Kind != SequenceKind {
		return &TypeError{Msg: "node is " + n.Kind.String() + ", not sequence"}
	}
	n.Seq = append(n.Seq, value)
	return nil
}

func scalarKeyNode(v interface{}) *Node {
	switch x := v.(type) {
	case string:
		return NewString(x)
	case int:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case bool:
		return NewBool(x)
	}
	return NewNull()
}

// --- node properties ---

func (n *Node) HasAnchorName() bool { return n.Anchor != "" }
func (n *Node) HasTagName() bool    { return n.Tag != "" }
func (n *Node) AnchorName() string  { return n.Anchor }
func (n *Node) TagName() string     { return n.Tag }

func (n *Node) AddAnchorName(name string) { n.Anchor = name }
func (n *Node) AddTagName(name string)    { n.Tag = name }

// AliasOf copies anchor's value into n and marks n as an alias to it. It
// raises a DomainError if anchor carries no anchor name.
func (n *Node) AliasOf(anchor *Node) error {
	if !anchor.HasAnchorName() {
		return &DomainError{Msg: "alias target has no anchor name"}
	}
	copied := anchor.deepCopy()
	*n = *copied
	n.IsAlias = true
	n.Anchor = anchor.Anchor
	return nil
}

func (n *Node) deepCopy() *Node {
	cp := *n
	switch n.Kind {
	case SequenceKind:
		cp.Seq = make([]*Node, len(n.Seq))
		for i, c := range n.Seq {
			cp.Seq[i] = c.deepCopy()
		}
	case MappingKind:
		cp.Map = n.Map.deepCopy()
	}
	return &cp
}

// Iterator returns a unifying façade over the node's children. It is a
// TypeError to call Iterator on a non-container node.
func (n *Node) Iterator() (*Iterator, error) {
	switch n.Kind {
	case SequenceKind:
		return &Iterator{kind: seqIter, seq: n.Seq, i: -1}, nil
	case MappingKind:
		return &Iterator{kind: mapIter, pairs: n.Map.pairs, i: -1}, nil
	}
	return nil, &TypeError{Msg: "node is " + n.Kind.String() + ", not a container"}
}

// Equal reports node-equality per §8.1 property 1: same kind and value,
// mapping insertion order preserved, anchor/tag preserved. Alias/IsAlias
// topology is deliberately excluded, matching the documented round-trip
// exception.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Anchor != o.Anchor || n.Tag != o.Tag {
		return false
	}
	switch n.Kind {
	case NullKind:
		return true
	case BooleanKind:
		return n.Bool == o.Bool
	case IntegerKind:
		return n.Int == o.Int
	case FloatKind:
		if math.IsNaN(n.Float) && math.IsNaN(o.Float) {
			return true
		}
		return n.Float == o.Float
	case StringKind:
		return n.Str == o.Str
	case SequenceKind:
		if len(n.Seq) != len(o.Seq) {
			return false
		}
		for i := range n.Seq {
			if !n.Seq[i].Equal(o.Seq[i]) {
				return false
			}
		}
		return true
	case MappingKind:
		if n.Map.Len() != o.Map.Len() {
			return false
		}
		for i, p := range n.Map.pairs {
			op := o.Map.pairs[i]
			if !p.Key.Equal(op.Key) || !p.Value.Equal(op.Value) {
				return false
			}
		}
		return true
	}
	return false
}
