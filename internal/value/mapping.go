package value

import (
	"fmt"
	"sort"
	"strconv"
)

// Pair is one key/value entry of a Mapping. Keys are full Nodes: YAML
// permits any node kind as a mapping key, not just strings (spec §3.1).
type Pair struct {
	Key   *Node
	Value *Node
}

// Mapping is an insertion-ordered (key, value) container, per spec §3.2: an
// ordered slice of pairs plus a canonical-key side index for O(1) average
// lookup. Iteration always yields pairs in insertion order.
type Mapping struct {
	pairs []Pair
	index map[string]int
}

func newMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

func (m *Mapping) Len() int { return len(m.pairs) }

// Get looks up key by value equality and returns its value.
func (m *Mapping) Get(key *Node) (*Node, bool) {
	i, ok := m.index[canonicalKey(key)]
	if !ok {
		return nil, false
	}
	return m.pairs[i].Value, true
}

// Set inserts key -> value, or updates the value in place if key is already
// present (re-insertion via the programmatic API updates rather than
// rejecting, per spec §3.2; only the parser rejects duplicate keys, see
// internal/builder).
func (m *Mapping) Set(key, value *Node) {
	ck := canonicalKey(key)
	if i, ok := m.index[ck]; ok {
		m.pairs[i].Value = value
		return
	}
	m.index[ck] = len(m.pairs)
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
}

// Append adds a new pair without checking for an existing key. Used by the
// deserializer, which performs its own duplicate-key rejection (spec
// §4.3.5) before calling it.
func (m *Mapping) Append(key, value *Node) {
	m.index[canonicalKey(key)] = len(m.pairs)
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
}

// Has reports whether key is present without fetching the value.
func (m *Mapping) Has(key *Node) bool {
	_, ok := m.index[canonicalKey(key)]
	return ok
}

// Pairs returns the entries in insertion order. The returned slice must not
// be mutated by the caller.
func (m *Mapping) Pairs() []Pair { return m.pairs }

func (m *Mapping) deepCopy() *Mapping {
	cp := &Mapping{
		pairs: make([]Pair, len(m.pairs)),
		index: make(map[string]int, len(m.index)),
	}
	for i, p := range m.pairs {
		cp.pairs[i] = Pair{Key: p.Key.deepCopy(), Value: p.Value.deepCopy()}
		cp.index[canonicalKey(cp.pairs[i].Key)] = i
	}
	return cp
}

// canonicalKey derives the string a Mapping's side index uses to test key
// equality, from the key node's kind and value (recursively, for the rare
// case of a container key).
func canonicalKey(n *Node) string {
	switch n.Kind {
	case NullKind:
		return "n:"
	case BooleanKind:
		return "b:" + strconv.FormatBool(n.Bool)
	case IntegerKind:
		return "i:" + strconv.FormatInt(n.Int, 10)
	case FloatKind:
		return "f:" + strconv.FormatFloat(n.Float, 'g', -1, 64)
	case StringKind:
		return "s:" + n.Str
	case SequenceKind:
		s := "q:["
		for i, c := range n.Seq {
			if i > 0 {
				s += ","
			}
			s += canonicalKey(c)
		}
		return s + "]"
	case MappingKind:
		keys := make([]string, len(n.Map.pairs))
		for i, p := range n.Map.pairs {
			keys[i] = canonicalKey(p.Key) + "=" + canonicalKey(p.Value)
		}
		sort.Strings(keys)
		s := "m:{"
		for i, k := range keys {
			if i > 0 {
				s += ","
			}
			s += k
		}
		return s + "}"
	}
	return fmt.Sprintf("?:%v", n.Kind)
}

// iterKind discriminates which of the two underlying cursors an Iterator
// wraps.
type iterKind int

const (
	seqIter iterKind = iota
	mapIter
)

// Iterator is the unifying façade over sequence and mapping iteration named
// in spec §6.1: a thin polymorphic wrapper over two concrete iterator
// kinds, the way internal/yamlh.Event wraps distinct event payloads behind
// one discriminated struct in the teacher.
type Iterator struct {
	kind  iterKind
	seq   []*Node
	pairs []Pair
	i     int
}

// Next advances the iterator and reports whether a value is available.
func (it *Iterator) Next() bool {
	it.i++
	switch it.kind {
	case seqIter:
		return it.i < len(it.seq)
	default:
		return it.i < len(it.pairs)
	}
}

// Value returns the current element's value.
func (it *Iterator) Value() *Node {
	switch it.kind {
	case seqIter:
		return it.seq[it.i]
	default:
		return it.pairs[it.i].Value
	}
}

// Key returns the current pair's key. It is a TypeError to call Key on a
// sequence iterator.
func (it *Iterator) Key() (*Node, error) {
	if it.kind != mapIter {
		return nil, &TypeError{Msg: "Key called on a sequence iterator"}
	}
	return it.pairs[it.i].Key, nil
}
