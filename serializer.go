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
	"math"
	"strconv"
	"strings"

	"github.com/yamlcore/yamlcore/internal/classify"
)

// serializer walks a Node tree and writes it in block style, the way
// internal/emitter's event loop does in the teacher, simplified to the
// single block-only subset this module's value model needs: no flow style,
// no comments, no line-width wrapping.
type serializer struct {
	sb strings.Builder
}

const indentWidth = 2

// Serialize renders a single document as block-style YAML text.
func Serialize(n *Node) (string, error) {
	return SerializeDocs([]*Node{n})
}

// SerializeDocs renders each document separated by a "...\n" end marker
// (spec §4.4, multi-document output).
func SerializeDocs(docs []*Node) (string, error) {
	var s serializer
	for i, doc := range docs {
		if i > 0 {
			s.sb.WriteString("...\n")
		}
		if doc == nil {
			doc = NewNull()
		}
		if err := s.writeDocument(doc); err != nil {
			return "", err
		}
	}
	return s.sb.String(), nil
}

// writeDocument writes a whole document at the root: unlike a sequence
// element or mapping value, a root-level scalar has no preceding "-"/"key:"
// to share a line with, so it gets no leading space.
func (s *serializer) writeDocument(n *Node) error {
	switch n.Kind {
	case NullKind, BooleanKind, IntegerKind, FloatKind, StringKind:
		s.sb.WriteString(formatScalar(n))
		s.sb.WriteString("\n")
		return nil
	case SequenceKind:
		return s.writeSequence(n, 0, false)
	case MappingKind:
		return s.writeMapping(n, 0, false)
	}
	return &TypeError{Msg: "cannot serialize node of unknown kind"}
}

func (s *serializer) writeIndent(indent int) {
	s.sb.WriteString(strings.Repeat(" ", indent))
}

func (s *serializer) writeSequence(n *Node, indent int, inlineScalar bool) error {
	if len(n.Seq) == 0 {
		if inlineScalar {
			s.sb.WriteString(" []\n")
		} else {
			s.writeIndent(indent)
			s.sb.WriteString("[]\n")
		}
		return nil
	}
	if inlineScalar {
		s.sb.WriteString("\n")
	}
	for _, elem := range n.Seq {
		s.writeIndent(indent)
		s.sb.WriteString("-")
		if err := s.writeCollectionEntry(elem, indent+indentWidth); err != nil {
			return err
		}
	}
	return nil
}

func (s *serializer) writeMapping(n *Node, indent int, inlineScalar bool) error {
	if n.Map.Len() == 0 {
		if inlineScalar {
			s.sb.WriteString(" {}\n")
		} else {
			s.writeIndent(indent)
			s.sb.WriteString("{}\n")
		}
		return nil
	}
	if inlineScalar {
		s.sb.WriteString("\n")
	}
	for _, p := range n.Map.Pairs() {
		s.writeIndent(indent)
		s.sb.WriteString(formatKey(p.Key))
		s.sb.WriteString(":")
		if err := s.writeCollectionEntry(p.Value, indent+indentWidth); err != nil {
			return err
		}
	}
	return nil
}

// writeCollectionEntry writes a sequence element or mapping value that
// follows a "-" or "key:" already written on the current line: scalars are
// appended inline, containers start a new indented block.
func (s *serializer) writeCollectionEntry(n *Node, indent int) error {
	switch n.Kind {
	case SequenceKind:
		if len(n.Seq) == 0 {
			s.sb.WriteString(" []\n")
			return nil
		}
		// writeSequence itself writes the leading "\n" for inlineScalar.
		return s.writeSequence(n, indent, true)
	case MappingKind:
		if n.Map.Len() == 0 {
			s.sb.WriteString(" {}\n")
			return nil
		}
		return s.writeMapping(n, indent, true)
	default:
		s.sb.WriteString(" ")
		s.sb.WriteString(formatScalar(n))
		s.sb.WriteString("\n")
		return nil
	}
}

// formatScalar renders a scalar node's core-schema text form (spec §4.4.1).
func formatScalar(n *Node) string {
	switch n.Kind {
	case NullKind:
		return "null"
	case BooleanKind:
		if n.Bool {
			return "true"
		}
		return "false"
	case IntegerKind:
		return strconv.FormatInt(n.Int, 10)
	case FloatKind:
		return formatFloat(n.Float)
	case StringKind:
		return quoteIfNeeded(n.Str)
	}
	return "null"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// formatKey renders a mapping key, quoting it whenever its plain form would
// be ambiguous (spec open question 1): an empty string, a string that would
// itself classify as null/bool/int/float under the core schema, one
// containing ": "/" #" or starting with an indicator character, all force
// single-quoted form so the key round-trips as a string.
func formatKey(n *Node) string {
	if n.Kind != StringKind {
		return formatScalar(n)
	}
	if needsQuoting(n.Str) {
		return quoteSingle(n.Str)
	}
	return n.Str
}

func quoteIfNeeded(s string) string {
	if needsQuoting(s) {
		return quoteSingle(s)
	}
	return s
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if classify.Plain(s, false).Kind != classify.String {
		return true
	}
	if strings.ContainsAny(string(s[0]), "!&*-?|>%@`\"'#,[]{}:") {
		return true
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") {
		return true
	}
	if strings.Contains(s, " #") {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s, "\n\t") {
		return true
	}
	return false
}

func quoteSingle(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
