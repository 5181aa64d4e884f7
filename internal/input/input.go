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

// Package input implements the read-only, random-access UTF-8 byte cursor
// the scanner consumes (spec §4.1). It is the one collaborator the core
// spec treats as external (BOM stripping, reader/iterator adaptation); here
// it is a thin whole-buffer view rather than the teacher's refillable
// streaming buffer, since the module always has the full document in
// memory before scanning starts.
package input

// Position is a (line, column, byte offset) triple, all 1-based for line
// and column, matching the teacher's yamlh.Position.
type Position struct {
	Line   int
	Column int
	Offset int
}

// View is a read-only cursor over a UTF-8 byte buffer.
type View struct {
	buf    []byte
	offset int
	line   int
	column int
}

// New returns a View over b, stripping a leading UTF-8 byte-order mark if
// present (spec §6.2).
func New(b []byte) *View {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		b = b[3:]
	}
	return &View{buf: b, line: 1, column: 1}
}

// Current returns the byte at the cursor, or 0 at end of input.
func (v *View) Current() byte { return v.Peek(0) }

// Peek returns the byte at offset+n from the cursor, or 0 past the end.
func (v *View) Peek(n int) byte {
	i := v.offset + n
	if i < 0 || i >= len(v.buf) {
		return 0
	}
	return v.buf[i]
}

// Advance moves the cursor forward n bytes, updating line/column. A
// newline (\n, \r, or \r\n) increments the line and resets the column; a
// \r\n pair is consumed as a single line break.
func (v *View) Advance(n int) {
	for i := 0; i < n && v.offset < len(v.buf); i++ {
		b := v.buf[v.offset]
		switch {
		case b == '\r':
			if v.offset+1 < len(v.buf) && v.buf[v.offset+1] == '\n' {
				v.offset++
				i++
			}
			v.line++
			v.column = 1
		case b == '\n':
			v.line++
			v.column = 1
		default:
			v.column++
		}
		v.offset++
	}
}

// Slice returns the borrowed substring view buf[begin:end].
func (v *View) Slice(begin, end int) []byte { return v.buf[begin:end] }

// Position returns the cursor's current (line, column, byte offset).
func (v *View) Position() Position {
	return Position{Line: v.line, Column: v.column, Offset: v.offset}
}

// Offset returns the raw byte offset of the cursor.
func (v *View) Offset() int { return v.offset }

// AtEnd reports whether the cursor has consumed the whole buffer.
func (v *View) AtEnd() bool { return v.offset >= len(v.buf) }

// Len returns the total buffer length.
func (v *View) Len() int { return len(v.buf) }
