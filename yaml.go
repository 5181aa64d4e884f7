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
	"io"

	"github.com/yamlcore/yamlcore/internal/builder"
)

// Deserialize reads a single YAML document from r. A stream containing more
// than one document is a parse error; use DeserializeDocs for those (spec
// §6.1).
func Deserialize(r io.Reader) (*Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DeserializeBytes(b)
}

// DeserializeBytes is Deserialize over an in-memory buffer, the entry point
// the fuzz harness drives directly.
func DeserializeBytes(b []byte) (*Node, error) {
	return builder.New(b).DeserializeOne()
}

// DeserializeDocs reads every document in a "---"/"..."-delimited stream.
func DeserializeDocs(r io.Reader) ([]*Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return builder.New(b).DeserializeAll()
}
