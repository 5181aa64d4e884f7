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

package scanner

// Kind discriminates the scanner's token stream, matching spec §3.4.
type Kind int

const (
	EndOfInput Kind = iota
	DocumentStart
	DocumentEnd
	KeySeparator
	ValueSeparator
	BlockSequenceEntry
	FlowSeqBegin
	FlowSeqEnd
	FlowMapBegin
	FlowMapEnd
	ExplicitKey
	BlockMappingPrefix
	AnchorProperty
	AliasReference
	TagProperty
	YamlDirective
	TagDirective
	InvalidDirective
	CommentPrefix
	NullScalar
	BooleanScalar
	IntegerScalar
	FloatScalar
	StringScalar
)

func (k Kind) String() string {
	switch k {
	case EndOfInput:
		return "EndOfInput"
	case DocumentStart:
		return "DocumentStart"
	case DocumentEnd:
		return "DocumentEnd"
	case KeySeparator:
		return "KeySeparator"
	case ValueSeparator:
		return "ValueSeparator"
	case BlockSequenceEntry:
		return "BlockSequenceEntry"
	case FlowSeqBegin:
		return "FlowSeqBegin"
	case FlowSeqEnd:
		return "FlowSeqEnd"
	case FlowMapBegin:
		return "FlowMapBegin"
	case FlowMapEnd:
		return "FlowMapEnd"
	case ExplicitKey:
		return "ExplicitKey"
	case BlockMappingPrefix:
		return "BlockMappingPrefix"
	case AnchorProperty:
		return "AnchorProperty"
	case AliasReference:
		return "AliasReference"
	case TagProperty:
		return "TagProperty"
	case YamlDirective:
		return "YamlDirective"
	case TagDirective:
		return "TagDirective"
	case InvalidDirective:
		return "InvalidDirective"
	case CommentPrefix:
		return "CommentPrefix"
	case NullScalar:
		return "NullScalar"
	case BooleanScalar:
		return "BooleanScalar"
	case IntegerScalar:
		return "IntegerScalar"
	case FloatScalar:
		return "FloatScalar"
	case StringScalar:
		return "StringScalar"
	}
	return "<unknown token>"
}

// ScalarStyle records which lexical style produced a scalar token, used by
// the deserializer to decide whether a plain-scalar classification applies
// (spec §4.3.6: quoted and block scalars are always strings).
type ScalarStyle int

const (
	PlainStyle ScalarStyle = iota
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
)

// Token is one lexeme of the scanner's output stream: a discriminator plus
// whichever payload its Kind carries (spec §3.4's table).
type Token struct {
	Kind   Kind
	Line   int
	Column int

	// AnchorProperty / AliasReference / TagProperty: the name/tag text as it
	// appeared in source. YamlDirective: the version string. TagDirective:
	// Handle/Prefix below.
	Str string

	Handle string // TagDirective
	Prefix string // TagDirective

	Style ScalarStyle // scalar tokens only

	Bool  bool
	Int   int64
	Float float64
}

// AsFloat returns a FloatScalar token's value. Accessing the wrong payload
// type is an error (spec §4.2, scanner accessors).
func (t Token) AsFloat() (float64, error) {
	if t.Kind != FloatScalar {
		return 0, &Error{Line: t.Line, Column: t.Column, Reason: "token is not a float scalar"}
	}
	return t.Float, nil
}

func (t Token) AsInt() (int64, error) {
	if t.Kind != IntegerScalar {
		return 0, &Error{Line: t.Line, Column: t.Column, Reason: "token is not an integer scalar"}
	}
	return t.Int, nil
}

func (t Token) AsBool() (bool, error) {
	if t.Kind != BooleanScalar {
		return false, &Error{Line: t.Line, Column: t.Column, Reason: "token is not a boolean scalar"}
	}
	return t.Bool, nil
}

func (t Token) AsString() (string, error) {
	switch t.Kind {
	case StringScalar, NullScalar, BooleanScalar, IntegerScalar, FloatScalar:
		return t.Str, nil
	}
	return "", &Error{Line: t.Line, Column: t.Column, Reason: "token is not a scalar"}
}

// IsScalar reports whether the token is one of the five scalar kinds.
func (k Kind) IsScalar() bool {
	switch k {
	case NullScalar, BooleanScalar, IntegerScalar, FloatScalar, StringScalar:
		return true
	}
	return false
}
