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

// Package scanner implements the YAML lexical scanner (spec §4.2): a
// pull-model next_token() that owns indicator recognition, scalar style
// dispatch, escape processing, directive parsing and block scalar
// indentation tracking.
//
// It is grounded throughout on the teacher's
// internal/parserc/scannerc.go (yaml_parser_scan_plain_scalar,
// scan_flow_scalar, scan_block_scalar, scan_tag, scan_anchor,
// scan_directive), re-expressed as a single Token at a time instead of
// libyaml's fetch-into-queue model.
package scanner

import (
	"strconv"
	"strings"

	"github.com/yamlcore/yamlcore/internal/classify"
	"github.com/yamlcore/yamlcore/internal/input"
)

// Error is a scanner-detected parse failure, carrying the position at
// which it was found (spec §4.2.6: "the scanner does not attempt
// recovery").
type Error struct {
	Line, Column int
	Reason       string
}

func (e *Error) Error() string { return e.Reason }

func isBlank(b byte) bool { return b == ' ' || b == '\t' }

func isBreak(b byte) bool { return b == '\n' || b == '\r' }

func isFlowIndicator(b byte) bool {
	return b == ',' || b == '[' || b == ']' || b == '{' || b == '}'
}

// Scanner converts an input.View into a pull-model stream of Tokens. It
// holds the input cursor, a flow-nesting depth counter, and the current
// indentation floor used to decide when a multi-line scalar's continuation
// line is insufficiently indented (spec §4.2.3's parent_indent, shared with
// plain-scalar folding in §4.2.2).
//
// The floor is maintained cooperatively with internal/builder: the builder
// calls SetIndent with its innermost open container's indentation before
// every Next call, since only
// the builder tracks the stack of open container indentations (spec
// §4.3.1) that the scanner's local per-scalar bookkeeping needs as a base.
type Scanner struct {
	in        *input.View
	flowDepth int
	indent    int
	yaml11    bool
}

// New returns a Scanner over b.
func New(b []byte) *Scanner {
	return &Scanner{in: input.New(b), indent: -1}
}

// SetIndent sets the current indentation floor (see Scanner doc comment).
func (s *Scanner) SetIndent(n int) { s.indent = n }

// SetYAML11 toggles recognition of the YAML-1.1 boolean keyword set,
// switched on by the builder once it has scanned an explicit "%YAML 1.1"
// directive (spec §6.2).
func (s *Scanner) SetYAML11(v bool) { s.yaml11 = v }

func (s *Scanner) FlowDepth() int { return s.flowDepth }

func (s *Scanner) fail(reason string) error {
	pos := s.in.Position()
	return &Error{Line: pos.Line, Column: pos.Column, Reason: reason}
}

// skipToNextToken skips inline whitespace, line breaks, and "# ... \n" line
// comments, leaving the cursor at the first byte that begins a token.
func (s *Scanner) skipToNextToken() {
	for {
		for isBlank(s.in.Current()) {
			s.in.Advance(1)
		}
		if s.in.Current() == '#' {
			for !isBreak(s.in.Current()) && s.in.Current() != 0 {
				s.in.Advance(1)
			}
			continue
		}
		if isBreak(s.in.Current()) {
			s.in.Advance(1)
			continue
		}
		return
	}
}

// Next scans and returns the next token, advancing the cursor.
func (s *Scanner) Next() (Token, error) {
	s.skipToNextToken()

	pos := s.in.Position()
	tok := Token{Line: pos.Line, Column: pos.Column}

	if s.in.AtEnd() {
		tok.Kind = EndOfInput
		return tok, nil
	}

	c := s.in.Current()

	if pos.Column == 1 {
		if c == '%' {
			return s.scanDirective()
		}
		if s.matchLineMarker("---") {
			s.in.Advance(3)
			tok.Kind = DocumentStart
			return tok, nil
		}
		if s.matchLineMarker("...") {
			s.in.Advance(3)
			tok.Kind = DocumentEnd
			return tok, nil
		}
	}

	switch c {
	case '-':
		if isBlank(s.in.Peek(1)) || isBreak(s.in.Peek(1)) || s.in.Peek(1) == 0 {
			s.in.Advance(1)
			tok.Kind = BlockSequenceEntry
			return tok, nil
		}
	case '?':
		if isBlank(s.in.Peek(1)) || isBreak(s.in.Peek(1)) || s.in.Peek(1) == 0 {
			s.in.Advance(1)
			tok.Kind = ExplicitKey
			return tok, nil
		}
	case ':':
		n := s.in.Peek(1)
		if isBreak(n) || n == 0 {
			s.in.Advance(1)
			tok.Kind = BlockMappingPrefix
			return tok, nil
		}
		if isBlank(n) || n == ',' || n == ']' || n == '}' {
			s.in.Advance(1)
			tok.Kind = KeySeparator
			return tok, nil
		}
	case '[':
		s.in.Advance(1)
		s.flowDepth++
		tok.Kind = FlowSeqBegin
		return tok, nil
	case ']':
		s.in.Advance(1)
		if s.flowDepth > 0 {
			s.flowDepth--
		}
		tok.Kind = FlowSeqEnd
		return tok, nil
	case '{':
		s.in.Advance(1)
		s.flowDepth++
		tok.Kind = FlowMapBegin
		return tok, nil
	case '}':
		s.in.Advance(1)
		if s.flowDepth > 0 {
			s.flowDepth--
		}
		tok.Kind = FlowMapEnd
		return tok, nil
	case ',':
		if s.flowDepth == 0 {
			return tok, s.fail("',' is only legal inside a flow collection")
		}
		s.in.Advance(1)
		tok.Kind = ValueSeparator
		return tok, nil
	case '&':
		return s.scanAnchorOrAlias(AnchorProperty)
	case '*':
		return s.scanAnchorOrAlias(AliasReference)
	case '!':
		return s.scanTag()
	case '|', '>':
		return s.scanBlockScalar(c == '|')
	case '"':
		return s.scanDoubleQuoted()
	case '\'':
		return s.scanSingleQuoted()
	case '@', '`':
		return tok, s.fail("reserved indicator character '" + string(c) + "' may not start a token")
	}

	return s.scanPlain()
}

func (s *Scanner) matchLineMarker(marker string) bool {
	for i := 0; i < len(marker); i++ {
		if s.in.Peek(i) != marker[i] {
			return false
		}
	}
	n := s.in.Peek(len(marker))
	return n == 0 || isBlank(n) || isBreak(n)
}

// --- anchors, aliases, tags ---

func isNameChar(b byte) bool {
	return b != 0 && !isBlank(b) && !isBreak(b) && !isFlowIndicator(b) && b != ':'
}

func (s *Scanner) scanAnchorOrAlias(kind Kind) (Token, error) {
	pos := s.in.Position()
	tok := Token{Kind: kind, Line: pos.Line, Column: pos.Column}
	s.in.Advance(1)
	start := s.in.Offset()
	for isNameChar(s.in.Current()) {
		s.in.Advance(1)
	}
	if s.in.Offset() == start {
		return tok, s.fail("missing anchor/alias name")
	}
	tok.Str = string(s.in.Slice(start, s.in.Offset()))
	return tok, nil
}

func (s *Scanner) scanTag() (Token, error) {
	pos := s.in.Position()
	tok := Token{Kind: TagProperty, Line: pos.Line, Column: pos.Column}
	s.in.Advance(1) // consume '!'

	if s.in.Current() == '<' {
		start := s.in.Offset()
		s.in.Advance(1)
		for s.in.Current() != '>' && s.in.Current() != 0 && !isBreak(s.in.Current()) {
			s.in.Advance(1)
		}
		if s.in.Current() != '>' {
			return tok, s.fail("unterminated verbatim tag")
		}
		s.in.Advance(1)
		tok.Str = "!" + string(s.in.Slice(start, s.in.Offset()))
		return tok, nil
	}

	start := s.in.Offset()
	for isNameChar(s.in.Current()) && s.in.Current() != '!' {
		s.in.Advance(1)
	}
	part1 := string(s.in.Slice(start, s.in.Offset()))

	if s.in.Current() == '!' {
		s.in.Advance(1)
		suffixStart := s.in.Offset()
		for isNameChar(s.in.Current()) {
			s.in.Advance(1)
		}
		suffix := string(s.in.Slice(suffixStart, s.in.Offset()))
		tok.Str = "!" + part1 + "!" + suffix
		return tok, nil
	}

	if part1 == "" {
		tok.Str = "!"
		return tok, nil
	}
	tok.Str = "!" + part1
	return tok, nil
}

// --- directives ---

func (s *Scanner) scanDirective() (Token, error) {
	pos := s.in.Position()
	s.in.Advance(1) // consume '%'
	nameStart := s.in.Offset()
	for isNameChar(s.in.Current()) {
		s.in.Advance(1)
	}
	name := string(s.in.Slice(nameStart, s.in.Offset()))

	switch name {
	case "YAML":
		s.skipBlanks()
		start := s.in.Offset()
		for !isBreak(s.in.Current()) && s.in.Current() != 0 && !isBlank(s.in.Current()) {
			s.in.Advance(1)
		}
		version := string(s.in.Slice(start, s.in.Offset()))
		s.skipRestOfLine()
		if !validVersion(version) {
			return Token{}, s.fail("invalid %YAML version: " + version)
		}
		return Token{Kind: YamlDirective, Line: pos.Line, Column: pos.Column, Str: version}, nil
	case "TAG":
		s.skipBlanks()
		hStart := s.in.Offset()
		for !isBlank(s.in.Current()) && !isBreak(s.in.Current()) && s.in.Current() != 0 {
			s.in.Advance(1)
		}
		handle := string(s.in.Slice(hStart, s.in.Offset()))
		s.skipBlanks()
		pStart := s.in.Offset()
		for !isBlank(s.in.Current()) && !isBreak(s.in.Current()) && s.in.Current() != 0 {
			s.in.Advance(1)
		}
		prefix := string(s.in.Slice(pStart, s.in.Offset()))
		s.skipRestOfLine()
		if err := validTagPrefix(prefix); err != nil {
			return Token{}, s.fail(err.Error())
		}
		return Token{Kind: TagDirective, Line: pos.Line, Column: pos.Column, Handle: handle, Prefix: prefix}, nil
	default:
		s.skipRestOfLine()
		return Token{Kind: InvalidDirective, Line: pos.Line, Column: pos.Column}, nil
	}
}

func validVersion(v string) bool {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) != 2 {
		return false
	}
	_, err1 := strconv.Atoi(parts[0])
	_, err2 := strconv.Atoi(parts[1])
	return err1 == nil && err2 == nil
}

// validTagPrefix rejects a %TAG prefix that ends mid percent-escape (spec
// §9 open question 3).
func validTagPrefix(prefix string) error {
	for i := 0; i < len(prefix); i++ {
		if prefix[i] != '%' {
			continue
		}
		if i+2 >= len(prefix) || !isHex(prefix[i+1]) || !isHex(prefix[i+2]) {
			return &Error{Reason: "tag prefix ends mid percent-escape"}
		}
	}
	return nil
}

func isHex(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func (s *Scanner) skipBlanks() {
	for isBlank(s.in.Current()) {
		s.in.Advance(1)
	}
}

func (s *Scanner) skipRestOfLine() {
	for !isBreak(s.in.Current()) && s.in.Current() != 0 {
		s.in.Advance(1)
	}
}

// --- plain scalars ---

func (s *Scanner) scanPlain() (Token, error) {
	pos := s.in.Position()
	var sb strings.Builder

	for {
		// Read to the end of the current line's contribution.
		for {
			c := s.in.Current()
			if c == 0 || isBreak(c) {
				break
			}
			if c == ':' {
				n := s.in.Peek(1)
				if isBlank(n) || isBreak(n) || n == 0 {
					break
				}
				if s.flowDepth > 0 && (n == ',' || n == ']' || n == '}') {
					break
				}
			}
			if s.flowDepth > 0 && (c == ',' || c == ']' || c == '}') {
				break
			}
			if c == '#' && sb.Len() > 0 && isBlank(lastWritten(&sb)) {
				break
			}
			sb.WriteByte(c)
			s.in.Advance(1)
		}
		trimTrailingBlanks(&sb)

		if s.in.Current() == 0 || !isBreak(s.in.Current()) {
			// End of input, or the line stopped at an indicator (": ", a
			// flow indicator or " #") rather than a line break.
			break
		}
		// Peek ahead past blank lines to see if a sufficiently indented
		// continuation line follows.
		save := *s.in
		blankLines := 0
		for isBreak(s.in.Current()) {
			s.in.Advance(1)
			for isBlank(s.in.Current()) {
				s.in.Advance(1)
			}
			if isBreak(s.in.Current()) {
				blankLines++
				continue
			}
			break
		}
		col := s.in.Position().Column
		c := s.in.Current()
		stop := c == 0 || col <= s.indent
		if !stop && col == 1 && (s.matchLineMarker("---") || s.matchLineMarker("...")) {
			stop = true
		}
		if !stop && (c == '-' || c == '?') && (isBlank(s.in.Peek(1)) || isBreak(s.in.Peek(1))) {
			stop = true
		}
		if stop {
			*s.in = save
			break
		}
		if blankLines > 0 {
			sb.WriteString(strings.Repeat("\n", blankLines))
		} else {
			sb.WriteByte(' ')
		}
	}

	text := sb.String()
	result := classify.Plain(text, s.yaml11)
	return s.plainToken(pos, text, result), nil
}

func lastWritten(sb *strings.Builder) byte {
	str := sb.String()
	if len(str) == 0 {
		return 0
	}
	return str[len(str)-1]
}

func trimTrailingBlanks(sb *strings.Builder) {
	str := sb.String()
	i := len(str)
	for i > 0 && isBlank(str[i-1]) {
		i--
	}
	if i != len(str) {
		sb.Reset()
		sb.WriteString(str[:i])
	}
}

func (s *Scanner) plainToken(pos input.Position, text string, r classify.Result) Token {
	tok := Token{Line: pos.Line, Column: pos.Column, Style: PlainStyle}
	switch r.Kind {
	case classify.Null:
		tok.Kind = NullScalar
		tok.Str = text
	case classify.Bool:
		tok.Kind = BooleanScalar
		tok.Bool = r.Bool
		tok.Str = text
	case classify.Int:
		tok.Kind = IntegerScalar
		tok.Int = r.Int
		tok.Str = text
	case classify.Float:
		tok.Kind = FloatScalar
		tok.Float = r.Float
		tok.Str = text
	default:
		tok.Kind = StringScalar
		tok.Str = text
	}
	return tok
}

// --- quoted scalars ---

func (s *Scanner) scanSingleQuoted() (Token, error) {
	pos := s.in.Position()
	s.in.Advance(1)
	var sb strings.Builder
	for {
		c := s.in.Current()
		switch {
		case c == 0:
			return Token{}, s.fail("unterminated single-quoted scalar")
		case c == '\'':
			if s.in.Peek(1) == '\'' {
				sb.WriteByte('\'')
				s.in.Advance(2)
				continue
			}
			s.in.Advance(1)
			return Token{Kind: StringScalar, Line: pos.Line, Column: pos.Column, Style: SingleQuotedStyle, Str: sb.String()}, nil
		case isBreak(c):
			s.foldNewlineInto(&sb)
		default:
			sb.WriteByte(c)
			s.in.Advance(1)
		}
	}
}

func (s *Scanner) scanDoubleQuoted() (Token, error) {
	pos := s.in.Position()
	s.in.Advance(1)
	var sb strings.Builder
	for {
		c := s.in.Current()
		switch {
		case c == 0:
			return Token{}, s.fail("unterminated double-quoted scalar")
		case c == '"':
			s.in.Advance(1)
			return Token{Kind: StringScalar, Line: pos.Line, Column: pos.Column, Style: DoubleQuotedStyle, Str: sb.String()}, nil
		case c == '\\':
			if isBreak(s.in.Peek(1)) {
				s.in.Advance(1)
				s.in.Advance(1)
				for isBlank(s.in.Current()) {
					s.in.Advance(1)
				}
				continue
			}
			if err := s.scanEscape(&sb); err != nil {
				return Token{}, err
			}
		case isBreak(c):
			s.foldNewlineInto(&sb)
		case c < 0x20 && c != '\t':
			return Token{}, s.fail("control character not allowed in scalar")
		default:
			sb.WriteByte(c)
			s.in.Advance(1)
		}
	}
}

// foldNewlineInto consumes one line break (and any following blank lines)
// and applies plain/quoted scalar folding: a single line break becomes a
// space, consecutive line breaks become len-1 literal newlines.
func (s *Scanner) foldNewlineInto(sb *strings.Builder) {
	trimTrailingBlanks(sb)
	breaks := 0
	for isBreak(s.in.Current()) {
		s.in.Advance(1)
		breaks++
		for isBlank(s.in.Current()) {
			s.in.Advance(1)
		}
	}
	if breaks <= 1 {
		sb.WriteByte(' ')
	} else {
		sb.WriteString(strings.Repeat("\n", breaks-1))
	}
}

func (s *Scanner) scanEscape(sb *strings.Builder) error {
	s.in.Advance(1) // consume backslash
	c := s.in.Current()
	switch c {
	case '0':
		sb.WriteByte(0)
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 't', '\t':
		sb.WriteByte('\t')
	case 'n':
		sb.WriteByte('\n')
	case 'v':
		sb.WriteByte('\v')
	case 'f':
		sb.WriteByte('\f')
	case 'r':
		sb.WriteByte('\r')
	case 'e':
		sb.WriteByte(0x1B)
	case ' ':
		sb.WriteByte(' ')
	case '"':
		sb.WriteByte('"')
	case '/':
		sb.WriteByte('/')
	case '\\':
		sb.WriteByte('\\')
	case 'N':
		sb.WriteRune(0x85)
	case '_':
		sb.WriteRune(0xA0)
	case 'L':
		sb.WriteRune(0x2028)
	case 'P':
		sb.WriteRune(0x2029)
	case 'x':
		return s.scanHexEscape(sb, 2)
	case 'u':
		return s.scanHexEscape(sb, 4)
	case 'U':
		return s.scanHexEscape(sb, 8)
	default:
		return s.fail("unknown escape sequence '\\" + string(c) + "'")
	}
	s.in.Advance(1)
	return nil
}

func (s *Scanner) scanHexEscape(sb *strings.Builder, digits int) error {
	s.in.Advance(1) // consume x/u/U
	start := s.in.Offset()
	for i := 0; i < digits; i++ {
		if !isHex(s.in.Current()) {
			return s.fail("invalid hex escape")
		}
		s.in.Advance(1)
	}
	v, err := strconv.ParseUint(string(s.in.Slice(start, s.in.Offset())), 16, 32)
	if err != nil {
		return s.fail("invalid hex escape")
	}
	sb.WriteRune(rune(v))
	return nil
}

// --- block scalars ---

func (s *Scanner) scanBlockScalar(literal bool) (Token, error) {
	pos := s.in.Position()
	s.in.Advance(1) // consume '|' or '>'

	chomp := byte(0) // 0 = clip, '-' = strip, '+' = keep
	explicitIndent := 0
	for i := 0; i < 2; i++ {
		switch {
		case s.in.Current() == '-' || s.in.Current() == '+':
			if chomp != 0 {
				return Token{}, s.fail("duplicate chomping indicator")
			}
			chomp = s.in.Current()
			s.in.Advance(1)
		case s.in.Current() >= '1' && s.in.Current() <= '9':
			if explicitIndent != 0 {
				return Token{}, s.fail("duplicate indentation indicator")
			}
			explicitIndent = int(s.in.Current() - '0')
			s.in.Advance(1)
		}
	}
	s.skipBlanks()
	if s.in.Current() == '#' {
		s.skipRestOfLine()
	}
	if !isBreak(s.in.Current()) && s.in.Current() != 0 {
		return Token{}, s.fail("unexpected content after block scalar header")
	}
	if isBreak(s.in.Current()) {
		s.in.Advance(1)
	}

	parentIndent := s.indent
	if parentIndent < 0 {
		parentIndent = 0
	}
	contentIndent := 0
	if explicitIndent > 0 {
		contentIndent = parentIndent + explicitIndent
	}

	var lines []string
	maxBlank := 0
	for {
		lineStart := *s.in
		col := 1
		for isBlank(s.in.Current()) {
			s.in.Advance(1)
			col++
		}
		if isBreak(s.in.Current()) {
			// Blank line: record and continue.
			lines = append(lines, "")
			s.in.Advance(1)
			if col-1 > maxBlank {
				maxBlank = col - 1
			}
			continue
		}
		if s.in.Current() == 0 {
			break
		}
		if contentIndent == 0 {
			if col-1 <= parentIndent && col-1 <= maxBlank {
				*s.in = lineStart
				break
			}
			contentIndent = col - 1
			if contentIndent == 0 {
				contentIndent = 1
			}
		}
		if col-1 < contentIndent {
			*s.in = lineStart
			break
		}
		start := s.in.Offset()
		for !isBreak(s.in.Current()) && s.in.Current() != 0 {
			s.in.Advance(1)
		}
		lines = append(lines, string(s.in.Slice(start, s.in.Offset())))
		if isBreak(s.in.Current()) {
			s.in.Advance(1)
		}
	}

	text := assembleBlockScalar(lines, literal, chomp)
	style := LiteralStyle
	if !literal {
		style = FoldedStyle
	}
	return Token{Kind: StringScalar, Line: pos.Line, Column: pos.Column, Style: style, Str: text}, nil
}

func assembleBlockScalar(lines []string, literal bool, chomp byte) string {
	// Drop trailing empty lines generated purely by a final line break;
	// chomping below decides how many newlines to restore at the end.
	trailingBlank := 0
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailingBlank++
	}

	var sb strings.Builder
	if literal {
		for i, l := range lines {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(l)
		}
	} else {
		prevBlank := true
		for i, l := range lines {
			if l == "" {
				sb.WriteByte('\n')
				prevBlank = true
				continue
			}
			if i > 0 && !prevBlank {
				sb.WriteByte(' ')
			}
			sb.WriteString(l)
			prevBlank = false
		}
	}

	switch chomp {
	case '-':
		// strip: no trailing newline at all.
	case '+':
		if len(lines) > 0 {
			for i := 0; i < trailingBlank+1; i++ {
				sb.WriteByte('\n')
			}
		}
	default: // clip
		if len(lines) > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
