//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package builder implements the document-building deserializer (spec
// §4.3): it drives internal/scanner's token stream and constructs an
// internal/value.Node tree, tracking block/flow composition, node
// properties (tag+anchor), alias resolution and document boundaries.
//
// It is grounded on the teacher's decode.go parser type (the
// anchors/p.node/p.scalar/p.mapping/p.sequence shape) and on
// internal/parserc/parserc.go's grammar comment for the block/flow
// composition rules, re-targeted at this module's own scanner.Token stream
// instead of libyaml events.
package builder

import (
	"strconv"
	"strings"

	"github.com/yamlcore/yamlcore/internal/classify"
	"github.com/yamlcore/yamlcore/internal/scanner"
	"github.com/yamlcore/yamlcore/internal/value"
)

// Builder drives a scanner.Scanner and constructs a value.Node tree.
type Builder struct {
	sc  *scanner.Scanner
	tok scanner.Token
	eof bool

	anchors map[string]*value.Node

	// document metainfo (spec §3.3), reset at each document boundary.
	yamlMinor   int
	yamlGiven   bool
	tagHandles  map[string]string
	indentStack []int

	// flowMapKey is set while a flow mapping's key is being composed, so a
	// following ':' is left to the flow mapping instead of opening a block
	// mapping.
	flowMapKey bool
}

type nodeProps struct {
	tag    string
	hasTag bool

	anchor    string
	hasAnchor bool
}

// New returns a Builder reading from b.
func New(b []byte) *Builder {
	return &Builder{
		sc:      scanner.New(b),
		anchors: make(map[string]*value.Node),
	}
}

func (b *Builder) resetDocument() {
	b.yamlMinor = 2
	b.yamlGiven = false
	b.tagHandles = map[string]string{
		"!":  "!",
		"!!": "tag:yaml.org,2002:",
	}
	b.indentStack = []int{-1}
	b.sc.SetYAML11(false)
}

func (b *Builder) fail(line, column int, reason string) error {
	return &value.ParseError{Line: line, Column: column, Reason: reason}
}

func (b *Builder) next() error {
	b.sc.SetIndent(b.currentIndent())
	tok, err := b.sc.Next()
	if err != nil {
		if se, ok := err.(*scanner.Error); ok {
			return b.fail(se.Line, se.Column, se.Reason)
		}
		return err
	}
	b.tok = tok
	b.eof = tok.Kind == scanner.EndOfInput
	return nil
}

func (b *Builder) currentIndent() int {
	return b.indentStack[len(b.indentStack)-1]
}

func (b *Builder) pushIndent(col int) {
	b.indentStack = append(b.indentStack, col)
}

func (b *Builder) popIndent() {
	if len(b.indentStack) > 1 {
		b.indentStack = b.indentStack[:len(b.indentStack)-1]
	}
}

// DeserializeOne parses a single document and reports a parse error if
// content remains afterward (spec §6.1 deserialize).
func (b *Builder) DeserializeOne() (*value.Node, error) {
	docs, err := b.DeserializeAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return value.NewNull(), nil
	}
	if len(docs) > 1 {
		return nil, &value.ParseError{Reason: "excess content after the first document"}
	}
	return docs[0], nil
}

// DeserializeAll parses every document in the stream (spec §6.1
// deserialize_docs).
func (b *Builder) DeserializeAll() ([]*value.Node, error) {
	b.resetDocument()
	if err := b.next(); err != nil {
		return nil, err
	}

	var docs []*value.Node
	for {
		// Consume directives and an optional "---" before each document.
		for {
			switch b.tok.Kind {
			case scanner.YamlDirective:
				if b.yamlGiven {
					return nil, b.fail(b.tok.Line, b.tok.Column, "duplicate %YAML directive")
				}
				minor, err := parseYAMLMinor(b.tok.Str)
				if err != nil {
					return nil, b.fail(b.tok.Line, b.tok.Column, err.Error())
				}
				b.yamlMinor = minor
				b.yamlGiven = true
				b.sc.SetYAML11(minor == 1)
				if err := b.next(); err != nil {
					return nil, err
				}
				continue
			case scanner.TagDirective:
				b.tagHandles[b.tok.Handle] = b.tok.Prefix
				if err := b.next(); err != nil {
					return nil, err
				}
				continue
			case scanner.InvalidDirective:
				if err := b.next(); err != nil {
					return nil, err
				}
				continue
			case scanner.DocumentStart:
				if err := b.next(); err != nil {
					return nil, err
				}
			}
			break
		}

		if b.tok.Kind == scanner.EndOfInput {
			break
		}
		if b.tok.Kind == scanner.DocumentEnd {
			b.resetDocument()
			if err := b.next(); err != nil {
				return nil, err
			}
			continue
		}

		node, err := b.composeNode()
		if err != nil {
			return nil, err
		}
		docs = append(docs, node)

		b.resetDocument()
		if b.tok.Kind == scanner.DocumentEnd {
			if err := b.next(); err != nil {
				return nil, err
			}
		}
		if b.eof {
			break
		}
	}
	return docs, nil
}

func parseYAMLMinor(version string) (int, error) {
	switch version {
	case "1.1":
		return 1, nil
	case "1.2":
		return 2, nil
	default:
		// Accept and treat any other 1.x as the latest known (spec §4.2.5).
		if len(version) >= 2 && version[0] == '1' && version[1] == '.' {
			return 2, nil
		}
		return 0, &value.ParseError{Reason: "unsupported %YAML version " + version}
	}
}

// collectNodeProps consumes a run of leading TagProperty/AnchorProperty
// tokens, accumulating them into a nodeProps. The current token is left on
// whatever follows the last property (an alias, a scalar, a collection
// start, ...).
func (b *Builder) collectNodeProps() (nodeProps, error) {
	var props nodeProps
	for {
		switch b.tok.Kind {
		case scanner.TagProperty:
			if props.hasTag {
				return props, b.fail(b.tok.Line, b.tok.Column, "a node may carry at most one tag property")
			}
			props.tag = b.tok.Str
			props.hasTag = true
			if err := b.next(); err != nil {
				return props, err
			}
			continue
		case scanner.AnchorProperty:
			if props.hasAnchor {
				return props, b.fail(b.tok.Line, b.tok.Column, "a node may carry at most one anchor property")
			}
			props.anchor = b.tok.Str
			props.hasAnchor = true
			if err := b.next(); err != nil {
				return props, err
			}
			continue
		}
		break
	}
	return props, nil
}

// composeNode composes one node, consuming node-properties (tag/anchor)
// that precede it (spec §4.3.2).
func (b *Builder) composeNode() (*value.Node, error) {
	props, err := b.collectNodeProps()
	if err != nil {
		return nil, err
	}

	if b.tok.Kind == scanner.AliasReference {
		if props.hasTag {
			return nil, b.fail(b.tok.Line, b.tok.Column, "an alias may not also carry a tag")
		}
		name := b.tok.Str
		anchor, ok := b.anchors[name]
		if !ok {
			return nil, b.fail(b.tok.Line, b.tok.Column, "alias to undefined anchor *"+name)
		}
		node := value.NewNull()
		if err := node.AliasOf(anchor); err != nil {
			return nil, b.fail(b.tok.Line, b.tok.Column, err.Error())
		}
		if err := b.next(); err != nil {
			return nil, err
		}
		return node, nil
	}

	if props.hasTag {
		resolved, err := b.resolveTag(props.tag)
		if err != nil {
			return nil, b.fail(b.tok.Line, b.tok.Column, err.Error())
		}
		props.tag = resolved
	}

	node, err := b.composeContent(props)
	if err != nil {
		return nil, err
	}
	if props.hasAnchor {
		node.AddAnchorName(props.anchor)
		b.anchors[props.anchor] = node
	}
	if props.hasTag {
		node.AddTagName(props.tag)
	}
	return node, nil
}

// resolveTag expands a raw scanned tag (verbatim, primary, secondary or a
// named handle) into its full tag URI using the document's %TAG handles,
// per spec §4.2.4.
func (b *Builder) resolveTag(raw string) (string, error) {
	if raw == "!" {
		return raw, nil
	}
	if strings.HasPrefix(raw, "!<") && strings.HasSuffix(raw, ">") {
		return raw[2 : len(raw)-1], nil
	}
	if strings.HasPrefix(raw, "!!") {
		return b.tagHandles["!!"] + raw[2:], nil
	}
	if idx := strings.Index(raw[1:], "!"); idx >= 0 {
		handle := raw[:idx+2]
		suffix := raw[idx+2:]
		prefix, ok := b.tagHandles[handle]
		if !ok {
			return "", &value.ParseError{Reason: "undeclared tag handle " + handle}
		}
		return prefix + suffix, nil
	}
	return b.tagHandles["!"] + raw[1:], nil
}

func (b *Builder) composeContent(props nodeProps) (*value.Node, error) {
	switch b.tok.Kind {
	case scanner.FlowSeqBegin:
		return b.composeFlowSequence()
	case scanner.FlowMapBegin:
		return b.composeFlowMapping()
	case scanner.BlockSequenceEntry:
		return b.composeBlockSequence()
	case scanner.ExplicitKey:
		return b.composeBlockMappingFromExplicitKey()
	case scanner.NullScalar, scanner.BooleanScalar, scanner.IntegerScalar,
		scanner.FloatScalar, scanner.StringScalar:
		return b.composeScalarOrMapping(props)
	case scanner.EndOfInput, scanner.DocumentStart, scanner.DocumentEnd:
		return value.NewNull(), nil
	}
	return nil, b.fail(b.tok.Line, b.tok.Column, "unexpected token "+b.tok.Kind.String())
}

// composeScalarOrMapping handles the very common "SCALAR [KeySeparator ...]"
// lookahead needed to tell a bare scalar from the first key of a block
// mapping (spec §4.3.1). A separator on a later line than the scalar (as
// after an explicit "? key"), or after a flow mapping's key, does not open a
// block mapping: the scalar is returned with the separator as the current
// token.
func (b *Builder) composeScalarOrMapping(props nodeProps) (*value.Node, error) {
	keyTok := b.tok
	keyNode, err := scalarFromToken(keyTok, props)
	if err != nil {
		return nil, err
	}
	sep, err := b.advanceToKeySeparator()
	if err != nil {
		return nil, err
	}
	if sep && !b.flowMapKey && b.tok.Line == keyTok.Line {
		return b.composeBlockMapping(keyNode, keyTok.Column)
	}
	return keyNode, nil
}

// advanceToKeySeparator consumes the current scalar token and reports
// whether what follows it is a ":"/BlockMappingPrefix. Either way the
// single required advance past the scalar has happened by the time it
// returns: on true, the current token is the separator (ready for
// composeBlockMapping to consume); on false, the current token is already
// the next construct for the caller to process.
func (b *Builder) advanceToKeySeparator() (bool, error) {
	if err := b.next(); err != nil {
		return false, err
	}
	return b.tok.Kind == scanner.KeySeparator || b.tok.Kind == scanner.BlockMappingPrefix, nil
}

func scalarFromToken(tok scanner.Token, props nodeProps) (*value.Node, error) {
	n := &value.Node{Line: tok.Line, Column: tok.Column}
	kind := classify.String
	switch tok.Kind {
	case scanner.NullScalar:
		kind = classify.Null
	case scanner.BooleanScalar:
		kind = classify.Bool
	case scanner.IntegerScalar:
		kind = classify.Int
	case scanner.FloatScalar:
		kind = classify.Float
	case scanner.StringScalar:
		kind = classify.String
	}
	// Quoted and block scalars are always strings (spec §4.2.2 tail); only
	// plain-style tokens carry a non-string classification.
	if tok.Style != scanner.PlainStyle {
		kind = classify.String
	}

	if props.hasTag {
		return applyTag(props.tag, kind, tok, n)
	}
	return applyClassified(kind, tok, n), nil
}

func applyClassified(kind classify.Kind, tok scanner.Token, n *value.Node) *value.Node {
	switch kind {
	case classify.Null:
		n.Kind = value.NullKind
	case classify.Bool:
		n.Kind = value.BooleanKind
		n.Bool = tok.Bool
	case classify.Int:
		n.Kind = value.IntegerKind
		n.Int = tok.Int
	case classify.Float:
		n.Kind = value.FloatKind
		n.Float = tok.Float
	default:
		n.Kind = value.StringKind
		n.Str = tok.Str
	}
	return n
}

// applyTag reinterprets raw scalar text per an attached !!kind tag (spec
// §4.3.6): the tag's kind wins over the scanner's own classification, and a
// tag incompatible with the payload is a parse error. tag has already been
// resolved to a full URI (or a local "!name" tag) by resolveTag.
func applyTag(tag string, kind classify.Kind, tok scanner.Token, n *value.Node) (*value.Node, error) {
	text := tok.Str
	switch classify.ShortTag(tag) {
	case "!!null":
		n.Kind = value.NullKind
		return n, nil
	case "!!bool":
		switch text {
		case "true", "True", "TRUE":
			n.Kind = value.BooleanKind
			n.Bool = true
		case "false", "False", "FALSE":
			n.Kind = value.BooleanKind
			n.Bool = false
		default:
			return nil, &value.ParseError{Reason: "cannot parse `" + text + "` as !!bool"}
		}
		return n, nil
	case "!!int":
		r := classify.Plain(text, false)
		if r.Kind != classify.Int {
			return nil, &value.ParseError{Reason: "cannot parse `" + text + "` as !!int"}
		}
		n.Kind = value.IntegerKind
		n.Int = r.Int
		return n, nil
	case "!!float":
		r := classify.Plain(text, false)
		switch r.Kind {
		case classify.Float:
			n.Kind = value.FloatKind
			n.Float = r.Float
		case classify.Int:
			n.Kind = value.FloatKind
			n.Float = float64(r.Int)
		default:
			if f, err := strconv.ParseFloat(text, 64); err == nil {
				n.Kind = value.FloatKind
				n.Float = f
			} else {
				return nil, &value.ParseError{Reason: "cannot parse `" + text + "` as !!float"}
			}
		}
		return n, nil
	case "!!str":
		n.Kind = value.StringKind
		n.Str = text
		return n, nil
	case "!!seq":
		n.Kind = value.SequenceKind
		return n, nil
	case "!!map":
		n.Kind = value.MappingKind
		n.Map = value.NewMapping().Map
		return n, nil
	default:
		// An unrecognized/custom tag does not change kind resolution; fall
		// back to the scanner's own classification of the scalar.
		return applyClassified(kind, tok, n), nil
	}
}

// --- block sequences ---

func (b *Builder) composeBlockSequence() (*value.Node, error) {
	seq := value.NewSequence()
	col := b.tok.Column
	b.pushIndent(col)
	defer b.popIndent()

	for b.tok.Kind == scanner.BlockSequenceEntry && b.tok.Column == col {
		if err := b.next(); err != nil {
			return nil, err
		}
		if b.tok.Kind == scanner.BlockSequenceEntry || b.atContainerEnd() {
			seq.Seq = append(seq.Seq, value.NewNull())
			continue
		}
		elem, err := b.composeNode()
		if err != nil {
			return nil, err
		}
		seq.Seq = append(seq.Seq, elem)
	}
	return seq, nil
}

func (b *Builder) atContainerEnd() bool {
	switch b.tok.Kind {
	case scanner.EndOfInput, scanner.DocumentStart, scanner.DocumentEnd,
		scanner.FlowSeqEnd, scanner.FlowMapEnd, scanner.ValueSeparator:
		return true
	}
	return false
}

// --- block mappings ---

func (b *Builder) composeBlockMappingFromExplicitKey() (*value.Node, error) {
	m := value.NewMapping()
	col := b.tok.Column
	b.pushIndent(col)
	defer b.popIndent()

	for b.tok.Kind == scanner.ExplicitKey && b.tok.Column == col {
		if err := b.next(); err != nil {
			return nil, err
		}
		var key *value.Node
		var err error
		if b.tok.Kind == scanner.KeySeparator || b.tok.Kind == scanner.BlockMappingPrefix {
			key = value.NewNull()
		} else {
			key, err = b.composeNode()
			if err != nil {
				return nil, err
			}
		}
		var val *value.Node = value.NewNull()
		if b.tok.Kind == scanner.KeySeparator || b.tok.Kind == scanner.BlockMappingPrefix {
			if err := b.next(); err != nil {
				return nil, err
			}
			if !b.atContainerEnd() && b.tok.Kind != scanner.ExplicitKey {
				val, err = b.composeNode()
				if err != nil {
					return nil, err
				}
			}
		}
		if m.Map.Has(key) {
			return nil, b.fail(key.Line, key.Column, "duplicate mapping key")
		}
		m.Map.Append(key, val)
	}
	return m, nil
}

// composeSiblingKey composes a non-first block-mapping key that may itself
// carry anchor/tag properties (e.g. "&x b: 2"), returning the key node and
// the column its leading property (or the key scalar itself, if bare)
// started on. It stops once the bare key scalar is built, leaving the
// caller to look ahead for the key separator itself.
func (b *Builder) composeSiblingKey() (*value.Node, int, error) {
	startCol := b.tok.Column
	props, err := b.collectNodeProps()
	if err != nil {
		return nil, 0, err
	}
	if props.hasTag {
		resolved, err := b.resolveTag(props.tag)
		if err != nil {
			return nil, 0, b.fail(b.tok.Line, b.tok.Column, err.Error())
		}
		props.tag = resolved
	}

	keyTok := b.tok
	key, err := scalarFromToken(keyTok, props)
	if err != nil {
		return nil, 0, err
	}
	if props.hasAnchor {
		key.AddAnchorName(props.anchor)
		b.anchors[props.anchor] = key
	}
	if props.hasTag {
		key.AddTagName(props.tag)
	}
	return key, startCol, nil
}

// composeBlockMapping continues a block mapping whose first key (keyNode)
// has already been composed at column keyCol; the current token is
// positioned on the KeySeparator/BlockMappingPrefix that follows it.
func (b *Builder) composeBlockMapping(keyNode *value.Node, keyCol int) (*value.Node, error) {
	m := value.NewMapping()
	b.pushIndent(keyCol)
	defer b.popIndent()

	for {
		if err := b.next(); err != nil { // consume ':'
			return nil, err
		}
		var val *value.Node
		if b.atContainerEnd() || b.tok.Kind == scanner.DocumentEnd {
			val = value.NewNull()
		} else {
			nextCol := b.tok.Column
			if nextCol <= keyCol && b.tok.Kind != scanner.BlockSequenceEntry {
				val = value.NewNull()
			} else {
				var err error
				val, err = b.composeNode()
				if err != nil {
					return nil, err
				}
			}
		}
		if m.Map.Has(keyNode) {
			return nil, b.fail(keyNode.Line, keyNode.Column, "duplicate mapping key")
		}
		m.Map.Append(keyNode, val)

		startsKey := b.tok.Kind.IsScalar() || b.tok.Kind == scanner.ExplicitKey ||
			b.tok.Kind == scanner.AnchorProperty || b.tok.Kind == scanner.TagProperty
		if b.tok.Column != keyCol || !startsKey {
			break
		}
		if b.tok.Kind == scanner.ExplicitKey {
			// A sibling explicit key at the same indent continues this
			// mapping; compose it as a nested construct and merge in.
			nested, err := b.composeBlockMappingFromExplicitKey()
			if err != nil {
				return nil, err
			}
			for _, p := range nested.Map.Pairs() {
				if m.Map.Has(p.Key) {
					return nil, b.fail(p.Key.Line, p.Key.Column, "duplicate mapping key")
				}
				m.Map.Append(p.Key, p.Value)
			}
			break
		}
		nextKey, startCol, err := b.composeSiblingKey()
		if err != nil {
			return nil, err
		}
		sep, err := b.advanceToKeySeparator()
		if err != nil {
			return nil, err
		}
		if !sep {
			// The bare scalar we just read belongs to the next sibling
			// construct, not this mapping, which must have exactly one key
			// per line.
			break
		}
		keyNode = nextKey
		keyCol = startCol
	}
	return m, nil
}

// --- flow collections ---

func (b *Builder) composeFlowSequence() (*value.Node, error) {
	seq := value.NewSequence()
	if err := b.next(); err != nil { // consume '['
		return nil, err
	}
	for b.tok.Kind != scanner.FlowSeqEnd {
		if b.tok.Kind == scanner.EndOfInput || b.tok.Kind == scanner.DocumentStart || b.tok.Kind == scanner.DocumentEnd {
			return nil, b.fail(b.tok.Line, b.tok.Column, "unterminated flow sequence")
		}
		if b.tok.Kind == scanner.ValueSeparator {
			if err := b.next(); err != nil {
				return nil, err
			}
			continue
		}
		elem, err := b.composeNode()
		if err != nil {
			return nil, err
		}
		seq.Seq = append(seq.Seq, elem)
		if b.tok.Kind == scanner.ValueSeparator {
			if err := b.next(); err != nil {
				return nil, err
			}
		}
	}
	if err := b.next(); err != nil { // consume ']'
		return nil, err
	}
	return seq, nil
}

func (b *Builder) composeFlowMapping() (*value.Node, error) {
	m := value.NewMapping()
	if err := b.next(); err != nil { // consume '{'
		return nil, err
	}
	for b.tok.Kind != scanner.FlowMapEnd {
		if b.tok.Kind == scanner.EndOfInput || b.tok.Kind == scanner.DocumentStart || b.tok.Kind == scanner.DocumentEnd {
			return nil, b.fail(b.tok.Line, b.tok.Column, "unterminated flow mapping")
		}
		if b.tok.Kind == scanner.ValueSeparator {
			if err := b.next(); err != nil {
				return nil, err
			}
			continue
		}
		b.flowMapKey = true
		key, err := b.composeNode()
		b.flowMapKey = false
		if err != nil {
			return nil, err
		}
		val := value.NewNull()
		if b.tok.Kind == scanner.KeySeparator || b.tok.Kind == scanner.BlockMappingPrefix {
			if err := b.next(); err != nil {
				return nil, err
			}
			if b.tok.Kind != scanner.ValueSeparator && b.tok.Kind != scanner.FlowMapEnd {
				val, err = b.composeNode()
				if err != nil {
					return nil, err
				}
			}
		}
		if m.Map.Has(key) {
			return nil, b.fail(key.Line, key.Column, "duplicate mapping key")
		}
		m.Map.Append(key, val)
		if b.tok.Kind == scanner.ValueSeparator {
			if err := b.next(); err != nil {
				return nil, err
			}
		}
	}
	if err := b.next(); err != nil { // consume '}'
		return nil, err
	}
	return m, nil
}
