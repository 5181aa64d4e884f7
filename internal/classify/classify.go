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

// Package classify implements the core-schema plain-scalar classifier used
// by both the scanner (to tag plain scalars) and the deserializer (to
// reinterpret a scalar's text once a !!kind tag is attached, spec §4.3.6).
//
// It is grounded on the teacher's internal/resolve package, trimmed to the
// five scalar kinds spec.md's value model actually has (no timestamp, no
// YAML-1.1 sexagesimal floats).
package classify

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Kind is the resolved scalar kind.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
)

// Result is the outcome of classifying a plain scalar's text.
type Result struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
}

type literal struct {
	kind Kind
	b    bool
	f    float64
}

var (
	dispatch   [256]byte
	literals   map[string]literal
	initOnce   sync.Once
	floatRegex = regexp.MustCompile(`^[-+]?(\.\d+|\d+(\.\d*)?)([eE][-+]?\d+)?$`)
)

func initTables() {
	dispatch['+'] = 'S'
	dispatch['-'] = 'S'
	for _, c := range "0123456789" {
		dispatch[byte(c)] = 'D'
	}
	for _, c := range "yYnNtTfFoO~" {
		dispatch[byte(c)] = 'M'
	}
	dispatch['.'] = '.'

	literals = map[string]literal{
		"true": {kind: Bool, b: true}, "True": {kind: Bool, b: true}, "TRUE": {kind: Bool, b: true},
		"false": {kind: Bool, b: false}, "False": {kind: Bool, b: false}, "FALSE": {kind: Bool, b: false},
		"":     {kind: Null},
		"~":    {kind: Null}, "null": {kind: Null}, "Null": {kind: Null}, "NULL": {kind: Null},
		".nan": {kind: Float, f: math.NaN()}, ".NaN": {kind: Float, f: math.NaN()}, ".NAN": {kind: Float, f: math.NaN()},
		".inf": {kind: Float, f: math.Inf(1)}, ".Inf": {kind: Float, f: math.Inf(1)}, ".INF": {kind: Float, f: math.Inf(1)},
		"+.inf": {kind: Float, f: math.Inf(1)}, "+.Inf": {kind: Float, f: math.Inf(1)}, "+.INF": {kind: Float, f: math.Inf(1)},
		"-.inf": {kind: Float, f: math.Inf(-1)}, "-.Inf": {kind: Float, f: math.Inf(-1)}, "-.INF": {kind: Float, f: math.Inf(-1)},
	}
}

// yaml11Bools are additionally recognized as booleans only when the active
// document declared "%YAML 1.1" (spec §6.2, §4.5).
var yaml11Bools = map[string]bool{
	"yes": true, "Yes": true, "YES": true,
	"no": false, "No": false, "NO": false,
	"on": true, "On": true, "ON": true,
	"off": false, "Off": false, "OFF": false,
}

// Plain classifies a plain scalar's raw text. yaml11 enables the YAML-1.1
// boolean keyword set in addition to the 1.2 core schema set. Classification
// is total: every input maps to exactly one Kind (spec §8.1 property 3).
func Plain(s string, yaml11 bool) Result {
	initOnce.Do(initTables)

	if yaml11 {
		if b, ok := yaml11Bools[s]; ok {
			return Result{Kind: Bool, Bool: b}
		}
	}

	hint := byte('N')
	if s != "" {
		hint = dispatch[s[0]]
	}
	if hint == 0 {
		return Result{Kind: String}
	}
	if lit, ok := literals[s]; ok {
		return Result{Kind: lit.kind, Bool: lit.b, Float: lit.f}
	}
	switch hint {
	case '.':
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Result{Kind: Float, Float: f}
		}
	case 'D', 'S':
		if i, ok := parseInt(s); ok {
			return Result{Kind: Int, Int: i}
		}
		if floatRegex.MatchString(strings.ReplaceAll(s, "_", "")) {
			if f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64); err == nil {
				return Result{Kind: Float, Float: f}
			}
		}
	}
	return Result{Kind: String}
}

// parseInt accepts decimal, "0o" octal and "0x" hex integers, with optional
// sign and underscore digit separators, per spec §4.2.2.
func parseInt(s string) (int64, bool) {
	plain := strings.ReplaceAll(s, "_", "")
	neg := false
	body := plain
	switch {
	case strings.HasPrefix(body, "-"):
		neg = true
		body = body[1:]
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	}
	var (
		v   int64
		err error
	)
	switch {
	case strings.HasPrefix(body, "0o"):
		v, err = strconv.ParseInt(body[2:], 8, 64)
	case strings.HasPrefix(body, "0x"):
		v, err = strconv.ParseInt(body[2:], 16, 64)
	case body == "":
		return 0, false
	default:
		v, err = strconv.ParseInt(body, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

const (
	NullTag  = "tag:yaml.org,2002:null"
	BoolTag  = "tag:yaml.org,2002:bool"
	StrTag   = "tag:yaml.org,2002:str"
	IntTag   = "tag:yaml.org,2002:int"
	FloatTag = "tag:yaml.org,2002:float"
	SeqTag   = "tag:yaml.org,2002:seq"
	MapTag   = "tag:yaml.org,2002:map"
)

// ShortTag rewrites the "tag:yaml.org,2002:" long form to its "!!" shorthand,
// leaving any other tag untouched.
func ShortTag(tag string) string {
	const prefix = "tag:yaml.org,2002:"
	if strings.HasPrefix(tag, prefix) {
		return "!!" + tag[len(prefix):]
	}
	return tag
}
