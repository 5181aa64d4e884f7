package fuzz

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	yamlcore "github.com/yamlcore/yamlcore"
)

// testData seeds the corpus with the scalar/collection/anchor/tag shapes
// spec.md §8 calls out explicitly, plus a handful of malformed inputs that
// should fail to parse rather than panic.
var testData = []string{
	`{}`,
	`v: hi`,
	`v: true`,
	`v: 10`,
	`v: 0b10`,
	`v: 0xA`,
	`v: 4294967296`,
	`v: 0.1`,
	`v: .1`,
	`v: .Inf`,
	`v: -.Inf`,
	`v: -10`,
	`v: -.1`,
	`123`,
	`canonical: 6.8523e+5`,
	`expo: 685.230_15e+03`,
	`fixed: 685_230.15`,
	`neginf: -.inf`,
	`empty:`,
	`canonical: ~`,
	`english: null`,
	`~: null key`,
	`seq: [A,B]`,
	`seq: [A,B,C,]`,
	`seq: [A,1,C]`,
	"seq:\n - A\n - B",
	"seq:\n - A\n - B\n - C",
	"seq:\n - A\n - 1\n - C",
	"a: {b: c}",
	"a: {b: c, 1: d}",
	"a: [b,c,d]",
	"int_max: 2147483647",
	"int_min: -2147483648",
	"int64_max: 9223372036854775807",
	"int64_min: -9223372036854775808",
	"'1': '\"2\"'",
	"v:\n- A\n- 'B\n\n  C'\n",
	"v: !!float '1.1'",
	"v: !!float 0",
	"v: !!float -1",
	"v: !!null ''",
	"%TAG !y! tag:yaml.org,2002:\n---\nv: !y!int '1'",
	"a: &x 1\nb: &y 2\nc: *x\nd: *y\n",
	"a: &a {c: 1}\nb: *a",
	"a: &a [1, 2]\nb: *a",
	"foo: ''",
	"foo: null",
	"a: {b: https://example.com/a}",
	"a: [https://example.com/a]",
	"a: 3s",
	"a: <foo>",
	"a: 1:1\n",
	"First occurrence: &anchor Foo\nSecond occurrence: *anchor\nOverride anchor: &anchor Bar\nReuse anchor: *anchor\n",
	"---\nhello\n...\n}not yaml",
	"true\n#" + strings.Repeat(" ", 512*3),
	"true #" + strings.Repeat(" ", 512*3),
	"a: b\r\nc:\r\n- d\r\n- e\r\n",
	"\n0:\n<<:\n  {}:\n",
	"? explicit key\n: explicit value\n",
	"--- !!str\nfoo\n",
	"- &a\n- *a\n",
}

// FuzzDeserializeRoundTrip fuzzes DeserializeBytes directly, the hard-core
// pipeline the rest of the module builds on. A successful parse must
// re-serialize without error and reparse to a tree with the same root kind,
// the round-trip property spec.md §8 requires of the value model.
func FuzzDeserializeRoundTrip(f *testing.F) {
	for _, s := range testData {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, data string) {
		recovered := capturePanic(func() {
			checkRoundTrip(t, data)
		})
		if recovered != nil {
			saveCrasher(t, data, recovered)
			t.Fatalf("panic on input: %v", recovered)
		}
	})
}

func checkRoundTrip(t *testing.T, data string) {
	t.Helper()
	doc, err := yamlcore.DeserializeBytes([]byte(data))
	if err != nil {
		// malformed input is an expected outcome, not a fuzz failure
		return
	}
	out, err := yamlcore.Serialize(doc)
	require.NoError(t, err, "a successfully parsed document must re-serialize")

	reparsed, err := yamlcore.DeserializeBytes([]byte(out))
	require.NoError(t, err, "re-serialized output must itself parse:\n%s", out)
	require.Equal(t, doc.Kind, reparsed.Kind, "round-trip changed the root node's kind:\n%s", out)
}

// saveCrasher names a panic-triggering input with a uuid so a human can
// pull it back out of the test log and add it to testData above.
func saveCrasher(t *testing.T, data string, recovered any) {
	t.Helper()
	t.Logf("crasher %s: %v\ninput: %q", uuid.NewString(), recovered, data)
}

// capturePanic runs fn and returns the recovered value, or nil if fn didn't
// panic.
func capturePanic(fn func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	fn()
	return nil
}
