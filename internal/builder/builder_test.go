package builder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yamlcore/yamlcore/internal/builder"
	"github.com/yamlcore/yamlcore/internal/value"
)

func deserialize(t *testing.T, src string) *value.Node {
	t.Helper()
	n, err := builder.New([]byte(src)).DeserializeOne()
	require.NoError(t, err, "deserializing %q", src)
	return n
}

func TestScalarKinds(t *testing.T) {
	require.True(t, deserialize(t, "null\n").IsNull())
	require.True(t, deserialize(t, "true\n").IsBool())
	require.True(t, deserialize(t, "10\n").IsInt())
	require.True(t, deserialize(t, "0.5\n").IsFloat())
	require.True(t, deserialize(t, "hello\n").IsString())
}

func TestBlockMapping(t *testing.T) {
	n := deserialize(t, "a: 1\nb: 2\n")
	require.True(t, n.IsMapping())
	require.Equal(t, 2, n.Map.Len())
	pairs := n.Map.Pairs()
	require.Equal(t, "a", pairs[0].Key.Str)
	require.EqualValues(t, 1, pairs[0].Value.Int)
	require.Equal(t, "b", pairs[1].Key.Str)
	require.EqualValues(t, 2, pairs[1].Value.Int)
}

func TestBlockMappingPreservesInsertionOrder(t *testing.T) {
	n := deserialize(t, "z: 1\na: 2\nm: 3\n")
	var keys []string
	for _, p := range n.Map.Pairs() {
		keys = append(keys, p.Key.Str)
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestBlockMappingSiblingKeyWithAnchor(t *testing.T) {
	n := deserialize(t, "a: 1\n&x b: 2\nc: *x\n")
	require.Equal(t, 3, n.Map.Len())
	pairs := n.Map.Pairs()
	require.Equal(t, "b", pairs[1].Key.Str)
	require.True(t, pairs[1].Key.HasAnchorName())
	require.Equal(t, "x", pairs[1].Key.AnchorName())

	c, err := n.At("c")
	require.NoError(t, err)
	require.True(t, c.IsAlias)
	require.Equal(t, "b", c.Str)
}

func TestBlockMappingSiblingKeyWithTag(t *testing.T) {
	n := deserialize(t, "a: 1\n!!str 10: 2\n")
	require.Equal(t, 2, n.Map.Len())
	pairs := n.Map.Pairs()
	require.True(t, pairs[1].Key.IsString())
	require.Equal(t, "10", pairs[1].Key.Str)
}

func TestDuplicateKeyIsParseError(t *testing.T) {
	_, err := builder.New([]byte("a: 1\na: 2\n")).DeserializeOne()
	require.Error(t, err)
	var parseErr *value.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestBlockSequence(t *testing.T) {
	n := deserialize(t, "- a\n- b\n- c\n")
	require.True(t, n.IsSequence())
	require.Len(t, n.Seq, 3)
	require.Equal(t, "a", n.Seq[0].Str)
	require.Equal(t, "c", n.Seq[2].Str)
}

func TestNestedBlockMappingAndSequence(t *testing.T) {
	n := deserialize(t, "a:\n  b: 1\n  c:\n    - x\n    - y\n")
	require.True(t, n.IsMapping())
	inner, err := n.At("a")
	require.NoError(t, err)
	require.True(t, inner.IsMapping())
	cSeq, err := inner.At("c")
	require.NoError(t, err)
	require.True(t, cSeq.IsSequence())
	require.Len(t, cSeq.Seq, 2)
}

func TestFlowSequenceAndMapping(t *testing.T) {
	n := deserialize(t, "[1, 2, 3]\n")
	require.True(t, n.IsSequence())
	require.Len(t, n.Seq, 3)

	n = deserialize(t, "{a: 1, b: 2}\n")
	require.True(t, n.IsMapping())
	require.Equal(t, 2, n.Map.Len())
}

func TestFlowSequenceAllowsTrailingComma(t *testing.T) {
	n := deserialize(t, "[a, b, c,]\n")
	require.Len(t, n.Seq, 3)
}

func TestFlowMappingBareNullValue(t *testing.T) {
	n := deserialize(t, "{a: 1, b: d}\n")
	v, err := n.At("b")
	require.NoError(t, err)
	require.True(t, v.IsString())

	n = deserialize(t, "{a, b: 1}\n")
	v, err = n.At("a")
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestExplicitKeyBlockMapping(t *testing.T) {
	n := deserialize(t, "? explicit key\n: explicit value\n")
	require.True(t, n.IsMapping())
	v, err := n.At("explicit key")
	require.NoError(t, err)
	require.Equal(t, "explicit value", v.Str)
}

func TestAnchorAndAlias(t *testing.T) {
	n := deserialize(t, "a: &x 1\nb: *x\n")
	a, err := n.At("a")
	require.NoError(t, err)
	b, err := n.At("b")
	require.NoError(t, err)
	require.EqualValues(t, 1, a.Int)
	require.EqualValues(t, 1, b.Int)
	require.True(t, b.IsAlias)
}

func TestAliasToUndefinedAnchorIsParseError(t *testing.T) {
	_, err := builder.New([]byte("a: *missing\n")).DeserializeOne()
	require.Error(t, err)
	var parseErr *value.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestAliasDeepCopiesAnchoredContainer(t *testing.T) {
	n := deserialize(t, "a: &x [1, 2]\nb: *x\n")
	a, _ := n.At("a")
	b, _ := n.At("b")
	require.True(t, a.Equal(b))
	b.Seq[0].Int = 99
	a2, _ := n.At("a")
	require.EqualValues(t, 1, a2.Seq[0].Int)
}

func TestExplicitTagOverridesClassification(t *testing.T) {
	n := deserialize(t, "!!str 10\n")
	require.True(t, n.IsString())
	require.Equal(t, "10", n.Str)

	n = deserialize(t, "!!int \"10\"\n")
	require.True(t, n.IsInt())
	require.EqualValues(t, 10, n.Int)
}

func TestUnrecognizedTagFallsBackToScannerClassification(t *testing.T) {
	n := deserialize(t, "!mytype 10\n")
	require.True(t, n.IsInt())
	require.EqualValues(t, 10, n.Int)
}

func TestTagDirectiveResolvesNamedHandle(t *testing.T) {
	n := deserialize(t, "%TAG !e! tag:example.com,2000:\n---\n!e!custom value\n")
	require.True(t, n.HasTagName())
	require.Equal(t, "tag:example.com,2000:custom", n.TagName())
}

func TestUndeclaredTagHandleIsParseError(t *testing.T) {
	_, err := builder.New([]byte("!e!custom value\n")).DeserializeOne()
	require.Error(t, err)
}

func TestMultipleDocumentsViaDeserializeAll(t *testing.T) {
	docs, err := builder.New([]byte("---\na: 1\n---\nb: 2\n")).DeserializeAll()
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestDeserializeOneRejectsMultipleDocuments(t *testing.T) {
	_, err := builder.New([]byte("---\na: 1\n---\nb: 2\n")).DeserializeOne()
	require.Error(t, err)
}

func TestYAMLDirectiveSwitchesToYAML11Booleans(t *testing.T) {
	n := deserialize(t, "%YAML 1.1\n---\nyes\n")
	require.True(t, n.IsBool())
	require.True(t, n.Bool)
}

func TestDuplicateYAMLDirectiveIsParseError(t *testing.T) {
	_, err := builder.New([]byte("%YAML 1.2\n%YAML 1.2\n---\nx\n")).DeserializeOne()
	require.Error(t, err)
}

func TestUnterminatedFlowSequenceIsParseError(t *testing.T) {
	_, err := builder.New([]byte("a: [1, 2\n")).DeserializeOne()
	require.Error(t, err)
	var parseErr *value.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestUnterminatedFlowMappingIsParseError(t *testing.T) {
	_, err := builder.New([]byte("a: {b: 1\n")).DeserializeOne()
	require.Error(t, err)
	var parseErr *value.ParseError
	require.ErrorAs(t, err, &parseErr)
}
