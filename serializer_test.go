package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	yaml "github.com/yamlcore/yamlcore"
)

func TestSerializeScalars(t *testing.T) {
	cases := []struct {
		n    *yaml.Node
		want string
	}{
		{yaml.NewNull(), "null\n"},
		{yaml.NewBool(true), "true\n"},
		{yaml.NewBool(false), "false\n"},
		{yaml.NewInt(42), "42\n"},
		{yaml.NewFloat(1.5), "1.5\n"},
		{yaml.NewFloat(2), "2.0\n"},
		{yaml.NewString("hello"), "hello\n"},
	}
	for _, c := range cases {
		got, err := yaml.Serialize(c.n)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestSerializeEmptyCollectionsAtRoot(t *testing.T) {
	got, err := yaml.Serialize(yaml.NewSequence())
	require.NoError(t, err)
	require.Equal(t, "[]\n", got)

	got, err = yaml.Serialize(yaml.NewMapping())
	require.NoError(t, err)
	require.Equal(t, "{}\n", got)
}

func TestSerializeBlockSequence(t *testing.T) {
	n := yaml.NewSequence()
	n.Seq = append(n.Seq, yaml.NewInt(1), yaml.NewInt(2), yaml.NewInt(3))
	got, err := yaml.Serialize(n)
	require.NoError(t, err)
	require.Equal(t, "- 1\n- 2\n- 3\n", got)
}

func TestSerializeBlockMapping(t *testing.T) {
	n := yaml.NewMapping()
	require.NoError(t, n.Set(yaml.NewString("a"), yaml.NewInt(1)))
	require.NoError(t, n.Set(yaml.NewString("b"), yaml.NewInt(2)))
	got, err := yaml.Serialize(n)
	require.NoError(t, err)
	require.Equal(t, "a: 1\nb: 2\n", got)
}

func TestSerializeNestedCollections(t *testing.T) {
	inner := yaml.NewSequence()
	inner.Seq = append(inner.Seq, yaml.NewInt(1), yaml.NewInt(2))
	m := yaml.NewMapping()
	require.NoError(t, m.Set(yaml.NewString("list"), inner))
	got, err := yaml.Serialize(m)
	require.NoError(t, err)
	require.Equal(t, "list:\n  - 1\n  - 2\n", got)
}

func TestSerializeEmptyCollectionInline(t *testing.T) {
	m := yaml.NewMapping()
	require.NoError(t, m.Set(yaml.NewString("empty"), yaml.NewSequence()))
	got, err := yaml.Serialize(m)
	require.NoError(t, err)
	require.Equal(t, "empty: []\n", got)
}

func TestSerializeQuotesAmbiguousKey(t *testing.T) {
	// "true" as a plain string key would parse back as a boolean; the
	// serializer must quote it so it round-trips as a string.
	n := yaml.NewMapping()
	require.NoError(t, n.Set(yaml.NewString("true"), yaml.NewString("plain")))
	got, err := yaml.Serialize(n)
	require.NoError(t, err)
	require.Equal(t, "'true': plain\n", got)
}

func TestSerializeEmptyStringIsQuoted(t *testing.T) {
	got, err := yaml.Serialize(yaml.NewString(""))
	require.NoError(t, err)
	require.Equal(t, "''\n", got)
}

func TestSerializeFloatSpecials(t *testing.T) {
	got, err := yaml.Serialize(yaml.NewFloat(posInf()))
	require.NoError(t, err)
	require.Equal(t, ".inf\n", got)

	got, err = yaml.Serialize(yaml.NewFloat(negInf()))
	require.NoError(t, err)
	require.Equal(t, "-.inf\n", got)

	got, err = yaml.Serialize(yaml.NewFloat(nan()))
	require.NoError(t, err)
	require.Equal(t, ".nan\n", got)
}

func TestSerializeDocsSeparatesWithEndMarker(t *testing.T) {
	docs := []*yaml.Node{yaml.NewInt(1), yaml.NewInt(2)}
	got, err := yaml.SerializeDocs(docs)
	require.NoError(t, err)
	require.Equal(t, "1\n...\n2\n", got)
}

func posInf() float64 { return 1 / zero() }
func negInf() float64 { return -1 / zero() }
func nan() float64    { return zero() / zero() }
func zero() float64   { return 0 }
