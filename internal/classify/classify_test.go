package classify_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yamlcore/yamlcore/internal/classify"
)

func TestPlainCoreSchema(t *testing.T) {
	cases := []struct {
		text string
		kind classify.Kind
	}{
		{"", classify.Null},
		{"~", classify.Null},
		{"null", classify.Null},
		{"Null", classify.Null},
		{"NULL", classify.Null},
		{"true", classify.Bool},
		{"True", classify.Bool},
		{"FALSE", classify.Bool},
		{"10", classify.Int},
		{"-10", classify.Int},
		{"+10", classify.Int},
		{"0o17", classify.Int},
		{"0xA", classify.Int},
		{"1_000", classify.Int},
		{"0.1", classify.Float},
		{".1", classify.Float},
		{"-.1", classify.Float},
		{"6.8523e+5", classify.Float},
		{"685_230.15", classify.Float},
		{".inf", classify.Float},
		{"-.inf", classify.Float},
		{".nan", classify.Float},
		{"hi", classify.String},
		{"yes", classify.String},
		{"0b10", classify.String},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			r := classify.Plain(c.text, false)
			require.Equal(t, c.kind, r.Kind, "classifying %q", c.text)
		})
	}
}

func TestPlainYAML11Booleans(t *testing.T) {
	r := classify.Plain("yes", true)
	require.Equal(t, classify.Bool, r.Kind)
	require.True(t, r.Bool)

	r = classify.Plain("off", true)
	require.Equal(t, classify.Bool, r.Kind)
	require.False(t, r.Bool)

	// Not recognized without the YAML-1.1 flag.
	r = classify.Plain("yes", false)
	require.Equal(t, classify.String, r.Kind)
}

func TestPlainFloatSpecialValues(t *testing.T) {
	require.True(t, math.IsInf(classify.Plain(".inf", false).Float, 1))
	require.True(t, math.IsInf(classify.Plain("-.inf", false).Float, -1))
	require.True(t, math.IsNaN(classify.Plain(".nan", false).Float))
}

func TestPlainIsTotal(t *testing.T) {
	inputs := []string{"", " ", "@weird", "\t", "null-ish", "-", "1.2.3"}
	for _, s := range inputs {
		r := classify.Plain(s, false)
		require.Contains(t, []classify.Kind{
			classify.Null, classify.Bool, classify.Int, classify.Float, classify.String,
		}, r.Kind)
	}
}

func TestShortTag(t *testing.T) {
	require.Equal(t, "!!str", classify.ShortTag(classify.StrTag))
	require.Equal(t, "!!int", classify.ShortTag(classify.IntTag))
	require.Equal(t, "!local", classify.ShortTag("!local"))
	require.Equal(t, "tag:example.com,2000:custom", classify.ShortTag("tag:example.com,2000:custom"))
}
