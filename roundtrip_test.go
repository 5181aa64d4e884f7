package yaml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	yaml "github.com/yamlcore/yamlcore"
)

// roundTripSamples covers the scalar and collection shapes (no anchors or
// tags; the serializer emits neither) that spec.md §8 requires to survive a parse -> serialize -> reparse cycle with the same
// structure (spec §8.1 property 1, excluding alias topology).
var roundTripSamples = []string{
	"null\n",
	"true\n",
	"false\n",
	"42\n",
	"-7\n",
	"3.25\n",
	"hello\n",
	"''\n",
	"a: 1\nb: 2\n",
	"a:\n  - 1\n  - 2\n",
	"- a\n- b\n- c\n",
	"nested:\n  list:\n    - 1\n    - 2\n  flag: true\n",
	"[]\n",
	"{}\n",
	"'true': plain\n",
}

func TestRoundTripStability(t *testing.T) {
	for _, src := range roundTripSamples {
		t.Run(src, func(t *testing.T) {
			doc, err := yaml.DeserializeBytes([]byte(src))
			require.NoError(t, err)

			out, err := yaml.Serialize(doc)
			require.NoError(t, err)

			reparsed, err := yaml.DeserializeBytes([]byte(out))
			require.NoError(t, err, "re-serialized output failed to parse:\n%s", out)
			require.True(t, doc.Equal(reparsed), "round trip changed structure:\nbefore: %#v\nafter: %#v\nserialized:\n%s", doc, reparsed, out)
		})
	}
}

func TestDeserializeRejectsMultipleDocuments(t *testing.T) {
	_, err := yaml.Deserialize(strings.NewReader("---\na: 1\n---\nb: 2\n"))
	require.Error(t, err)
}

func TestDeserializeDocsReturnsAll(t *testing.T) {
	docs, err := yaml.DeserializeDocs(strings.NewReader("---\na: 1\n---\nb: 2\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestSerializeThenDeserializeEquivalence(t *testing.T) {
	m := yaml.NewMapping()
	require.NoError(t, m.Set(yaml.NewString("name"), yaml.NewString("widget")))
	require.NoError(t, m.Set(yaml.NewString("count"), yaml.NewInt(3)))

	text, err := yaml.Serialize(m)
	require.NoError(t, err)

	doc, err := yaml.DeserializeBytes([]byte(text))
	require.NoError(t, err)
	require.True(t, m.Equal(doc))
}
