package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	yaml "github.com/yamlcore/yamlcore"
)

type address struct {
	City    string `yaml:"city"`
	ZIP     string `yaml:"zip,omitempty"`
	Ignored string `yaml:"-"`
}

type person struct {
	Name    string            `yaml:"name"`
	Age     int               `yaml:"age"`
	Tags    []string          `yaml:"tags,omitempty"`
	Address address           `yaml:"address,inline"`
	Extra   map[string]string `yaml:"extra,omitempty"`
}

func TestMarshalStruct(t *testing.T) {
	p := person{
		Name: "Ada",
		Age:  30,
		Tags: []string{"eng", "lead"},
		Address: address{
			City:    "London",
			Ignored: "must not appear",
		},
	}
	out, err := yaml.Marshal(p)
	require.NoError(t, err)
	s := string(out)
	require.Contains(t, s, "name: Ada\n")
	require.Contains(t, s, "age: 30\n")
	require.Contains(t, s, "city: London\n")
	require.NotContains(t, s, "must not appear")
	require.NotContains(t, s, "zip")
}

func TestUnmarshalStruct(t *testing.T) {
	src := "name: Grace\nage: 85\ntags:\n  - navy\n  - compiler\ncity: Arlington\n"
	var p person
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))
	require.Equal(t, "Grace", p.Name)
	require.Equal(t, 85, p.Age)
	require.Equal(t, []string{"navy", "compiler"}, p.Tags)
	require.Equal(t, "Arlington", p.Address.City)
}

func TestMarshalUnmarshalMap(t *testing.T) {
	in := map[string]int{"b": 2, "a": 1}
	out, err := yaml.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, "a: 1\nb: 2\n", string(out))

	var back map[string]int
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, in, back)
}

func TestMarshalUnmarshalSlice(t *testing.T) {
	in := []int{1, 2, 3}
	out, err := yaml.Marshal(in)
	require.NoError(t, err)

	var back []int
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, in, back)
}

func TestUnmarshalRequiresNonNilPointer(t *testing.T) {
	var p person
	err := yaml.Unmarshal([]byte("name: x\n"), p)
	require.Error(t, err)
	var typeErr *yaml.TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestMarshalPointerAndNil(t *testing.T) {
	var p *person
	out, err := yaml.Marshal(p)
	require.NoError(t, err)
	require.Equal(t, "null\n", string(out))

	real := &person{Name: "X"}
	out, err = yaml.Marshal(real)
	require.NoError(t, err)
	require.Contains(t, string(out), "name: X\n")
}

func TestOmitemptySkipsZeroValues(t *testing.T) {
	p := person{Name: "Y", Age: 1}
	out, err := yaml.Marshal(p)
	require.NoError(t, err)
	require.NotContains(t, string(out), "tags")
	require.NotContains(t, string(out), "extra")
}

type label string

func (l label) MarshalText() ([]byte, error) { return []byte("lbl-" + string(l)), nil }

func (l *label) UnmarshalText(text []byte) error {
	*l = label(text)
	return nil
}

type tagged struct {
	Label label `yaml:"label"`
}

func TestTextMarshalerBridge(t *testing.T) {
	out, err := yaml.Marshal(tagged{Label: "x"})
	require.NoError(t, err)
	require.Contains(t, string(out), "label: lbl-x\n")

	var back tagged
	require.NoError(t, yaml.Unmarshal([]byte("label: lbl-x\n"), &back))
	require.Equal(t, label("lbl-x"), back.Label)
}
