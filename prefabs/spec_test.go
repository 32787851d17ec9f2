package prefabs

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type prefabDoc struct {
	Name       string `yaml:"name"`
	Components []struct {
		Type   string         `yaml:"type"`
		Params map[string]any `yaml:"params"`
	} `yaml:"components"`
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec[prefabDoc]("ball")
	require.NoError(t, err)
	assert.Equal(t, "Ball", doc.Name)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "Ball", doc.Components[0].Type)
	assert.Equal(t, "Hollow_Bass", doc.Components[0].Params["clip"])

	_, err = LoadSpec[prefabDoc]("no_such_prefab")
	assert.Error(t, err)
}

type ballParams struct {
	Clip       string  `yaml:"clip"`
	ResetBelow float64 `yaml:"reset_below"`
	Drag       float64 `yaml:"drag"`
}

func TestDecodeInto(t *testing.T) {
	cases := []struct {
		name    string
		raw     any
		want    ballParams
		wantErr bool
	}{
		{name: "nil_keeps_defaults", raw: nil, want: ballParams{Clip: "Hollow_Bass", ResetBelow: -100, Drag: 0.005}},
		{name: "overlay", raw: map[string]any{"drag": 0.5}, want: ballParams{Clip: "Hollow_Bass", ResetBelow: -100, Drag: 0.5}},
		{name: "int_to_float", raw: map[string]any{"reset_below": -20}, want: ballParams{Clip: "Hollow_Bass", ResetBelow: -20, Drag: 0.005}},
		{name: "bad_type", raw: map[string]any{"drag": "fast"}, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ballParams{Clip: "Hollow_Bass", ResetBelow: -100, Drag: 0.005}
			err := DecodeInto(c.raw, &got)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	m, err := DecodeComponentSpec[map[string]any](ballParams{Clip: "ping", Drag: 1})
	require.NoError(t, err)
	assert.Equal(t, "ping", m["clip"])
	assert.EqualValues(t, 1, m["drag"])
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.RGBA
		out     string
		wantErr bool
	}{
		{in: `"#ff8000"`, want: color.RGBA{R: 0xff, G: 0x80, A: 0xff}, out: "#ff8000"},
		{in: `"00ff00"`, want: color.RGBA{G: 0xff, A: 0xff}, out: "#00ff00"},
		{in: `"#ffffff80"`, want: color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x80}, out: "#ffffff80"},
		{in: `"#12345"`, wantErr: true},
		{in: `"#zz0000"`, wantErr: true},
		{in: `[1, 2, 3]`, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got.RGBA8())

			out, err := got.MarshalYAML()
			require.NoError(t, err)
			assert.Equal(t, c.out, out)
		})
	}

	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, YAMLColor{}.RGBA8())
}
