package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, mgl64.Vec3{0, -9.82, 0}, s.Physics.Gravity)
	assert.InDelta(t, 1.0/60.0, s.Physics.FixedDelta, 1e-12)
	assert.Equal(t, 5, s.Physics.MaxCatchUp)
	assert.Equal(t, 1.0, s.Time.Scale)
	assert.Equal(t, "info", s.Log.Level)
}

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		wantErr bool
		check   func(t *testing.T, s *Settings)
	}{
		{
			name: "override_keeps_other_defaults",
			doc:  "physics:\n  gravity: [0, -1, 0]\n",
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, mgl64.Vec3{0, -1, 0}, s.Physics.Gravity)
				assert.Equal(t, 5, s.Physics.MaxCatchUp)
				assert.Equal(t, 1280, s.Window.Width)
			},
		},
		{
			name: "orbit_section",
			doc:  "orbit:\n  enabled: true\n  amount: 12\n",
			check: func(t *testing.T, s *Settings) {
				assert.True(t, s.Orbit.Enabled)
				assert.Equal(t, 12.0, s.Orbit.Amount)
				assert.Equal(t, 1.5, s.Orbit.Speed)
			},
		},
		{name: "zero_fixed_delta", doc: "physics:\n  fixed_delta: 0\n", wantErr: true},
		{name: "negative_scale", doc: "time:\n  scale: -1\n", wantErr: true},
		{name: "bad_clip_planes", doc: "camera:\n  near: 10\n  far: 1\n", wantErr: true},
		{name: "malformed", doc: "physics: [", wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := Parse([]byte(c.doc))
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			c.check(t, s)
		})
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("time:\n  scale: 0.5\n"), 0o644))
	s, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, s.Time.Scale)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
