package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Settings struct {
	Physics Physics `yaml:"physics"`
	Time    Time    `yaml:"time"`
	Camera  Camera  `yaml:"camera"`
	Orbit   Orbit   `yaml:"orbit"`
	Window  Window  `yaml:"window"`
	Log     Log     `yaml:"log"`
	Audio   Audio   `yaml:"audio"`
}

type Physics struct {
	Gravity          mgl64.Vec3 `yaml:"gravity"`
	FixedDelta       float64    `yaml:"fixed_delta"`
	MaxCatchUp       int        `yaml:"max_catch_up"`
	RestingThreshold float64    `yaml:"resting_threshold"`
	Slop             float64    `yaml:"slop"`
}

type Time struct {
	Scale float64 `yaml:"scale"`
}

type Camera struct {
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// Orbit drives the orbit camera: it circles the origin at Amount units
// lifted by Offset, Speed radians per second.
type Orbit struct {
	Enabled bool       `yaml:"enabled"`
	Offset  mgl64.Vec3 `yaml:"offset"`
	Speed   float64    `yaml:"speed"`
	Amount  float64    `yaml:"amount"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	// Output is a file path, "stdout" or "stderr". Empty means stderr.
	Output string `yaml:"output"`
}

type Audio struct {
	SampleRate int     `yaml:"sample_rate"`
	Rolloff    float64 `yaml:"rolloff"`
}

// Default returns the embedded defaults. It panics only if the embedded
// document is malformed.
func Default() *Settings {
	s, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decodes data over the defaults. Keys missing from data keep their
// default values.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		return nil, fmt.Errorf("config: unmarshal defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("config: unmarshal: %w", err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads path and decodes it over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return Parse(data)
}

func (s *Settings) Validate() error {
	switch {
	case s.Physics.FixedDelta <= 0:
		return fmt.Errorf("config: physics.fixed_delta must be positive, got %v", s.Physics.FixedDelta)
	case s.Physics.MaxCatchUp <= 0:
		return fmt.Errorf("config: physics.max_catch_up must be positive, got %d", s.Physics.MaxCatchUp)
	case s.Physics.RestingThreshold < 0:
		return fmt.Errorf("config: physics.resting_threshold must not be negative")
	case s.Time.Scale < 0:
		return fmt.Errorf("config: time.scale must not be negative")
	case s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near:
		return fmt.Errorf("config: camera near/far invalid (%v, %v)", s.Camera.Near, s.Camera.Far)
	}
	return nil
}
