package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/resources"
)

// Context carries the collaborators a script may use during dispatch.
// Nil fields are replaced with inert defaults before scripts see them.
type Context struct {
	Time      *Clock
	Resources resources.Provider
	Input     Input
	Screen    Screen
	Audio     AudioSink
	Settings  *config.Settings
	Log       *zap.Logger
}

func (c *Context) withDefaults(log *zap.Logger) *Context {
	out := Context{}
	if c != nil {
		out = *c
	}
	if out.Time == nil {
		out.Time = NewClock(DefaultFixedDelta)
	}
	if out.Resources == nil {
		out.Resources = resources.Empty{}
	}
	if out.Input == nil {
		out.Input = NoInput{}
	}
	if out.Screen == nil {
		out.Screen = FixedScreen{W: 1280, H: 720}
	}
	if out.Audio == nil {
		out.Audio = SilentAudio{}
	}
	if out.Settings == nil {
		out.Settings = config.Default()
	}
	if out.Log == nil {
		out.Log = log
	}
	return &out
}

// Key names a keyboard key independent of the input backend.
type Key string

const (
	KeyW       Key = "W"
	KeyA       Key = "A"
	KeyS       Key = "S"
	KeyD       Key = "D"
	KeyP       Key = "P"
	KeyR       Key = "R"
	KeyLeft    Key = "Left"
	KeyRight   Key = "Right"
	KeyUp      Key = "Up"
	KeyDown    Key = "Down"
	KeyShift   Key = "Shift"
	KeyControl Key = "Control"
	KeySpace   Key = "Space"
	KeyEscape  Key = "Escape"
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Input is the polled input state for the current frame.
type Input interface {
	KeyHeld(k Key) bool
	KeyDown(k Key) bool
	KeyUp(k Key) bool
	MouseDelta() (dx, dy float64)
	MouseButtonDown(b MouseButton) bool
}

// NoInput reports nothing pressed.
type NoInput struct{}

func (NoInput) KeyHeld(Key) bool                 { return false }
func (NoInput) KeyDown(Key) bool                 { return false }
func (NoInput) KeyUp(Key) bool                   { return false }
func (NoInput) MouseDelta() (float64, float64)   { return 0, 0 }
func (NoInput) MouseButtonDown(MouseButton) bool { return false }

// Screen exposes the drawable size.
type Screen interface {
	Size() (w, h int)
}

// FixedScreen is a Screen of constant size.
type FixedScreen struct {
	W, H int
}

func (s FixedScreen) Size() (int, int) {
	return s.W, s.H
}

// PlayParams controls a single playback of an audio clip.
type PlayParams struct {
	Position mgl64.Vec3
	Spatial  bool
	Gain     float64
	Pitch    float64
	Loop     bool
}

// Voice is a playing clip.
type Voice interface {
	Stop()
	Playing() bool
}

// AudioSink plays decoded clips.
type AudioSink interface {
	Play(clip *resources.Handle, p PlayParams) (Voice, error)
}

// SilentAudio accepts every clip and plays nothing.
type SilentAudio struct{}

func (SilentAudio) Play(*resources.Handle, PlayParams) (Voice, error) {
	return silentVoice{}, nil
}

type silentVoice struct{}

func (silentVoice) Stop()         {}
func (silentVoice) Playing() bool { return false }
