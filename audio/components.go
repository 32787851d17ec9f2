package audio

import (
	"fmt"

	"github.com/milk9111/engine3d/ecs"
)

var (
	SourceType   = ecs.NewComponentType[*Source]("AudioSource")
	ListenerType = ecs.NewComponentType[*Listener]("AudioListener")
)

// Source plays a named clip from its owner's position.
type Source struct {
	ecs.Base

	Clip    string
	Gain    float64
	Pitch   float64
	Spatial bool
	Loop    bool

	voice ecs.Voice
}

// NewSource returns a spatial source for clip at unit gain and pitch.
func NewSource(clip string) (*Source, error) {
	if clip == "" {
		return nil, ecs.InvalidParam("AudioSource", "clip", clip)
	}
	return &Source{Clip: clip, Gain: 1, Pitch: 1, Spatial: true}, nil
}

func (s *Source) TypeID() ecs.TypeID {
	return SourceType.ID()
}

// Play starts the clip with the source's own gain and pitch.
func (s *Source) Play(ctx *ecs.Context) error {
	return s.PlayWith(ctx, s.Gain, s.Pitch)
}

// PlayWith starts the clip with explicit gain and pitch. A previous voice of
// this source keeps playing.
func (s *Source) PlayWith(ctx *ecs.Context, gain, pitch float64) error {
	if ctx == nil || ctx.Resources == nil || ctx.Audio == nil {
		return fmt.Errorf("audio: play %s: no audio context", s.Clip)
	}
	h, ok := ctx.Resources.TryGetAudio(s.Clip)
	if !ok {
		return fmt.Errorf("audio: clip %q not found", s.Clip)
	}
	p := ecs.PlayParams{Gain: gain, Pitch: pitch, Spatial: s.Spatial, Loop: s.Loop}
	if t := s.Transform(); t != nil {
		p.Position = t.WorldPosition()
	}
	v, err := ctx.Audio.Play(h, p)
	if err != nil {
		return fmt.Errorf("audio: play %s: %w", s.Clip, err)
	}
	s.voice = v
	return nil
}

// Stop silences the most recent voice.
func (s *Source) Stop() {
	if s.voice != nil {
		s.voice.Stop()
	}
}

func (s *Source) Playing() bool {
	return s.voice != nil && s.voice.Playing()
}

// Listener marks the point spatial sources are heard from. The first
// attached listener wins.
type Listener struct {
	ecs.Base
}

func NewListener() *Listener {
	return &Listener{}
}

func (l *Listener) TypeID() ecs.TypeID {
	return ListenerType.ID()
}
