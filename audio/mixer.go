package audio

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/resources"
)

var errNoClip = errors.New("audio: no clip")

// Mixer plays decoded clips into a single beep stream. It is the scene's
// AudioSink and tracks listeners and sources as a Registry.
//
// Every mutation of the underlying stream happens under lock, which the
// viewer sets to the speaker lock.
type Mixer struct {
	rate    beep.SampleRate
	rolloff float64
	lock    sync.Locker
	log     *zap.Logger

	mixer     *beep.Mixer
	listeners []*Listener
	sources   []*Source
}

type Option func(*Mixer)

// WithLock serializes stream mutations with l.
func WithLock(l sync.Locker) Option {
	return func(m *Mixer) { m.lock = l }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Mixer) { m.log = l }
}

// NewMixer creates a mixer at the configured sample rate.
func NewMixer(s config.Audio, opts ...Option) *Mixer {
	rate := s.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	m := &Mixer{
		rate:    beep.SampleRate(rate),
		rolloff: s.Rolloff,
		lock:    &sync.Mutex{},
		log:     zap.NewNop(),
		mixer:   &beep.Mixer{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach installs m on scene as a Registry.
func (m *Mixer) Attach(scene *ecs.Scene) {
	scene.AddRegistry(m)
}

// SampleRate is the rate of the output stream.
func (m *Mixer) SampleRate() beep.SampleRate {
	return m.rate
}

// Streamer is the mixed output, to be handed to the speaker.
func (m *Mixer) Streamer() beep.Streamer {
	return m.mixer
}

// Active returns the number of streams still mixing.
func (m *Mixer) Active() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.mixer.Len()
}

func (m *Mixer) ComponentAttached(c ecs.Component) {
	switch v := c.(type) {
	case *Listener:
		m.listeners = append(m.listeners, v)
	case *Source:
		m.sources = append(m.sources, v)
	}
}

func (m *Mixer) ComponentDetached(c ecs.Component) {
	switch v := c.(type) {
	case *Listener:
		m.listeners = removeItem(m.listeners, v)
	case *Source:
		v.Stop()
		m.sources = removeItem(m.sources, v)
	}
}

func removeItem[T comparable](list []T, v T) []T {
	for i, existing := range list {
		if existing == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Play starts clip with p. Spatial voices are attenuated and panned relative
// to the active listener at the moment they start.
func (m *Mixer) Play(clip *resources.Handle, p ecs.PlayParams) (ecs.Voice, error) {
	if clip == nil {
		return nil, errNoClip
	}
	buf, format, err := clip.Clip()
	if err != nil {
		return nil, err
	}

	gain, pan := p.Gain, 0.0
	if p.Spatial {
		att, pn := m.spatialize(p.Position)
		gain *= att
		pan = pn
	}
	pitch := p.Pitch
	if pitch <= 0 {
		pitch = 1
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if p.Loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	ratio := pitch * float64(format.SampleRate) / float64(m.rate)
	if ratio != 1 {
		s = beep.ResampleRatio(4, ratio, s)
	}
	s = volume(s, gain)
	if pan != 0 {
		s = &effects.Pan{Streamer: s, Pan: pan}
	}

	v := &voice{lock: m.lock}
	v.ctrl = &beep.Ctrl{Streamer: beep.Seq(s, beep.Callback(func() { v.done.Store(true) }))}

	m.lock.Lock()
	m.mixer.Add(v.ctrl)
	m.lock.Unlock()

	m.log.Debug("voice started",
		zap.String("clip", clip.Name),
		zap.Float64("gain", gain),
		zap.Float64("pitch", pitch))
	return v, nil
}

// StopAll clears every voice.
func (m *Mixer) StopAll() {
	m.lock.Lock()
	m.mixer.Clear()
	m.lock.Unlock()
	for _, s := range m.sources {
		s.Stop()
	}
}

func (m *Mixer) listener() *ecs.Transform {
	for _, l := range m.listeners {
		if t := l.Transform(); t != nil {
			return t
		}
	}
	return nil
}

// spatialize returns the distance attenuation and stereo pan for a voice at
// pos. Within one unit of the listener there is no attenuation.
func (m *Mixer) spatialize(pos mgl64.Vec3) (gain, pan float64) {
	t := m.listener()
	if t == nil {
		return 1, 0
	}
	delta := pos.Sub(t.WorldPosition())
	dist := delta.Len()
	gain = 1 / (1 + m.rolloff*math.Max(0, dist-1))
	if dist > 0 {
		pan = math.Max(-1, math.Min(1, delta.Mul(1/dist).Dot(t.Right())))
	}
	return gain, pan
}

// volume scales s linearly by gain. Zero or negative gain is silent.
func volume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

type voice struct {
	ctrl *beep.Ctrl
	lock sync.Locker
	done atomic.Bool
}

func (v *voice) Stop() {
	v.lock.Lock()
	v.ctrl.Streamer = nil
	v.lock.Unlock()
	v.done.Store(true)
}

func (v *voice) Playing() bool {
	return !v.done.Load()
}
