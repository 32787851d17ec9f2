package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/resources"
)

// toneWAV builds a 16-bit mono clip of n samples at a constant level.
func toneWAV(rate, n int, level int16) []byte {
	var buf bytes.Buffer
	dataSize := n * 2
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for i := 0; i < n; i++ {
		binary.Write(&buf, binary.LittleEndian, level)
	}
	return buf.Bytes()
}

type oneClip struct {
	resources.Empty
	h *resources.Handle
}

func (p oneClip) TryGetAudio(name string) (*resources.Handle, bool) {
	if p.h != nil && p.h.Name == name {
		return p.h, true
	}
	return nil, false
}

func newClip() *resources.Handle {
	return resources.NewHandle("blip", resources.KindAudio, toneWAV(44100, 100, 8000))
}

func drain(m *Mixer, n int) [][2]float64 {
	samples := make([][2]float64, n)
	m.Streamer().Stream(samples)
	return samples
}

func TestMixerPlaysAndFinishes(t *testing.T) {
	m := NewMixer(config.Audio{SampleRate: 44100, Rolloff: 1})
	v, err := m.Play(newClip(), ecs.PlayParams{Gain: 1, Pitch: 1})
	require.NoError(t, err)
	assert.True(t, v.Playing())
	assert.Equal(t, 1, m.Active())

	out := drain(m, 50)
	assert.InDelta(t, 8000.0/32768.0, out[10][0], 1e-3)

	drain(m, 200)
	assert.False(t, v.Playing())
	assert.Equal(t, 0, m.Active())
}

func TestMixerGainAndStop(t *testing.T) {
	m := NewMixer(config.Audio{SampleRate: 44100})
	v, err := m.Play(newClip(), ecs.PlayParams{Gain: 0.5, Pitch: 1})
	require.NoError(t, err)
	out := drain(m, 10)
	assert.InDelta(t, 0.5*8000.0/32768.0, out[5][0], 1e-3)

	v.Stop()
	assert.False(t, v.Playing())
	out = drain(m, 10)
	assert.Zero(t, out[5][0])

	_, err = m.Play(nil, ecs.PlayParams{})
	assert.Error(t, err)
	_, err = m.Play(resources.NewHandle("mesh", resources.KindMesh, nil), ecs.PlayParams{})
	assert.Error(t, err)
}

func TestMixerSpatialize(t *testing.T) {
	s := ecs.NewScene("audio")
	m := NewMixer(config.Audio{SampleRate: 44100, Rolloff: 1})
	m.Attach(s)

	gain, pan := m.spatialize(mgl64.Vec3{5, 0, 0})
	assert.Equal(t, 1.0, gain, "no listener means no attenuation")
	assert.Zero(t, pan)

	lg := s.CreateGameObject("ears")
	_, err := ecs.AddComponent(lg, ListenerType, NewListener())
	require.NoError(t, err)

	cases := []struct {
		name string
		pos  mgl64.Vec3
		gain float64
		pan  float64
	}{
		{"close", mgl64.Vec3{0, 0, -0.5}, 1, 0},
		{"right", mgl64.Vec3{3, 0, 0}, 1.0 / 3, 1},
		{"left", mgl64.Vec3{-5, 0, 0}, 1.0 / 5, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gain, pan := m.spatialize(c.pos)
			assert.InDelta(t, c.gain, gain, 1e-9)
			assert.InDelta(t, c.pan, pan, 1e-9)
		})
	}
}

func TestSourcePlay(t *testing.T) {
	s := ecs.NewScene("source")
	m := NewMixer(config.Audio{SampleRate: 44100, Rolloff: 1})
	m.Attach(s)
	g := s.CreateGameObject("speaker")
	src, err := NewSource("blip")
	require.NoError(t, err)
	_, err = ecs.AddComponent(g, SourceType, src)
	require.NoError(t, err)

	ctx := &ecs.Context{Resources: oneClip{h: newClip()}, Audio: m}
	require.NoError(t, src.Play(ctx))
	assert.True(t, src.Playing())

	// detaching the source stops its voice
	ecs.RemoveComponent(g, SourceType, src)
	assert.False(t, src.Playing())

	missing, err := NewSource("nope")
	require.NoError(t, err)
	assert.Error(t, missing.Play(ctx))

	_, err = NewSource("")
	assert.ErrorIs(t, err, ecs.ErrInvalidArgument)
}
