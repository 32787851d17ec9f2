package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// probe records dispatch into a shared journal.
type probe struct {
	ScriptBase
	name     string
	journal  *[]string
	tickErr  error
	panicky  bool
	onTick   func(ctx *Context)
	onFixed  func(ctx *Context)
	beginErr error
}

var probeType = NewComponentType[*probe]("probe")

func (*probe) TypeID() TypeID { return probeType.ID() }

func (p *probe) Begin(*Context) error {
	*p.journal = append(*p.journal, p.name+".begin")
	return p.beginErr
}

func (p *probe) Tick(ctx *Context, _ float64) error {
	*p.journal = append(*p.journal, p.name+".tick")
	if p.onTick != nil {
		p.onTick(ctx)
	}
	if p.panicky {
		panic("boom")
	}
	return p.tickErr
}

func (p *probe) FixedTick(ctx *Context, _ float64) error {
	*p.journal = append(*p.journal, p.name+".fixed")
	if p.onFixed != nil {
		p.onFixed(ctx)
	}
	return nil
}

func (p *probe) OnCollision(_ *Context, c Collision) error {
	*p.journal = append(*p.journal, p.name+".collide")
	return nil
}

type fakeSim struct {
	collisions []Collision
	steps      int
	panicky    bool
}

func (f *fakeSim) Step(float64) []Collision {
	f.steps++
	if f.panicky {
		panic("solver exploded")
	}
	return f.collisions
}

type recordingRegistry struct {
	attached, detached []Component
}

func (r *recordingRegistry) ComponentAttached(c Component) { r.attached = append(r.attached, c) }
func (r *recordingRegistry) ComponentDetached(c Component) { r.detached = append(r.detached, c) }

func addProbe(t *testing.T, g *GameObject, name string, journal *[]string) *probe {
	t.Helper()
	p, err := AddComponent(g, probeType, &probe{name: name, journal: journal})
	require.NoError(t, err)
	return p
}

func TestSceneTickOrder(t *testing.T) {
	var journal []string
	s := NewScene("order")
	a := s.CreateGameObject("a")
	b := s.CreateGameObject("b")
	addProbe(t, b, "b1", &journal)
	addProbe(t, a, "a1", &journal)
	addProbe(t, a, "a2", &journal)

	s.Tick(nil, 0.016)
	s.Tick(nil, 0.016)

	assert.Equal(t, []string{
		"a1.begin", "a1.tick", "a2.begin", "a2.tick", "b1.begin", "b1.tick",
		"a1.tick", "a2.tick", "b1.tick",
	}, journal)
	assert.Equal(t, 3, s.ScriptCount())
}

func TestSceneDispatchIsolation(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(p *probe)
		message string
	}{
		{"error", func(p *probe) { p.tickErr = errors.New("always fails") }, "script failed"},
		{"panic", func(p *probe) { p.panicky = true }, "script failed"},
		{"begin_error", func(p *probe) { p.beginErr = errors.New("no setup") }, "script failed"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			var journal []string
			s := NewScene("isolation", WithLogger(zap.New(core)))
			bad := addProbe(t, s.CreateGameObject("bad"), "bad", &journal)
			c.setup(bad)
			addProbe(t, s.CreateGameObject("good"), "good", &journal)

			s.Tick(nil, 0.016)
			s.Tick(nil, 0.016)

			ticks := 0
			for _, j := range journal {
				if j == "good.tick" {
					ticks++
				}
			}
			assert.Equal(t, 2, ticks)
			failures := logs.FilterMessage(c.message)
			require.NotZero(t, failures.Len())
			fields := failures.All()[0].ContextMap()
			assert.Equal(t, "bad", fields["object"])
			assert.Equal(t, "probe", fields["script"])
		})
	}
}

func TestSceneFixedTickDeliversCollisionsFirst(t *testing.T) {
	var journal []string
	s := NewScene("fixed")
	a := s.CreateGameObject("a")
	b := s.CreateGameObject("b")
	c := s.CreateGameObject("bystander")
	pa := addProbe(t, a, "a", &journal)
	pb := addProbe(t, b, "b", &journal)
	addProbe(t, c, "c", &journal)

	sim := &fakeSim{collisions: []Collision{{A: pa, B: pb}}}
	s.SetSimulation(sim)
	s.FixedTick(nil, DefaultFixedDelta)

	assert.Equal(t, 1, sim.steps)
	assert.Equal(t, []string{
		"a.begin", "a.collide", "a.fixed",
		"b.begin", "b.collide", "b.fixed",
		"c.begin", "c.fixed",
	}, journal)
}

func TestSceneSimulationPanic(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var journal []string
	s := NewScene("sim", WithLogger(zap.New(core)))
	addProbe(t, s.CreateGameObject("a"), "a", &journal)
	s.SetSimulation(&fakeSim{panicky: true})

	s.FixedTick(nil, DefaultFixedDelta)
	assert.Equal(t, []string{"a.begin", "a.fixed"}, journal)
	assert.Equal(t, 1, logs.FilterMessage("simulation step panicked").Len())
}

func TestSceneDeferredMutation(t *testing.T) {
	var journal []string
	s := NewScene("deferred")
	a := s.CreateGameObject("a")
	victim := s.CreateGameObject("victim")
	pa := addProbe(t, a, "a", &journal)
	addProbe(t, victim, "victim", &journal)

	var spawned *GameObject
	pa.onTick = func(*Context) {
		if spawned != nil {
			return
		}
		spawned = s.CreateGameObject("spawned")
		addProbe(t, spawned, "spawned", &journal)
		victim.Destroy()
		assert.False(t, victim.Alive())
		assert.NotNil(t, victim.Scene())
	}

	s.Tick(nil, 0.016)
	assert.Equal(t, []string{"a.begin", "a.tick"}, journal)
	assert.Nil(t, victim.Scene())
	assert.Nil(t, s.Find("victim"))

	journal = nil
	s.Tick(nil, 0.016)
	assert.Equal(t, []string{"a.tick", "spawned.begin", "spawned.tick"}, journal)
}

func TestSceneRegistries(t *testing.T) {
	s := NewScene("registries")
	g := s.CreateGameObject("early")
	early, err := AddComponent(g, tagType, &tag{})
	require.NoError(t, err)

	r := &recordingRegistry{}
	s.AddRegistry(r)
	s.AddRegistry(r)
	assert.Len(t, s.Registries(), 1)
	assert.Equal(t, []Component{g.Transform(), early}, r.attached)

	late, err := AddComponent(g, tagType, &tag{})
	require.NoError(t, err)
	assert.Same(t, late, r.attached[2])

	g.Destroy()
	assert.Equal(t, []Component{late, early, r.attached[0]}, r.detached)

	s.RemoveRegistry(r)
	assert.Empty(t, s.Registries())
}

func TestSceneLookup(t *testing.T) {
	s := NewScene("lookup")
	a := s.CreateGameObject("a")
	b := s.CreateGameObject("b")

	assert.Same(t, a, s.Lookup(a.Entity()))
	assert.Same(t, b, s.Find("b"))
	assert.Same(t, b, s.FindByID(b.ID()))
	assert.Equal(t, []*GameObject{a, b}, s.GameObjects())
	assert.Nil(t, s.Find("c"))
	assert.Same(t, s, a.Scene())
}

func TestSceneClose(t *testing.T) {
	var journal []string
	s := NewScene("close")
	a := s.CreateGameObject("a")
	pa := addProbe(t, a, "a", &journal)
	addProbe(t, s.CreateGameObject("b"), "b", &journal)
	r := &recordingRegistry{}
	s.AddRegistry(r)

	pa.onTick = func(*Context) { s.Close() }
	s.Tick(nil, 0.016)

	// Close inside dispatch waits for the boundary.
	assert.Equal(t, []string{"a.begin", "a.tick", "b.begin", "b.tick"}, journal)
	assert.True(t, s.Closed())
	assert.Empty(t, s.GameObjects())
	assert.Len(t, r.detached, len(r.attached))
	assert.Nil(t, a.Scene())

	s.Close()
	assert.Nil(t, s.CreateGameObject("late"))
	s.Tick(nil, 0.016)
	assert.Len(t, journal, 4)
}

type drawCounter struct{ n int }

func (d *drawCounter) Draw(*Context) { d.n++ }

func TestSceneTickDraws(t *testing.T) {
	s := NewScene("draw")
	d := &drawCounter{}
	s.SetDrawer(d)
	s.Tick(nil, 0.016)
	s.FixedTick(nil, DefaultFixedDelta)
	assert.Equal(t, 1, d.n)
}

func TestContextDefaults(t *testing.T) {
	var ctx *Context
	got := ctx.withDefaults(zap.NewNop())
	require.NotNil(t, got.Time)
	require.NotNil(t, got.Input)
	assert.False(t, got.Input.KeyHeld(KeyW))
	w, h := got.Screen.Size()
	assert.Positive(t, w)
	assert.Positive(t, h)
	v, err := got.Audio.Play(nil, PlayParams{})
	require.NoError(t, err)
	assert.False(t, v.Playing())
}
