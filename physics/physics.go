package physics

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
)

// Config holds the world-level simulation parameters.
type Config struct {
	Gravity mgl64.Vec3
	// RestingThreshold is the approach speed below which contacts do not
	// bounce.
	RestingThreshold float64
	// Slop is the penetration left uncorrected.
	Slop float64
}

// DefaultConfig matches the embedded settings defaults.
func DefaultConfig() Config {
	return ConfigFrom(config.Default().Physics)
}

// ConfigFrom converts the settings section.
func ConfigFrom(s config.Physics) Config {
	return Config{
		Gravity:          s.Gravity,
		RestingThreshold: s.RestingThreshold,
		Slop:             s.Slop,
	}
}

// Physics simulates every Rigidbody and Collider of one scene. It installs
// itself as the scene's Simulation and as a Registry so components are
// tracked as they come and go.
type Physics struct {
	scene      *ecs.Scene
	cfg        Config
	log        *zap.Logger
	bodies     []*Rigidbody
	colliders  []*Collider
	collisions []ecs.Collision
}

// New creates the physics instance of scene and registers the bodies and
// colliders already attached.
func New(scene *ecs.Scene, cfg Config) *Physics {
	p := &Physics{
		scene: scene,
		cfg:   cfg,
		log:   scene.Logger().Named("physics"),
	}
	scene.SetSimulation(p)
	scene.AddRegistry(p)
	return p
}

// Of returns the physics instance installed on scene, if any.
func Of(scene *ecs.Scene) *Physics {
	p, _ := scene.Simulation().(*Physics)
	return p
}

func (p *Physics) Config() Config {
	return p.cfg
}

func (p *Physics) SetGravity(g mgl64.Vec3) {
	p.cfg.Gravity = g
}

// Bodies returns the tracked bodies in registration order.
func (p *Physics) Bodies() []*Rigidbody {
	return append([]*Rigidbody(nil), p.bodies...)
}

// Colliders returns the tracked colliders in registration order.
func (p *Physics) Colliders() []*Collider {
	return append([]*Collider(nil), p.colliders...)
}

// Collisions returns the contacts found by the last Step.
func (p *Physics) Collisions() []ecs.Collision {
	return p.collisions
}

func (p *Physics) ComponentAttached(c ecs.Component) {
	switch v := c.(type) {
	case *Rigidbody:
		p.bodies = append(p.bodies, v)
	case *Collider:
		p.colliders = append(p.colliders, v)
	}
}

func (p *Physics) ComponentDetached(c ecs.Component) {
	switch v := c.(type) {
	case *Rigidbody:
		p.bodies = without(p.bodies, v)
	case *Collider:
		p.colliders = without(p.colliders, v)
	}
}

func without[T comparable](list []T, v T) []T {
	for i, existing := range list {
		if existing == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Step integrates every dynamic body, detects contacts between every
// collider pair and resolves them in detection order.
func (p *Physics) Step(dt float64) []ecs.Collision {
	if dt <= 0 {
		p.collisions = nil
		return nil
	}
	for _, b := range p.bodies {
		p.integrate(b, dt)
	}
	p.collisions = p.detect()
	for i := range p.collisions {
		p.resolve(&p.collisions[i])
	}
	return p.collisions
}

func (p *Physics) integrate(b *Rigidbody, dt float64) {
	defer b.clearAccumulators()
	if b.params.Kinematic {
		return
	}
	t := b.Transform()
	if t == nil {
		return
	}
	m := b.params.Mass
	if b.params.UseGravity {
		b.force = b.force.Add(p.cfg.Gravity.Mul(m))
	}

	b.velocity = b.velocity.Add(b.force.Mul(dt / m))
	b.velocity = b.velocity.Mul(1 / (1 + b.params.Drag*dt))

	b.angularVelocity = b.angularVelocity.Add(b.torque.Mul(dt / m))
	b.angularVelocity = b.angularVelocity.Mul(1 / (1 + b.params.AngularDrag*dt))

	t.SetWorldPosition(t.WorldPosition().Add(b.velocity.Mul(dt)))

	if w := b.angularVelocity; w.LenSqr() > 0 {
		q := t.WorldRotation()
		spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
		t.SetWorldRotation(q.Add(spin))
	}
}

func (p *Physics) detect() []ecs.Collision {
	var out []ecs.Collision
	for i := 0; i < len(p.colliders); i++ {
		a := p.colliders[i]
		ga := a.GameObject()
		if ga == nil {
			continue
		}
		for j := i + 1; j < len(p.colliders); j++ {
			b := p.colliders[j]
			gb := b.GameObject()
			if gb == nil || gb == ga {
				continue
			}
			if col, ok := Detect(a, b); ok {
				out = append(out, col)
			} else if degenerate(a, b) {
				p.log.Debug("degenerate contact skipped",
					zap.String("a", ga.Name),
					zap.String("b", gb.Name))
			}
		}
	}
	return out
}

func degenerate(a, b *Collider) bool {
	if a.shape.Kind != ShapeSphere || b.shape.Kind != ShapeSphere {
		return false
	}
	ca, _, okA := a.WorldSphere()
	cb, _, okB := b.WorldSphere()
	return okA && okB && ca == cb
}

// Fingerprint hashes the kinematic state of every body in registration
// order. Equal fingerprints mean bit-identical simulations.
func (p *Physics) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	for _, b := range p.bodies {
		if t := b.Transform(); t != nil {
			pos := t.WorldPosition()
			rot := t.WorldRotation()
			put(pos[0])
			put(pos[1])
			put(pos[2])
			put(rot.W)
			put(rot.V[0])
			put(rot.V[1])
			put(rot.V[2])
		}
		for _, v := range []mgl64.Vec3{b.velocity, b.angularVelocity} {
			put(v[0])
			put(v[1])
			put(v[2])
		}
	}
	return d.Sum64()
}
