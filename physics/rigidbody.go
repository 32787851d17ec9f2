package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/ecs"
)

// RigidbodyType is the component handle for Rigidbody.
var RigidbodyType = ecs.NewComponentType[*Rigidbody]("Rigidbody")

// RigidbodyParams are the construction parameters of a Rigidbody.
type RigidbodyParams struct {
	Mass        float64 `yaml:"mass"`
	Drag        float64 `yaml:"drag"`
	AngularDrag float64 `yaml:"angular_drag"`
	Friction    float64 `yaml:"friction"`
	Bounciness  float64 `yaml:"bounciness"`
	UseGravity  bool    `yaml:"use_gravity"`
	Kinematic   bool    `yaml:"kinematic"`
}

// DefaultRigidbodyParams returns a unit-mass body affected by gravity.
func DefaultRigidbodyParams() RigidbodyParams {
	return RigidbodyParams{
		Mass:        1,
		Drag:        0.2,
		AngularDrag: 0.005,
		Friction:    0.5,
		Bounciness:  0.5,
		UseGravity:  true,
	}
}

func (p RigidbodyParams) validate() error {
	switch {
	case !(p.Mass > 0) || math.IsInf(p.Mass, 0):
		return ecs.InvalidParam("Rigidbody", "mass", p.Mass)
	case p.Drag < 0 || math.IsNaN(p.Drag):
		return ecs.InvalidParam("Rigidbody", "drag", p.Drag)
	case p.AngularDrag < 0 || math.IsNaN(p.AngularDrag):
		return ecs.InvalidParam("Rigidbody", "angular_drag", p.AngularDrag)
	case p.Friction < 0 || math.IsNaN(p.Friction):
		return ecs.InvalidParam("Rigidbody", "friction", p.Friction)
	case p.Bounciness < 0 || p.Bounciness > 1 || math.IsNaN(p.Bounciness):
		return ecs.InvalidParam("Rigidbody", "bounciness", p.Bounciness)
	}
	return nil
}

// Rigidbody gives its GameObject mass and motion. Position and rotation live
// on the owner's Transform; the collider is the owner's first Collider.
type Rigidbody struct {
	ecs.Base

	params          RigidbodyParams
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
	force           mgl64.Vec3
	torque          mgl64.Vec3
}

// NewRigidbody validates p and returns a body at rest.
func NewRigidbody(p RigidbodyParams) (*Rigidbody, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Rigidbody{params: p}, nil
}

func (b *Rigidbody) TypeID() ecs.TypeID {
	return RigidbodyType.ID()
}

// Params returns the current parameters.
func (b *Rigidbody) Params() RigidbodyParams {
	return b.params
}

func (b *Rigidbody) Mass() float64 {
	return b.params.Mass
}

// SetMass rejects non-positive masses.
func (b *Rigidbody) SetMass(m float64) error {
	p := b.params
	p.Mass = m
	if err := p.validate(); err != nil {
		return err
	}
	b.params = p
	return nil
}

// InverseMass is zero for kinematic bodies.
func (b *Rigidbody) InverseMass() float64 {
	if b == nil || b.params.Kinematic {
		return 0
	}
	return 1 / b.params.Mass
}

func (b *Rigidbody) Velocity() mgl64.Vec3 {
	return b.velocity
}

func (b *Rigidbody) SetVelocity(v mgl64.Vec3) {
	b.velocity = v
}

func (b *Rigidbody) AngularVelocity() mgl64.Vec3 {
	return b.angularVelocity
}

func (b *Rigidbody) SetAngularVelocity(w mgl64.Vec3) {
	b.angularVelocity = w
}

// AddForce accumulates f until the next step.
func (b *Rigidbody) AddForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// AddTorque accumulates t until the next step.
func (b *Rigidbody) AddTorque(t mgl64.Vec3) {
	b.torque = b.torque.Add(t)
}

// AddImpulse changes velocity immediately by j/m.
func (b *Rigidbody) AddImpulse(j mgl64.Vec3) {
	if b.params.Kinematic {
		return
	}
	b.velocity = b.velocity.Add(j.Mul(1 / b.params.Mass))
}

// Force is the accumulated force for the coming step.
func (b *Rigidbody) Force() mgl64.Vec3 {
	return b.force
}

func (b *Rigidbody) Drag() float64        { return b.params.Drag }
func (b *Rigidbody) AngularDrag() float64 { return b.params.AngularDrag }
func (b *Rigidbody) Friction() float64    { return b.params.Friction }
func (b *Rigidbody) Bounciness() float64  { return b.params.Bounciness }
func (b *Rigidbody) UseGravity() bool     { return b.params.UseGravity }
func (b *Rigidbody) Kinematic() bool      { return b.params.Kinematic }

func (b *Rigidbody) SetDrag(d float64) error {
	return b.update(func(p *RigidbodyParams) { p.Drag = d })
}

func (b *Rigidbody) SetAngularDrag(d float64) error {
	return b.update(func(p *RigidbodyParams) { p.AngularDrag = d })
}

func (b *Rigidbody) SetFriction(f float64) error {
	return b.update(func(p *RigidbodyParams) { p.Friction = f })
}

func (b *Rigidbody) SetBounciness(e float64) error {
	return b.update(func(p *RigidbodyParams) { p.Bounciness = e })
}

func (b *Rigidbody) SetUseGravity(on bool) {
	b.params.UseGravity = on
}

// SetKinematic toggles kinematic mode. Kinematic bodies are not integrated
// and collisions never move them.
func (b *Rigidbody) SetKinematic(on bool) {
	b.params.Kinematic = on
}

func (b *Rigidbody) update(fn func(p *RigidbodyParams)) error {
	p := b.params
	fn(&p)
	if err := p.validate(); err != nil {
		return err
	}
	b.params = p
	return nil
}

// GetRigidbody returns the first rigidbody of g.
func GetRigidbody(g *ecs.GameObject) (*Rigidbody, bool) {
	return ecs.GetComponent(g, RigidbodyType)
}

// Collider returns the owner's first collider, if any.
func (b *Rigidbody) Collider() *Collider {
	c, _ := ecs.GetComponent(b.GameObject(), ColliderType)
	return c
}

func (b *Rigidbody) clearAccumulators() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}
