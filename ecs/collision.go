package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Collision is one contact found during a simulation step. A and B are the
// colliders involved; Normal points from A towards B.
type Collision struct {
	A, B        Component
	Normal      mgl64.Vec3
	Penetration float64
	Point       mgl64.Vec3

	// Impulse is the normal impulse magnitude applied during resolution.
	Impulse float64
	// Resolved is false when neither body could move (both static).
	Resolved bool
}

// Involves reports whether either side of c belongs to g.
func (c Collision) Involves(g *GameObject) bool {
	return owns(g, c.A) || owns(g, c.B)
}

// Other returns the collider on the side of c that does not belong to g.
func (c Collision) Other(g *GameObject) Component {
	switch {
	case owns(g, c.A):
		return c.B
	case owns(g, c.B):
		return c.A
	}
	return nil
}

// NormalFrom returns the contact normal pointing away from g.
func (c Collision) NormalFrom(g *GameObject) mgl64.Vec3 {
	if owns(g, c.B) && !owns(g, c.A) {
		return c.Normal.Mul(-1)
	}
	return c.Normal
}

func owns(g *GameObject, c Component) bool {
	if g == nil || isNil(c) {
		return false
	}
	b := c.base()
	return b.scene == g.scene && b.owner == g.entity
}
