package physics

import (
	"github.com/milk9111/engine3d/ecs"
)

// detectFunc tests two colliders whose kinds index the table. The returned
// normal points from a to b.
type detectFunc func(a, b *Collider) (ecs.Collision, bool)

var detectors = [shapeKinds][shapeKinds]detectFunc{
	ShapePlane: {
		ShapePlane:  nil,
		ShapeSphere: planeSphere,
	},
	ShapeSphere: {
		ShapePlane:  spherePlane,
		ShapeSphere: sphereSphere,
	},
}

// Detect runs the narrow phase for one pair. Unsupported pairs and
// degenerate geometry report no contact.
func Detect(a, b *Collider) (ecs.Collision, bool) {
	if a == nil || b == nil || a.shape.Kind >= shapeKinds || b.shape.Kind >= shapeKinds {
		return ecs.Collision{}, false
	}
	fn := detectors[a.shape.Kind][b.shape.Kind]
	if fn == nil {
		return ecs.Collision{}, false
	}
	return fn(a, b)
}

func sphereSphere(a, b *Collider) (ecs.Collision, bool) {
	ca, ra, ok := a.WorldSphere()
	if !ok {
		return ecs.Collision{}, false
	}
	cb, rb, ok := b.WorldSphere()
	if !ok {
		return ecs.Collision{}, false
	}
	delta := cb.Sub(ca)
	dist := delta.Len()
	if dist >= ra+rb || dist == 0 {
		return ecs.Collision{}, false
	}
	n := delta.Mul(1 / dist)
	pen := ra + rb - dist
	return ecs.Collision{
		A:           a,
		B:           b,
		Normal:      n,
		Penetration: pen,
		Point:       ca.Add(n.Mul(ra - pen/2)),
	}, true
}

// spherePlane treats the plane as a half-space: a sphere anywhere behind it
// is in contact.
func spherePlane(a, b *Collider) (ecs.Collision, bool) {
	c, r, ok := a.WorldSphere()
	if !ok {
		return ecs.Collision{}, false
	}
	n, d, ok := b.WorldPlane()
	if !ok {
		return ecs.Collision{}, false
	}
	s := n.Dot(c) - d
	if s >= r {
		return ecs.Collision{}, false
	}
	return ecs.Collision{
		A:           a,
		B:           b,
		Normal:      n.Mul(-1),
		Penetration: r - s,
		Point:       c.Sub(n.Mul(s)),
	}, true
}

func planeSphere(a, b *Collider) (ecs.Collision, bool) {
	col, ok := spherePlane(b, a)
	if !ok {
		return col, false
	}
	col.A, col.B = a, b
	col.Normal = col.Normal.Mul(-1)
	return col, true
}
