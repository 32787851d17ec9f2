package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/ecs"
)

const tangentEpsilon = 1e-12

// resolve applies the normal and friction impulses for col and separates the
// bodies. Rotational response is not modelled.
func (p *Physics) resolve(col *ecs.Collision) {
	ca, _ := col.A.(*Collider)
	cb, _ := col.B.(*Collider)
	if ca == nil || cb == nil {
		return
	}
	ba, bb := ca.Body(), cb.Body()
	invA, invB := ba.InverseMass(), bb.InverseMass()
	invSum := invA + invB
	if invSum == 0 {
		col.Resolved = false
		return
	}
	col.Resolved = true
	n := col.Normal

	va, vb := velocityOf(ba), velocityOf(bb)
	vn := vb.Sub(va).Dot(n)
	if vn < 0 {
		e := math.Max(bouncinessOf(ba), bouncinessOf(bb))
		if -vn < p.cfg.RestingThreshold {
			e = 0
		}
		j := -(1 + e) * vn / invSum
		va = va.Sub(n.Mul(j * invA))
		vb = vb.Add(n.Mul(j * invB))
		col.Impulse = j

		rel := vb.Sub(va)
		tangent := rel.Sub(n.Mul(rel.Dot(n)))
		if tangent.LenSqr() > tangentEpsilon {
			tangent = tangent.Normalize()
			jt := -rel.Dot(tangent) / invSum
			mu := combinedFriction(ba, bb)
			limit := mu * j
			jt = math.Max(-limit, math.Min(limit, jt))
			va = va.Sub(tangent.Mul(jt * invA))
			vb = vb.Add(tangent.Mul(jt * invB))
		}
		setVelocity(ba, va)
		setVelocity(bb, vb)
	}

	depth := col.Penetration - p.cfg.Slop
	if depth <= 0 {
		return
	}
	correction := n.Mul(depth / invSum)
	shift(ca, correction.Mul(-invA))
	shift(cb, correction.Mul(invB))
}

func velocityOf(b *Rigidbody) mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.velocity
}

func setVelocity(b *Rigidbody, v mgl64.Vec3) {
	if b == nil || b.params.Kinematic {
		return
	}
	b.velocity = v
}

func bouncinessOf(b *Rigidbody) float64 {
	if b == nil {
		return 0
	}
	return b.params.Bounciness
}

// combinedFriction is the geometric mean of both coefficients. A collider
// without a body takes the coefficient of the body it touches.
func combinedFriction(a, b *Rigidbody) float64 {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return b.params.Friction
	case b == nil:
		return a.params.Friction
	}
	return math.Sqrt(a.params.Friction * b.params.Friction)
}

func shift(c *Collider, delta mgl64.Vec3) {
	if delta.LenSqr() == 0 {
		return
	}
	if t := c.Transform(); t != nil {
		t.SetWorldPosition(t.WorldPosition().Add(delta))
	}
}
