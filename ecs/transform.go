package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
)

var (
	axisRight   = mgl64.Vec3{1, 0, 0}
	axisUp      = mgl64.Vec3{0, 1, 0}
	axisForward = mgl64.Vec3{0, 0, -1}
)

// TransformType is the component handle for Transform.
var TransformType = NewComponentType[*Transform]("Transform")

// Transform is a position/rotation/scale relative to an optional parent.
//
// The parent link is non-owning. When the parent is released (its object is
// destroyed or the transform removed) children resolve as if unparented.
// World matrices are cached; any local change or a change anywhere up the
// parent chain invalidates the cache.
type Transform struct {
	Base

	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3

	parent   *Transform
	released bool

	dirty         bool
	world         mgl64.Mat4
	version       uint64
	cachedParent  *Transform
	parentVersion uint64
}

// NewTransform returns an identity transform.
func NewTransform() *Transform {
	return &Transform{
		rotation: mgl64.QuatIdent(),
		scale:    mgl64.Vec3{1, 1, 1},
		dirty:    true,
	}
}

func (t *Transform) TypeID() TypeID {
	return TransformType.ID()
}

func (t *Transform) onDetach() {
	t.released = true
	t.parent = nil
	t.dirty = true
}

func (t *Transform) Position() mgl64.Vec3 {
	return t.position
}

func (t *Transform) SetPosition(p mgl64.Vec3) {
	t.position = p
	t.dirty = true
}

// Translate moves the transform by delta in parent space.
func (t *Transform) Translate(delta mgl64.Vec3) {
	t.SetPosition(t.position.Add(delta))
}

func (t *Transform) Rotation() mgl64.Quat {
	return t.rotation
}

// SetRotation stores q normalized. A zero quaternion resets to identity.
func (t *Transform) SetRotation(q mgl64.Quat) {
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	t.rotation = q.Normalize()
	t.dirty = true
}

// Rotate applies q after the current local rotation.
func (t *Transform) Rotate(q mgl64.Quat) {
	t.SetRotation(q.Mul(t.rotation))
}

func (t *Transform) Scale() mgl64.Vec3 {
	return t.scale
}

func (t *Transform) SetScale(s mgl64.Vec3) {
	t.scale = s
	t.dirty = true
}

// Parent returns the live parent, or nil.
func (t *Transform) Parent() *Transform {
	if t.parent == nil || t.parent.released {
		return nil
	}
	return t.parent
}

// SetParent attaches t under p. Passing nil detaches. An attach that would
// make t its own ancestor is rejected.
func (t *Transform) SetParent(p *Transform) error {
	if p == nil {
		t.parent = nil
		t.dirty = true
		return nil
	}
	if p.released {
		return ErrGameObjectDestroyed
	}
	for a := p; a != nil; a = a.Parent() {
		if a == t {
			return ErrCyclicParent
		}
	}
	t.parent = p
	t.dirty = true
	return nil
}

// TRS composes translation, rotation and scale into the local matrix.
func (t *Transform) TRS() mgl64.Mat4 {
	translate := mgl64.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
	rotate := t.rotation.Mat4()
	scale := mgl64.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// ToWorld returns parent.ToWorld() * TRS(), or TRS() with no parent.
func (t *Transform) ToWorld() mgl64.Mat4 {
	t.refresh()
	return t.world
}

func (t *Transform) refresh() uint64 {
	p := t.Parent()
	var pv uint64
	if p != nil {
		pv = p.refresh()
	}
	if t.dirty || t.version == 0 || p != t.cachedParent || pv != t.parentVersion {
		local := t.TRS()
		if p != nil {
			t.world = p.world.Mul4(local)
		} else {
			t.world = local
		}
		t.cachedParent = p
		t.parentVersion = pv
		t.dirty = false
		t.version++
	}
	return t.version
}

// WorldPosition is the translation column of the world matrix.
func (t *Transform) WorldPosition() mgl64.Vec3 {
	return t.ToWorld().Col(3).Vec3()
}

// SetWorldPosition places t at world point p, expressed through the parent.
func (t *Transform) SetWorldPosition(p mgl64.Vec3) {
	parent := t.Parent()
	if parent == nil {
		t.SetPosition(p)
		return
	}
	inv := parent.ToWorld().Inv()
	t.SetPosition(inv.Mul4x1(p.Vec4(1)).Vec3())
}

// WorldRotation composes rotations up the parent chain.
func (t *Transform) WorldRotation() mgl64.Quat {
	if p := t.Parent(); p != nil {
		return p.WorldRotation().Mul(t.rotation)
	}
	return t.rotation
}

// SetWorldRotation sets the local rotation that yields world rotation q.
func (t *Transform) SetWorldRotation(q mgl64.Quat) {
	if p := t.Parent(); p != nil {
		q = p.WorldRotation().Inverse().Mul(q)
	}
	t.SetRotation(q)
}

func (t *Transform) Forward() mgl64.Vec3 {
	return t.WorldRotation().Rotate(axisForward)
}

func (t *Transform) Right() mgl64.Vec3 {
	return t.WorldRotation().Rotate(axisRight)
}

func (t *Transform) Up() mgl64.Vec3 {
	return t.WorldRotation().Rotate(axisUp)
}

// LookAt rotates t so that Forward points at target.
func (t *Transform) LookAt(target, up mgl64.Vec3) {
	eye := t.WorldPosition()
	if target.Sub(eye).LenSqr() == 0 {
		return
	}
	t.SetWorldRotation(LookRotation(target.Sub(eye), up))
}

// LookRotation returns the rotation taking -Z onto dir with +Y as close to
// up as possible.
func LookRotation(dir, up mgl64.Vec3) mgl64.Quat {
	if dir.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	dir = dir.Normalize()
	toDir := mgl64.QuatBetweenVectors(axisForward, dir)
	right := dir.Cross(up)
	if right.LenSqr() < 1e-12 {
		return toDir
	}
	up = right.Cross(dir).Normalize()
	toUp := mgl64.QuatBetweenVectors(toDir.Rotate(axisUp), up)
	return toUp.Mul(toDir).Normalize()
}

// TransformPoint maps a local point to world space.
func (t *Transform) TransformPoint(v mgl64.Vec3) mgl64.Vec3 {
	return t.ToWorld().Mul4x1(v.Vec4(1)).Vec3()
}
