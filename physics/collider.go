package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/ecs"
)

// ColliderType is the component handle for Collider.
var ColliderType = ecs.NewComponentType[*Collider]("Collider")

// ShapeKind tags the variant held by a Shape.
type ShapeKind uint8

const (
	ShapePlane ShapeKind = iota
	ShapeSphere
	shapeKinds
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePlane:
		return "plane"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Shape is a collision primitive in the owner's local frame.
//
// Plane: points x with dot(Normal, x) = Offset, Normal rotated by the
// owner's world rotation and the plane shifted to pass through the owner's
// world position. Sphere: Radius around Center, Center offset from the
// owner's world position.
type Shape struct {
	Kind   ShapeKind
	Normal mgl64.Vec3
	Offset float64
	Radius float64
	Center mgl64.Vec3
}

// Collider gives its GameObject a collision shape.
type Collider struct {
	ecs.Base
	shape Shape
}

// NewSphereCollider returns a sphere of radius r, which must be positive.
func NewSphereCollider(r float64) (*Collider, error) {
	if !(r > 0) || math.IsInf(r, 0) {
		return nil, ecs.InvalidParam("SphereCollider", "radius", r)
	}
	return &Collider{shape: Shape{Kind: ShapeSphere, Radius: r}}, nil
}

// NewPlaneCollider returns a plane with the given normal, which is
// normalized and must be non-zero.
func NewPlaneCollider(normal mgl64.Vec3, offset float64) (*Collider, error) {
	if normal.LenSqr() == 0 || math.IsNaN(normal.LenSqr()) {
		return nil, ecs.InvalidParam("PlaneCollider", "normal", normal)
	}
	return &Collider{shape: Shape{Kind: ShapePlane, Normal: normal.Normalize(), Offset: offset}}, nil
}

func (c *Collider) TypeID() ecs.TypeID {
	return ColliderType.ID()
}

func (c *Collider) Shape() Shape {
	return c.shape
}

func (c *Collider) Kind() ShapeKind {
	return c.shape.Kind
}

// SetRadius resizes a sphere collider.
func (c *Collider) SetRadius(r float64) error {
	if c.shape.Kind != ShapeSphere || !(r > 0) {
		return ecs.InvalidParam("SphereCollider", "radius", r)
	}
	c.shape.Radius = r
	return nil
}

// SetCenter offsets a sphere collider from its owner.
func (c *Collider) SetCenter(v mgl64.Vec3) {
	c.shape.Center = v
}

// GetCollider returns the first collider of g.
func GetCollider(g *ecs.GameObject) (*Collider, bool) {
	return ecs.GetComponent(g, ColliderType)
}

// Body returns the owner's first rigidbody, if any.
func (c *Collider) Body() *Rigidbody {
	b, _ := ecs.GetComponent(c.GameObject(), RigidbodyType)
	return b
}

// WorldSphere returns the sphere in world space.
func (c *Collider) WorldSphere() (center mgl64.Vec3, radius float64, ok bool) {
	t := c.Transform()
	if t == nil || c.shape.Kind != ShapeSphere {
		return mgl64.Vec3{}, 0, false
	}
	return t.WorldPosition().Add(c.shape.Center), c.shape.Radius, true
}

// WorldPlane returns the unit world normal n and constant d of the plane
// dot(n, x) = d.
func (c *Collider) WorldPlane() (n mgl64.Vec3, d float64, ok bool) {
	t := c.Transform()
	if t == nil || c.shape.Kind != ShapePlane {
		return mgl64.Vec3{}, 0, false
	}
	n = t.WorldRotation().Rotate(c.shape.Normal)
	if n.LenSqr() == 0 {
		return mgl64.Vec3{}, 0, false
	}
	n = n.Normalize()
	return n, n.Dot(t.WorldPosition()) + c.shape.Offset, true
}
