package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
)

var CameraType = ecs.NewComponentType[*Camera]("Camera")

// Camera renders the scene from its owner's transform with a perspective
// projection. FOV is the vertical field of view in degrees.
type Camera struct {
	ecs.Base

	FOV  float64
	Near float64
	Far  float64
}

// NewCamera validates the projection parameters.
func NewCamera(fov, near, far float64) (*Camera, error) {
	switch {
	case fov <= 0 || fov >= 180:
		return nil, ecs.InvalidParam("Camera", "fov", fov)
	case near <= 0:
		return nil, ecs.InvalidParam("Camera", "near", near)
	case far <= near:
		return nil, ecs.InvalidParam("Camera", "far", far)
	}
	return &Camera{FOV: fov, Near: near, Far: far}, nil
}

// CameraFromSettings builds a camera from the camera settings section.
func CameraFromSettings(s config.Camera) (*Camera, error) {
	return NewCamera(s.FOV, s.Near, s.Far)
}

func (c *Camera) TypeID() ecs.TypeID {
	return CameraType.ID()
}

// View is the inverse of the owner's world matrix.
func (c *Camera) View() mgl64.Mat4 {
	t := c.Transform()
	if t == nil {
		return mgl64.Ident4()
	}
	return t.ToWorld().Inv()
}

// Projection returns the perspective matrix for a w by h target.
func (c *Camera) Projection(w, h int) mgl64.Mat4 {
	aspect := 1.0
	if w > 0 && h > 0 {
		aspect = float64(w) / float64(h)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}
