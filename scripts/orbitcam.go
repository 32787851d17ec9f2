package scripts

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/render"
)

var OrbitCamType = ecs.NewComponentType[*OrbitCam]("OrbitCam")

// OrbitCam watches the origin. While the orbit settings are enabled it
// circles at orbit.amount units, lifted by orbit.offset.
type OrbitCam struct {
	ecs.ScriptBase `yaml:"-"`

	Start mgl64.Vec3 `yaml:"start"`

	progress float64
	camera   *render.Camera
}

func NewOrbitCam() *OrbitCam {
	return &OrbitCam{Start: mgl64.Vec3{0, 2.5, 7}}
}

func (o *OrbitCam) TypeID() ecs.TypeID {
	return OrbitCamType.ID()
}

func (o *OrbitCam) Begin(ctx *ecs.Context) error {
	g := o.GameObject()
	if g == nil {
		return ecs.ErrGameObjectDestroyed
	}
	cam, err := addViewpoint(ctx, g)
	if err != nil {
		return err
	}
	o.camera = cam
	g.Transform().SetPosition(o.Start)
	g.Transform().LookAt(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	return nil
}

func (o *OrbitCam) Tick(ctx *ecs.Context, dt float64) error {
	t := o.Transform()
	if t == nil {
		return nil
	}
	syncCamera(o.camera, ctx.Settings.Camera)
	orbit := ctx.Settings.Orbit
	if !orbit.Enabled {
		return nil
	}
	o.progress += dt
	a := o.progress * orbit.Speed
	ring := mgl64.Vec3{math.Sin(a) * orbit.Amount, 0, math.Cos(a) * orbit.Amount}
	t.SetPosition(orbit.Offset.Add(ring))
	t.LookAt(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	return nil
}
