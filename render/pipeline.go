package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/ecs"
)

// LightInfo is a light resolved to world space for one frame.
type LightInfo struct {
	Light     *Light
	Position  mgl64.Vec3
	Direction mgl64.Vec3
}

// Frame describes one camera's pass.
type Frame struct {
	Camera     *Camera
	Eye        mgl64.Vec3
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Width      int
	Height     int
	Lights     []LightInfo
}

// Project maps a world point to pixel coordinates. ok is false for points
// behind the camera or outside the clip volume depth.
func (f Frame) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := f.Projection.Mul4(f.View).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X() + 1) / 2 * float64(f.Width)
	y = (1 - ndc.Y()) / 2 * float64(f.Height)
	return x, y, ndc.Z(), true
}

// Item is a renderer resolved for one frame.
type Item struct {
	Renderer *MeshRenderer
	Model    mgl64.Mat4
}

// Backend draws resolved items. Begin and End bracket each camera pass.
type Backend interface {
	Begin(f Frame)
	Draw(f Frame, it Item)
	End(f Frame)
}

// Pipeline renders every renderer with every light once per camera, in
// attach order. It is installed as the scene's Drawer and discovers
// components as a Registry.
type Pipeline struct {
	backend   Backend
	cameras   []*Camera
	renderers []*MeshRenderer
	lights    []*Light
}

// NewPipeline installs a pipeline drawing to backend on scene.
func NewPipeline(scene *ecs.Scene, backend Backend) *Pipeline {
	p := &Pipeline{backend: backend}
	scene.AddRegistry(p)
	scene.SetDrawer(p)
	return p
}

func (p *Pipeline) SetBackend(b Backend) {
	p.backend = b
}

func (p *Pipeline) Cameras() []*Camera {
	return append([]*Camera(nil), p.cameras...)
}

func (p *Pipeline) Renderers() []*MeshRenderer {
	return append([]*MeshRenderer(nil), p.renderers...)
}

func (p *Pipeline) Lights() []*Light {
	return append([]*Light(nil), p.lights...)
}

func (p *Pipeline) ComponentAttached(c ecs.Component) {
	switch v := c.(type) {
	case *Camera:
		p.cameras = append(p.cameras, v)
	case *MeshRenderer:
		p.renderers = append(p.renderers, v)
	case *Light:
		p.lights = append(p.lights, v)
	}
}

func (p *Pipeline) ComponentDetached(c ecs.Component) {
	switch v := c.(type) {
	case *Camera:
		p.cameras = remove(p.cameras, v)
	case *MeshRenderer:
		p.renderers = remove(p.renderers, v)
	case *Light:
		p.lights = remove(p.lights, v)
	}
}

func remove[T comparable](list []T, v T) []T {
	for i, existing := range list {
		if existing == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Draw runs one pass per camera.
func (p *Pipeline) Draw(ctx *ecs.Context) {
	if p == nil || p.backend == nil {
		return
	}
	w, h := 0, 0
	if ctx != nil && ctx.Screen != nil {
		w, h = ctx.Screen.Size()
	}

	lights := make([]LightInfo, 0, len(p.lights))
	for _, l := range p.lights {
		info := LightInfo{Light: l, Direction: l.Direction()}
		if t := l.Transform(); t != nil {
			info.Position = t.WorldPosition()
		}
		lights = append(lights, info)
	}

	for _, cam := range p.cameras {
		t := cam.Transform()
		if t == nil {
			continue
		}
		f := Frame{
			Camera:     cam,
			Eye:        t.WorldPosition(),
			View:       cam.View(),
			Projection: cam.Projection(w, h),
			Width:      w,
			Height:     h,
			Lights:     lights,
		}
		p.backend.Begin(f)
		for _, r := range p.renderers {
			rt := r.Transform()
			if r.Hidden || rt == nil {
				continue
			}
			p.backend.Draw(f, Item{Renderer: r, Model: rt.ToWorld()})
		}
		p.backend.End(f)
	}
}
