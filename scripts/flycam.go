package scripts

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/common"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/render"
)

var FlyCamType = ecs.NewComponentType[*FlyCam]("FlyCam")

const maxPitch = 89.999

// FlyCam is a free-flying camera: mouse to look, WASD to move, shift and
// control to rise and sink. Holding P slows time toward a stop.
//
// Movement and look use the unscaled delta so the camera stays responsive
// while time is slowed.
type FlyCam struct {
	ecs.ScriptBase `yaml:"-"`

	MoveSpeed float64 `yaml:"move_speed"`
	LookSpeed float64 `yaml:"look_speed"`
	Smoothing float64 `yaml:"smoothing"`
	TimeEase  float64 `yaml:"time_ease"`
	Light     bool    `yaml:"light"`

	pitch, yaw float64
	motion     mgl64.Vec3
	camera     *render.Camera
}

func NewFlyCam() *FlyCam {
	return &FlyCam{
		MoveSpeed: 5,
		LookSpeed: 30,
		Smoothing: 5,
		TimeEase:  3,
		Light:     true,
	}
}

func (f *FlyCam) TypeID() ecs.TypeID {
	return FlyCamType.ID()
}

// Angles returns pitch and yaw in degrees.
func (f *FlyCam) Angles() (pitch, yaw float64) {
	return f.pitch, f.yaw
}

func (f *FlyCam) Begin(ctx *ecs.Context) error {
	g := f.GameObject()
	if g == nil {
		return ecs.ErrGameObjectDestroyed
	}
	cam, err := addViewpoint(ctx, g)
	if err != nil {
		return err
	}
	f.camera = cam

	fwd := g.Transform().Forward()
	f.pitch = mgl64.RadToDeg(math.Asin(common.Clamp(fwd.Y(), -1, 1)))
	f.yaw = mgl64.RadToDeg(math.Atan2(fwd.Z(), fwd.X()))

	if !f.Light || sceneHasLight(g.Scene()) {
		return nil
	}
	sun := g.Scene().CreateGameObject("Light")
	if sun == nil {
		return ecs.ErrSceneClosed
	}
	sun.Transform().SetRotation(ecs.LookRotation(mgl64.Vec3{-0.3, -1, -0.5}, mgl64.Vec3{0, 0, -1}))
	l, err := render.NewLight(render.LightDirectional, color.RGBA{R: 0xff, G: 0xf4, B: 0xe0, A: 0xff}, 1)
	if err != nil {
		return err
	}
	_, err = ecs.AddComponent(sun, render.LightType, l)
	return err
}

func (f *FlyCam) Tick(ctx *ecs.Context, dt float64) error {
	t := f.Transform()
	if t == nil {
		return nil
	}
	syncCamera(f.camera, ctx.Settings.Camera)
	udt := ctx.Time.UnscaledDelta()
	if udt == 0 {
		udt = dt
	}

	dx, dy := ctx.Input.MouseDelta()
	f.yaw = common.WrapAngle(f.yaw + dx*f.LookSpeed*udt)
	f.pitch = common.Clamp(f.pitch-dy*f.LookSpeed*udt, -maxPitch, maxPitch)
	p, y := mgl64.DegToRad(f.pitch), mgl64.DegToRad(f.yaw)
	dir := mgl64.Vec3{math.Cos(y) * math.Cos(p), math.Sin(p), math.Sin(y) * math.Cos(p)}
	t.SetRotation(ecs.LookRotation(dir, mgl64.Vec3{0, 1, 0}))

	in := ctx.Input
	want := t.Forward().Mul(axis(in, ecs.KeyW, ecs.KeyS)).
		Add(t.Right().Mul(axis(in, ecs.KeyD, ecs.KeyA))).
		Add(mgl64.Vec3{0, 1, 0}.Mul(axis(in, ecs.KeyShift, ecs.KeyControl)))
	if want.LenSqr() > 0 {
		want = want.Normalize()
	}
	want = want.Mul(f.MoveSpeed)
	f.motion = lerpVec(f.motion, want, common.Clamp(udt*f.Smoothing, 0, 1))
	t.Translate(f.motion.Mul(udt))

	target := 1.0
	if in.KeyHeld(ecs.KeyP) {
		target = 0
	}
	ctx.Time.Scale = common.Lerp(ctx.Time.Scale, target, common.Clamp(udt*f.TimeEase, 0, 1))
	return nil
}

func sceneHasLight(s *ecs.Scene) bool {
	for _, g := range s.GameObjects() {
		if ecs.HasComponent(g, render.LightType) {
			return true
		}
	}
	return false
}

func axis(in ecs.Input, pos, neg ecs.Key) float64 {
	v := 0.0
	if in.KeyHeld(pos) {
		v++
	}
	if in.KeyHeld(neg) {
		v--
	}
	return v
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
