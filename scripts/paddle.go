package scripts

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/common"
	"github.com/milk9111/engine3d/ecs"
)

var PaddleType = ecs.NewComponentType[*Paddle]("Paddle")

// Paddle is a ground plane tilted about Z by the left and right keys. With
// no key held it eases back to level.
type Paddle struct {
	ecs.ScriptBase `yaml:"-"`

	Size     mgl64.Vec3 `yaml:"size"`
	Mesh     string     `yaml:"mesh"`
	Material string     `yaml:"material"`
	// MaxTilt and Speed are in degrees and degrees per second.
	MaxTilt float64 `yaml:"max_tilt"`
	Speed   float64 `yaml:"speed"`
	Return  float64 `yaml:"return"`

	tilt float64
}

func NewPaddle() *Paddle {
	return &Paddle{
		Size:     mgl64.Vec3{10, 1, 10},
		Mesh:     "plane",
		Material: "floor",
		MaxTilt:  25,
		Speed:    60,
		Return:   2,
	}
}

func (p *Paddle) TypeID() ecs.TypeID {
	return PaddleType.ID()
}

// Tilt is the current angle in degrees; positive rolls toward -X.
func (p *Paddle) Tilt() float64 {
	return p.tilt
}

func (p *Paddle) Begin(ctx *ecs.Context) error {
	g := p.GameObject()
	if g == nil {
		return ecs.ErrGameObjectDestroyed
	}
	g.Transform().SetScale(p.Size)
	return addGround(ctx, g, p.Mesh, p.Material)
}

func (p *Paddle) Tick(ctx *ecs.Context, dt float64) error {
	dir := 0.0
	if ctx.Input.KeyHeld(ecs.KeyLeft) {
		dir++
	}
	if ctx.Input.KeyHeld(ecs.KeyRight) {
		dir--
	}
	if dir == 0 {
		p.tilt = common.Lerp(p.tilt, 0, common.Clamp(dt*p.Return, 0, 1))
	} else {
		p.tilt += dir * p.Speed * dt
	}
	p.tilt = common.Clamp(p.tilt, -p.MaxTilt, p.MaxTilt)
	p.Transform().SetRotation(mgl64.QuatRotate(mgl64.DegToRad(p.tilt), mgl64.Vec3{0, 0, 1}))
	return nil
}
