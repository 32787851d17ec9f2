package scripts

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/audio"
	"github.com/milk9111/engine3d/common"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/physics"
	"github.com/milk9111/engine3d/render"
)

var BallType = ecs.NewComponentType[*Ball]("Ball")

// Ball turns its owner into a bouncing sphere sized by the transform scale.
// It respawns at its starting point when it drops below ResetBelow and plays
// Clip on hard impacts.
type Ball struct {
	ecs.ScriptBase `yaml:"-"`

	Mesh       string  `yaml:"mesh"`
	Material   string  `yaml:"material"`
	Clip       string  `yaml:"clip"`
	Drag       float64 `yaml:"drag"`
	ResetBelow float64 `yaml:"reset_below"`
	// HitFactor scales mass into the impulse needed to play Clip.
	HitFactor float64 `yaml:"hit_factor"`

	start  mgl64.Vec3
	radius float64
	body   *physics.Rigidbody
	source *audio.Source
}

func NewBall() *Ball {
	return &Ball{
		Mesh:       "sphere",
		Material:   "sphere",
		Clip:       "Hollow_Bass",
		Drag:       0.005,
		ResetBelow: -100,
		HitFactor:  3,
	}
}

func (b *Ball) TypeID() ecs.TypeID {
	return BallType.ID()
}

func (b *Ball) Radius() float64 {
	return b.radius
}

func (b *Ball) Body() *physics.Rigidbody {
	return b.body
}

func (b *Ball) Source() *audio.Source {
	return b.source
}

func (b *Ball) Begin(ctx *ecs.Context) error {
	g := b.GameObject()
	t := b.Transform()
	if g == nil || t == nil {
		return ecs.ErrGameObjectDestroyed
	}
	b.start = t.Position()
	s := t.Scale()
	b.radius = math.Max(s.X(), math.Max(s.Y(), s.Z()))

	// Components restored from a saved scene are reused.
	if !ecs.HasComponent(g, render.MeshRendererType) {
		if mesh, ok := ctx.Resources.TryGetMesh(b.Mesh); ok {
			mat, _ := ctx.Resources.TryGetMaterial(b.Material)
			r, err := render.NewMeshRenderer(mesh, mat)
			if err != nil {
				return err
			}
			if _, err := ecs.AddComponent(g, render.MeshRendererType, r); err != nil {
				return err
			}
		} else {
			ctx.Log.Debug("ball: mesh not found", zap.String("mesh", b.Mesh))
		}
	}

	if !ecs.HasComponent(g, physics.ColliderType) {
		col, err := physics.NewSphereCollider(b.radius)
		if err != nil {
			return err
		}
		if _, err := ecs.AddComponent(g, physics.ColliderType, col); err != nil {
			return err
		}
	}

	var ok bool
	if b.body, ok = physics.GetRigidbody(g); !ok {
		params := physics.DefaultRigidbodyParams()
		params.Mass = 4 * math.Pi * b.radius * b.radius
		params.Drag = b.Drag
		body, err := physics.NewRigidbody(params)
		if err != nil {
			return fmt.Errorf("ball: %w", err)
		}
		if b.body, err = ecs.AddComponent(g, physics.RigidbodyType, body); err != nil {
			return err
		}
	}

	if b.Clip == "" {
		return nil
	}
	if b.source, ok = ecs.GetComponent(g, audio.SourceType); ok {
		return nil
	}
	if _, ok := ctx.Resources.TryGetAudio(b.Clip); !ok {
		ctx.Log.Debug("ball: clip not found", zap.String("clip", b.Clip))
		return nil
	}
	src, err := audio.NewSource(b.Clip)
	if err != nil {
		return err
	}
	b.source, err = ecs.AddComponent(g, audio.SourceType, src)
	return err
}

func (b *Ball) FixedTick(ctx *ecs.Context, dt float64) error {
	t := b.Transform()
	if t == nil || t.Position().Y() > b.ResetBelow {
		return nil
	}
	t.SetPosition(b.start)
	if b.body != nil {
		b.body.SetVelocity(mgl64.Vec3{})
		b.body.SetAngularVelocity(mgl64.Vec3{})
	}
	ctx.Log.Debug("ball: respawned", zap.String("object", b.GameObject().Name))
	return nil
}

func (b *Ball) OnCollision(ctx *ecs.Context, c ecs.Collision) error {
	if b.source == nil || b.body == nil {
		return nil
	}
	if c.Impulse < b.body.Mass()*b.HitFactor {
		return nil
	}
	pitch := common.Clamp(2/(b.radius*c.Impulse*0.4), 0.7, 2)
	gain := common.Clamp(2/(pitch*5), 0.1, 2)
	b.source.Stop()
	b.source.Pitch = pitch
	b.source.Gain = gain
	return b.source.Play(ctx)
}
