package scripts

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/physics"
	"github.com/milk9111/engine3d/render"
)

var FloorType = ecs.NewComponentType[*Floor]("Floor")

// Floor is a static ground plane facing +Y.
type Floor struct {
	ecs.ScriptBase `yaml:"-"`

	Size     mgl64.Vec3 `yaml:"size"`
	Mesh     string     `yaml:"mesh"`
	Material string     `yaml:"material"`
}

func NewFloor() *Floor {
	return &Floor{
		Size:     mgl64.Vec3{50, 1, 50},
		Mesh:     "plane",
		Material: "floor",
	}
}

func (f *Floor) TypeID() ecs.TypeID {
	return FloorType.ID()
}

func (f *Floor) Begin(ctx *ecs.Context) error {
	g := f.GameObject()
	if g == nil {
		return ecs.ErrGameObjectDestroyed
	}
	g.Transform().SetScale(f.Size)
	return addGround(ctx, g, f.Mesh, f.Material)
}

// addGround gives g a renderer when the mesh resolves, an upward plane
// collider and a kinematic body that ignores gravity. Components already
// present, e.g. restored from a saved scene, are kept.
func addGround(ctx *ecs.Context, g *ecs.GameObject, mesh, material string) error {
	if !ecs.HasComponent(g, render.MeshRendererType) {
		if m, ok := ctx.Resources.TryGetMesh(mesh); ok {
			mat, _ := ctx.Resources.TryGetMaterial(material)
			r, err := render.NewMeshRenderer(m, mat)
			if err != nil {
				return err
			}
			if _, err := ecs.AddComponent(g, render.MeshRendererType, r); err != nil {
				return err
			}
		} else {
			ctx.Log.Debug("ground: mesh not found", zap.String("mesh", mesh))
		}
	}

	if !ecs.HasComponent(g, physics.ColliderType) {
		col, err := physics.NewPlaneCollider(mgl64.Vec3{0, 1, 0}, 0)
		if err != nil {
			return err
		}
		if _, err := ecs.AddComponent(g, physics.ColliderType, col); err != nil {
			return err
		}
	}
	if ecs.HasComponent(g, physics.RigidbodyType) {
		return nil
	}
	params := physics.DefaultRigidbodyParams()
	params.Kinematic = true
	params.UseGravity = false
	body, err := physics.NewRigidbody(params)
	if err != nil {
		return err
	}
	_, err = ecs.AddComponent(g, physics.RigidbodyType, body)
	return err
}
