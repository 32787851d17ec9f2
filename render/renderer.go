package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/resources"
)

var (
	MeshRendererType = ecs.NewComponentType[*MeshRenderer]("MeshRenderer")
	LightType        = ecs.NewComponentType[*Light]("Light")
)

// MeshRenderer draws a mesh with a material at its owner's transform.
type MeshRenderer struct {
	ecs.Base

	Mesh     *resources.Handle
	Material *resources.Handle
	Color    color.RGBA
	Hidden   bool
}

// NewMeshRenderer requires a mesh; the material may be nil.
func NewMeshRenderer(mesh, material *resources.Handle) (*MeshRenderer, error) {
	if mesh == nil {
		return nil, ecs.InvalidParam("MeshRenderer", "mesh", nil)
	}
	return &MeshRenderer{
		Mesh:     mesh,
		Material: material,
		Color:    color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}, nil
}

func (r *MeshRenderer) TypeID() ecs.TypeID {
	return MeshRendererType.ID()
}

type LightKind uint8

const (
	LightDirectional LightKind = iota
	LightPoint
)

// Light illuminates every renderer. Directional lights shine along the
// owner's forward axis; point lights radiate from its world position.
type Light struct {
	ecs.Base

	Kind      LightKind
	Color     color.RGBA
	Intensity float64
	Range     float64
}

func NewLight(kind LightKind, c color.RGBA, intensity float64) (*Light, error) {
	if intensity < 0 {
		return nil, ecs.InvalidParam("Light", "intensity", intensity)
	}
	return &Light{Kind: kind, Color: c, Intensity: intensity, Range: 10}, nil
}

func (l *Light) TypeID() ecs.TypeID {
	return LightType.ID()
}

// Direction is the world direction light travels for directional lights.
func (l *Light) Direction() mgl64.Vec3 {
	if t := l.Transform(); t != nil {
		return t.Forward()
	}
	return mgl64.Vec3{0, 0, -1}
}
