package scenefile

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Document is the on-disk form of a scene.
type Document struct {
	Name    string      `yaml:"name"`
	Objects []ObjectDoc `yaml:"objects"`
}

// ObjectDoc describes one GameObject. Prefab names a template in the
// prefabs package; the object's own transform fields override the
// template's and its components follow the template's.
type ObjectDoc struct {
	ID         string         `yaml:"id,omitempty"`
	Name       string         `yaml:"name,omitempty"`
	Prefab     string         `yaml:"prefab,omitempty"`
	Parent     string         `yaml:"parent,omitempty"`
	Transform  TransformDoc   `yaml:"transform,omitempty"`
	Components []ComponentDoc `yaml:"components,omitempty"`
}

// TransformDoc holds local TRS. Rotation is a quaternion as [w, x, y, z];
// Euler is XYZ degrees and is only read when Rotation is absent.
type TransformDoc struct {
	Position *mgl64.Vec3 `yaml:"position,omitempty,flow"`
	Rotation *[4]float64 `yaml:"rotation,omitempty,flow"`
	Euler    *mgl64.Vec3 `yaml:"euler,omitempty,flow"`
	Scale    *mgl64.Vec3 `yaml:"scale,omitempty,flow"`
}

type ComponentDoc struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params,omitempty"`
}

func (t TransformDoc) overlay(o TransformDoc) TransformDoc {
	if o.Position != nil {
		t.Position = o.Position
	}
	if o.Rotation != nil {
		t.Rotation, t.Euler = o.Rotation, nil
	}
	if o.Euler != nil {
		t.Euler, t.Rotation = o.Euler, nil
	}
	if o.Scale != nil {
		t.Scale = o.Scale
	}
	return t
}

func (t TransformDoc) rotation() (mgl64.Quat, bool) {
	switch {
	case t.Rotation != nil:
		r := *t.Rotation
		return mgl64.Quat{W: r[0], V: mgl64.Vec3{r[1], r[2], r[3]}}, true
	case t.Euler != nil:
		e := *t.Euler
		return mgl64.AnglesToQuat(mgl64.DegToRad(e[0]), mgl64.DegToRad(e[1]), mgl64.DegToRad(e[2]), mgl64.XYZ), true
	}
	return mgl64.Quat{}, false
}
