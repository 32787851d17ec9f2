package scenefile

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/audio"
	"github.com/milk9111/engine3d/config"
	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/physics"
	"github.com/milk9111/engine3d/prefabs"
	"github.com/milk9111/engine3d/render"
	"github.com/milk9111/engine3d/resources"
	"github.com/milk9111/engine3d/scripts"
)

var ErrUnknownComponent = errors.New("scenefile: unknown component type")

// Env is what decoders may consult while building components.
type Env struct {
	Resources resources.Provider
	Log       *zap.Logger
}

// Codec converts one component type to and from its params map.
type Codec struct {
	Encode func(c ecs.Component) (any, error)
	Decode func(env *Env, params map[string]any) (ecs.Component, error)
}

var (
	codecMu sync.RWMutex
	codecs  = map[string]Codec{}
)

// Register installs c for components whose type name is typeName,
// replacing any earlier codec.
func Register(typeName string, c Codec) {
	codecMu.Lock()
	codecs[typeName] = c
	codecMu.Unlock()
}

// lookup falls back to the script registry so any registered script can be
// saved and loaded by its exported fields.
func lookup(typeName string) (Codec, bool) {
	codecMu.RLock()
	c, ok := codecs[typeName]
	codecMu.RUnlock()
	if ok {
		return c, true
	}
	if scripts.Registered(typeName) {
		return scriptCodec(typeName), true
	}
	return Codec{}, false
}

func scriptCodec(name string) Codec {
	return Codec{
		Encode: func(c ecs.Component) (any, error) {
			return c, nil
		},
		Decode: func(_ *Env, params map[string]any) (ecs.Component, error) {
			s, err := scripts.New(name)
			if err != nil {
				return nil, err
			}
			if err := prefabs.DecodeInto(params, s); err != nil {
				return nil, err
			}
			return s, nil
		},
	}
}

func register[T ecs.Component, P any](typ ecs.ComponentType[T], defaults func() P, enc func(T) P, dec func(*Env, P) (T, error)) {
	Register(typ.Name(), Codec{
		Encode: func(c ecs.Component) (any, error) {
			v, ok := c.(T)
			if !ok {
				return nil, fmt.Errorf("scenefile: %s codec got %T", typ.Name(), c)
			}
			return enc(v), nil
		},
		Decode: func(env *Env, params map[string]any) (ecs.Component, error) {
			p := defaults()
			if err := prefabs.DecodeInto(params, &p); err != nil {
				return nil, err
			}
			v, err := dec(env, p)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	})
}

type rigidbodyDoc struct {
	physics.RigidbodyParams `yaml:",inline"`
	Velocity                mgl64.Vec3 `yaml:"velocity,flow"`
	AngularVelocity         mgl64.Vec3 `yaml:"angular_velocity,flow"`
}

type colliderDoc struct {
	Shape  string     `yaml:"shape"`
	Radius float64    `yaml:"radius,omitempty"`
	Center mgl64.Vec3 `yaml:"center,flow"`
	Normal mgl64.Vec3 `yaml:"normal,flow"`
	Offset float64    `yaml:"offset,omitempty"`
}

type cameraDoc struct {
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

type rendererDoc struct {
	Mesh     string            `yaml:"mesh"`
	Material string            `yaml:"material,omitempty"`
	Color    prefabs.YAMLColor `yaml:"color"`
	Hidden   bool              `yaml:"hidden,omitempty"`
}

type lightDoc struct {
	Kind      string            `yaml:"kind"`
	Color     prefabs.YAMLColor `yaml:"color"`
	Intensity float64           `yaml:"intensity"`
	Range     float64           `yaml:"range"`
}

type sourceDoc struct {
	Clip    string  `yaml:"clip"`
	Gain    float64 `yaml:"gain"`
	Pitch   float64 `yaml:"pitch"`
	Spatial bool    `yaml:"spatial"`
	Loop    bool    `yaml:"loop,omitempty"`
}

type listenerDoc struct{}

var lightKinds = map[string]render.LightKind{
	"directional": render.LightDirectional,
	"point":       render.LightPoint,
}

func lightKindName(k render.LightKind) string {
	for name, v := range lightKinds {
		if v == k {
			return name
		}
	}
	return "directional"
}

func init() {
	register(physics.RigidbodyType,
		func() rigidbodyDoc { return rigidbodyDoc{RigidbodyParams: physics.DefaultRigidbodyParams()} },
		func(b *physics.Rigidbody) rigidbodyDoc {
			return rigidbodyDoc{RigidbodyParams: b.Params(), Velocity: b.Velocity(), AngularVelocity: b.AngularVelocity()}
		},
		func(_ *Env, d rigidbodyDoc) (*physics.Rigidbody, error) {
			b, err := physics.NewRigidbody(d.RigidbodyParams)
			if err != nil {
				return nil, err
			}
			b.SetVelocity(d.Velocity)
			b.SetAngularVelocity(d.AngularVelocity)
			return b, nil
		})

	register(physics.ColliderType,
		func() colliderDoc { return colliderDoc{Shape: "sphere", Radius: 1, Normal: mgl64.Vec3{0, 1, 0}} },
		func(c *physics.Collider) colliderDoc {
			s := c.Shape()
			return colliderDoc{Shape: s.Kind.String(), Radius: s.Radius, Center: s.Center, Normal: s.Normal, Offset: s.Offset}
		},
		func(_ *Env, d colliderDoc) (*physics.Collider, error) {
			switch d.Shape {
			case physics.ShapeSphere.String():
				c, err := physics.NewSphereCollider(d.Radius)
				if err != nil {
					return nil, err
				}
				c.SetCenter(d.Center)
				return c, nil
			case physics.ShapePlane.String():
				return physics.NewPlaneCollider(d.Normal, d.Offset)
			}
			return nil, ecs.InvalidParam("Collider", "shape", d.Shape)
		})

	register(render.CameraType,
		func() cameraDoc {
			c := config.Default().Camera
			return cameraDoc{FOV: c.FOV, Near: c.Near, Far: c.Far}
		},
		func(c *render.Camera) cameraDoc { return cameraDoc{FOV: c.FOV, Near: c.Near, Far: c.Far} },
		func(_ *Env, d cameraDoc) (*render.Camera, error) { return render.NewCamera(d.FOV, d.Near, d.Far) })

	register(render.MeshRendererType,
		func() rendererDoc { return rendererDoc{} },
		func(r *render.MeshRenderer) rendererDoc {
			d := rendererDoc{Color: prefabs.YAMLColor{Color: r.Color}, Hidden: r.Hidden}
			if r.Mesh != nil {
				d.Mesh = r.Mesh.Name
			}
			if r.Material != nil {
				d.Material = r.Material.Name
			}
			return d
		},
		func(env *Env, d rendererDoc) (*render.MeshRenderer, error) {
			r, err := render.NewMeshRenderer(env.handle(resources.KindMesh, d.Mesh), env.handle(resources.KindMaterial, d.Material))
			if err != nil {
				return nil, err
			}
			r.Color = d.Color.RGBA8()
			r.Hidden = d.Hidden
			return r, nil
		})

	register(render.LightType,
		func() lightDoc { return lightDoc{Kind: "directional", Intensity: 1, Range: 10} },
		func(l *render.Light) lightDoc {
			return lightDoc{Kind: lightKindName(l.Kind), Color: prefabs.YAMLColor{Color: l.Color}, Intensity: l.Intensity, Range: l.Range}
		},
		func(_ *Env, d lightDoc) (*render.Light, error) {
			kind, ok := lightKinds[d.Kind]
			if !ok {
				return nil, ecs.InvalidParam("Light", "kind", d.Kind)
			}
			l, err := render.NewLight(kind, d.Color.RGBA8(), d.Intensity)
			if err != nil {
				return nil, err
			}
			l.Range = d.Range
			return l, nil
		})

	register(audio.SourceType,
		func() sourceDoc { return sourceDoc{Gain: 1, Pitch: 1, Spatial: true} },
		func(s *audio.Source) sourceDoc {
			return sourceDoc{Clip: s.Clip, Gain: s.Gain, Pitch: s.Pitch, Spatial: s.Spatial, Loop: s.Loop}
		},
		func(_ *Env, d sourceDoc) (*audio.Source, error) {
			s, err := audio.NewSource(d.Clip)
			if err != nil {
				return nil, err
			}
			s.Gain, s.Pitch, s.Spatial, s.Loop = d.Gain, d.Pitch, d.Spatial, d.Loop
			return s, nil
		})

	register(audio.ListenerType,
		func() listenerDoc { return listenerDoc{} },
		func(*audio.Listener) listenerDoc { return listenerDoc{} },
		func(*Env, listenerDoc) (*audio.Listener, error) { return audio.NewListener(), nil })
}

// handle resolves name through the provider. Unknown names still get a
// placeholder handle so a scene saved without its assets loads back.
func (e *Env) handle(kind resources.Kind, name string) *resources.Handle {
	if name == "" {
		return nil
	}
	var (
		h  *resources.Handle
		ok bool
	)
	switch kind {
	case resources.KindMesh:
		h, ok = e.Resources.TryGetMesh(name)
	case resources.KindMaterial:
		h, ok = e.Resources.TryGetMaterial(name)
	case resources.KindShader:
		h, ok = e.Resources.TryGetShader(name)
	case resources.KindTexture:
		h, ok = e.Resources.TryGetTexture(name)
	case resources.KindAudio:
		h, ok = e.Resources.TryGetAudio(name)
	}
	if ok {
		return h
	}
	e.Log.Warn("scenefile: unresolved resource",
		zap.String("kind", kind.String()),
		zap.String("name", name))
	return resources.NewHandle(name, kind, nil)
}
