package scenefile

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/levels"
	"github.com/milk9111/engine3d/prefabs"
	"github.com/milk9111/engine3d/resources"
)

type options struct {
	env    Env
	prefab func(name string) ([]byte, error)
}

type Option func(*options)

// WithResources resolves mesh, material and clip names while loading.
func WithResources(p resources.Provider) Option {
	return func(o *options) { o.env.Resources = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.env.Log = l }
}

// WithPrefabs replaces prefabs.Load as the source of prefab templates.
func WithPrefabs(load func(name string) ([]byte, error)) Option {
	return func(o *options) { o.prefab = load }
}

func newOptions(opts []Option) *options {
	o := &options{prefab: prefabs.Load}
	for _, opt := range opts {
		opt(o)
	}
	if o.env.Resources == nil {
		o.env.Resources = resources.Empty{}
	}
	if o.env.Log == nil {
		o.env.Log = zap.NewNop()
	}
	return o
}

// Save writes every live GameObject of scene in creation order. Components
// without a codec are skipped and logged at debug.
func Save(w io.Writer, scene *ecs.Scene) error {
	doc, err := Snapshot(scene)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("scenefile: encode: %w", err)
	}
	return enc.Close()
}

// Snapshot builds the document Save would write.
func Snapshot(scene *ecs.Scene) (*Document, error) {
	doc := &Document{Name: scene.Name}
	for _, g := range scene.GameObjects() {
		obj := ObjectDoc{ID: g.ID().String(), Name: g.Name}
		if t := g.Transform(); t != nil {
			pos, scale := t.Position(), t.Scale()
			q := t.Rotation()
			rot := [4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()}
			obj.Transform = TransformDoc{Position: &pos, Rotation: &rot, Scale: &scale}
			if p := t.Parent(); p != nil && p.GameObject() != nil {
				obj.Parent = p.GameObject().ID().String()
			}
		}
		for _, c := range g.Components() {
			if _, ok := c.(*ecs.Transform); ok {
				continue
			}
			name := ecs.TypeName(c.TypeID())
			codec, ok := lookup(name)
			if !ok {
				scene.Logger().Debug("save: component not serializable",
					zap.String("object", g.Name),
					zap.String("type", name))
				continue
			}
			v, err := codec.Encode(c)
			if err != nil {
				return nil, fmt.Errorf("scenefile: save %q %s: %w", g.Name, name, err)
			}
			params, err := prefabs.DecodeComponentSpec[map[string]any](v)
			if err != nil {
				return nil, fmt.Errorf("scenefile: save %q %s: %w", g.Name, name, err)
			}
			obj.Components = append(obj.Components, ComponentDoc{Type: name, Params: params})
		}
		doc.Objects = append(doc.Objects, obj)
	}
	return doc, nil
}

// Load decodes a document from r and instantiates it into scene.
func Load(r io.Reader, scene *ecs.Scene, opts ...Option) error {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return fmt.Errorf("scenefile: decode: %w", err)
	}
	_, err := Build(&doc, scene, opts...)
	return err
}

// LoadFile loads a scene document from disk.
func LoadFile(path string, scene *ecs.Scene, opts ...Option) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scenefile: %w", err)
	}
	defer f.Close()
	return Load(f, scene, opts...)
}

// LoadLevel loads a scene document from the levels package by name.
func LoadLevel(name string, scene *ecs.Scene, opts ...Option) error {
	data, err := levels.Load(name)
	if err != nil {
		return fmt.Errorf("scenefile: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("scenefile: decode %s: %w", name, err)
	}
	_, err = Build(&doc, scene, opts...)
	return err
}

// Build instantiates doc into scene and returns the created objects in
// document order. If any object fails, the objects created so far are
// destroyed and the error is returned.
func Build(doc *Document, scene *ecs.Scene, opts ...Option) ([]*ecs.GameObject, error) {
	if scene == nil || scene.Closed() {
		return nil, ecs.ErrSceneClosed
	}
	o := newOptions(opts)

	objs := make([]ObjectDoc, len(doc.Objects))
	for i, obj := range doc.Objects {
		full, err := o.expand(obj)
		if err != nil {
			return nil, fmt.Errorf("scenefile: object %d: %w", i, err)
		}
		objs[i] = full
	}

	created := make([]*ecs.GameObject, 0, len(objs))
	fail := func(err error) ([]*ecs.GameObject, error) {
		for _, g := range created {
			g.Destroy()
		}
		return nil, err
	}

	byKey := map[string]*ecs.GameObject{}
	for i, obj := range objs {
		g, err := o.create(scene, obj)
		if err != nil {
			return fail(fmt.Errorf("scenefile: object %d %q: %w", i, obj.Name, err))
		}
		created = append(created, g)
		byKey[g.ID().String()] = g
		if _, dup := byKey[g.Name]; !dup {
			byKey[g.Name] = g
		}
	}

	for i, obj := range objs {
		if obj.Parent == "" {
			continue
		}
		p, ok := byKey[obj.Parent]
		if !ok {
			if id, err := uuid.Parse(obj.Parent); err == nil {
				p = scene.FindByID(id)
			}
		}
		if p == nil {
			return fail(fmt.Errorf("scenefile: object %q: parent %q not found", obj.Name, obj.Parent))
		}
		if err := created[i].Transform().SetParent(p.Transform()); err != nil {
			return fail(fmt.Errorf("scenefile: object %q: parent: %w", obj.Name, err))
		}
	}
	return created, nil
}

// Instantiate adds one prefab to scene.
func Instantiate(scene *ecs.Scene, prefab string, opts ...Option) (*ecs.GameObject, error) {
	objs, err := Build(&Document{Objects: []ObjectDoc{{Prefab: prefab}}}, scene, opts...)
	if err != nil {
		return nil, err
	}
	return objs[0], nil
}

func (o *options) expand(obj ObjectDoc) (ObjectDoc, error) {
	if obj.Prefab == "" {
		return obj, nil
	}
	data, err := o.prefab(obj.Prefab)
	if err != nil {
		return obj, fmt.Errorf("prefab %q: %w", obj.Prefab, err)
	}
	var tmpl ObjectDoc
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return obj, fmt.Errorf("prefab %q: %w", obj.Prefab, err)
	}
	if tmpl.Prefab != "" {
		return obj, fmt.Errorf("prefab %q: nested prefabs are not supported", obj.Prefab)
	}
	out := obj
	if out.Name == "" {
		out.Name = tmpl.Name
	}
	out.Transform = tmpl.Transform.overlay(obj.Transform)
	out.Components = append(append([]ComponentDoc{}, tmpl.Components...), obj.Components...)
	return out, nil
}

func (o *options) create(scene *ecs.Scene, obj ObjectDoc) (*ecs.GameObject, error) {
	id := uuid.New()
	if obj.ID != "" {
		parsed, err := uuid.Parse(obj.ID)
		if err != nil {
			return nil, fmt.Errorf("id: %w", err)
		}
		id = parsed
	}
	if scene.FindByID(id) != nil {
		return nil, fmt.Errorf("id %s already in scene", id)
	}
	name := obj.Name
	if name == "" {
		name = "GameObject"
	}

	built := make([]ecs.Component, 0, len(obj.Components))
	for i, cd := range obj.Components {
		codec, ok := lookup(cd.Type)
		if !ok {
			return nil, fmt.Errorf("component %d %q: %w", i, cd.Type, ErrUnknownComponent)
		}
		c, err := codec.Decode(&o.env, cd.Params)
		if err != nil {
			return nil, fmt.Errorf("component %d %s: %w", i, cd.Type, err)
		}
		built = append(built, c)
	}

	g := scene.CreateGameObjectWithID(name, id)
	if g == nil {
		return nil, ecs.ErrSceneClosed
	}
	t := g.Transform()
	if obj.Transform.Position != nil {
		t.SetPosition(*obj.Transform.Position)
	}
	if q, ok := obj.Transform.rotation(); ok {
		t.SetRotation(q)
	}
	if obj.Transform.Scale != nil {
		t.SetScale(*obj.Transform.Scale)
	}
	for i, c := range built {
		if err := ecs.Attach(g, c); err != nil {
			g.Destroy()
			return nil, fmt.Errorf("component %d %s: %w", i, obj.Components[i].Type, err)
		}
	}
	return g, nil
}
