package ecs

import (
	"github.com/google/uuid"
)

// GameObject is a named container of components living in exactly one
// Scene. It is created by Scene.CreateGameObject and starts with a
// Transform attached.
type GameObject struct {
	Name string

	entity    Entity
	id        uuid.UUID
	scene     *Scene
	buckets   map[TypeID][]Component
	ordered   []Component
	transform *Transform
	doomed    bool
}

// Entity returns the runtime handle of g.
func (g *GameObject) Entity() Entity {
	if g == nil {
		return 0
	}
	return g.entity
}

// ID returns the persistent identity of g.
func (g *GameObject) ID() uuid.UUID {
	if g == nil {
		return uuid.Nil
	}
	return g.id
}

// Scene returns the owning scene, or nil once g is destroyed.
func (g *GameObject) Scene() *Scene {
	if g == nil {
		return nil
	}
	return g.scene
}

// Alive reports whether g still belongs to a scene and is not queued for
// destruction.
func (g *GameObject) Alive() bool {
	return g != nil && g.scene != nil && !g.doomed
}

// Transform returns the transform created with g. It returns nil if the
// transform has been removed.
func (g *GameObject) Transform() *Transform {
	if g == nil {
		return nil
	}
	return g.transform
}

// Components returns every attached component in attach order.
func (g *GameObject) Components() []Component {
	if g == nil {
		return nil
	}
	out := make([]Component, len(g.ordered))
	copy(out, g.ordered)
	return out
}

// Destroy detaches every component and releases g. Inside a dispatch the
// destruction is applied at the dispatch boundary.
func (g *GameObject) Destroy() {
	if !g.Alive() {
		return
	}
	g.scene.destroy(g)
}

func (g *GameObject) String() string {
	if g == nil {
		return "<nil>"
	}
	return g.Name + "#" + g.entity.String()
}

func (g *GameObject) attach(typeID TypeID, c Component) error {
	if g.scene == nil {
		return ErrGameObjectDestroyed
	}
	b := c.base()
	if b.attached() {
		return ErrComponentAttached
	}
	b.bind(g.scene, g.entity)
	g.buckets[typeID] = append(g.buckets[typeID], c)
	g.ordered = append(g.ordered, c)
	if t, ok := c.(*Transform); ok && g.transform == nil {
		g.transform = t
	}
	g.scene.componentAttached(g, c)
	return nil
}

func (g *GameObject) detach(typeID TypeID, c Component) bool {
	bucket := g.buckets[typeID]
	idx := -1
	for i, existing := range bucket {
		if existing == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	g.buckets[typeID] = append(bucket[:idx:idx], bucket[idx+1:]...)
	if len(g.buckets[typeID]) == 0 {
		delete(g.buckets, typeID)
	}
	for i, existing := range g.ordered {
		if existing == c {
			g.ordered = append(g.ordered[:i:i], g.ordered[i+1:]...)
			break
		}
	}
	if g.transform != nil && Component(g.transform) == c {
		g.transform = nil
	}

	g.scene.componentDetached(g, c)
	if d, ok := c.(interface{ onDetach() }); ok {
		d.onDetach()
	}
	c.base().unbind()
	return true
}

// detachAll removes components in reverse attach order.
func (g *GameObject) detachAll() {
	for i := len(g.ordered) - 1; i >= 0; i-- {
		c := g.ordered[i]
		g.detach(c.TypeID(), c)
	}
}
