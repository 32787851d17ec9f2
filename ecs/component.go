package ecs

import (
	"sync"
	"sync/atomic"
)

// TypeID identifies a concrete component type. It is the component store key.
type TypeID uint32

var (
	nextTypeID atomic.Uint32
	typeNames  sync.Map // TypeID -> string
)

// ComponentType is the typed handle for one concrete component type. Each
// component package declares exactly one per type at init time.
type ComponentType[T Component] struct {
	id   TypeID
	name string
}

// NewComponentType allocates a TypeID for T under a stable serialization name.
func NewComponentType[T Component](name string) ComponentType[T] {
	id := TypeID(nextTypeID.Add(1))
	typeNames.Store(id, name)
	return ComponentType[T]{id: id, name: name}
}

func (t ComponentType[T]) ID() TypeID {
	return t.id
}

func (t ComponentType[T]) Name() string {
	return t.name
}

func (t ComponentType[T]) Valid() bool {
	return t.id != 0
}

// TypeName returns the serialization name registered for id.
func TypeName(id TypeID) string {
	if v, ok := typeNames.Load(id); ok {
		return v.(string)
	}
	return ""
}

// Component is anything attachable to a GameObject. Implementations embed
// Base, which supplies the owner back-reference.
type Component interface {
	TypeID() TypeID
	GameObject() *GameObject
	base() *Base
}

// Base holds the weak back-reference from a component to its GameObject.
type Base struct {
	scene *Scene
	owner Entity
}

func (b *Base) base() *Base {
	return b
}

// GameObject returns the owning object, or nil once the component has been
// detached or the owner destroyed.
func (b *Base) GameObject() *GameObject {
	if b == nil || b.scene == nil {
		return nil
	}
	return b.scene.Lookup(b.owner)
}

// Scene returns the scene of the owning object, or nil when detached.
func (b *Base) Scene() *Scene {
	if b.GameObject() == nil {
		return nil
	}
	return b.scene
}

// Transform returns the owner's transform, or nil.
func (b *Base) Transform() *Transform {
	if g := b.GameObject(); g != nil {
		return g.Transform()
	}
	return nil
}

func (b *Base) attached() bool {
	return b.scene != nil
}

func (b *Base) bind(s *Scene, owner Entity) {
	b.scene = s
	b.owner = owner
}

func (b *Base) unbind() {
	b.scene = nil
	b.owner = 0
}
