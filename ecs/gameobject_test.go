package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type tag struct {
	Base
	label string
}

var tagType = NewComponentType[*tag]("tag")

func (*tag) TypeID() TypeID { return tagType.ID() }

type marker struct {
	Base
}

var markerType = NewComponentType[*marker]("marker")

func (*marker) TypeID() TypeID { return markerType.ID() }

func TestComponentIdentity(t *testing.T) {
	cases := []struct {
		name   string
		add    func(g *GameObject) (Component, error)
		get    func(g *GameObject) (Component, bool)
		remove func(g *GameObject, c Component) bool
	}{
		{
			name: "transform",
			add: func(g *GameObject) (Component, error) {
				return AddComponent(g, TransformType, NewTransform())
			},
			get: func(g *GameObject) (Component, bool) {
				all := GetComponents(g, TransformType)
				if len(all) < 2 {
					return nil, false
				}
				return all[1], true
			},
			remove: func(g *GameObject, c Component) bool {
				return RemoveComponent(g, TransformType, c.(*Transform))
			},
		},
		{
			name: "tag",
			add: func(g *GameObject) (Component, error) {
				return AddComponent(g, tagType, &tag{label: "a"})
			},
			get: func(g *GameObject) (Component, bool) {
				return GetComponent(g, tagType)
			},
			remove: func(g *GameObject, c Component) bool {
				return RemoveComponent(g, tagType, c.(*tag))
			},
		},
		{
			name: "marker",
			add: func(g *GameObject) (Component, error) {
				return AddComponent(g, markerType, &marker{})
			},
			get: func(g *GameObject) (Component, bool) {
				return GetComponent(g, markerType)
			},
			remove: func(g *GameObject, c Component) bool {
				return RemoveComponent(g, markerType, c.(*marker))
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewScene("identity")
			g := s.CreateGameObject("obj")

			added, err := c.add(g)
			require.NoError(t, err)

			got, ok := c.get(g)
			require.True(t, ok)
			assert.Same(t, added, got)
			assert.Same(t, g, added.base().GameObject())

			require.True(t, c.remove(g, added))
			_, ok = c.get(g)
			assert.False(t, ok)
			assert.Nil(t, added.base().GameObject())
			assert.False(t, c.remove(g, added))
		})
	}
}

func TestAddComponentOrderingAndErrors(t *testing.T) {
	s := NewScene("order")
	g := s.CreateGameObject("obj")

	first, err := AddComponent(g, tagType, &tag{label: "first"})
	require.NoError(t, err)
	second, err := AddComponent(g, tagType, &tag{label: "second"})
	require.NoError(t, err)

	got, ok := GetComponent(g, tagType)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, []*tag{first, second}, GetComponents(g, tagType))

	all := g.Components()
	require.Len(t, all, 3)
	assert.Same(t, g.Transform(), all[0])
	assert.Same(t, first, all[1])
	assert.Same(t, second, all[2])

	other := s.CreateGameObject("other")
	_, err = AddComponent(other, tagType, first)
	assert.ErrorIs(t, err, ErrComponentAttached)

	var nilTag *tag
	_, err = AddComponent(g, tagType, nilTag)
	assert.ErrorIs(t, err, ErrNilComponent)

	_, err = AddComponent(g, ComponentType[*tag]{}, &tag{})
	assert.ErrorIs(t, err, ErrInvalidComponentType)

	other.Destroy()
	_, err = AddComponent(other, tagType, &tag{})
	assert.ErrorIs(t, err, ErrGameObjectDestroyed)

	_, ok = GetComponent(other, tagType)
	assert.False(t, ok)
	assert.Empty(t, GetComponents[*tag](nil, tagType))
}

func TestRemoveComponentNotFoundLogsDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := NewScene("remove", WithLogger(zap.New(core)))
	g := s.CreateGameObject("obj")

	assert.False(t, RemoveComponent(g, tagType, &tag{}))
	assert.Equal(t, 1, logs.FilterMessage("remove: component not found").Len())
}

func TestRemovedComponentCanMove(t *testing.T) {
	s := NewScene("move")
	a := s.CreateGameObject("a")
	b := s.CreateGameObject("b")

	c, err := AddComponent(a, tagType, &tag{})
	require.NoError(t, err)
	require.True(t, RemoveComponent(a, tagType, c))

	_, err = AddComponent(b, tagType, c)
	require.NoError(t, err)
	assert.Same(t, b, c.GameObject())
}

func TestGameObjectDestroy(t *testing.T) {
	s := NewScene("destroy")
	g := s.CreateGameObject("doomed")
	c, err := AddComponent(g, tagType, &tag{})
	require.NoError(t, err)
	e := g.Entity()

	g.Destroy()
	assert.False(t, g.Alive())
	assert.Nil(t, g.Scene())
	assert.Nil(t, s.Lookup(e))
	assert.Nil(t, c.GameObject())
	assert.Nil(t, c.Transform())
	assert.Empty(t, g.Components())

	// A recycled id must not resolve through the stale handle.
	fresh := s.CreateGameObject("fresh")
	assert.Equal(t, e.id(), fresh.Entity().id())
	assert.NotEqual(t, e, fresh.Entity())
	assert.Nil(t, s.Lookup(e))
	assert.Same(t, fresh, s.Lookup(fresh.Entity()))

	g.Destroy()
}

func TestConstructionError(t *testing.T) {
	err := InvalidParam("Rigidbody", "mass", -1.0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var ce *ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "mass", ce.Field)
}

func TestAttachDynamic(t *testing.T) {
	s := NewScene("attach")
	g := s.CreateGameObject("obj")
	var c Component = &tag{label: "dyn"}
	require.NoError(t, Attach(g, c))
	got, ok := GetComponent(g, tagType)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.ErrorIs(t, Attach(g, c), ErrComponentAttached)
	assert.ErrorIs(t, Attach(g, nil), ErrNilComponent)
}
