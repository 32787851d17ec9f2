package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// AddComponent attaches c to g under typ. Any number of components of the
// same type may be attached; lookups return them in attach order.
func AddComponent[T Component](g *GameObject, typ ComponentType[T], c T) (T, error) {
	var zero T
	if !typ.Valid() {
		return zero, ErrInvalidComponentType
	}
	if isNil(c) {
		return zero, ErrNilComponent
	}
	if !g.Alive() {
		return zero, fmt.Errorf("add %s: %w", typ.Name(), ErrGameObjectDestroyed)
	}
	if err := g.attach(typ.ID(), c); err != nil {
		return zero, fmt.Errorf("add %s to %q: %w", typ.Name(), g.Name, err)
	}
	return c, nil
}

// GetComponent returns the first component of typ on g.
func GetComponent[T Component](g *GameObject, typ ComponentType[T]) (T, bool) {
	var zero T
	if g == nil || !typ.Valid() {
		return zero, false
	}
	bucket := g.buckets[typ.ID()]
	for _, c := range bucket {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// GetComponents returns every component of typ on g in attach order.
func GetComponents[T Component](g *GameObject, typ ComponentType[T]) []T {
	if g == nil || !typ.Valid() {
		return nil
	}
	bucket := g.buckets[typ.ID()]
	out := make([]T, 0, len(bucket))
	for _, c := range bucket {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// HasComponent reports whether g has at least one component of typ.
func HasComponent[T Component](g *GameObject, typ ComponentType[T]) bool {
	_, ok := GetComponent(g, typ)
	return ok
}

// RemoveComponent detaches the exact instance c from g. It returns false if
// c is not attached to g under typ.
func RemoveComponent[T Component](g *GameObject, typ ComponentType[T], c T) bool {
	if g == nil || g.scene == nil || isNil(c) || !typ.Valid() {
		return false
	}
	if !g.detach(typ.ID(), c) {
		g.scene.log.Debug("remove: component not found",
			zap.String("object", g.Name),
			zap.String("type", typ.Name()))
		return false
	}
	return true
}

func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Attach adds c under its own TypeID. Loaders use it when the concrete type
// is only known at runtime.
func Attach(g *GameObject, c Component) error {
	if isNil(c) {
		return ErrNilComponent
	}
	if c.TypeID() == 0 {
		return ErrInvalidComponentType
	}
	if !g.Alive() {
		return ErrGameObjectDestroyed
	}
	if err := g.attach(c.TypeID(), c); err != nil {
		return fmt.Errorf("attach %s to %q: %w", TypeName(c.TypeID()), g.Name, err)
	}
	return nil
}
