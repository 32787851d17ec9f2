package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument      = errors.New("ecs: invalid argument")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentType = errors.New("ecs: invalid component type")
	ErrComponentAttached    = errors.New("ecs: component already attached")
	ErrGameObjectDestroyed  = errors.New("ecs: game object destroyed")
	ErrCyclicParent         = errors.New("ecs: parent would create a cycle")
	ErrSceneClosed          = errors.New("ecs: scene closed")
)

// ConstructionError reports a component built with an invalid parameter.
// It unwraps to ErrInvalidArgument.
type ConstructionError struct {
	Component string
	Field     string
	Value     any
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("ecs: construct %s: invalid %s %v", e.Component, e.Field, e.Value)
}

func (e *ConstructionError) Unwrap() error {
	return ErrInvalidArgument
}

// InvalidParam is shorthand for building a ConstructionError.
func InvalidParam(component, field string, value any) error {
	return &ConstructionError{Component: component, Field: field, Value: value}
}

// ScriptError wraps a failure raised by a script during dispatch.
type ScriptError struct {
	Object string
	Script string
	Phase  string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("ecs: script %s on %q failed in %s: %v", e.Script, e.Object, e.Phase, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
