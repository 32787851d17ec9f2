package ecs

// Script is a component that takes part in scene dispatch.
type Script interface {
	Component
	Tick(ctx *Context, dt float64) error
	FixedTick(ctx *Context, dt float64) error
}

// Starter is implemented by scripts needing setup once they are attached.
// Begin runs before the script's first Tick, FixedTick or OnCollision.
type Starter interface {
	Begin(ctx *Context) error
}

// CollisionHandler receives the collisions of the current fixed step that
// involve the script's GameObject, before its FixedTick.
type CollisionHandler interface {
	OnCollision(ctx *Context, c Collision) error
}

// ScriptBase supplies no-op Tick and FixedTick. Embed it in place of Base.
type ScriptBase struct {
	Base
}

func (ScriptBase) Tick(*Context, float64) error {
	return nil
}

func (ScriptBase) FixedTick(*Context, float64) error {
	return nil
}
