package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

const (
	phaseBegin       = "begin"
	phaseTick        = "tick"
	phaseFixedTick   = "fixed_tick"
	phaseOnCollision = "on_collision"
)

// Tick runs every script's Tick in object registration order, then attach
// order, and finally the installed Drawer. A failing script is logged and
// does not stop the others.
func (s *Scene) Tick(ctx *Context, dt float64) {
	if s == nil || s.closed {
		return
	}
	ctx = ctx.withDefaults(s.log)

	s.enter()
	s.eachScript(ctx, func(g *GameObject, sc Script) {
		s.invoke(g, sc, phaseTick, func() error { return sc.Tick(ctx, dt) })
	})
	s.leave()

	if s.drawer != nil && !s.closed {
		s.draw(ctx)
	}
}

// FixedTick steps the simulation, then delivers the step's collisions and
// FixedTick to every script in order.
func (s *Scene) FixedTick(ctx *Context, dt float64) {
	if s == nil || s.closed {
		return
	}
	ctx = ctx.withDefaults(s.log)

	s.enter()
	collisions := s.step(dt)
	s.eachScript(ctx, func(g *GameObject, sc Script) {
		if h, ok := sc.(CollisionHandler); ok {
			for _, c := range collisions {
				if !c.Involves(g) || !attachedTo(sc, g) {
					continue
				}
				s.invoke(g, sc, phaseOnCollision, func() error { return h.OnCollision(ctx, c) })
			}
		}
		if !attachedTo(sc, g) {
			return
		}
		s.invoke(g, sc, phaseFixedTick, func() error { return sc.FixedTick(ctx, dt) })
	})
	s.leave()
}

func (s *Scene) step(dt float64) (collisions []Collision) {
	if s.sim == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("simulation step panicked", zap.Any("panic", r))
			collisions = nil
		}
	}()
	return s.sim.Step(dt)
}

func (s *Scene) draw(ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("draw panicked", zap.Any("panic", r))
		}
	}()
	s.drawer.Draw(ctx)
}

// eachScript walks a snapshot of objects and their scripts. Scripts are run
// through Begin first when they have not started yet.
func (s *Scene) eachScript(ctx *Context, fn func(g *GameObject, sc Script)) {
	objects := append([]*GameObject(nil), s.objects...)
	for _, g := range objects {
		if !g.Alive() {
			continue
		}
		for _, c := range g.Components() {
			sc, ok := c.(Script)
			if !ok || !attachedTo(sc, g) || !g.Alive() {
				continue
			}
			if !s.start(ctx, g, sc) {
				continue
			}
			fn(g, sc)
		}
	}
}

// start runs Begin once. It reports whether the script is still attached
// afterwards.
func (s *Scene) start(ctx *Context, g *GameObject, sc Script) bool {
	if _, ok := s.begun[sc]; ok {
		return true
	}
	s.begun[sc] = struct{}{}
	if st, ok := sc.(Starter); ok {
		s.invoke(g, sc, phaseBegin, func() error { return st.Begin(ctx) })
	}
	return attachedTo(sc, g) && g.Alive()
}

func (s *Scene) invoke(g *GameObject, sc Script, phase string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.report(g, sc, phase, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		s.report(g, sc, phase, err)
	}
}

func (s *Scene) report(g *GameObject, sc Script, phase string, err error) {
	serr := &ScriptError{Object: g.Name, Script: scriptName(sc), Phase: phase, Err: err}
	s.log.Error("script failed",
		zap.String("object", serr.Object),
		zap.String("script", serr.Script),
		zap.String("phase", phase),
		zap.Error(err))
}

func scriptName(sc Script) string {
	if name := TypeName(sc.TypeID()); name != "" {
		return name
	}
	t := reflect.TypeOf(sc)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func attachedTo(c Component, g *GameObject) bool {
	b := c.base()
	return b.scene == g.scene && b.owner == g.entity && g.scene != nil
}

func (s *Scene) enter() {
	s.dispatching++
}

// leave applies queued destroys and a queued Close once the outermost
// dispatch has finished.
func (s *Scene) leave() {
	s.dispatching--
	if s.dispatching > 0 {
		return
	}
	if len(s.doomed) > 0 {
		doomed := s.doomed
		s.doomed = nil
		for _, g := range doomed {
			s.destroyNow(g)
		}
		s.compact()
	}
	if s.closeQueued {
		s.Close()
	}
}
