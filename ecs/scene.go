package ecs

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry is notified whenever a component is attached to or detached from
// an object of the scene it is installed on.
type Registry interface {
	ComponentAttached(c Component)
	ComponentDetached(c Component)
}

// Simulation advances the scene's physical state by one fixed step.
type Simulation interface {
	Step(dt float64) []Collision
}

// Drawer renders the scene after frame dispatch.
type Drawer interface {
	Draw(ctx *Context)
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// Scene owns a set of GameObjects and dispatches ticks to their scripts.
type Scene struct {
	Name string

	log        *zap.Logger
	entities   entityStore
	index      SparseSet[*GameObject]
	objects    []*GameObject
	registries []Registry
	sim        Simulation
	drawer     Drawer

	begun       map[Component]struct{}
	dispatching int
	doomed      []*GameObject
	closeQueued bool
	closed      bool
}

// NewScene creates an empty scene.
func NewScene(name string, opts ...Option) *Scene {
	s := &Scene{
		Name:  name,
		log:   zap.NewNop(),
		begun: make(map[Component]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("scene", name))
	return s
}

// Logger returns the scene logger.
func (s *Scene) Logger() *zap.Logger {
	if s == nil {
		return zap.NewNop()
	}
	return s.log
}

// Closed reports whether Close has torn the scene down.
func (s *Scene) Closed() bool {
	return s == nil || s.closed
}

// CreateGameObject registers a new object with a fresh Transform. Objects
// created during dispatch join at the next dispatch. It returns nil on a
// closed scene.
func (s *Scene) CreateGameObject(name string) *GameObject {
	return s.CreateGameObjectWithID(name, uuid.New())
}

// CreateGameObjectWithID is CreateGameObject with a caller-chosen persistent
// id, used when loading saved scenes.
func (s *Scene) CreateGameObjectWithID(name string, id uuid.UUID) *GameObject {
	if s == nil {
		return nil
	}
	if s.closed || s.closeQueued {
		s.log.Warn("create on closed scene", zap.String("object", name))
		return nil
	}
	g := &GameObject{
		Name:    name,
		entity:  s.entities.create(),
		id:      id,
		scene:   s,
		buckets: make(map[TypeID][]Component),
	}
	s.index.Set(g.entity.id(), g)
	s.objects = append(s.objects, g)
	if _, err := AddComponent(g, TransformType, NewTransform()); err != nil {
		s.log.Error("attach transform", zap.String("object", name), zap.Error(err))
	}
	return g
}

// Lookup resolves a handle to its live GameObject.
func (s *Scene) Lookup(e Entity) *GameObject {
	if s == nil || !s.entities.isAlive(e) {
		return nil
	}
	g, ok := s.index.Get(e.id())
	if !ok || g.entity != e {
		return nil
	}
	return g
}

// Find returns the first live object named name.
func (s *Scene) Find(name string) *GameObject {
	if s == nil {
		return nil
	}
	for _, g := range s.objects {
		if g.Alive() && g.Name == name {
			return g
		}
	}
	return nil
}

// FindByID returns the live object with persistent id.
func (s *Scene) FindByID(id uuid.UUID) *GameObject {
	if s == nil {
		return nil
	}
	for _, g := range s.objects {
		if g.Alive() && g.id == id {
			return g
		}
	}
	return nil
}

// GameObjects returns the live objects in registration order.
func (s *Scene) GameObjects() []*GameObject {
	if s == nil {
		return nil
	}
	out := make([]*GameObject, 0, len(s.objects))
	for _, g := range s.objects {
		if g.Alive() {
			out = append(out, g)
		}
	}
	return out
}

// ScriptCount returns the number of attached scripts.
func (s *Scene) ScriptCount() int {
	n := 0
	for _, g := range s.GameObjects() {
		for _, c := range g.ordered {
			if _, ok := c.(Script); ok {
				n++
			}
		}
	}
	return n
}

// AddRegistry installs r and replays every attached component to it.
func (s *Scene) AddRegistry(r Registry) {
	if s == nil || r == nil {
		return
	}
	for _, existing := range s.registries {
		if existing == r {
			return
		}
	}
	s.registries = append(s.registries, r)
	for _, g := range s.objects {
		for _, c := range g.ordered {
			r.ComponentAttached(c)
		}
	}
}

// RemoveRegistry uninstalls r without notifying it.
func (s *Scene) RemoveRegistry(r Registry) {
	if s == nil {
		return
	}
	for i, existing := range s.registries {
		if existing == r {
			s.registries = append(s.registries[:i:i], s.registries[i+1:]...)
			return
		}
	}
}

// Registries returns the installed registries in install order.
func (s *Scene) Registries() []Registry {
	if s == nil {
		return nil
	}
	return append([]Registry(nil), s.registries...)
}

// SetSimulation installs the scene's physics. Passing nil removes it.
func (s *Scene) SetSimulation(sim Simulation) {
	if s == nil {
		return
	}
	s.sim = sim
}

func (s *Scene) Simulation() Simulation {
	if s == nil {
		return nil
	}
	return s.sim
}

// SetDrawer installs the renderer called at the end of Tick.
func (s *Scene) SetDrawer(d Drawer) {
	if s == nil {
		return
	}
	s.drawer = d
}

// Close destroys every object. Inside a dispatch it is applied at the
// dispatch boundary. Calling Close again has no effect.
func (s *Scene) Close() {
	if s == nil || s.closed {
		return
	}
	if s.dispatching > 0 {
		s.closeQueued = true
		return
	}
	for i := len(s.objects) - 1; i >= 0; i-- {
		s.destroyNow(s.objects[i])
	}
	s.objects = nil
	s.doomed = nil
	s.closed = true
	s.closeQueued = false
	s.log.Debug("scene closed")
}

func (s *Scene) destroy(g *GameObject) {
	if s.dispatching > 0 {
		g.doomed = true
		s.doomed = append(s.doomed, g)
		return
	}
	s.destroyNow(g)
	s.compact()
}

func (s *Scene) destroyNow(g *GameObject) {
	if g.scene == nil {
		return
	}
	g.detachAll()
	s.index.Remove(g.entity.id())
	s.entities.destroy(g.entity)
	g.scene = nil
	g.doomed = true
}

func (s *Scene) compact() {
	live := s.objects[:0]
	for _, g := range s.objects {
		if g.scene != nil {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.objects); i++ {
		s.objects[i] = nil
	}
	s.objects = live
}

func (s *Scene) componentAttached(_ *GameObject, c Component) {
	for _, r := range s.registries {
		r.ComponentAttached(c)
	}
}

func (s *Scene) componentDetached(_ *GameObject, c Component) {
	delete(s.begun, c)
	for _, r := range s.registries {
		r.ComponentDetached(c)
	}
}
