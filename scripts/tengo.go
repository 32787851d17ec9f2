package scripts

import (
	"fmt"
	"path"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/engine3d/ecs"
	"github.com/milk9111/engine3d/physics"
	"github.com/milk9111/engine3d/prefabs"
)

var TengoType = ecs.NewComponentType[*Tengo]("Tengo")

// Handlers are optional; a script assigns the ones it needs, e.g.
//
//	tick = func(engine, state) { ... }
const tengoPrelude = "begin := undefined; tick := undefined; fixed_tick := undefined; on_collision := undefined\n"

const tengoDispatchScript = `
if __phase == "begin" {
	if is_callable(begin) { begin(__engine, __state) }
} else if __phase == "tick" {
	if is_callable(tick) { tick(__engine, __state) }
} else if __phase == "fixed_tick" {
	if is_callable(fixed_tick) { fixed_tick(__engine, __state) }
} else if __phase == "on_collision" {
	if is_callable(on_collision) { on_collision(__engine, __state, __event) }
}
`

// Tengo runs a tengo script file as a component. The script sees an engine
// map bound to its GameObject and a state map that survives reloads.
type Tengo struct {
	ecs.ScriptBase `yaml:"-"`

	Path string `yaml:"path"`
	// Load reads script source; nil uses prefabs.LoadScript.
	Load func(name string) ([]byte, error) `yaml:"-"`

	compiled *tengo.Compiled
	state    *tengo.Map
	reloads  int
}

func NewTengo(path string) *Tengo {
	return &Tengo{Path: path}
}

func (s *Tengo) TypeID() ecs.TypeID {
	return TengoType.ID()
}

// State exposes the script's persistent state map.
func (s *Tengo) State() map[string]any {
	if s.state == nil {
		return nil
	}
	return objectToAny(s.state).(map[string]any)
}

// Reloads counts successful recompiles after the first.
func (s *Tengo) Reloads() int {
	return s.reloads
}

func (s *Tengo) Begin(ctx *ecs.Context) error {
	if err := s.compile(); err != nil {
		return err
	}
	return s.run(ctx, "begin", 0, nil)
}

func (s *Tengo) Tick(ctx *ecs.Context, dt float64) error {
	return s.run(ctx, "tick", dt, nil)
}

func (s *Tengo) FixedTick(ctx *ecs.Context, dt float64) error {
	return s.run(ctx, "fixed_tick", dt, nil)
}

func (s *Tengo) OnCollision(ctx *ecs.Context, c ecs.Collision) error {
	return s.run(ctx, "on_collision", ctx.Time.FixedDelta(), collisionObject(s.GameObject(), c))
}

// Reload recompiles the script from its source. On failure the previous
// program stays in place.
func (s *Tengo) Reload() error {
	prev := s.compiled
	if err := s.compile(); err != nil {
		s.compiled = prev
		return err
	}
	if prev != nil {
		s.reloads++
	}
	return nil
}

// Matches reports whether name refers to this script's source file.
func (s *Tengo) Matches(name string) bool {
	if s.Path == "" || name == "" {
		return false
	}
	a := path.Clean(strings.ReplaceAll(s.Path, "\\", "/"))
	b := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	return a == b || strings.HasSuffix(b, "/"+a) || strings.HasSuffix(a, "/"+b)
}

func (s *Tengo) compile() error {
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("tengo: empty script path")
	}
	load := s.Load
	if load == nil {
		load = prefabs.LoadScript
	}
	src, err := load(s.Path)
	if err != nil {
		return fmt.Errorf("tengo: load %s: %w", s.Path, err)
	}

	script := tengo.NewScript([]byte(tengoPrelude + string(src) + "\n" + tengoDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__event", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("tengo: compile %s: %w", s.Path, err)
	}
	s.compiled = compiled
	if s.state == nil {
		s.state = &tengo.Map{Value: map[string]tengo.Object{}}
	}
	return nil
}

func (s *Tengo) run(ctx *ecs.Context, phase string, dt float64, event tengo.Object) error {
	// A failed compile was already reported from Begin or Reload.
	if s.compiled == nil {
		return nil
	}
	if event == nil {
		event = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", s.engine(ctx, dt)); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Set("__event", event); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("tengo: %s %s: %w", s.Path, phase, err)
	}
	return nil
}

func (s *Tengo) engine(ctx *ecs.Context, dt float64) *tengo.ImmutableMap {
	g := s.GameObject()
	t := s.Transform()
	body, _ := physics.GetRigidbody(g)
	name := ""
	if g != nil {
		name = g.Name
	}

	values := map[string]tengo.Object{
		"name": &tengo.String{Value: name},
		"dt":   &tengo.Float{Value: dt},
		"time": &tengo.Float{Value: ctx.Time.Elapsed()},
	}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if t == nil {
			return tengo.UndefinedValue, nil
		}
		return vecObject(t.Position()), nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if t == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, ok := objectToVec(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "position", Expected: "array(3)", Found: args[0].TypeName()}
		}
		t.SetPosition(v)
		return tengo.TrueValue, nil
	}}

	values["velocity"] = &tengo.UserFunction{Name: "velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if body == nil {
			return tengo.UndefinedValue, nil
		}
		return vecObject(body.Velocity()), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if body == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, ok := objectToVec(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "velocity", Expected: "array(3)", Found: args[0].TypeName()}
		}
		body.SetVelocity(v)
		return tengo.TrueValue, nil
	}}

	values["add_force"] = &tengo.UserFunction{Name: "add_force", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if body == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, ok := objectToVec(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "force", Expected: "array(3)", Found: args[0].TypeName()}
		}
		body.AddForce(v)
		return tengo.TrueValue, nil
	}}

	values["key_down"] = &tengo.UserFunction{Name: "key_down", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if ctx.Input.KeyHeld(ecs.Key(objectAsString(args[0]))) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["key_pressed"] = &tengo.UserFunction{Name: "key_pressed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if ctx.Input.KeyDown(ecs.Key(objectAsString(args[0]))) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		ctx.Log.Info(strings.Join(parts, " "),
			zap.String("object", name),
			zap.String("script", s.Path))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func collisionObject(g *ecs.GameObject, c ecs.Collision) tengo.Object {
	other := ""
	if o := c.Other(g); o != nil && o.GameObject() != nil {
		other = o.GameObject().Name
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"other":       &tengo.String{Value: other},
		"normal":      vecObject(c.NormalFrom(g)),
		"point":       vecObject(c.Point),
		"impulse":     &tengo.Float{Value: c.Impulse},
		"penetration": &tengo.Float{Value: c.Penetration},
	}}
}

func vecObject(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

func objectToVec(obj tengo.Object) (mgl64.Vec3, bool) {
	var items []tengo.Object
	switch v := obj.(type) {
	case *tengo.Array:
		items = v.Value
	case *tengo.ImmutableArray:
		items = v.Value
	default:
		return mgl64.Vec3{}, false
	}
	if len(items) != 3 {
		return mgl64.Vec3{}, false
	}
	var out mgl64.Vec3
	for i, item := range items {
		f, ok := tengo.ToFloat64(item)
		if !ok {
			return mgl64.Vec3{}, false
		}
		out[i] = f
	}
	return out, true
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}

// ReloadScripts recompiles every Tengo script in scene whose path matches
// name and returns how many reloaded.
func ReloadScripts(scene *ecs.Scene, name string) int {
	n := 0
	for _, g := range scene.GameObjects() {
		for _, s := range ecs.GetComponents(g, TengoType) {
			if !s.Matches(name) {
				continue
			}
			if err := s.Reload(); err != nil {
				scene.Logger().Warn("tengo reload failed",
					zap.String("object", g.Name),
					zap.String("script", s.Path),
					zap.Error(err))
				continue
			}
			n++
		}
	}
	return n
}
