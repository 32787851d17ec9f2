package scripts

import (
	"fmt"
	"sort"
	"sync"

	"github.com/milk9111/engine3d/ecs"
)

// Factory returns a fresh script with its default settings.
type Factory func() ecs.Script

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	Register(BallType.Name(), func() ecs.Script { return NewBall() })
	Register(FloorType.Name(), func() ecs.Script { return NewFloor() })
	Register(PaddleType.Name(), func() ecs.Script { return NewPaddle() })
	Register(FlyCamType.Name(), func() ecs.Script { return NewFlyCam() })
	Register(OrbitCamType.Name(), func() ecs.Script { return NewOrbitCam() })
	Register(TengoType.Name(), func() ecs.Script { return NewTengo("") })
}

// Register makes a script constructible by name. Registering a name twice
// replaces the earlier factory.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		panic("scripts: Register with empty name or nil factory")
	}
	registryMu.Lock()
	registry[name] = f
	registryMu.Unlock()
}

// New builds the script registered under name.
func New(name string) (ecs.Script, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scripts: unknown script %q", name)
	}
	return f(), nil
}

// Registered reports whether name has a factory.
func Registered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

func Names() []string {
	registryMu.RLock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	registryMu.RUnlock()
	sort.Strings(out)
	return out
}
