package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/engine3d/ecs"
)

var keyMap = map[ecs.Key]ebiten.Key{
	ecs.KeyW:       ebiten.KeyW,
	ecs.KeyA:       ebiten.KeyA,
	ecs.KeyS:       ebiten.KeyS,
	ecs.KeyD:       ebiten.KeyD,
	ecs.KeyP:       ebiten.KeyP,
	ecs.KeyR:       ebiten.KeyR,
	ecs.KeyLeft:    ebiten.KeyArrowLeft,
	ecs.KeyRight:   ebiten.KeyArrowRight,
	ecs.KeyUp:      ebiten.KeyArrowUp,
	ecs.KeyDown:    ebiten.KeyArrowDown,
	ecs.KeyShift:   ebiten.KeyShift,
	ecs.KeyControl: ebiten.KeyControl,
	ecs.KeySpace:   ebiten.KeySpace,
	ecs.KeyEscape:  ebiten.KeyEscape,
}

var buttonMap = map[ecs.MouseButton]ebiten.MouseButton{
	ecs.MouseLeft:   ebiten.MouseButtonLeft,
	ecs.MouseRight:  ebiten.MouseButtonRight,
	ecs.MouseMiddle: ebiten.MouseButtonMiddle,
}

// Input reads ebiten's keyboard and mouse state once per Update.
type Input struct {
	captured   bool
	lastX      int
	lastY      int
	dx, dy     float64
	hasLastPos bool
}

func NewInput() *Input {
	return &Input{}
}

// Update samples the cursor. Mouse motion only counts while the cursor is
// captured.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		i.setCaptured(!i.captured)
	}
	x, y := ebiten.CursorPosition()
	i.dx, i.dy = 0, 0
	if i.captured && i.hasLastPos {
		i.dx = float64(x - i.lastX)
		i.dy = float64(y - i.lastY)
	}
	i.lastX, i.lastY, i.hasLastPos = x, y, true
}

func (i *Input) setCaptured(on bool) {
	i.captured = on
	i.hasLastPos = false
	if on {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}

func lookup(k ecs.Key) (ebiten.Key, bool) {
	if ek, ok := keyMap[k]; ok {
		return ek, true
	}
	var ek ebiten.Key
	if err := ek.UnmarshalText([]byte(k)); err != nil {
		return 0, false
	}
	return ek, true
}

func (i *Input) KeyHeld(k ecs.Key) bool {
	ek, ok := lookup(k)
	return ok && ebiten.IsKeyPressed(ek)
}

func (i *Input) KeyDown(k ecs.Key) bool {
	ek, ok := lookup(k)
	return ok && inpututil.IsKeyJustPressed(ek)
}

func (i *Input) KeyUp(k ecs.Key) bool {
	ek, ok := lookup(k)
	return ok && inpututil.IsKeyJustReleased(ek)
}

func (i *Input) MouseDelta() (float64, float64) {
	return i.dx, i.dy
}

func (i *Input) MouseButtonDown(b ecs.MouseButton) bool {
	eb, ok := buttonMap[b]
	return ok && ebiten.IsMouseButtonPressed(eb)
}
