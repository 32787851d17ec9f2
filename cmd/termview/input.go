package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/engine3d/ecs"
)

// Terminals report key presses and auto-repeat but never releases, so a key
// counts as held until no press has arrived for the hold window.
const defaultHold = 300 * time.Millisecond

// lookStep is the mouse delta one look key press stands in for.
const lookStep = 12.0

var runeKeys = map[rune]ecs.Key{
	'w': ecs.KeyW,
	'a': ecs.KeyA,
	's': ecs.KeyS,
	'd': ecs.KeyD,
	'p': ecs.KeyP,
	'r': ecs.KeyR,
	' ': ecs.KeySpace,
}

var specialKeys = map[tcell.Key]ecs.Key{
	tcell.KeyLeft:   ecs.KeyLeft,
	tcell.KeyRight:  ecs.KeyRight,
	tcell.KeyUp:     ecs.KeyUp,
	tcell.KeyDown:   ecs.KeyDown,
	tcell.KeyEscape: ecs.KeyEscape,
}

// Input adapts tcell key events to ecs.Input. i/j/k/l stand in for mouse
// movement; upper-case letters also hold Shift and e holds Control.
type Input struct {
	hold time.Duration
	now  func() time.Time

	last     map[ecs.Key]time.Time
	pressed  map[ecs.Key]bool
	held     map[ecs.Key]bool
	prevHeld map[ecs.Key]bool

	lookX, lookY float64
	dx, dy       float64
}

func NewInput() *Input {
	return &Input{
		hold:     defaultHold,
		now:      time.Now,
		last:     make(map[ecs.Key]time.Time),
		pressed:  make(map[ecs.Key]bool),
		held:     make(map[ecs.Key]bool),
		prevHeld: make(map[ecs.Key]bool),
	}
}

// Handle records a key event. It returns false for events it ignores.
func (i *Input) Handle(ev *tcell.EventKey) bool {
	if k, ok := specialKeys[ev.Key()]; ok {
		i.press(k)
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return false
	}
	r := ev.Rune()
	switch r {
	case 'j':
		i.lookX -= lookStep
		return true
	case 'l':
		i.lookX += lookStep
		return true
	case 'i':
		i.lookY -= lookStep
		return true
	case 'k':
		i.lookY += lookStep
		return true
	case 'e':
		i.press(ecs.KeyControl)
		return true
	}
	if r >= 'A' && r <= 'Z' {
		i.press(ecs.KeyShift)
		r += 'a' - 'A'
	}
	if k, ok := runeKeys[r]; ok {
		i.press(k)
		return true
	}
	return false
}

func (i *Input) press(k ecs.Key) {
	i.last[k] = i.now()
	i.pressed[k] = true
}

// Update advances to a new frame.
func (i *Input) Update() {
	i.prevHeld, i.held = i.held, i.prevHeld
	clear(i.held)
	now := i.now()
	for k, at := range i.last {
		if i.pressed[k] || now.Sub(at) < i.hold {
			i.held[k] = true
			continue
		}
		delete(i.last, k)
	}
	clear(i.pressed)
	i.dx, i.dy = i.lookX, i.lookY
	i.lookX, i.lookY = 0, 0
}

func (i *Input) KeyHeld(k ecs.Key) bool {
	return i.held[k]
}

func (i *Input) KeyDown(k ecs.Key) bool {
	return i.held[k] && !i.prevHeld[k]
}

func (i *Input) KeyUp(k ecs.Key) bool {
	return !i.held[k] && i.prevHeld[k]
}

func (i *Input) MouseDelta() (float64, float64) {
	return i.dx, i.dy
}

func (i *Input) MouseButtonDown(ecs.MouseButton) bool {
	return false
}
