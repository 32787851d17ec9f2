package main

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/engine3d/render"
)

type coloredLine struct {
	render.Line
	color color.RGBA
}

// Wireframe is a render.Backend that records projected outlines during the
// scene tick and paints them in Draw.
type Wireframe struct {
	lines []coloredLine
	next  []coloredLine
	width float32
}

func NewWireframe() *Wireframe {
	return &Wireframe{width: 1.5}
}

func (w *Wireframe) Begin(render.Frame) {
	w.next = w.next[:0]
}

func (w *Wireframe) Draw(f render.Frame, it render.Item) {
	mat := render.MaterialOf(it.Renderer.Material)
	base := mat.Color.RGBA8()
	if it.Renderer.Material == nil {
		base = it.Renderer.Color
	}
	for _, l := range render.Project(f, it, mat.Wire) {
		w.next = append(w.next, coloredLine{Line: l, color: render.Tint(base, l.Shade)})
	}
}

// End publishes the pass; far lines are painted first.
func (w *Wireframe) End(render.Frame) {
	sort.SliceStable(w.next, func(i, j int) bool { return w.next[i].Depth > w.next[j].Depth })
	w.lines = append(w.lines[:0], w.next...)
}

func (w *Wireframe) Paint(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	for _, l := range w.lines {
		vector.StrokeLine(screen, float32(l.X0), float32(l.Y0), float32(l.X1), float32(l.Y1), w.width, l.color, true)
	}
}

func (w *Wireframe) Lines() int {
	return len(w.lines)
}
