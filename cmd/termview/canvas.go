package main

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/engine3d/render"
)

// Terminal cells are roughly twice as tall as they are wide. The canvas
// reports a pixel height of two per row so projections keep their aspect.
const rowPixels = 2

type cell struct {
	r     rune
	depth float64
	color color.RGBA
}

// Canvas is a render.Backend that rasterizes projected outlines into a
// character grid.
type Canvas struct {
	cols, rows int
	cells      []cell
	next       []cell
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

func (c *Canvas) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c.cols, c.rows = cols, rows
	c.cells = make([]cell, cols*rows)
	c.next = make([]cell, cols*rows)
}

// Size implements ecs.Screen in canvas pixels.
func (c *Canvas) Size() (int, int) {
	return c.cols, c.rows * rowPixels
}

func (c *Canvas) Begin(render.Frame) {
	for i := range c.next {
		c.next[i] = cell{depth: math.Inf(1)}
	}
}

func (c *Canvas) Draw(f render.Frame, it render.Item) {
	mat := render.MaterialOf(it.Renderer.Material)
	base := mat.Color.RGBA8()
	if it.Renderer.Material == nil {
		base = it.Renderer.Color
	}
	for _, l := range render.Project(f, it, mat.Wire) {
		c.line(l, render.Tint(base, l.Shade))
	}
}

func (c *Canvas) End(render.Frame) {
	c.cells, c.next = c.next, c.cells
}

// line steps through l one cell at a time, keeping the nearest fragment.
func (c *Canvas) line(l render.Line, col color.RGBA) {
	x0, y0 := l.X0, l.Y0/rowPixels
	x1, y1 := l.X1, l.Y1/rowPixels
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps < 1 {
		steps = 1
	}
	// Cap runaway lines from points projected near the camera plane.
	if steps > 4*(c.cols+c.rows) {
		return
	}
	r := glyph(dx, dy)
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(math.Floor(x0 + dx*t))
		y := int(math.Floor(y0 + dy*t))
		if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
			continue
		}
		i := y*c.cols + x
		if l.Depth < c.next[i].depth {
			c.next[i] = cell{r: r, depth: l.Depth, color: col}
		}
	}
}

// glyph picks a character for a segment direction in cell space.
func glyph(dx, dy float64) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ax == 0 && ay == 0:
		return '.'
	case ay < ax*0.4:
		return '-'
	case ax < ay*0.4:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

// At returns the rune drawn at a cell, or 0.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return 0
	}
	return c.cells[y*c.cols+x].r
}

// Paint copies the last published pass to screen.
func (c *Canvas) Paint(screen tcell.Screen) {
	bg := tcell.StyleDefault.Background(tcell.ColorBlack)
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			cl := c.cells[y*c.cols+x]
			if cl.r == 0 {
				screen.SetContent(x, y, ' ', nil, bg)
				continue
			}
			fg := tcell.NewRGBColor(int32(cl.color.R), int32(cl.color.G), int32(cl.color.B))
			screen.SetContent(x, y, cl.r, nil, bg.Foreground(fg))
		}
	}
}
