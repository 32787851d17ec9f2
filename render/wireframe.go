package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/engine3d/prefabs"
	"github.com/milk9111/engine3d/resources"
)

// Segment is a line in model space.
type Segment [2]mgl64.Vec3

// Line is a projected segment in pixels. Depth is the larger NDC depth of
// its ends, for back-to-front sorting.
type Line struct {
	X0, Y0, X1, Y1 float64
	Depth          float64
	Shade          float64
}

// Outline returns model-space segments approximating a primitive mesh.
// Spheres are unit radius, cubes unit size, planes unit squares on XZ.
// Unknown meshes get a cube. detail is the ring or grid resolution.
func Outline(mesh string, detail int) []Segment {
	if detail < 4 {
		detail = 4
	}
	switch mesh {
	case "sphere":
		return sphereOutline(detail)
	case "plane":
		return gridOutline(detail)
	}
	return cubeOutline()
}

func sphereOutline(n int) []Segment {
	out := make([]Segment, 0, 3*n)
	for i := 0; i < n; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(n)
		a1 := 2 * math.Pi * float64(i+1) / float64(n)
		s0, c0 := math.Sincos(a0)
		s1, c1 := math.Sincos(a1)
		out = append(out,
			Segment{{c0, s0, 0}, {c1, s1, 0}},
			Segment{{c0, 0, s0}, {c1, 0, s1}},
			Segment{{0, c0, s0}, {0, c1, s1}})
	}
	return out
}

func cubeOutline() []Segment {
	const h = 0.5
	c := func(x, y, z float64) mgl64.Vec3 { return mgl64.Vec3{x * h, y * h, z * h} }
	corners := [8]mgl64.Vec3{
		c(-1, -1, -1), c(1, -1, -1), c(1, 1, -1), c(-1, 1, -1),
		c(-1, -1, 1), c(1, -1, 1), c(1, 1, 1), c(-1, 1, 1),
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	out := make([]Segment, 0, len(edges))
	for _, e := range edges {
		out = append(out, Segment{corners[e[0]], corners[e[1]]})
	}
	return out
}

func gridOutline(n int) []Segment {
	out := make([]Segment, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		f := float64(i)/float64(n) - 0.5
		out = append(out,
			Segment{{f, 0, -0.5}, {f, 0, 0.5}},
			Segment{{-0.5, 0, f}, {0.5, 0, f}})
	}
	return out
}

// Ambient is the light every surface receives.
const Ambient = 0.3

// Lighting returns the brightness in [0, 1] of a surface point with normal
// n under the frame's lights.
func Lighting(f Frame, p, n mgl64.Vec3) float64 {
	if n.LenSqr() == 0 {
		return 1
	}
	n = n.Normalize()
	sum := Ambient
	for _, l := range f.Lights {
		var toLight mgl64.Vec3
		atten := 1.0
		switch l.Light.Kind {
		case LightPoint:
			toLight = l.Position.Sub(p)
			d := toLight.Len()
			if d == 0 || (l.Light.Range > 0 && d > l.Light.Range) {
				continue
			}
			toLight = toLight.Mul(1 / d)
			if l.Light.Range > 0 {
				atten = 1 - d/l.Light.Range
			}
		default:
			toLight = l.Direction.Mul(-1)
			if toLight.LenSqr() == 0 {
				continue
			}
			toLight = toLight.Normalize()
		}
		if lambert := n.Dot(toLight); lambert > 0 {
			sum += lambert * l.Light.Intensity * atten
		}
	}
	return math.Min(1, sum)
}

// Project transforms the item's outline into screen lines, dropping segments with
// an end behind the camera.
func Project(f Frame, it Item, detail int) []Line {
	mesh := ""
	if it.Renderer != nil && it.Renderer.Mesh != nil {
		mesh = it.Renderer.Mesh.Name
	}
	center := it.Model.Col(3).Vec3()
	up := it.Model.Mul4x1(mgl64.Vec4{0, 1, 0, 0}).Vec3()

	segs := Outline(mesh, detail)
	out := make([]Line, 0, len(segs))
	for _, s := range segs {
		a := it.Model.Mul4x1(s[0].Vec4(1)).Vec3()
		b := it.Model.Mul4x1(s[1].Vec4(1)).Vec3()
		x0, y0, d0, ok0 := f.Project(a)
		x1, y1, d1, ok1 := f.Project(b)
		if !ok0 || !ok1 {
			continue
		}
		mid := a.Add(b).Mul(0.5)
		n := up
		if mesh == "sphere" {
			n = mid.Sub(center)
		}
		out = append(out, Line{
			X0: x0, Y0: y0, X1: x1, Y1: y1,
			Depth: math.Max(d0, d1),
			Shade: Lighting(f, mid, n),
		})
	}
	return out
}

// Material is the decoded form of a .mat file.
type Material struct {
	Color prefabs.YAMLColor `yaml:"color"`
	Wire  int               `yaml:"wire"`
}

// MaterialOf decodes h. A nil or unreadable handle yields white at the
// default detail.
func MaterialOf(h *resources.Handle) Material {
	m := Material{Color: prefabs.YAMLColor{Color: color.White}, Wire: 12}
	if h == nil {
		return m
	}
	data, err := h.Bytes()
	if err != nil || len(data) == 0 {
		return m
	}
	_ = yaml.Unmarshal(data, &m)
	return m
}

// Tint scales c by shade, keeping alpha.
func Tint(c color.RGBA, shade float64) color.RGBA {
	s := math.Max(0, math.Min(1, shade))
	return color.RGBA{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
		A: c.A,
	}
}
