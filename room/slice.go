package room

import (
	"github.com/fogleman/pt/pt"
)

// Point2D is a position in the plan view, in meters until scaled to pixels
type Point2D struct {
	X, Y float64
}

func (p Point2D) Translate(x, y float64) Point2D {
	return Point2D{p.X + x, p.Y + y}
}

func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Y * s}
}

// Outline is one connected run of wall cuts in the plan view
type Outline []Point2D

// Bounds returns the extent of the outline
func (o Outline) Bounds() (XMin, XMax, YMin, YMax float64) {
	if len(o) == 0 {
		return
	}
	XMin, XMax = o[0].X, o[0].X
	YMin, YMax = o[0].Y, o[0].Y
	for _, p := range o[1:] {
		XMin = min(XMin, p.X)
		XMax = max(XMax, p.X)
		YMin = min(YMin, p.Y)
		YMax = max(YMax, p.Y)
	}
	return
}

// Plane is the cutting plane of a plan view. U and V span it and become the X and Y
// axes of the image.
type Plane struct {
	Point  pt.Vector
	Normal pt.Vector
	U, V   pt.Vector
}

func MakePlane(point, normal pt.Vector) Plane {
	u := perpendicular(normal).Normalize()
	v := u.Cross(normal).Normalize()
	return Plane{point, normal, u, v}
}

// Project returns the in-plane coordinates of point, relative to p.Point
func (p Plane) Project(point pt.Vector) Point2D {
	d := point.Sub(p.Point)
	return Point2D{d.Dot(p.U), d.Dot(p.V)}
}

func perpendicular(a pt.Vector) pt.Vector {
	if a.X == 0 && a.Y == 0 {
		if a.Z == 0 {
			return pt.Vector{}
		}
		return V(0, 1, 0)
	}
	return V(-a.Y, a.X, 0).Normalize()
}

// crossing returns where the segment a-b passes through the plane
func (p Plane) crossing(a, b pt.Vector) (pt.Vector, bool) {
	u := b.Sub(a)
	d := p.Normal.Dot(u)
	if d > -1e-9 && d < 1e-9 {
		return pt.Vector{}, false
	}
	t := -p.Normal.Dot(a.Sub(p.Point)) / d
	if t < 0 || t > 1 {
		return pt.Vector{}, false
	}
	return a.Add(u.MulScalar(t)), true
}

// Segment is the cut of one wall triangle
type Segment [2]pt.Vector

// CutTriangle returns the segment where t crosses the plane, ordered so the wall
// outlines of a closed room run the same way around.
func (p Plane) CutTriangle(t *pt.Triangle) (Segment, bool) {
	var cuts []pt.Vector
	for _, edge := range [][2]pt.Vector{{t.V1, t.V2}, {t.V2, t.V3}, {t.V3, t.V1}} {
		if v, ok := p.crossing(edge[0], edge[1]); ok {
			cuts = append(cuts, v)
		}
	}
	if len(cuts) < 2 || cuts[0] == cuts[1] {
		return Segment{}, false
	}
	a, b := cuts[0], cuts[1]
	if b.Sub(a).Cross(p.Normal).Dot(t.Normal()) >= 0 {
		a, b = b, a
	}
	return Segment{a, b}, true
}

// Slice cuts every triangle of m and chains segments sharing an endpoint
func (p Plane) Slice(m *pt.Mesh) [][]pt.Vector {
	var segments []Segment
	for _, t := range m.Triangles {
		if s, ok := p.CutTriangle(t); ok {
			segments = append(segments, s)
		}
	}

	starts := make(map[pt.Vector]int, len(segments))
	ends := make(map[pt.Vector]bool, len(segments))
	for i, s := range segments {
		starts[s[0]] = i
		ends[s[1]] = true
	}
	used := make([]bool, len(segments))
	follow := func(i int) []pt.Vector {
		chain := []pt.Vector{segments[i][0]}
		for i >= 0 && !used[i] {
			used[i] = true
			end := segments[i][1]
			chain = append(chain, end)
			next, ok := starts[end]
			if !ok {
				break
			}
			i = next
		}
		return chain
	}

	var chains [][]pt.Vector
	// Open chains first so each starts at its free end, then the closed loops
	for i, s := range segments {
		if !ends[s[0]] {
			chains = append(chains, follow(i))
		}
	}
	for i := range segments {
		if !used[i] {
			chains = append(chains, follow(i))
		}
	}
	return chains
}

// Outlines returns the slice of m as plan view outlines
func (p Plane) Outlines(m *pt.Mesh) []Outline {
	chains := p.Slice(m)
	outlines := make([]Outline, 0, len(chains))
	for _, chain := range chains {
		o := make(Outline, len(chain))
		for i, v := range chain {
			o[i] = p.Project(v)
		}
		outlines = append(outlines, o)
	}
	return outlines
}
