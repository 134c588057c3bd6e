package room

import (
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTri(v1, v2, v3 pt.Vector) *pt.Triangle {
	return pt.NewTriangle(v1, v2, v3, pt.Vector{}, pt.Vector{}, pt.Vector{}, pt.Material{})
}

func TestCrossing(t *testing.T) {
	assert := assert.New(t)
	p := Plane{Point: V(0, 0, 0), Normal: V(0, 1, 0)}

	v, ok := p.crossing(V(0, 2, 0), V(0, -1, 0))
	assert.True(ok)
	assert.InDelta(0, v.Length(), 1e-9)

	_, ok = p.crossing(V(0, 2, 0), V(1, 2, 0))
	assert.False(ok, "parallel")
	_, ok = p.crossing(V(0, 2, 0), V(0, 1, 0))
	assert.False(ok, "stops short")
}

func TestCutTriangle(t *testing.T) {
	p := Plane{Point: V(0, 1, 0), Normal: V(0, 1, 0)}
	cases := []struct {
		name string
		tri  *pt.Triangle
		want Segment
		ok   bool
	}{
		{"above", buildTri(V(0, 2, 0), V(15, 2, 0), V(-10, 5, 7)), Segment{}, false},
		{"two edges", buildTri(V(0, 0, 0), V(2, 2, 0), V(-2, 2, 0)), Segment{V(1, 1, 0), V(-1, 1, 0)}, true},
		{"corner", buildTri(V(0, 0, 0), V(2, 0, 0), V(0, 2, 0)), Segment{V(1, 1, 0), V(0, 1, 0)}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, ok := p.CutTriangle(c.tri)
			require.Equal(t, c.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, 0, c.want[0].Sub(s[0]).Length(), 1e-9)
			assert.InDelta(t, 0, c.want[1].Sub(s[1]).Length(), 1e-9)
		})
	}
}

func TestSliceTetrahedron(t *testing.T) {
	assert := assert.New(t)
	v1, v2, v3, v4 := V(0, 0, 0), V(2, 0, 0), V(0, 2, 0), V(0, 0, 2)
	m := pt.NewMesh([]*pt.Triangle{buildTri(v1, v2, v3), buildTri(v2, v3, v4), buildTri(v3, v4, v1), buildTri(v4, v1, v2)})

	chains := MakePlane(V(0, 1, 0), V(0, 1, 0)).Slice(m)
	assert.NotEmpty(chains)
	for _, chain := range chains {
		assert.GreaterOrEqual(len(chain), 2)
		for _, v := range chain {
			assert.InDelta(1, v.Y, 1e-9)
			// The slice of the tetrahedron at y=1 is bounded by x+z <= 1
			assert.LessOrEqual(v.X+v.Z, 1+1e-9)
		}
	}
}

func TestSliceChainsSharedEndpoints(t *testing.T) {
	// Two triangles of one wall meet along their diagonal
	m := pt.NewMesh([]*pt.Triangle{
		buildTri(V(0, 0, 0), V(4, 0, 0), V(4, 0, 2)),
		buildTri(V(0, 0, 0), V(4, 0, 2), V(0, 0, 2)),
	})
	chains := MakePlane(V(0, 0, 1), V(0, 0, 1)).Slice(m)
	require.Len(t, chains, 1)
	assert.Len(t, chains[0], 3)
}

func TestOutlinesBox(t *testing.T) {
	assert := assert.New(t)
	room := NewBox(V(0, 0, 0), V(4, 3, 2.5))
	outlines := MakePlane(V(0, 0, 1), V(0, 0, 1)).Outlines(room.M)
	assert.NotEmpty(outlines)

	// U is +Y and V is +X for a plan view
	for _, o := range outlines {
		XMin, XMax, YMin, YMax := o.Bounds()
		assert.GreaterOrEqual(XMin, -1e-9)
		assert.LessOrEqual(XMax, 3+1e-9)
		assert.GreaterOrEqual(YMin, -1e-9)
		assert.LessOrEqual(YMax, 4+1e-9)
	}
}

func TestProject(t *testing.T) {
	p := MakePlane(V(1, 1, 1), V(0, 0, 1))
	assert.Equal(t, Point2D{X: 2, Y: 3}, p.Project(V(4, 3, 7)))
}
