package room

import (
	"fmt"

	"github.com/fogleman/pt/pt"
	"github.com/hpinc/go3mf"
)

// Intersection is the nearest scene hit along a ray
type Intersection struct {
	Hit bool
	// Distance along the ray to the hit, in meters
	Distance float64
	// Surface normal at the hit. Not necessarily oriented against the ray.
	Normal pt.Vector
}

// NoIntersection is returned when a ray escapes the scene
var NoIntersection = Intersection{}

// Intersector finds the nearest scene surface along a ray.
//
// Implementations must be safe for concurrent use by multiple casting workers.
type Intersector interface {
	Intersect(origin, direction pt.Vector) Intersection
}

// Room is the reflecting geometry of the scene
type Room struct {
	M *pt.Mesh
}

// DefaultScale converts 3MF model units (mm) to meters
const DefaultScale = 1000

var wallMaterial = pt.Material{Reflectivity: 1}

// NewRoom builds a Room from triangles. The mesh is compiled so the room can be
// intersected right away.
func NewRoom(triangles []*pt.Triangle) *Room {
	for _, t := range triangles {
		if t.Material == nil {
			m := wallMaterial
			t.Material = &m
		}
	}
	m := pt.NewMesh(triangles)
	if len(triangles) > 0 {
		m.Compile()
	}
	return &Room{M: m}
}

// NewEmptyRoom returns a room with no geometry. Every ray escapes.
func NewEmptyRoom() *Room {
	return NewRoom(nil)
}

// NewBox returns a closed shoebox room spanning min to max
func NewBox(min, max pt.Vector) *Room {
	return NewRoom(pt.NewCube(min, max, wallMaterial).Mesh().Triangles)
}

// NewFrom3MF loads every mesh object of a 3MF model as room geometry.
//
// Vertex coordinates are divided by scale; 3MF files are usually authored in mm so
// DefaultScale yields meters.
func NewFrom3MF(filepath string, scale float64) (*Room, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	var model go3mf.Model
	r, err := go3mf.OpenReader(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening 3mf: %w", err)
	}
	defer r.Close()
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding 3mf: %w", err)
	}

	triangles := []*pt.Triangle{}
	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		vertex := func(i uint32) pt.Vector {
			v := obj.Mesh.Vertices.Vertex[i]
			return pt.Vector{
				X: float64(v.X()) / scale,
				Y: float64(v.Y()) / scale,
				Z: float64(v.Z()) / scale,
			}
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			m := wallMaterial
			tri := &pt.Triangle{
				Material: &m,
				V1:       vertex(uint32(t.V1)),
				V2:       vertex(uint32(t.V2)),
				V3:       vertex(uint32(t.V3)),
			}
			tri.FixNormals()
			triangles = append(triangles, tri)
		}
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%s: model has no triangles", filepath)
	}
	return NewRoom(triangles), nil
}

// Empty reports whether the room has no geometry
func (r *Room) Empty() bool {
	return r.M == nil || len(r.M.Triangles) == 0
}

// Intersect implements Intersector using the mesh BVH
func (r *Room) Intersect(origin, direction pt.Vector) Intersection {
	if r.Empty() || direction.Length() == 0 {
		return NoIntersection
	}
	ray := pt.Ray{Origin: origin, Direction: direction.Normalize()}
	hit := r.M.Intersect(ray)
	if !hit.Ok() {
		return NoIntersection
	}
	info := hit.Info(ray)
	return Intersection{
		Hit:      true,
		Distance: hit.T,
		Normal:   info.Normal,
	}
}
