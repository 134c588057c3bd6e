package room

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// V is a shorthand constructor for pt.Vector
func V(X, Y, Z float64) pt.Vector {
	return pt.Vector{X: X, Y: Y, Z: Z}
}

// reflect mirrors direction about normal. normal must be unit length.
func reflect(direction, normal pt.Vector) pt.Vector {
	return direction.Sub(normal.MulScalar(2 * direction.Dot(normal)))
}

func isFinite(v pt.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}
