//go:build verify_reflections
// +build verify_reflections

package room

import (
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
)

// Constants for verification
const (
	lengthEpsilon      = 1e-7
	angleEpsilon       = 1e-7
	coplanarityEpsilon = 1e-6
)

func init() {
	fmt.Println("Reflection verification enabled.")
}

// verifyReflectionLaw panics when a reflection breaks the law of reflection.
// normal must already point against incident.
func verifyReflectionLaw(incident, normal, reflected pt.Vector) {
	if math.Abs(reflected.Length()-1.0) > lengthEpsilon {
		panic(fmt.Sprintf("reflected direction %v is not unit length", reflected))
	}
	if incident.Dot(normal) > 0 {
		panic(fmt.Sprintf("normal %v does not oppose incident direction %v", normal, incident))
	}
	incidentAngle := math.Acos(clampUnit(incident.Negate().Dot(normal)))
	reflectedAngle := math.Acos(clampUnit(reflected.Dot(normal)))
	if math.Abs(incidentAngle-reflectedAngle) > angleEpsilon {
		panic(fmt.Sprintf("angle of incidence %v != angle of reflection %v", incidentAngle, reflectedAngle))
	}
	if math.Abs(incident.Cross(reflected).Dot(normal)) > coplanarityEpsilon {
		panic("incident, normal and reflected directions are not coplanar")
	}
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
