package room

import (
	"math"
)

// SPEED_OF_SOUND in air at 20 °C, in m/s
const SPEED_OF_SOUND = 343.0

const MS float64 = 1.0 / 1000.0

func toDB(gain float64) float64 {
	return 10 * math.Log10(gain)
}

func fromDB(gainDB float64) float64 {
	return math.Pow(10, gainDB/10)
}

// ArrivalTime is the time in seconds sound takes to travel distance meters.
func ArrivalTime(distance, speedOfSound float64) float64 {
	return distance / speedOfSound
}
