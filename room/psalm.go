package room

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fogleman/pt/pt"
)

// JSON schema types
type PointJSON struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Size float64 `json:"size,omitempty"`
	Name string  `json:"name,omitempty"`
}

type AcousticPathJSON struct {
	Gain     float64 `json:"gain"` // stored in dB, relative to the direct ray energy
	Energy   float64 `json:"energy"`
	Distance float64 `json:"distance"`
	DelayMS  float64 `json:"delayMs"`
	Bounces  int     `json:"bounces"`
	Color    string  `json:"color,omitempty"`
}

type ZoneJSON struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
	Radius       float64 `json:"radius"`
	Name         string  `json:"name,omitempty"`
	Color        string  `json:"color,omitempty"`
	Transparency float64 `json:"transparency,omitempty"`
}

// AnnotationsJSON is the document written by SavePathsJSON
type AnnotationsJSON struct {
	Points        []PointJSON        `json:"points,omitempty"`
	AcousticPaths []AcousticPathJSON `json:"acousticPaths,omitempty"`
	Zones         []ZoneJSON         `json:"zones,omitempty"`
}

// Conversion functions
func VectorToJSON(v pt.Vector, name string) PointJSON {
	return PointJSON{
		X:    v.X,
		Y:    v.Y,
		Z:    v.Z,
		Size: 1.0,
		Name: name,
	}
}

// PathToJSON converts a path. rayEnergy is the energy each ray left the source with.
func PathToJSON(p AcousticPath, rayEnergy, speedOfSound float64) AcousticPathJSON {
	gain := 0.0
	if rayEnergy > 0 && p.Energy > 0 {
		gain = toDB(p.Energy / rayEnergy)
	}
	color := "#FF0000" // Default red color for direct arrivals
	if p.Bounces > 0 {
		color = "#0000FF"
	}
	return AcousticPathJSON{
		Gain:     gain,
		Energy:   p.Energy,
		Distance: p.Distance,
		DelayMS:  ArrivalTime(p.Distance, speedOfSound) / MS,
		Bounces:  p.Bounces,
		Color:    color,
	}
}

func ListenerToJSON(l Listener) ZoneJSON {
	return ZoneJSON{
		X:            l.Position.X,
		Y:            l.Position.Y,
		Z:            l.Position.Z,
		Radius:       l.Radius,
		Name:         "listener",
		Transparency: 0.5,
	}
}

// SavePathsJSON saves the source, the listener sphere and every recorded path to a JSON file
func SavePathsJSON(filename string, paths []AcousticPath, listener Listener, source Source, rayEnergy, speedOfSound float64) error {
	container := AnnotationsJSON{
		Points:        []PointJSON{VectorToJSON(source.Position, "source")},
		AcousticPaths: make([]AcousticPathJSON, 0, len(paths)),
		Zones:         []ZoneJSON{ListenerToJSON(listener)},
	}
	for _, p := range paths {
		container.AcousticPaths = append(container.AcousticPaths, PathToJSON(p, rayEnergy, speedOfSound))
	}

	data, err := json.MarshalIndent(container, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling paths: %w", err)
	}

	return os.WriteFile(filename, data, 0644)
}

// LoadPathsJSON reads a document written by SavePathsJSON
func LoadPathsJSON(filename string) (AnnotationsJSON, error) {
	var container AnnotationsJSON
	data, err := os.ReadFile(filename)
	if err != nil {
		return container, err
	}
	if err := json.Unmarshal(data, &container); err != nil {
		return container, fmt.Errorf("error unmarshaling paths: %w", err)
	}
	return container, nil
}
