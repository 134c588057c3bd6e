package auralizer

import (
	"fmt"
	"time"

	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-auralizer/audio"
	"github.com/jdginn/go-auralizer/audio/device"
	"github.com/jdginn/go-auralizer/room"
	"github.com/jdginn/go-auralizer/room/config"
)

// LoadConfig reads, resolves, merges, defaults and validates an experiment config
func LoadConfig(path string) (*config.ExperimentConfig, error) {
	return config.LoadFromFile(path, config.LoadOptions{
		ValidateImmediately: true,
		ResolvePaths:        true,
		MergeFiles:          true,
		ApplyDefaults:       true,
	})
}

func vector(a [3]float64) pt.Vector {
	return pt.Vector{X: a[0], Y: a[1], Z: a[2]}
}

// NewScene builds the room, source and listener described by cfg. Without a mesh or a
// box the room is empty and only the direct sound arrives.
func NewScene(cfg *config.ExperimentConfig) (room.Scene, error) {
	var r *room.Room
	switch {
	case cfg.Input.Mesh.Path != "":
		var err error
		if r, err = room.NewFrom3MF(cfg.Input.Mesh.Path, cfg.Input.Mesh.Scale); err != nil {
			return room.Scene{}, err
		}
	case cfg.Input.Box != nil:
		r = room.NewBox(vector(cfg.Input.Box.Min), vector(cfg.Input.Box.Max))
	default:
		r = room.NewEmptyRoom()
	}

	source := room.Source{
		Position: vector(cfg.Source.Position),
		Facing:   vector(cfg.Source.Facing),
	}
	if !cfg.Source.Directivity.Empty() {
		source.Directivity = room.NewDirectivity(cfg.Source.Directivity.Horizontal, cfg.Source.Directivity.Vertical)
	}
	return room.Scene{
		Room:   r,
		Source: source,
		Listener: room.Listener{
			Position: vector(cfg.Listener.Position),
			Radius:   cfg.Listener.Radius,
		},
	}, nil
}

// NewOptions translates the simulation and audio settings of cfg
func NewOptions(cfg *config.ExperimentConfig, logger Logger) Options {
	sim := cfg.Simulation
	policy := TickDrop
	if sim.TickPolicy == config.TickPolicySerialize {
		policy = TickSerialize
	}
	return Options{
		Cast: room.CastParams{
			RayCount:    sim.RayCount,
			SourcePower: cfg.Source.Power,
			Workers:     sim.Workers,
			Seed:        sim.Seed,
			Trace: room.TraceParams{
				MaxBounces:    sim.MaxBounces,
				DecayFactor:   sim.DecayFactor,
				GainThreshold: sim.GainThresholdDB,
				Epsilon:       sim.Epsilon,
			},
		},
		SampleRate:   cfg.Audio.SampleRate,
		SpeedOfSound: sim.SpeedOfSound,
		Length:       room.ResponseLength(cfg.Audio.SampleRate, cfg.Audio.WindowSeconds),
		Normalize:    cfg.Audio.Normalize,
		Policy:       policy,
		Logger:       logger,
	}
}

// NewStreamConfig sizes the input history so every tap of a response reaches every
// frame of a block
func NewStreamConfig(cfg *config.ExperimentConfig) audio.StreamConfig {
	a := cfg.Audio
	return audio.StreamConfig{
		SampleRate:    a.SampleRate,
		BlockFrames:   a.BlockFrames,
		Channels:      a.Channels,
		InputChannels: 1,
		History:       room.ResponseLength(a.SampleRate, a.WindowSeconds) + a.BlockFrames,
		Gain:          float32(a.Gain),
	}
}

// NewInput opens the live signal selected by cfg
func NewInput(cfg *config.ExperimentConfig) (device.Input, error) {
	in := cfg.Audio.Input
	switch in.Kind {
	case config.InputClick:
		interval := time.Duration(in.Interval * float64(time.Second))
		return device.NewToneSource(cfg.Audio.SampleRate, interval, 1), nil
	case config.InputFile:
		source, err := device.OpenWAVSource(in.Path, cfg.Audio.SampleRate, in.Loop)
		if err != nil {
			return nil, err
		}
		return source, nil
	}
	return nil, fmt.Errorf("unknown audio input %q", in.Kind)
}

// Session wires a scene to a simulator and an audio stream sharing one exchange
type Session struct {
	Config    *config.ExperimentConfig
	Scene     room.Scene
	Exchange  *audio.Exchange
	Simulator *Simulator
	Stream    *audio.Stream
}

func NewSession(cfg *config.ExperimentConfig, logger Logger) (*Session, error) {
	scene, err := NewScene(cfg)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}
	exchange := &audio.Exchange{}
	stream, err := audio.NewStream(NewStreamConfig(cfg), exchange)
	if err != nil {
		return nil, err
	}
	return &Session{
		Config:    cfg,
		Scene:     scene,
		Exchange:  exchange,
		Simulator: NewSimulator(scene.Room, exchange, NewOptions(cfg, logger)),
		Stream:    stream,
	}, nil
}

// Tick simulates the scene source heard at listener
func (s *Session) Tick(listener room.Listener) (TickResult, error) {
	return s.Simulator.Tick(listener, s.Scene.Source)
}

// Dropped counts tick requests rejected while another tick was running
func (s *Session) Dropped() uint64 {
	return s.Simulator.Dropped()
}
