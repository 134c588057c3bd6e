package config

// ExperimentConfig represents the complete configuration for an auralization run
type ExperimentConfig struct {
	Metadata   Metadata   `yaml:"metadata"`
	Input      Input      `yaml:"input"`
	Source     Source     `yaml:"source"`
	Listener   Listener   `yaml:"listener"`
	Simulation Simulation `yaml:"simulation"`
	Audio      Audio      `yaml:"audio"`
}

type Metadata struct {
	Timestamp string `yaml:"timestamp"` // YYYY-MM-DD HH:MM:SS in UTC
	GitCommit string `yaml:"git_commit"`
}

// Input selects the room geometry. Exactly one of Mesh.Path and Box may be set; with
// neither the scene is a free field.
type Input struct {
	Mesh struct {
		Path string `yaml:"path,omitempty"`
		// Model units per meter
		Scale float64 `yaml:"scale,omitempty"`
	} `yaml:"mesh"`
	Box *Box `yaml:"box,omitempty"`
}

// Box is a shoebox room given by two opposite corners, in meters
type Box struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

type Source struct {
	Position [3]float64 `yaml:"position"`
	// Total emitted energy, shared by all rays
	Power       float64     `yaml:"power"`
	Facing      [3]float64  `yaml:"facing,omitempty"`
	Directivity Directivity `yaml:"directivity,omitempty"`
}

type Directivity struct {
	Horizontal map[float64]float64 `yaml:"horizontal,omitempty"` // angle -> attenuation
	Vertical   map[float64]float64 `yaml:"vertical,omitempty"`   // angle -> attenuation
	FromFile   string              `yaml:"from_file,omitempty"`
}

// Empty reports whether the source is omnidirectional
func (d Directivity) Empty() bool {
	return len(d.Horizontal) == 0 && len(d.Vertical) == 0
}

type Listener struct {
	Position [3]float64 `yaml:"position"`
	// Capture sphere radius in meters
	Radius float64 `yaml:"radius"`
	// Distance the listener moves per key press in interactive sessions, in meters
	MoveStep float64 `yaml:"move_step"`
}

type Simulation struct {
	RayCount        int     `yaml:"ray_count"`
	Workers         int     `yaml:"workers"`
	Seed            int64   `yaml:"seed"`
	MaxBounces      int     `yaml:"max_bounces"`
	DecayFactor     float64 `yaml:"decay_factor"`
	GainThresholdDB float64 `yaml:"gain_threshold_db"`
	Epsilon         float64 `yaml:"epsilon"`
	SpeedOfSound    float64 `yaml:"speed_of_sound"`
	// "drop" or "serialize"
	TickPolicy string `yaml:"tick_policy"`
}

type Audio struct {
	SampleRate    int     `yaml:"sample_rate"`
	WindowSeconds float64 `yaml:"window_seconds"`
	BlockFrames   int     `yaml:"block_frames"`
	Channels      int     `yaml:"channels"`
	Gain          float64 `yaml:"gain"`
	// Scale each published response to unit sum
	Normalize bool       `yaml:"normalize"`
	Input     AudioInput `yaml:"input"`
}

// AudioInput is the live signal fed to the renderer
type AudioInput struct {
	// "click" or "file"
	Kind string `yaml:"kind"`
	Path string `yaml:"path,omitempty"`
	// Seconds between clicks
	Interval float64 `yaml:"interval,omitempty"`
	Loop     bool    `yaml:"loop,omitempty"`
}

// Defaults used by ApplyDefaults
const (
	DefaultListenerRadius = 2.0
	DefaultMoveStep       = 0.25
	DefaultRayCount       = 1_000_000
	DefaultSourcePower    = 100_000
	DefaultMaxBounces     = 10
	DefaultDecayFactor    = 0.5
	DefaultEpsilon        = 0.01
	DefaultSpeedOfSound   = 343.0
	DefaultSampleRate     = 16000
	DefaultWindowSeconds  = 1.0
	DefaultBlockFrames    = 512
	DefaultChannels       = 2
	DefaultClickInterval  = 0.5
	DefaultMeshScale      = 1000
)

// ApplyDefaults fills every unset field
func (c *ExperimentConfig) ApplyDefaults() {
	if c.Input.Mesh.Path != "" && c.Input.Mesh.Scale == 0 {
		c.Input.Mesh.Scale = DefaultMeshScale
	}
	if c.Source.Power == 0 {
		c.Source.Power = DefaultSourcePower
	}
	if c.Listener.Radius == 0 {
		c.Listener.Radius = DefaultListenerRadius
	}
	if c.Listener.MoveStep == 0 {
		c.Listener.MoveStep = DefaultMoveStep
	}

	s := &c.Simulation
	if s.RayCount == 0 {
		s.RayCount = DefaultRayCount
	}
	if s.MaxBounces == 0 {
		s.MaxBounces = DefaultMaxBounces
	}
	if s.DecayFactor == 0 {
		s.DecayFactor = DefaultDecayFactor
	}
	if s.Epsilon == 0 {
		s.Epsilon = DefaultEpsilon
	}
	if s.SpeedOfSound == 0 {
		s.SpeedOfSound = DefaultSpeedOfSound
	}
	if s.TickPolicy == "" {
		s.TickPolicy = TickPolicyDrop
	}

	a := &c.Audio
	if a.SampleRate == 0 {
		a.SampleRate = DefaultSampleRate
	}
	if a.WindowSeconds == 0 {
		a.WindowSeconds = DefaultWindowSeconds
	}
	if a.BlockFrames == 0 {
		a.BlockFrames = DefaultBlockFrames
	}
	if a.Channels == 0 {
		a.Channels = DefaultChannels
	}
	if a.Gain == 0 {
		a.Gain = 1
	}
	if a.Input.Kind == "" {
		a.Input.Kind = InputClick
	}
	if a.Input.Kind == InputClick && a.Input.Interval == 0 {
		a.Input.Interval = DefaultClickInterval
	}
}

const (
	TickPolicyDrop      = "drop"
	TickPolicySerialize = "serialize"

	InputClick = "click"
	InputFile  = "file"
)
