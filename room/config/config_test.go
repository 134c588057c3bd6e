package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
source:
  position: [1, 2, 1.2]
listener:
  position: [4, 2, 1.2]
input:
  box:
    min: [0, 0, 0]
    max: [6, 4, 3]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestApplyDefaults(t *testing.T) {
	assert := assert.New(t)
	c := &ExperimentConfig{}
	c.ApplyDefaults()

	assert.Equal(2.0, c.Listener.Radius)
	assert.Equal(1_000_000, c.Simulation.RayCount)
	assert.Equal(100_000.0, c.Source.Power)
	assert.Equal(343.0, c.Simulation.SpeedOfSound)
	assert.Equal(16000, c.Audio.SampleRate)
	assert.Equal(1.0, c.Audio.WindowSeconds)
	assert.Equal(512, c.Audio.BlockFrames)
	assert.Equal(2, c.Audio.Channels)
	assert.Equal(10, c.Simulation.MaxBounces)
	assert.Equal(0.5, c.Simulation.DecayFactor)
	assert.Equal(TickPolicyDrop, c.Simulation.TickPolicy)
	assert.Equal(InputClick, c.Audio.Input.Kind)
	assert.Zero(c.Input.Mesh.Scale, "scale only defaults when a mesh is given")

	assert.Empty(c.Validate())
}

func TestLoadFromFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "experiment.yaml", minimalYAML+`
audio:
  input:
    kind: file
    path: sounds/voice.wav
`)

	c, err := LoadFromFile(path, LoadOptions{ResolvePaths: true, ApplyDefaults: true, ValidateImmediately: true})
	require.NoError(t, err)
	assert.Equal([3]float64{1, 2, 1.2}, c.Source.Position)
	assert.Equal([3]float64{6, 4, 3}, c.Input.Box.Max)
	assert.Equal(filepath.Join(dir, "sounds/voice.wav"), c.Audio.Input.Path)
}

func TestLoadFromFileMissingMesh(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "experiment.yaml", "input:\n  mesh:\n    path: room.3mf\n")
	_, err := LoadFromFile(path, LoadOptions{ResolvePaths: true})
	assert.Error(t, err)
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "experiment.yaml", minimalYAML+`
simulation:
  decay_factor: 1.5
  tick_policy: sometimes
`)
	_, err := LoadFromFile(path, LoadOptions{ApplyDefaults: true, ValidateImmediately: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decay_factor")
	assert.Contains(t, err.Error(), "tick_policy")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *ExperimentConfig)
		fields []string
	}{
		{"valid", func(c *ExperimentConfig) {}, nil},
		{"mesh and box", func(c *ExperimentConfig) {
			c.Input.Mesh.Path = "room.3mf"
			c.Input.Mesh.Scale = 1000
		}, []string{"input"}},
		{"inverted box", func(c *ExperimentConfig) {
			c.Input.Box.Max[1] = -1
		}, []string{"input.box.y"}},
		{"negative radius", func(c *ExperimentConfig) {
			c.Listener.Radius = -1
		}, []string{"listener.radius"}},
		{"positive gain threshold", func(c *ExperimentConfig) {
			c.Simulation.GainThresholdDB = 3
		}, []string{"simulation.gain_threshold_db"}},
		{"directivity without facing", func(c *ExperimentConfig) {
			c.Source.Directivity.Horizontal = map[float64]float64{0: 0, 90: -6}
		}, []string{"source.facing"}},
		{"directivity gain", func(c *ExperimentConfig) {
			c.Source.Facing = [3]float64{1, 0, 0}
			c.Source.Directivity.Vertical = map[float64]float64{0: 3, 270: -6}
		}, []string{"source.directivity.vertical", "source.directivity.vertical"}},
		{"file input without path", func(c *ExperimentConfig) {
			c.Audio.Input.Kind = InputFile
		}, []string{"audio.input.path"}},
		{"unknown input", func(c *ExperimentConfig) {
			c.Audio.Input.Kind = "microphone"
		}, []string{"audio.input.kind"}},
		{"too many channels", func(c *ExperimentConfig) {
			c.Audio.Channels = 12
		}, []string{"audio.channels"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &ExperimentConfig{Input: Input{Box: &Box{Max: [3]float64{6, 4, 3}}}}
			c.ApplyDefaults()
			tt.modify(c)
			var fields []string
			for _, err := range c.Validate() {
				fields = append(fields, err.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	assert := assert.New(t)
	assert.Empty(FormatValidationErrors(nil))

	out := FormatValidationErrors([]ValidationError{
		{Field: "listener.radius", Message: "must be positive"},
		{Field: "audio.gain", Message: "must be positive"},
		{Field: "listener.move_step", Message: "must be positive"},
	})
	assert.True(strings.HasPrefix(out, "Validation Errors:\n"))
	assert.Less(strings.Index(out, "LISTENER"), strings.Index(out, "AUDIO"))
	assert.Contains(out, "  - radius: must be positive\n")
	assert.Contains(out, "  - move_step: must be positive\n")
}

func TestMergeDirectivity(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "speaker.json", `{"horizontal": {"0": 0, "30": -3, "90": -12}, "vertical": {"45": -6}}`)

	d := Directivity{Horizontal: map[float64]float64{30: -2}, FromFile: path}
	require.NoError(t, d.MergeDirectivity())
	assert.Equal(map[float64]float64{0: 0, 30: -2, 90: -12}, d.Horizontal)
	assert.Equal(map[float64]float64{45: -6}, d.Vertical)

	bad := writeFile(t, dir, "bad.json", `{"horizontal": {"left": -3}}`)
	assert.Error((&Directivity{FromFile: bad}).MergeDirectivity())
}

func TestSaveToFile(t *testing.T) {
	assert := assert.New(t)
	c := &ExperimentConfig{}
	c.ApplyDefaults()
	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, SaveToFile(c, path))

	loaded, err := LoadFromFile(path, LoadOptions{})
	require.NoError(t, err)
	assert.NotEmpty(loaded.Metadata.Timestamp)
	assert.NotEmpty(loaded.Metadata.GitCommit)
	assert.Equal(c.Audio, loaded.Audio)
	assert.Equal(c.Simulation, loaded.Simulation)
}

func TestPathResolver(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFile(t, dir, "room.3mf", "")
	resolver := NewPathResolver(dir)

	empty := ""
	resolver.Resolve(&empty)
	assert.Empty(empty)

	abs := "/srv/room.3mf"
	resolver.Resolve(&abs)
	assert.Equal("/srv/room.3mf", abs)

	mesh := "room.3mf"
	assert.NoError(resolver.Require("input.mesh.path", &mesh))
	assert.Equal(filepath.Join(dir, "room.3mf"), mesh)

	missing := "missing.json"
	err := resolver.Require("source.directivity.from_file", &missing)
	assert.ErrorIs(err, os.ErrNotExist)
	assert.ErrorContains(err, "source.directivity.from_file")

	folder := "."
	assert.ErrorContains(resolver.Require("input.mesh.path", &folder), "is a directory")
}
