package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdginn/go-auralizer/audio/device"
	"github.com/jdginn/go-auralizer/auralizer"
	"github.com/jdginn/go-auralizer/interact"
	"github.com/jdginn/go-auralizer/room"
	"github.com/jdginn/go-auralizer/room/config"
	"github.com/jdginn/go-auralizer/room/experiment"
)

const (
	PLOT_WIDTH  = 1600
	PLOT_HEIGHT = 900
	PLAN_SIZE   = 1000
)

var CLI struct {
	Simulate SimulateCmd `cmd:"" help:"Simulate a room and save the response"`
	Render   RenderCmd   `cmd:"" help:"Auralize a WAV file offline"`
	Compare  CompareCmd  `cmd:"" help:"Compare a simulated response with a measured one"`
	Listen   ListenCmd   `cmd:"" help:"Move the listener around a room and hear the result live"`
	Validate ValidateCmd `cmd:"" help:"Check a config file"`
}

type experimentFlags struct {
	Config      string `arg:"" name:"config" help:"experiment config (YAML)" type:"existingfile"`
	Experiments string `name:"experiments" help:"directory holding experiment output" default:"experiments"`
}

// setup loads the config, traces the listener position once and opens a fresh
// experiment directory holding a copy of the config
func (f experimentFlags) setup() (*auralizer.Session, auralizer.TickResult, *experiment.ExperimentDir, error) {
	cfg, err := auralizer.LoadConfig(f.Config)
	if err != nil {
		return nil, auralizer.TickResult{}, nil, err
	}
	session, err := auralizer.NewSession(cfg, auralizer.DefaultLogger{})
	if err != nil {
		return nil, auralizer.TickResult{}, nil, err
	}
	result, err := session.Tick(session.Scene.Listener)
	if err != nil {
		return nil, auralizer.TickResult{}, nil, err
	}

	dir, err := experiment.CreateExperimentDirectory(f.Experiments)
	if err != nil {
		return nil, auralizer.TickResult{}, nil, err
	}
	if err := dir.CopyConfigFile(f.Config); err != nil {
		return nil, auralizer.TickResult{}, nil, err
	}
	if err := config.SaveToFile(cfg, dir.GetFilePath("resolved.yaml")); err != nil {
		return nil, auralizer.TickResult{}, nil, err
	}
	log.Printf("experiment %s", dir.Path)
	return session, result, dir, nil
}

type SimulateCmd struct {
	experimentFlags
}

func (c SimulateCmd) Run() error {
	session, result, dir, err := c.setup()
	if err != nil {
		return err
	}
	cfg := session.Config

	if err := room.SaveResponse(dir.GetFilePath(experiment.ResponseFile), result.Response); err != nil {
		return fmt.Errorf("saving response: %w", err)
	}
	rayEnergy := cfg.Source.Power / float64(cfg.Simulation.RayCount)
	if err := room.SavePathsJSON(dir.GetFilePath(experiment.PathsFile), result.Paths, session.Scene.Listener, session.Scene.Source, rayEnergy, cfg.Simulation.SpeedOfSound); err != nil {
		return fmt.Errorf("saving paths: %w", err)
	}
	if err := room.NewPlanView(session.Scene, PLAN_SIZE, PLAN_SIZE).SavePlanView(dir.GetFilePath(experiment.PlanViewFile)); err != nil {
		return fmt.Errorf("saving plan view: %w", err)
	}
	if err := room.PlotResponse(dir.GetFilePath(experiment.PlotFile), result.Response, cfg.Audio.SampleRate, PLOT_WIDTH, PLOT_HEIGHT); err != nil {
		// A listener out of reach of the source still gets the other artifacts
		log.Printf("Warning: not plotting response: %v", err)
	}

	edc := room.EnergyDecayCurve(result.Response)
	if t20, ok := room.DecayTime(edc, cfg.Audio.SampleRate, -5, -25); ok {
		log.Printf("T20 %.3f s", t20)
	}
	fmt.Printf("%d paths, %.6g energy within %.3g s\n", len(result.Paths), result.Response.Sum(), cfg.Audio.WindowSeconds)
	return nil
}

type RenderCmd struct {
	experimentFlags
	Input  string `arg:"" name:"input" help:"dry WAV file" type:"existingfile"`
	Output string `arg:"" name:"output" help:"WAV file to write" optional:""`
}

func (c RenderCmd) Run() error {
	session, _, dir, err := c.setup()
	if err != nil {
		return err
	}
	cfg := session.Config

	input, err := device.OpenWAVSource(c.Input, cfg.Audio.SampleRate, false)
	if err != nil {
		return err
	}
	defer input.Close()

	// Keep rendering past the end of the input so the reverb tail is heard
	frames := input.Frames() + room.ResponseLength(cfg.Audio.SampleRate, cfg.Audio.WindowSeconds)
	samples := device.RenderOffline(session.Stream, input, frames)
	if err := input.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", c.Input, err)
	}

	output := c.Output
	if output == "" {
		output = dir.GetFilePath(experiment.RenderFile)
	}
	if err := device.WriteWAV(output, samples, cfg.Audio.Channels, cfg.Audio.SampleRate); err != nil {
		return err
	}
	stats := session.Stream.Stats()
	log.Printf("rendered %d frames in %d blocks to %s", frames, stats.Blocks, output)
	return nil
}

type CompareCmd struct {
	experimentFlags
	Measurement string `arg:"" name:"measurement" help:"measured impulse response, WAV or REW text export" type:"existingfile"`
}

func loadMeasurement(filename string) (room.Measurement, error) {
	if strings.EqualFold(filepath.Ext(filename), ".wav") {
		return room.LoadMeasurementWAV(filename)
	}
	return room.LoadMeasurementREW(filename)
}

func (c CompareCmd) Run() error {
	session, result, dir, err := c.setup()
	if err != nil {
		return err
	}
	sampleRate := session.Config.Audio.SampleRate

	m, err := loadMeasurement(c.Measurement)
	if err != nil {
		return err
	}
	measured := m.Energy(sampleRate, len(result.Response))
	comparison := room.Compare(result.Response, measured, sampleRate)

	report := fmt.Sprintf("correlation %.4f\nsimulated energy %.6g\nmeasured energy %.6g\nsimulated T20 %.3f s\nmeasured T20 %.3f s\n",
		comparison.Correlation, comparison.SimulatedEnergy, comparison.MeasuredEnergy, comparison.SimulatedT20, comparison.MeasuredT20)
	fmt.Print(report)
	return os.WriteFile(dir.GetFilePath(experiment.ComparisonFile), []byte(report), 0644)
}

type ListenCmd struct {
	Config string        `arg:"" name:"config" help:"experiment config (YAML)" type:"existingfile"`
	Buffer time.Duration `name:"buffer" help:"device buffer length" default:"100ms"`
	Log    string        `name:"log" help:"file receiving log output while the session runs" default:"listen.log"`
}

func (c ListenCmd) Run() error {
	// The terminal belongs to the session, so logs go to a file
	f, err := tea.LogToFile(c.Log, "")
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := auralizer.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	session, err := auralizer.NewSession(cfg, auralizer.DefaultLogger{})
	if err != nil {
		return err
	}
	input, err := auralizer.NewInput(cfg)
	if err != nil {
		return err
	}
	player, err := device.NewPlayer(session.Stream, input, c.Buffer)
	if err != nil {
		return err
	}
	defer player.Close()
	player.Start()

	return interact.Run(session, session.Stream, session.Scene.Listener, cfg.Listener.MoveStep)
}

type ValidateCmd struct {
	Config string `arg:"" name:"config" help:"experiment config (YAML)" type:"existingfile"`
}

func (c ValidateCmd) Run() error {
	cfg, err := config.LoadFromFile(c.Config, config.LoadOptions{
		ResolvePaths:  true,
		MergeFiles:    true,
		ApplyDefaults: true,
	})
	if err != nil {
		return err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid config\n%s", config.FormatValidationErrors(errs))
	}
	fmt.Println("config is valid")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("auralizer"),
		kong.Description("Monte Carlo room acoustics with live auralization"),
	)
	err := ctx.Run()
	if err != nil {
		log.Fatal(err)
	}
}
