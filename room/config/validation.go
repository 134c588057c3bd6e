package config

import (
	"fmt"
	"math"
	"strings"
)

// Validation helper functions
func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be positive",
		}}
	}
	return nil
}

func validateNonNegative(field string, value float64) []ValidationError {
	if value < 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be non-negative",
		}}
	}
	return nil
}

func validateInRange(field string, value, min, max float64) []ValidationError {
	if value < min || value > max {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("must be between %v and %v", min, max),
		}}
	}
	return nil
}

func validateUnitVector(field string, vec [3]float64) []ValidationError {
	length := math.Sqrt(vec[0]*vec[0] + vec[1]*vec[1] + vec[2]*vec[2])
	if math.Abs(length-1.0) > 1e-6 {
		return []ValidationError{{
			Field:   field,
			Message: "must be a unit vector",
		}}
	}
	return nil
}

func validateFinite(field string, vec [3]float64) []ValidationError {
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return []ValidationError{{
				Field:   field,
				Message: "must be finite",
			}}
		}
	}
	return nil
}

func validateAttenuation(field string, gain float64) []ValidationError {
	if gain > 0 {
		return []ValidationError{{
			Field:   field,
			Message: "attenuation must not be positive",
		}}
	}
	return nil
}

func validateAngleRange(field string, angle float64) []ValidationError {
	if angle < -180 || angle > 180 {
		return []ValidationError{{
			Field:   field,
			Message: "angle must be between -180 and 180 degrees",
		}}
	}
	return nil
}

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// New function to format validation errors nicely
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Validation Errors:\n")

	// Group errors by category
	categories := map[string][]ValidationError{}
	var order []string
	for _, err := range errs {
		category := strings.Split(err.Field, ".")[0]
		if _, seen := categories[category]; !seen {
			order = append(order, category)
		}
		categories[category] = append(categories[category], err)
	}

	// Print errors by category, in the order they were found
	for _, category := range order {
		categoryErrors := categories[category]
		b.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(category)))
		for _, err := range categoryErrors {
			// Remove category prefix from field for cleaner display
			field := strings.TrimPrefix(err.Field, category+".")
			if field == category {
				field = "general"
			}
			b.WriteString(fmt.Sprintf("  - %s: %s\n", field, err.Message))
		}
	}

	return b.String()
}

// Validate performs validation on the entire configuration
func (c *ExperimentConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.Input.Validate()...)
	errors = append(errors, c.Source.Validate()...)
	errors = append(errors, c.Listener.Validate()...)
	errors = append(errors, c.Simulation.Validate()...)
	errors = append(errors, c.Audio.Validate()...)
	return errors
}

func (i *Input) Validate() []ValidationError {
	var errors []ValidationError

	if i.Mesh.Path != "" && i.Box != nil {
		errors = append(errors, ValidationError{
			Field:   "input",
			Message: "only one of mesh.path and box may be specified",
		})
	}
	if i.Mesh.Path != "" {
		errors = append(errors, validatePositive("input.mesh.scale", i.Mesh.Scale)...)
	}
	if i.Box != nil {
		for axis, name := range []string{"x", "y", "z"} {
			if i.Box.Max[axis] <= i.Box.Min[axis] {
				errors = append(errors, ValidationError{
					Field:   "input.box." + name,
					Message: "max must be greater than min",
				})
			}
		}
	}

	return errors
}

func (s *Source) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateFinite("source.position", s.Position)...)
	errors = append(errors, validatePositive("source.power", s.Power)...)

	if !s.Directivity.Empty() {
		if s.Facing == [3]float64{0, 0, 0} {
			errors = append(errors, ValidationError{
				Field:   "source.facing",
				Message: "required when directivity is specified",
			})
		} else {
			errors = append(errors, validateUnitVector("source.facing", s.Facing)...)
		}
	}

	// Validate directivity angles
	for angle, gain := range s.Directivity.Horizontal {
		errors = append(errors, validateAngleRange("source.directivity.horizontal", angle)...)
		errors = append(errors, validateAttenuation("source.directivity.horizontal", gain)...)
	}
	for angle, gain := range s.Directivity.Vertical {
		errors = append(errors, validateAngleRange("source.directivity.vertical", angle)...)
		errors = append(errors, validateAttenuation("source.directivity.vertical", gain)...)
	}

	return errors
}

func (l *Listener) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateFinite("listener.position", l.Position)...)
	errors = append(errors, validatePositive("listener.radius", l.Radius)...)
	errors = append(errors, validatePositive("listener.move_step", l.MoveStep)...)

	return errors
}

func (s *Simulation) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validatePositive("simulation.ray_count", float64(s.RayCount))...)
	errors = append(errors, validateNonNegative("simulation.workers", float64(s.Workers))...)
	errors = append(errors, validateNonNegative("simulation.max_bounces", float64(s.MaxBounces))...)
	errors = append(errors, validateInRange("simulation.decay_factor", s.DecayFactor, 0, 1)...)
	errors = append(errors, validateInRange("simulation.gain_threshold_db", s.GainThresholdDB, math.Inf(-1), 0)...)
	errors = append(errors, validatePositive("simulation.epsilon", s.Epsilon)...)
	errors = append(errors, validatePositive("simulation.speed_of_sound", s.SpeedOfSound)...)

	if s.TickPolicy != TickPolicyDrop && s.TickPolicy != TickPolicySerialize {
		errors = append(errors, ValidationError{
			Field:   "simulation.tick_policy",
			Message: fmt.Sprintf("must be %q or %q", TickPolicyDrop, TickPolicySerialize),
		})
	}

	return errors
}

func (a *Audio) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validatePositive("audio.sample_rate", float64(a.SampleRate))...)
	errors = append(errors, validatePositive("audio.window_seconds", a.WindowSeconds)...)
	errors = append(errors, validatePositive("audio.block_frames", float64(a.BlockFrames))...)
	errors = append(errors, validateInRange("audio.channels", float64(a.Channels), 1, 2)...)
	errors = append(errors, validatePositive("audio.gain", a.Gain)...)

	switch a.Input.Kind {
	case InputClick:
		errors = append(errors, validatePositive("audio.input.interval", a.Input.Interval)...)
	case InputFile:
		if a.Input.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "audio.input.path",
				Message: "required for file input",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "audio.input.kind",
			Message: fmt.Sprintf("must be %q or %q", InputClick, InputFile),
		})
	}

	return errors
}
