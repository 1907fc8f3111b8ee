/*
NAME
  config.go

DESCRIPTION
  config.go provides the configuration options and logging types shared by
  the detect, smooth and warp packages.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings shared by the motion
// detector and geometric corrector.
package config

// Log levels, matching github.com/ausocean/utils/logging's level constants.
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
)

// Logger is the logging interface expected by this module. Production
// callers wire in github.com/ausocean/utils/logging; tests use a fake.
type Logger interface {
	SetLevel(int8)
	Debug(msg string, params ...interface{})
	Info(msg string, params ...interface{})
	Warning(msg string, params ...interface{})
	Error(msg string, params ...interface{})
	Fatal(msg string, params ...interface{})
}

// Crop defines the corrector's border policy when a warped frame would
// otherwise reveal pixels the source frame doesn't have.
type Crop int

const (
	CropKeep Crop = iota
	CropBlack
)

// OptZoom defines how the corrector picks its per-frame zoom.
type OptZoom int

const (
	OptZoomOff OptZoom = iota
	OptZoomStatic
	OptZoomAdaptive
)

// Interpol selects the resampling kernel used by the warp engine.
type Interpol int

const (
	InterpolZero Interpol = iota
	InterpolLinear
	InterpolBilinear
	InterpolBicubic
)

// CamPath selects the path-smoother flavour.
type CamPath int

const (
	CamPathAvg CamPath = iota
	CamPathGaussian
	CamPathOptimalL1
)

// Show controls whether and how detected fields are overlaid on output.
type Show int

const (
	ShowOff Show = iota
	ShowFields
	ShowFieldsAndVectors
)

// Default values. NewDetectorConfig and NewCorrectorConfig substitute them
// for out-of-range fields, reporting each substitution through
// LogInvalidField; a zero MinContrast, Smoothing or Zoom is in range and is
// kept.
const (
	DefaultShakiness   = 5
	DefaultAccuracy    = 9
	DefaultStepSize    = 6
	DefaultMinContrast = 0.25
	DefaultSmoothing   = 15
	DefaultZoom        = 0.0
)

// Config carries every tunable exposed by the detector and corrector. A
// zero-value Config is invalid; use NewDetectorConfig / NewCorrectorConfig
// to obtain one with defaults applied.
type Config struct {
	// Logger holds an implementation of the Logger interface. This must be
	// set for the detector and corrector to work correctly.
	Logger Logger

	// LogLevel is the logging verbosity level; one of Debug..Fatal.
	LogLevel int8

	// Shakiness is a 1..10 estimate of how shaky the input footage is; it
	// sets the coarse-field search radius and field size.
	Shakiness int

	// Accuracy is a 1..15 measure of how many fields to retain per frame,
	// raised to at least Shakiness/2. FieldCount reports it, but neither
	// detector limits the number of fields it keeps.
	Accuracy int

	// StepSize is the coarse search step used before refinement, 1..32.
	StepSize int

	// MinContrast is a 0.0..1.0 contrast threshold. It is range-checked
	// here, but neither detector reads it: contrast.Select rejects cells
	// against its own fixed Threshold.
	MinContrast float64

	// Show controls overlay of detected fields on the output frame.
	Show Show

	// Tripod is a frame index for a permanent reference frame, 0 for none.
	// It is range-checked here, but neither detector reads it: both always
	// match against their rolling references.
	Tripod int

	// Smoothing is the half-window length used by the path smoother.
	Smoothing int

	// MaxShift clamps applied x/y translation in pixels; -1 is unlimited.
	MaxShift int

	// MaxAngle clamps applied rotation in radians; -1 is unlimited.
	MaxAngle float64

	// Crop selects the border policy for pixels the warp can't source.
	Crop Crop

	// Zoom is an additional, constant zoom percentage applied every frame.
	Zoom float64

	// OptZoom selects how per-frame zoom is computed to avoid a border.
	OptZoom OptZoom

	// Interpol selects the resampling kernel used when warping.
	Interpol Interpol

	// CamPath selects the path-smoother flavour.
	CamPath CamPath
}

// NewDetectorConfig returns a Config with detector-relevant defaults
// applied, logging at Info level every field that required defaulting.
func NewDetectorConfig(log Logger) Config {
	c := Config{Logger: log}
	c.applyDetectorDefaults()
	return c
}

// NewCorrectorConfig returns a Config with corrector-relevant defaults
// applied, logging at Info level every field that required defaulting.
func NewCorrectorConfig(log Logger) Config {
	c := Config{Logger: log, MaxShift: -1, MaxAngle: -1}
	c.applyCorrectorDefaults()
	return c
}

func (c *Config) applyDetectorDefaults() {
	if c.Shakiness < 1 || c.Shakiness > 10 {
		c.LogInvalidField("Shakiness", DefaultShakiness)
		c.Shakiness = DefaultShakiness
	}
	if c.Accuracy < 1 || c.Accuracy > 15 {
		c.LogInvalidField("Accuracy", DefaultAccuracy)
		c.Accuracy = DefaultAccuracy
	}
	if c.Accuracy < c.Shakiness/2 {
		c.LogInvalidField("Accuracy", c.Shakiness/2)
		c.Accuracy = c.Shakiness / 2
	}
	if c.StepSize < 1 || c.StepSize > 32 {
		c.LogInvalidField("StepSize", DefaultStepSize)
		c.StepSize = DefaultStepSize
	}
	if c.MinContrast < 0 || c.MinContrast > 1 {
		c.LogInvalidField("MinContrast", DefaultMinContrast)
		c.MinContrast = DefaultMinContrast
	}
	if c.Tripod < 0 {
		c.LogInvalidField("Tripod", 0)
		c.Tripod = 0
	}
}

func (c *Config) applyCorrectorDefaults() {
	if c.Smoothing < 0 {
		c.LogInvalidField("Smoothing", DefaultSmoothing)
		c.Smoothing = DefaultSmoothing
	}
	if c.MaxShift < -1 {
		c.LogInvalidField("MaxShift", -1)
		c.MaxShift = -1
	}
	if c.MaxAngle < -1 {
		c.LogInvalidField("MaxAngle", -1)
		c.MaxAngle = -1
	}
}

// LogInvalidField logs at Info level that a field was bad or unset and a
// default is being substituted, matching the style of revid's config.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// SearchRadius derives the coarse-field search radius in pixels from
// Shakiness, following the original implementation's scaling.
func (c Config) SearchRadius() int {
	return c.Shakiness * 2
}

// FieldCount derives how many fields to retain from Accuracy.
func (c Config) FieldCount() int {
	return c.Accuracy
}
