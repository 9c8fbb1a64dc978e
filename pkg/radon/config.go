package radon

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfiguration is returned when a ScanConfig is rejected
	ErrInvalidConfiguration = errors.New("invalid scan configuration")

	// ErrOutOfRange is returned when an advance targets an iteration
	// before the current cursor or past the last iteration
	ErrOutOfRange = errors.New("iteration out of range")

	// ErrSequencing is returned when reconstruction is requested for steps
	// whose sinogram columns have not been generated yet
	ErrSequencing = errors.New("sinogram not generated for requested steps")
)

// iterationEpsilon absorbs the rounding of pi/step for steps that divide pi
// exactly, e.g. pi/36 must give 36 iterations rather than 35.
const iterationEpsilon = 1e-9

const (
	// MaxIterations bounds the number of rotation steps of one scan
	MaxIterations = 1 << 16

	// MaxEmitters bounds the number of emitter/detector pairs
	MaxEmitters = 1 << 16

	// MaxCells bounds the size of the sinogram (emitters x steps) and of
	// the reconstruction (width x height)
	MaxCells = 1 << 26
)

// ScanConfig is the full description of one simulated scan. Angles are in
// radians.
type ScanConfig struct {
	// StartRotation is the scanner rotation at the first step
	StartRotation float64 `json:"start_rotation"`

	// Emitters is the number of emitter/detector pairs, at least 2
	Emitters int `json:"emitters"`

	// AngularSpan is the arc covered by the emitters, in (0, 2*pi]
	AngularSpan float64 `json:"angular_span"`

	// RotationStep is the rotation between steps. The scan covers half a
	// turn, so it runs floor(pi/RotationStep) steps.
	RotationStep float64 `json:"rotation_step"`

	// UseFilter applies the ramp filter to the sinogram before it is
	// normalized and backprojected
	UseFilter bool `json:"use_filter"`

	// ReconstructionWidth and ReconstructionHeight size the reconstruction
	// buffer. Zero means the size of the source image.
	ReconstructionWidth  int `json:"reconstruction_width,omitempty"`
	ReconstructionHeight int `json:"reconstruction_height,omitempty"`
}

// DefaultScanConfig matches the classic demo setup: 10 emitters over a
// quarter turn, 5 degree steps.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Emitters:     10,
		AngularSpan:  math.Pi / 2,
		RotationStep: math.Pi / 36,
	}
}

// Iterations returns the number of rotation steps in the scan
func (c ScanConfig) Iterations() int {
	if !(c.RotationStep > 0) {
		return 0
	}
	return int(math.Floor(math.Pi/c.RotationStep + iterationEpsilon))
}

// Validate reports why the configuration cannot be used, wrapping
// ErrInvalidConfiguration
func (c ScanConfig) Validate() error {
	switch {
	case c.Emitters < 2:
		return fmt.Errorf("%w: need at least 2 emitters, got %d", ErrInvalidConfiguration, c.Emitters)
	case c.Emitters > MaxEmitters:
		return fmt.Errorf("%w: at most %d emitters, got %d", ErrInvalidConfiguration, MaxEmitters, c.Emitters)
	case math.IsNaN(c.AngularSpan) || c.AngularSpan <= 0:
		return fmt.Errorf("%w: angular span must be positive, got %v", ErrInvalidConfiguration, c.AngularSpan)
	case c.AngularSpan > 2*math.Pi:
		return fmt.Errorf("%w: angular span exceeds a full turn: %v", ErrInvalidConfiguration, c.AngularSpan)
	case math.IsNaN(c.RotationStep) || c.RotationStep <= 0:
		return fmt.Errorf("%w: rotation step must be positive, got %v", ErrInvalidConfiguration, c.RotationStep)
	case math.Pi/c.RotationStep > MaxIterations:
		return fmt.Errorf("%w: rotation step %v yields more than %d iterations", ErrInvalidConfiguration, c.RotationStep, MaxIterations)
	case c.Iterations() < 1:
		return fmt.Errorf("%w: rotation step %v yields no iterations", ErrInvalidConfiguration, c.RotationStep)
	case math.IsNaN(c.StartRotation) || math.IsInf(c.StartRotation, 0):
		return fmt.Errorf("%w: start rotation must be finite, got %v", ErrInvalidConfiguration, c.StartRotation)
	case c.Emitters*c.Iterations() > MaxCells:
		return fmt.Errorf("%w: sinogram of %d emitters x %d steps exceeds %d cells",
			ErrInvalidConfiguration, c.Emitters, c.Iterations(), MaxCells)
	case c.ReconstructionWidth < 0 || c.ReconstructionHeight < 0:
		return fmt.Errorf("%w: reconstruction size must not be negative, got %dx%d",
			ErrInvalidConfiguration, c.ReconstructionWidth, c.ReconstructionHeight)
	case c.ReconstructionWidth > MaxCells || c.ReconstructionHeight > MaxCells ||
		c.ReconstructionWidth*c.ReconstructionHeight > MaxCells:
		return fmt.Errorf("%w: reconstruction of %dx%d exceeds %d pixels",
			ErrInvalidConfiguration, c.ReconstructionWidth, c.ReconstructionHeight, MaxCells)
	}
	return nil
}
