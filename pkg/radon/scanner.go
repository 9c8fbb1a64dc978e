// Package radon simulates a parallel-beam CT scan of a 2-D image and
// reconstructs the image again by (filtered) backprojection.
//
// A Scanner owns every buffer of one scan. Projection and reconstruction
// advance incrementally: each Advance call processes a bounded range of
// rotation steps and returns, so a caller can render the intermediate
// sinogram and reconstruction between calls.
//
// A Scanner is not safe for concurrent use. Within one call the work may be
// spread over several goroutines, see WithWorkers.
package radon

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"

	"ctscan/internal/models"
	"ctscan/pkg/geometry"
	"ctscan/pkg/imageio"
	"ctscan/pkg/metrics"
)

// Option configures a Scanner
type Option func(*Scanner)

// WithWorkers sets how many goroutines an advance call may use. Values
// below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = max(n, 1)
	}
}

// Scanner holds the state of one simulated scan: the source image, the
// raw and normalized sinogram, the raw and normalized reconstruction and
// the two progress cursors.
type Scanner struct {
	source  *mat.Dense
	cfg     ScanConfig
	workers int

	iterations int
	srcGeom    *geometry.Geometry
	recGeom    *geometry.Geometry

	// sinogram rows are emitters, columns are rotation steps
	sinogram     *mat.Dense
	sinogramNorm *mat.Dense

	// reconstruction rows are y, columns are x
	recon     *mat.Dense
	reconNorm *mat.Dense

	projected     int
	reconstructed int
}

// New creates a scanner for source, a matrix of grey levels indexed
// (y, x). The source is copied.
func New(source mat.Matrix, cfg ScanConfig, opts ...Option) (*Scanner, error) {
	rows, cols := source.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidConfiguration)
	}

	s := &Scanner{
		source:  mat.DenseCopyOf(source),
		workers: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Configure(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFromImage creates a scanner for the grey levels of img
func NewFromImage(img image.Image, cfg ScanConfig, opts ...Option) (*Scanner, error) {
	return New(imageio.ToMatrix(img), cfg, opts...)
}

// Configure validates cfg and, if it is accepted, replaces the current
// configuration and resets all buffers and cursors. On error the scanner
// is left untouched.
func (s *Scanner) Configure(cfg ScanConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	rows, cols := s.source.Dims()
	recW, recH := cfg.ReconstructionWidth, cfg.ReconstructionHeight
	if recW == 0 {
		recW = cols
	}
	if recH == 0 {
		recH = rows
	}

	params := geometry.Params{
		StartRotation: cfg.StartRotation,
		Emitters:      cfg.Emitters,
		AngularSpan:   cfg.AngularSpan,
		RotationStep:  cfg.RotationStep,
	}
	srcGeom, err := geometry.New(cols, rows, params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	recGeom, err := geometry.New(recW, recH, params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	n := cfg.Iterations()
	s.cfg = cfg
	s.iterations = n
	s.srcGeom = srcGeom
	s.recGeom = recGeom
	s.sinogram = mat.NewDense(cfg.Emitters, n, nil)
	s.sinogramNorm = mat.NewDense(cfg.Emitters, n, nil)
	s.recon = mat.NewDense(recH, recW, nil)
	s.reconNorm = mat.NewDense(recH, recW, nil)
	s.projected = 0
	s.reconstructed = 0

	Logger().Info("scanner configured",
		"emitters", cfg.Emitters,
		"iterations", n,
		"span", cfg.AngularSpan,
		"step", cfg.RotationStep,
		"filter", cfg.UseFilter,
		"source", fmt.Sprintf("%dx%d", cols, rows),
		"reconstruction", fmt.Sprintf("%dx%d", recW, recH),
	)
	return nil
}

// Reset discards all progress and re-applies the current configuration
func (s *Scanner) Reset() {
	// the current configuration has already been validated
	_ = s.Configure(s.cfg)
}

// Config returns the active configuration
func (s *Scanner) Config() ScanConfig { return s.cfg }

// Iterations returns the number of rotation steps of the scan
func (s *Scanner) Iterations() int { return s.iterations }

// Progress returns both iteration cursors
func (s *Scanner) Progress() models.Progress {
	return models.Progress{
		Iterations:    s.iterations,
		Projected:     s.projected,
		Reconstructed: s.reconstructed,
	}
}

// Stage returns the lifecycle stage derived from the cursors
func (s *Scanner) Stage() models.Stage {
	return models.StageOf(s.Progress())
}

// Sinogram returns a copy of the normalized sinogram, emitters x steps.
// Columns that have not been projected yet are zero.
func (s *Scanner) Sinogram() *mat.Dense {
	return mat.DenseCopyOf(s.sinogramNorm)
}

// RawSinogram returns a copy of the unfiltered, unnormalized ray sums
func (s *Scanner) RawSinogram() *mat.Dense {
	return mat.DenseCopyOf(s.sinogram)
}

// Reconstruction returns a copy of the normalized reconstruction
func (s *Scanner) Reconstruction() *mat.Dense {
	return mat.DenseCopyOf(s.reconNorm)
}

// SinogramImage renders the normalized sinogram; x is the rotation step and
// y the emitter
func (s *Scanner) SinogramImage() *image.Gray {
	return imageio.ToGray(s.sinogramNorm)
}

// ReconstructionImage renders the normalized reconstruction
func (s *Scanner) ReconstructionImage() *image.Gray {
	return imageio.ToGray(s.reconNorm)
}

// ComputeError returns the mean squared error between the source image and
// the normalized reconstruction, resized to the source if needed
func (s *Scanner) ComputeError() float64 {
	return metrics.MSE(s.source, s.reconNorm)
}

// RMSE returns the root of ComputeError
func (s *Scanner) RMSE() float64 {
	return metrics.RMSE(s.source, s.reconNorm)
}

// Evaluate returns the full quality report of the current reconstruction
func (s *Scanner) Evaluate() metrics.Report {
	return metrics.Evaluate(s.source, s.reconNorm)
}
