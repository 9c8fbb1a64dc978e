package geometry

import (
	"ctscan/internal/models"
)

// Stepper walks the geometry one rotation step at a time by adding the
// rotation step to the previous angles instead of recomputing them.
//
// Repeated addition drifts by roughly one ulp per step; after 10^4 steps
// the angles stay within 1e-9 rad of Geometry.EmitterAngles, far below the
// sub-pixel threshold at any practical scanner radius.
//
// The scanner engine does not use a Stepper: it evaluates Geometry.Rays
// directly for every step, so results do not depend on how steps are
// batched or split across workers. Stepper serves sequential callers that
// walk every step in order.
type Stepper struct {
	g         *Geometry
	step      int
	emitters  []float64
	detectors []float64
}

// NewStepper starts a stepper at step from
func NewStepper(g *Geometry, from int) *Stepper {
	return &Stepper{
		g:         g,
		step:      from,
		emitters:  g.EmitterAngles(from),
		detectors: g.DetectorAngles(from),
	}
}

// Step returns the current step index
func (s *Stepper) Step() int { return s.step }

// EmitterAngles returns the current emitter angles. The slice is reused by
// Next.
func (s *Stepper) EmitterAngles() []float64 { return s.emitters }

// DetectorAngles returns the current detector angles. The slice is reused by
// Next.
func (s *Stepper) DetectorAngles() []float64 { return s.detectors }

// Rays returns the rays of the current step
func (s *Stepper) Rays() []models.Ray {
	return s.g.pair(s.step, s.emitters, s.detectors)
}

// Next advances to the following step
func (s *Stepper) Next() {
	delta := s.g.params.RotationStep
	for i := range s.emitters {
		s.emitters[i] += delta
		s.detectors[i] += delta
	}
	s.step++
}
