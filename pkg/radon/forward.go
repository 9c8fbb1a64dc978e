package radon

import (
	"fmt"
	"time"

	"ctscan/pkg/ramp"
	"ctscan/pkg/raster"
)

// AdvanceProjectionTo generates the sinogram columns of steps
// [current, to) and returns how many were generated.
//
// A target equal to the cursor is a no-op. A target behind the cursor or
// past the last iteration is rejected with ErrOutOfRange and the cursor is
// left where it was.
//
// After the columns are generated the normalized sinogram is rebuilt from
// the whole raw sinogram, ramp-filtered first when the configuration asks
// for it.
func (s *Scanner) AdvanceProjectionTo(to int) (int, error) {
	from := s.projected
	if to == from {
		return 0, nil
	}
	if to < from || to > s.iterations {
		return 0, fmt.Errorf("%w: projection target %d, cursor at %d of %d",
			ErrOutOfRange, to, from, s.iterations)
	}

	start := time.Now()
	s.run(split(from, to, s.workers), func(_ int, sp span) {
		for t := sp.lo; t < sp.hi; t++ {
			s.projectStep(t)
		}
	})
	s.projected = to
	s.refreshSinogram()

	Logger().Debug("sinogram advanced", "from", from, "to", to, "elapsed", time.Since(start))
	return to - from, nil
}

// AdvanceProjection generates up to count further sinogram columns and
// returns how many were generated. A count past the end stops at the last
// iteration; once the sinogram is complete it reports 0 steps without error.
func (s *Scanner) AdvanceProjection(count int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: negative step count %d", ErrOutOfRange, count)
	}
	return s.AdvanceProjectionTo(s.projected + min(count, s.iterations-s.projected))
}

// CompleteProjection generates all remaining sinogram columns
func (s *Scanner) CompleteProjection() (int, error) {
	return s.AdvanceProjectionTo(s.iterations)
}

// projectStep sums the source along every ray of step t. Each call writes
// only column t, so steps may run concurrently.
func (s *Scanner) projectStep(t int) {
	bounds := s.srcGeom.Bounds()
	for _, ray := range s.srcGeom.Rays(t) {
		sum := 0.0
		for p := range raster.Line(ray.Emitter, ray.Detector, bounds) {
			sum += s.source.At(p.Y, p.X)
		}
		s.sinogram.Set(ray.Index, t, sum)
	}
}

func (s *Scanner) refreshSinogram() {
	src := s.sinogram
	if s.cfg.UseFilter {
		src = ramp.Filter(s.sinogram)
	}
	if !normalize(s.sinogramNorm, src) {
		Logger().Debug("sinogram has no positive values, normalized view left at zero")
	}
}
