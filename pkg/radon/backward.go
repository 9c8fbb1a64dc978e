package radon

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"ctscan/pkg/raster"
)

// AdvanceReconstructionTo backprojects steps [current, to): every pixel a
// ray touches receives that ray's normalized sinogram value. It returns the
// number of steps processed.
//
// The cursor rules match AdvanceProjectionTo. In addition, steps whose
// sinogram column has not been generated are rejected with ErrSequencing;
// projection is never run implicitly.
func (s *Scanner) AdvanceReconstructionTo(to int) (int, error) {
	from := s.reconstructed
	if to == from {
		return 0, nil
	}
	if to < from || to > s.iterations {
		return 0, fmt.Errorf("%w: reconstruction target %d, cursor at %d of %d",
			ErrOutOfRange, to, from, s.iterations)
	}
	if to > s.projected {
		return 0, fmt.Errorf("%w: reconstruction target %d, sinogram generated up to %d",
			ErrSequencing, to, s.projected)
	}

	start := time.Now()
	spans := split(from, to, s.workers)
	if len(spans) == 1 {
		for t := from; t < to; t++ {
			s.backprojectStep(t, s.recon)
		}
	} else {
		// rays of different steps cross the same pixels, so every worker
		// accumulates into its own buffer and the buffers are summed after
		rows, cols := s.recon.Dims()
		partial := make([]*mat.Dense, len(spans))
		s.run(spans, func(i int, sp span) {
			buf := mat.NewDense(rows, cols, nil)
			for t := sp.lo; t < sp.hi; t++ {
				s.backprojectStep(t, buf)
			}
			partial[i] = buf
		})
		for _, buf := range partial {
			s.recon.Add(s.recon, buf)
		}
	}
	s.reconstructed = to

	if !normalize(s.reconNorm, s.recon) {
		Logger().Debug("reconstruction has no positive values, normalized view left at zero")
	}
	Logger().Debug("reconstruction advanced", "from", from, "to", to, "elapsed", time.Since(start))
	return to - from, nil
}

// AdvanceReconstruction backprojects up to count further steps and returns
// how many were processed. A count past the end stops at the last
// iteration; once the reconstruction is complete it reports 0 steps
// without error. Steps not yet projected are still rejected with
// ErrSequencing.
func (s *Scanner) AdvanceReconstruction(count int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: negative step count %d", ErrOutOfRange, count)
	}
	return s.AdvanceReconstructionTo(s.reconstructed + min(count, s.iterations-s.reconstructed))
}

// CompleteReconstruction backprojects all remaining steps. The sinogram
// must be complete.
func (s *Scanner) CompleteReconstruction() (int, error) {
	return s.AdvanceReconstructionTo(s.iterations)
}

func (s *Scanner) backprojectStep(t int, dst *mat.Dense) {
	bounds := s.recGeom.Bounds()
	for _, ray := range s.recGeom.Rays(t) {
		v := s.sinogramNorm.At(ray.Index, t)
		if v == 0 {
			continue
		}
		for p := range raster.Line(ray.Emitter, ray.Detector, bounds) {
			dst.Set(p.Y, p.X, dst.At(p.Y, p.X)+v)
		}
	}
}
