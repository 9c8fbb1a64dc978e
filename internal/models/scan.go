package models

import (
	"image"
)

// Ray represents one emitter/detector pair traced through the image
// at a single rotation step
type Ray struct {
	// Index is the emitter index; it selects the sinogram row
	Index int

	// Step is the rotation step; it selects the sinogram column
	Step int

	// Emitter is the lattice position of the emitter
	Emitter image.Point

	// Detector is the lattice position of the opposite detector
	Detector image.Point
}

// Stage is the position of a scan in its projection/reconstruction lifecycle
type Stage int

const (
	Configured Stage = iota
	PartiallyProjected
	FullyProjected
	PartiallyReconstructed
	FullyReconstructed
)

func (s Stage) String() string {
	switch s {
	case Configured:
		return "configured"
	case PartiallyProjected:
		return "partially projected"
	case FullyProjected:
		return "fully projected"
	case PartiallyReconstructed:
		return "partially reconstructed"
	case FullyReconstructed:
		return "fully reconstructed"
	default:
		return "unknown"
	}
}

// Progress is a snapshot of the two iteration cursors of a scan
type Progress struct {
	// Iterations is the total number of rotation steps
	Iterations int

	// Projected is the number of sinogram columns generated so far
	Projected int

	// Reconstructed is the number of steps backprojected so far
	Reconstructed int
}

// StageOf derives the lifecycle stage from the cursors
func StageOf(p Progress) Stage {
	switch {
	case p.Reconstructed > 0 && p.Reconstructed >= p.Iterations:
		return FullyReconstructed
	case p.Reconstructed > 0:
		return PartiallyReconstructed
	case p.Projected > 0 && p.Projected >= p.Iterations:
		return FullyProjected
	case p.Projected > 0:
		return PartiallyProjected
	default:
		return Configured
	}
}
