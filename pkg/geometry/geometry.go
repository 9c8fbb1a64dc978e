// Package geometry places emitters and detectors of a parallel-beam scanner
// on a circle around an image and pairs them into rays.
package geometry

import (
	"fmt"
	"image"
	"math"

	"ctscan/internal/models"
)

// Params describes the angular layout of the scanner
type Params struct {
	// StartRotation is the rotation of step 0 in radians
	StartRotation float64

	// Emitters is the number of emitters, and also of detectors
	Emitters int

	// AngularSpan is the arc covered by the emitters in radians
	AngularSpan float64

	// RotationStep is the rotation added between consecutive steps in radians
	RotationStep float64
}

// Geometry computes emitter and detector positions for one image grid.
// It is immutable after construction and safe for concurrent use.
type Geometry struct {
	params   Params
	bounds   image.Rectangle
	radius   float64
	centerX  float64
	centerY  float64
	halfSpan float64
	gap      float64
}

// New creates the geometry for a width x height grid. The scanner circle is
// centred on the grid and its radius is half the grid diagonal, truncated
// to whole pixels.
func New(width, height int, p Params) (*Geometry, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid must be non-empty, got %dx%d", width, height)
	}
	if p.Emitters < 2 {
		return nil, fmt.Errorf("need at least 2 emitters, got %d", p.Emitters)
	}

	diagonal := math.Hypot(float64(width), float64(height))
	return &Geometry{
		params:   p,
		bounds:   image.Rect(0, 0, width, height),
		radius:   math.Trunc(diagonal / 2),
		centerX:  float64(width) / 2,
		centerY:  float64(height) / 2,
		halfSpan: p.AngularSpan / 2,
		gap:      p.AngularSpan / float64(p.Emitters-1),
	}, nil
}

// Bounds returns the image grid the rays are clipped against
func (g *Geometry) Bounds() image.Rectangle { return g.bounds }

// Radius returns the scanner radius in pixels
func (g *Geometry) Radius() float64 { return g.radius }

// Params returns the angular layout
func (g *Geometry) Params() Params { return g.params }

// BaseAngle returns the scanner rotation at step t
func (g *Geometry) BaseAngle(t int) float64 {
	return g.params.StartRotation + float64(t)*g.params.RotationStep
}

// EmitterAngles returns the angle of every emitter at step t
func (g *Geometry) EmitterAngles(t int) []float64 {
	return g.fan(g.BaseAngle(t) - g.halfSpan)
}

// DetectorAngles returns the angle of every detector at step t. Detectors
// sit on the opposite side of the circle from the emitters.
func (g *Geometry) DetectorAngles(t int) []float64 {
	return g.fan(g.BaseAngle(t) + math.Pi - g.halfSpan)
}

func (g *Geometry) fan(first float64) []float64 {
	angles := make([]float64, g.params.Emitters)
	for i := range angles {
		angles[i] = first + float64(i)*g.gap
	}
	return angles
}

// Position maps an angle on the scanner circle to a lattice point. The
// coordinates are floored, so positions left of or above the grid stay
// negative.
func (g *Geometry) Position(angle float64) image.Point {
	x, y := g.PositionF(angle)
	return image.Pt(int(math.Floor(x)), int(math.Floor(y)))
}

// PositionF maps an angle on the scanner circle to continuous coordinates
func (g *Geometry) PositionF(angle float64) (x, y float64) {
	return g.radius*math.Cos(angle) + g.centerX, g.radius*math.Sin(angle) + g.centerY
}

// Rays pairs every emitter at step t with its opposite detector. Emitter i
// is paired with detector Emitters-1-i, which makes all rays of one step
// parallel.
func (g *Geometry) Rays(t int) []models.Ray {
	return g.pair(t, g.EmitterAngles(t), g.DetectorAngles(t))
}

func (g *Geometry) pair(t int, emitters, detectors []float64) []models.Ray {
	last := len(detectors) - 1
	rays := make([]models.Ray, len(emitters))
	for i, a := range emitters {
		rays[i] = models.Ray{
			Index:    i,
			Step:     t,
			Emitter:  g.Position(a),
			Detector: g.Position(detectors[last-i]),
		}
	}
	return rays
}
