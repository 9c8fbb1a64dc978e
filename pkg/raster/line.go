// Package raster selects the pixels a straight ray passes through.
//
// Lines are traced with Bresenham's integer algorithm, so the same pair of
// endpoints always yields the same pixels regardless of caller or direction
// of iteration elsewhere in the program.
package raster

import (
	"image"
	"iter"
)

// Line returns the lattice points of the digital line from p0 to p1 that lie
// inside bounds, ordered from p0 towards p1.
//
// Both endpoints may lie outside bounds. The walk keeps going until the line
// enters the rectangle and stops once it has left it again; a digital line is
// monotonic in both axes, so it cannot re-enter a rectangle after leaving it.
// An empty sequence is valid and means the ray misses the image.
//
// The returned sequence is restartable: every range over it walks the line
// again from p0.
func Line(p0, p1 image.Point, bounds image.Rectangle) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		dx := abs(p1.X - p0.X)
		dy := abs(p1.Y - p0.Y)
		sx, sy := 1, 1
		if p0.X > p1.X {
			sx = -1
		}
		if p0.Y > p1.Y {
			sy = -1
		}

		err := dx - dy
		p := p0
		entered := false
		for {
			if p.In(bounds) {
				entered = true
				if !yield(p) {
					return
				}
			} else if entered {
				return
			}

			if p == p1 {
				return
			}

			e2 := 2 * err
			if e2 > -dy {
				err -= dy
				p.X += sx
			}
			if e2 < dx {
				err += dx
				p.Y += sy
			}
		}
	}
}

// Count returns the number of in-bounds pixels on the line without
// allocating
func Count(p0, p1 image.Point, bounds image.Rectangle) int {
	n := 0
	for range Line(p0, p1, bounds) {
		n++
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
