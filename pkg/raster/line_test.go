package raster

import (
	"image"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = image.Rect(0, 0, 16, 12)

func points(p0, p1 image.Point, r image.Rectangle) []image.Point {
	return slices.Collect(Line(p0, p1, r))
}

func TestLineHorizontalAndVertical(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 image.Point
	}{
		{"horizontal forward", image.Pt(2, 5), image.Pt(13, 5)},
		{"horizontal backward", image.Pt(13, 5), image.Pt(2, 5)},
		{"vertical forward", image.Pt(7, 0), image.Pt(7, 11)},
		{"vertical backward", image.Pt(7, 11), image.Pt(7, 0)},
		{"single point", image.Pt(4, 4), image.Pt(4, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := points(tt.p0, tt.p1, bounds)
			want := max(abs(tt.p1.X-tt.p0.X), abs(tt.p1.Y-tt.p0.Y)) + 1
			require.Len(t, pts, want)
			assert.Equal(t, tt.p0, pts[0])
			assert.Equal(t, tt.p1, pts[len(pts)-1])

			// monotonic along the major axis
			for i := 1; i < len(pts); i++ {
				step := pts[i].Sub(pts[i-1])
				assert.Equal(t, 1, abs(step.X)+abs(step.Y), "step %d: %v", i, step)
			}
		})
	}
}

func TestLineDiagonal(t *testing.T) {
	got := points(image.Pt(0, 0), image.Pt(3, 3), bounds)
	want := []image.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagonal mismatch (-want +got):\n%s", diff)
	}
}

func TestLineShallowSlope(t *testing.T) {
	got := points(image.Pt(0, 0), image.Pt(6, 2), bounds)
	want := []image.Point{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 1}, {5, 2}, {6, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("shallow line mismatch (-want +got):\n%s", diff)
	}
}

func TestLineIsSymmetricUpToOrder(t *testing.T) {
	a, b := image.Pt(1, 2), image.Pt(14, 9)
	fwd := points(a, b, bounds)
	back := points(b, a, bounds)
	require.Len(t, back, len(fwd))
	assert.Equal(t, a, fwd[0])
	assert.Equal(t, b, back[0])
}

func TestLineEntirelyOutside(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 image.Point
	}{
		{"left of image", image.Pt(-10, -5), image.Pt(-2, 20)},
		{"above image", image.Pt(-5, -3), image.Pt(30, -1)},
		{"corner miss", image.Pt(-8, 4), image.Pt(4, -8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, points(tt.p0, tt.p1, bounds))
			assert.Zero(t, Count(tt.p0, tt.p1, bounds))
		})
	}
}

func TestLineClipsThroughInterior(t *testing.T) {
	// both endpoints are outside but the line crosses the whole image
	pts := points(image.Pt(-5, 6), image.Pt(25, 6), bounds)
	require.Len(t, pts, bounds.Dx())
	assert.Equal(t, image.Pt(0, 6), pts[0])
	assert.Equal(t, image.Pt(15, 6), pts[len(pts)-1])
	for _, p := range pts {
		assert.True(t, p.In(bounds), "%v outside bounds", p)
	}
}

func TestLinePartiallyInside(t *testing.T) {
	pts := points(image.Pt(10, 3), image.Pt(30, 3), bounds)
	require.Len(t, pts, 6)
	assert.Equal(t, image.Pt(10, 3), pts[0])
	assert.Equal(t, image.Pt(15, 3), pts[5])
}

func TestLineRestartable(t *testing.T) {
	seq := Line(image.Pt(-3, -1), image.Pt(18, 13), bounds)

	var first, second []image.Point
	for p := range seq {
		first = append(first, p)
	}
	for p := range seq {
		second = append(second, p)
	}
	require.NotEmpty(t, first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second walk differs (-first +second):\n%s", diff)
	}
}

func TestLineEarlyBreak(t *testing.T) {
	n := 0
	for range Line(image.Pt(0, 0), image.Pt(15, 0), bounds) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}
