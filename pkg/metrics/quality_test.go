package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func gradient(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, float64((i*cols+j)%256))
		}
	}
	return m
}

func TestMSEIdentical(t *testing.T) {
	m := gradient(8, 8)
	assert.Zero(t, MSE(m, m))
	assert.Zero(t, RMSE(m, m))
}

func TestMSEConstantOffset(t *testing.T) {
	a := gradient(4, 6)
	b := mat.DenseCopyOf(a)
	b.Apply(func(_, _ int, v float64) float64 { return v + 3 }, b)

	assert.InDelta(t, 9.0, MSE(a, b), 1e-12)
	assert.InDelta(t, 3.0, RMSE(a, b), 1e-12)
}

func TestResizeNearest(t *testing.T) {
	src := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})
	got := ResizeNearest(src, 4, 4)
	want := mat.NewDense(4, 4, []float64{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	})
	assert.True(t, mat.Equal(want, got), "got\n%v", mat.Formatted(got))

	down := ResizeNearest(want, 2, 2)
	assert.True(t, mat.Equal(src, down))
}

func TestMSEResizesCandidate(t *testing.T) {
	ref := mat.NewDense(4, 4, nil)
	ref.Apply(func(_, _ int, _ float64) float64 { return 10 }, ref)
	small := mat.NewDense(2, 2, []float64{10, 10, 10, 14})

	// only the bottom-right quarter differs, by 4
	assert.InDelta(t, 16.0/4, MSE(ref, small), 1e-12)
}

func TestEvaluate(t *testing.T) {
	ref := gradient(16, 16)

	rep := Evaluate(ref, ref)
	assert.Zero(t, rep.MSE)
	assert.True(t, math.IsInf(rep.PSNR, 1))
	assert.InDelta(t, 1.0, rep.SSIM, 1e-12)
	assert.InDelta(t, 1.0, rep.Correlation, 1e-12)

	noisy := mat.DenseCopyOf(ref)
	noisy.Apply(func(i, j int, v float64) float64 {
		if (i+j)%2 == 0 {
			return v + 20
		}
		return v - 20
	}, noisy)
	rep = Evaluate(ref, noisy)
	assert.InDelta(t, 400.0, rep.MSE, 1e-9)
	assert.InDelta(t, 20.0, rep.RMSE, 1e-9)
	assert.InDelta(t, 10*math.Log10(255*255/400.0), rep.PSNR, 1e-9)
	assert.Less(t, rep.SSIM, 1.0)
	assert.Greater(t, rep.MI, 0.0)
}

func TestEvaluateFlatImage(t *testing.T) {
	flat := mat.NewDense(4, 4, nil)
	rep := Evaluate(flat, gradient(4, 4))
	require.False(t, math.IsNaN(rep.Correlation))
	assert.Zero(t, rep.Correlation)
	assert.Zero(t, rep.MI)
}
