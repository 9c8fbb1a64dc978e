// Package ramp implements the ramp (high-pass) filter applied to sinogram
// columns before filtered backprojection.
package ramp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// spatial returns the discrete ramp kernel in the spatial domain:
// f[0] = 1/4, f[k] = -1/(pi*k)^2 for odd k and 0 for even k. Indices above
// size/2 stand for the negative offsets k-size.
func spatial(size int) []float64 {
	f := make([]float64, size)
	if size == 0 {
		return f
	}
	f[0] = 0.25
	for j := 1; j < size; j++ {
		k := j
		if j > size/2 {
			k = j - size
		}
		if k%2 != 0 {
			f[j] = -1 / math.Pow(math.Pi*float64(k), 2)
		}
	}
	return f
}

// Kernel returns the frequency response of the ramp filter for columns of
// the given length: twice the real part of the FFT of the spatial kernel.
// The kernel is symmetric, so the response is real and K[j] == K[size-j].
func Kernel(size int) []float64 {
	if size == 0 {
		return nil
	}
	s := newSpectrum(size)
	freq := full(s.forward(spatial(size)), size)

	k := make([]float64, size)
	for j, c := range freq {
		k[j] = 2 * real(c)
	}
	return k
}

// Filter applies the ramp filter to every column of m independently and
// returns the result as a new matrix of the same shape. Columns are the
// rotation steps of a sinogram; rows are emitters.
func Filter(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(rows, cols, nil)

	kernel := Kernel(rows)
	s := newSpectrum(rows)
	col := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(col, c, m)
		coeffs := s.forward(col)
		for j := range coeffs {
			coeffs[j] *= complex(kernel[j], 0)
		}
		out.SetCol(c, s.inverse(coeffs))
	}
	return out
}
