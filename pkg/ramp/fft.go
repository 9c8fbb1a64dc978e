package ramp

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// spectrum holds a reusable real FFT of a fixed length together with its
// scratch buffers. It is not safe for concurrent use.
type spectrum struct {
	n      int
	fft    *fourier.FFT
	coeffs []complex128
	seq    []float64
}

func newSpectrum(n int) *spectrum {
	return &spectrum{
		n:      n,
		fft:    fourier.NewFFT(n),
		coeffs: make([]complex128, n/2+1),
		seq:    make([]float64, n),
	}
}

// forward returns the non-redundant half of the spectrum of x. Gonum returns
// only n/2+1 coefficients for real input; the rest follow from conjugate
// symmetry, F(n-k) = F*(k).
func (s *spectrum) forward(x []float64) []complex128 {
	return s.fft.Coefficients(s.coeffs, x)
}

// inverse turns a half spectrum back into a real sequence. Gonum's
// transform pair is unnormalised, so the result is scaled by 1/n here.
func (s *spectrum) inverse(coeffs []complex128) []float64 {
	s.fft.Sequence(s.seq, coeffs)
	inv := 1 / float64(s.n)
	for i := range s.seq {
		s.seq[i] *= inv
	}
	return s.seq
}

// full expands a half spectrum to all n coefficients
func full(half []complex128, n int) []complex128 {
	out := make([]complex128, n)
	copy(out, half)
	for j := len(half); j < n; j++ {
		c := half[n-j]
		out[j] = complex(real(c), -imag(c))
	}
	return out
}
