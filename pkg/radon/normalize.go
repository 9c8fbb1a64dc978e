package radon

import (
	"gonum.org/v1/gonum/mat"
)

// normalize rescales src into dst so that the maximum becomes 255. A
// matrix whose maximum is not positive has nothing to scale against; dst
// is then left all zero and false is returned.
func normalize(dst, src *mat.Dense) bool {
	peak := mat.Max(src)
	if !(peak > 0) {
		dst.Zero()
		return false
	}
	dst.Apply(func(_, _ int, v float64) float64 {
		return v * 255 / peak
	}, src)
	return true
}
