// Package metrics compares a reconstruction against its source image.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MaxIntensity is the largest grey level of a source image
const MaxIntensity = 255.0

// Report holds the reconstruction quality metrics
type Report struct {
	// MSE is the mean squared per-pixel difference
	MSE float64

	// RMSE is the square root of MSE, in grey levels
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB. It is +Inf for a
	// perfect reconstruction.
	PSNR float64

	// SSIM is the global structural similarity index in [-1, 1]
	SSIM float64

	// Correlation is the Pearson correlation of the two images; 0 when
	// either image is flat
	Correlation float64

	// MI approximates the mutual information assuming jointly Gaussian
	// intensities
	MI float64
}

// ResizeNearest resamples m to rows x cols by nearest-neighbour lookup
func ResizeNearest(m mat.Matrix, rows, cols int) *mat.Dense {
	srcRows, srcCols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		si := i * srcRows / rows
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(si, j*srcCols/cols))
		}
	}
	return out
}

// conform returns candidate resized to the shape of reference when the
// shapes differ
func conform(reference, candidate mat.Matrix) mat.Matrix {
	r, c := reference.Dims()
	cr, cc := candidate.Dims()
	if r == cr && c == cc {
		return candidate
	}
	return ResizeNearest(candidate, r, c)
}

// MSE returns the mean squared difference between reference and candidate.
// The candidate is resized to the reference's shape first if needed.
func MSE(reference, candidate mat.Matrix) float64 {
	candidate = conform(reference, candidate)

	var diff mat.Dense
	diff.Sub(reference, candidate)
	r, c := diff.Dims()
	sum := 0.0
	for i := 0; i < r; i++ {
		row := diff.RawRowView(i)
		sum += floats.Dot(row, row)
	}
	return sum / float64(r*c)
}

// RMSE returns the root of MSE
func RMSE(reference, candidate mat.Matrix) float64 {
	return math.Sqrt(MSE(reference, candidate))
}

// Evaluate computes the full quality report
func Evaluate(reference, candidate mat.Matrix) Report {
	candidate = conform(reference, candidate)

	rep := Report{MSE: MSE(reference, candidate)}
	rep.RMSE = math.Sqrt(rep.MSE)
	rep.PSNR = psnr(rep.MSE)

	x := flatten(reference)
	y := flatten(candidate)
	rep.SSIM = ssim(x, y)
	rep.Correlation = correlation(x, y)
	if rho2 := rep.Correlation * rep.Correlation; rho2 < 1 {
		rep.MI = -0.5 * math.Log(1-rho2)
	} else {
		rep.MI = math.Inf(1)
	}
	return rep
}

func psnr(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(MaxIntensity*MaxIntensity/mse)
}

// ssim is the single-window structural similarity over the whole image
func ssim(x, y []float64) float64 {
	const (
		k1 = 0.01
		k2 = 0.03
	)
	c1 := (k1 * MaxIntensity) * (k1 * MaxIntensity)
	c2 := (k2 * MaxIntensity) * (k2 * MaxIntensity)

	meanX, varX := stat.PopMeanVariance(x, nil)
	meanY, varY := stat.PopMeanVariance(y, nil)
	cov := 0.0
	if n := len(x); n > 1 {
		cov = stat.Covariance(x, y, nil) * float64(n-1) / float64(n)
	}

	num := (2*meanX*meanY + c1) * (2*cov + c2)
	den := (meanX*meanX + meanY*meanY + c1) * (varX + varY + c2)
	return num / den
}

func correlation(x, y []float64) float64 {
	if len(x) < 2 || floats.Min(x) == floats.Max(x) || floats.Min(y) == floats.Max(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

func flatten(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}
