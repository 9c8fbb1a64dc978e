package visualization

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoSamples is returned when a plot is requested before any sample
var ErrNoSamples = errors.New("no convergence samples recorded")

// Sample is the reconstruction error after a number of backprojected steps
type Sample struct {
	Step int
	RMSE float64
}

// Convergence records the reconstruction error as a scan progresses
type Convergence struct {
	title   string
	samples []Sample
}

// NewConvergence creates an empty recorder; title heads the plot
func NewConvergence(title string) *Convergence {
	return &Convergence{title: title}
}

// Add records the error after step backprojected steps
func (c *Convergence) Add(step int, rmse float64) {
	c.samples = append(c.samples, Sample{Step: step, RMSE: rmse})
}

// Samples returns the recorded samples in insertion order
func (c *Convergence) Samples() []Sample {
	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Save plots RMSE against step and writes it to path. The format follows
// the extension (png, svg, pdf, ...).
func (c *Convergence) Save(path string) error {
	if len(c.samples) == 0 {
		return ErrNoSamples
	}

	p := plot.New()
	p.Title.Text = c.title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "RMSE"
	p.Y.Min = 0

	pts := make(plotter.XYs, len(c.samples))
	for i, s := range c.samples {
		pts[i] = plotter.XY{X: float64(s.Step), Y: s.RMSE}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line, plotter.NewGrid())

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save convergence plot: %w", err)
	}
	return nil
}
