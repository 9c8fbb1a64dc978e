// Package visualization writes the intermediate and final images of a scan
// and plots how the reconstruction converges.
package visualization

import (
	"fmt"
	"image"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"ctscan/pkg/imageio"
)

// Frame is anything exposing the normalized sinogram and reconstruction of
// a scan in progress, such as *radon.Scanner
type Frame interface {
	Sinogram() *mat.Dense
	Reconstruction() *mat.Dense
}

// Viewer saves numbered frames below an output directory, one
// subdirectory per stage
type Viewer struct {
	outputDir string

	// scale enlarges every frame by an integer factor
	scale int
}

// NewViewer creates a viewer writing below outputDir
func NewViewer(outputDir string) *Viewer {
	return &Viewer{
		outputDir: outputDir,
		scale:     1,
	}
}

// SetScale enlarges saved frames by factor, which must be at least 1
func (v *Viewer) SetScale(factor int) error {
	if factor < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", factor)
	}
	v.scale = factor
	return nil
}

// FramePath returns where frame index of stage is written
func (v *Viewer) FramePath(stage string, index int) string {
	return filepath.Join(v.outputDir, stage, fmt.Sprintf("frame_%03d.png", index))
}

// SaveImage writes img as frame index of stage and returns its path
func (v *Viewer) SaveImage(stage string, img image.Image, index int) (string, error) {
	if v.scale > 1 {
		b := img.Bounds()
		img = imageio.Resize(img, b.Dx()*v.scale, b.Dy()*v.scale)
	}

	path := v.FramePath(stage, index)
	if err := imageio.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to save %s frame %d: %w", stage, index, err)
	}
	return path, nil
}

// SaveMatrix renders a matrix of grey levels in [0, 255] and writes it as
// frame index of stage
func (v *Viewer) SaveMatrix(stage string, m mat.Matrix, index int) (string, error) {
	return v.SaveImage(stage, imageio.NewMatrixImage(m), index)
}

// SaveFrame writes the current sinogram and reconstruction of f as frame
// index of the "sinogram" and "reconstruction" stages
func (v *Viewer) SaveFrame(f Frame, index int) error {
	if _, err := v.SaveMatrix("sinogram", f.Sinogram(), index); err != nil {
		return err
	}
	if _, err := v.SaveMatrix("reconstruction", f.Reconstruction(), index); err != nil {
		return err
	}
	return nil
}
