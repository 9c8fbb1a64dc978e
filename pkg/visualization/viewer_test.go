package visualization

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"ctscan/pkg/radon"
)

var _ Frame = (*radon.Scanner)(nil)

type fakeFrame struct {
	sino, rec *mat.Dense
}

func (f fakeFrame) Sinogram() *mat.Dense       { return f.sino }
func (f fakeFrame) Reconstruction() *mat.Dense { return f.rec }

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", path, err)
	}
	return img
}

func TestFramePath(t *testing.T) {
	viewer := NewViewer("out")
	got := viewer.FramePath("sinogram", 7)
	want := filepath.Join("out", "sinogram", "frame_007.png")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestSaveMatrix(t *testing.T) {
	viewer := NewViewer(t.TempDir())

	m := mat.NewDense(3, 4, nil)
	m.Set(1, 2, 255)
	m.Set(2, 0, 100.4)

	path, err := viewer.SaveMatrix("reconstruction", m, 0)
	if err != nil {
		t.Fatalf("SaveMatrix failed: %v", err)
	}

	img := decodePNG(t, path)
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("Expected 4x3 image, got %v", img.Bounds())
	}
	if g := color.GrayModel.Convert(img.At(2, 1)).(color.Gray).Y; g != 255 {
		t.Errorf("Expected 255 at (2,1), got %d", g)
	}
	if g := color.GrayModel.Convert(img.At(0, 2)).(color.Gray).Y; g != 100 {
		t.Errorf("Expected 100 at (0,2), got %d", g)
	}
}

func TestSaveFrameWithScale(t *testing.T) {
	dir := t.TempDir()
	viewer := NewViewer(dir)
	if err := viewer.SetScale(3); err != nil {
		t.Fatalf("SetScale failed: %v", err)
	}

	frame := fakeFrame{
		sino: mat.NewDense(10, 36, nil),
		rec:  mat.NewDense(16, 16, nil),
	}
	if err := viewer.SaveFrame(frame, 4); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	sino := decodePNG(t, viewer.FramePath("sinogram", 4))
	if sino.Bounds().Dx() != 108 || sino.Bounds().Dy() != 30 {
		t.Errorf("Expected 108x30 sinogram frame, got %v", sino.Bounds())
	}
	rec := decodePNG(t, viewer.FramePath("reconstruction", 4))
	if rec.Bounds().Dx() != 48 || rec.Bounds().Dy() != 48 {
		t.Errorf("Expected 48x48 reconstruction frame, got %v", rec.Bounds())
	}
}

func TestSetScaleRejectsZero(t *testing.T) {
	viewer := NewViewer(t.TempDir())
	if err := viewer.SetScale(0); err == nil {
		t.Error("Expected error for scale 0, got nil")
	}
}

func TestSaveScannerFrame(t *testing.T) {
	src := mat.NewDense(24, 24, nil)
	for i := 8; i < 16; i++ {
		for j := 8; j < 16; j++ {
			src.Set(i, j, 200)
		}
	}
	scanner, err := radon.New(src, radon.DefaultScanConfig())
	if err != nil {
		t.Fatalf("Failed to create scanner: %v", err)
	}
	if _, err := scanner.AdvanceProjection(10); err != nil {
		t.Fatalf("Projection failed: %v", err)
	}

	viewer := NewViewer(t.TempDir())
	if err := viewer.SetScale(2); err != nil {
		t.Fatalf("SetScale failed: %v", err)
	}
	if err := viewer.SaveFrame(scanner, 0); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	sino := decodePNG(t, viewer.FramePath("sinogram", 0))
	if sino.Bounds().Dx() != 2*scanner.Iterations() || sino.Bounds().Dy() != 20 {
		t.Errorf("Expected %dx20 sinogram frame, got %v", 2*scanner.Iterations(), sino.Bounds())
	}
}
