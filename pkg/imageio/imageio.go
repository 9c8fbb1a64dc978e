// Package imageio converts between image files, image.Image values and the
// intensity matrices the scanner works on.
//
// Matrices are indexed (row, column) = (y, x) and hold grey levels in the
// range 0-255.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

// Load decodes an image file in any registered format
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path. The format is chosen from the extension; PNG is
// used when the extension is not recognised.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	case ".bmp":
		err = bmp.Encode(file, img)
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Resize scales img to width x height with Catmull-Rom interpolation
func Resize(img image.Image, width, height int) image.Image {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// ToMatrix converts img to a matrix of 8-bit grey levels
func ToMatrix(img image.Image) *mat.Dense {
	bounds := img.Bounds()
	m := mat.NewDense(bounds.Dy(), bounds.Dx(), nil)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			m.Set(y-bounds.Min.Y, x-bounds.Min.X, float64(g.Y))
		}
	}
	return m
}

// ToGray renders a matrix of grey levels as an 8-bit image. Values are
// rounded and clamped to 0-255.
func ToGray(m mat.Matrix) *image.Gray {
	rows, cols := m.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetGray(x, y, color.Gray{Y: clamp(m.At(y, x))})
		}
	}
	return img
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// MatrixImage exposes a matrix of grey levels as an image.Image without
// copying it. Values are clamped on read.
type MatrixImage struct {
	m mat.Matrix
}

// NewMatrixImage wraps m
func NewMatrixImage(m mat.Matrix) *MatrixImage {
	return &MatrixImage{m: m}
}

func (mi *MatrixImage) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(mi.Bounds())) {
		return color.Gray{}
	}
	return color.Gray{Y: clamp(mi.m.At(y, x))}
}

func (mi *MatrixImage) ColorModel() color.Model {
	return color.GrayModel
}

func (mi *MatrixImage) Bounds() image.Rectangle {
	r, c := mi.m.Dims()
	return image.Rect(0, 0, c, r)
}
