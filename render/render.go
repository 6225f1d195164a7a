// Package render draws vectors as grayscale rasters.
//
// A 784-dimensional digit vector is a 28×28 image in row-major order with
// intensities 0–255. Cluster centers render the same way, which makes it
// easy to eyeball what each k-means cluster converged to.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// ErrShape is returned when a vector cannot be laid out with the given width.
var ErrShape = errors.New("render: vector length is not a multiple of width")

// Image lays out vector as rows of width pixels. Components are rounded and
// clamped to 0–255.
func Image(vector []float64, width int) (*image.Gray, error) {
	if width <= 0 || len(vector) == 0 || len(vector)%width != 0 {
		return nil, fmt.Errorf("%w (len=%d, width=%d)", ErrShape, len(vector), width)
	}

	height := len(vector) / width
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, v := range vector {
		img.SetGray(i%width, i/width, color.Gray{Y: intensity(v)})
	}
	return img, nil
}

// Grid renders vectors side by side, cols per row, separated by a one-pixel
// black gutter.
func Grid(vectors [][]float64, width, cols int) (*image.Gray, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w (no vectors)", ErrShape)
	}
	if cols <= 0 || cols > len(vectors) {
		cols = len(vectors)
	}

	tiles := make([]*image.Gray, len(vectors))
	for i, v := range vectors {
		tile, err := Image(v, width)
		if err != nil {
			return nil, err
		}
		if i > 0 && tile.Bounds() != tiles[0].Bounds() {
			return nil, fmt.Errorf("%w (vector %d differs in length)", ErrShape, i)
		}
		tiles[i] = tile
	}

	tw, th := tiles[0].Bounds().Dx(), tiles[0].Bounds().Dy()
	rows := (len(tiles) + cols - 1) / cols
	out := image.NewGray(image.Rect(0, 0, cols*(tw+1)-1, rows*(th+1)-1))

	for i, tile := range tiles {
		ox, oy := (i%cols)*(tw+1), (i/cols)*(th+1)
		for y := 0; y < th; y++ {
			copy(out.Pix[out.PixOffset(ox, oy+y):], tile.Pix[tile.PixOffset(0, y):tile.PixOffset(0, y)+tw])
		}
	}
	return out, nil
}

// PNG encodes vector as a grayscale PNG.
func PNG(w io.Writer, vector []float64, width int) error {
	img, err := Image(vector, width)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// GridPNG encodes Grid(vectors, width, cols) as a PNG.
func GridPNG(w io.Writer, vectors [][]float64, width, cols int) error {
	img, err := Grid(vectors, width, cols)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SideLength returns the width of a square raster for dim components,
// or 0 if dim is not a perfect square.
func SideLength(dim int) int {
	side := int(math.Round(math.Sqrt(float64(dim))))
	if side*side != dim {
		return 0
	}
	return side
}

func intensity(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
