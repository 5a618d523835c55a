package eigenfaces

import (
	"image"

	"golang.org/x/image/draw"
)

// Default edge length images are normalized to before training.
const DefaultImageSize = 2

// PreprocessImages converts each image to greyscale and resizes it to
// a common width×height, returning one pixel matrix per image. This
// runs on the key holder's side, before encryption.
func PreprocessImages(images []image.Image, width, height int) [][][]float64 {
	normalized := make([][][]float64, len(images))
	for i, img := range images {
		grey := image.NewGray(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(grey, grey.Bounds(), img, img.Bounds(), draw.Src, nil)
		pixels := make([][]float64, height)
		for y := 0; y < height; y += 1 {
			row := make([]float64, width)
			for x := 0; x < width; x += 1 {
				row[x] = float64(grey.GrayAt(x, y).Y)
			}
			pixels[y] = row
		}
		normalized[i] = pixels
	}
	return normalized
}

// VectorizeImages reshapes every pixel matrix into a row vector and
// stacks them: one row per image.
func VectorizeImages(normalized [][][]float64) [][]float64 {
	vectorized := make([][]float64, len(normalized))
	for i, pixels := range normalized {
		var row []float64
		for _, r := range pixels {
			row = append(row, r...)
		}
		vectorized[i] = row
	}
	return vectorized
}
