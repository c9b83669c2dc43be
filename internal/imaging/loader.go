// Package imaging is the pipeline's image boundary: it decodes images to
// the grayscale plane the detectors consume, and renders annotated copies
// of images with their detected keypoints drawn on.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
)

// LoadGrayscale reads an image file and decodes it to an 8-bit grayscale
// plane.
//
// Supported formats are JPEG, PNG, and GIF. A file that cannot be opened or
// decoded returns an error; an image that decodes to zero pixels is not an
// error. The caller decides whether a failure is fatal — the traversal
// treats it as a per-file diagnostic and moves on.
func LoadGrayscale(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return ToGray(img), nil
}

// ToGray converts any image to 8-bit grayscale using ITU-R BT.601 luminance
// weights (Y = 0.299*R + 0.587*G + 0.114*B). Images that are already
// grayscale are returned as-is.
func ToGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gray.Pix[y*gray.Stride+x] = uint8(lum + 0.5)
		}
	}
	return gray
}
