package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/benthic-lab/feature-stats/internal/detect"
)

// MarkerPalette returns n visually distinct marker colors, one per detector,
// as evenly spaced hues. The palette is deterministic so re-running a
// configuration produces identical annotations.
func MarkerPalette(n int) []color.RGBA {
	palette := make([]color.RGBA, 0, n)
	for i := 0; i < n; i++ {
		c := colorful.Hsv(float64(i)*360.0/float64(n), 0.95, 0.95)
		r, g, b := c.RGB255()
		palette = append(palette, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return palette
}

// Annotate draws the keypoints onto a color copy of the grayscale image as
// rich markers: a circle of radius Size/2 around each keypoint center, plus
// the center pixel itself. The source image is never modified.
func Annotate(img *image.Gray, keypoints []detect.Keypoint, marker color.RGBA) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	for _, kp := range keypoints {
		cx := int(kp.X + 0.5)
		cy := int(kp.Y + 0.5)
		radius := int(kp.Size/2 + 0.5)
		if radius < 1 {
			radius = 1
		}
		drawCircle(out, cx, cy, radius, marker)
		setIfInside(out, cx, cy, marker)
	}
	return out
}

// AnnotatedPath maps an image path to its annotated output path:
// foo/bar.jpg with detector FAST becomes foo/bar_FAST.jpg.
func AnnotatedPath(imagePath, detector string) string {
	ext := filepath.Ext(imagePath)
	stem := strings.TrimSuffix(imagePath, ext)
	return stem + "_" + detector + ".jpg"
}

// SaveAnnotated writes an annotated image to disk; the format follows the
// destination extension.
func SaveAnnotated(img image.Image, path string) error {
	return imaging.Save(img, path)
}

// drawCircle traces the circle outline by stepping the angle finely enough
// that adjacent samples land on neighboring pixels.
func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	steps := 8 * radius
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(float64(radius)*math.Cos(angle)+0.5)
		y := cy + int(float64(radius)*math.Sin(angle)+0.5)
		setIfInside(img, x, y, c)
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
