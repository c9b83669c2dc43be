package detect

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
)

// Shared low-level pieces used by the individual detectors: grayscale
// matrices, Sobel gradients, Gaussian smoothing, and pyramid resizing.

// matrix copies the gray image into a float64 grid indexed [y][x],
// values 0-255. All per-pixel math below runs on these grids so the
// detectors never touch the source image after this point.
func matrix(img *image.Gray) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	m := make([][]float64, height)
	for y := 0; y < height; y++ {
		m[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			m[y][x] = float64(img.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
		}
	}
	return m
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// gradients computes Sobel X and Y derivatives of a grayscale grid.
// Border handling clamps to the nearest valid pixel.
func gradients(m [][]float64) (gx, gy [][]float64) {
	height := len(m)
	width := len(m[0])

	gx = make([][]float64, height)
	gy = make([][]float64, height)
	for y := 0; y < height; y++ {
		gx[y] = make([]float64, width)
		gy[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sx, sy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					sx += m[py][px] * sobelX[ky+1][kx+1]
					sy += m[py][px] * sobelY[ky+1][kx+1]
				}
			}
			gx[y][x] = sx
			gy[y][x] = sy
		}
	}
	return gx, gy
}

// smooth returns a Gaussian-blurred copy of the image. The blur itself is
// bild's; the result is lifted back onto an 8-bit gray plane.
func smooth(img *image.Gray, radius float64) *image.Gray {
	return toGray(blur.Gaussian(img, radius))
}

// resizeGray scales the image to width x height with bilinear resampling,
// used to build the detector pyramids.
func resizeGray(img *image.Gray, width, height int) *image.Gray {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return toGray(transform.Resize(img, width, height, transform.Linear))
}

// toGray lifts an RGBA image produced by bild back onto a gray plane using
// ITU-R BT.601 luminance weights. For inputs that started out gray the three
// channels are equal and this is exact.
func toGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(x+bounds.Min.X, y+bounds.Min.Y)
			lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
			gray.Pix[y*gray.Stride+x] = uint8(lum + 0.5)
		}
	}
	return gray
}

// localMax reports whether resp[y][x] is a strict-enough local maximum in
// its 3x3 neighborhood. Ties are broken toward the earlier pixel in scan
// order so adjacent equal scores yield a single keypoint.
func localMax(resp [][]float64, x, y int) bool {
	height := len(resp)
	width := len(resp[0])
	v := resp[y][x]

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ny, nx := y+dy, x+dx
			if ny < 0 || ny >= height || nx < 0 || nx >= width {
				continue
			}
			n := resp[ny][nx]
			if n > v {
				return false
			}
			if n == v && (ny < y || (ny == y && nx < x)) {
				return false
			}
		}
	}
	return true
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
