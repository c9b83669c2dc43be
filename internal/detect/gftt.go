package detect

import (
	"image"
	"math"
	"sort"
)

// structureTensor holds the box-windowed products of first derivatives at
// one pixel, the basis for both the Shi-Tomasi and Harris corner measures.
type structureTensor struct {
	xx, yy, xy float64
}

// tensorField computes the structure tensor at every pixel using Sobel
// gradients and a 3x3 summation window.
func tensorField(m [][]float64) [][]structureTensor {
	gx, gy := gradients(m)
	height := len(m)
	width := len(m[0])

	field := make([][]structureTensor, height)
	for y := 0; y < height; y++ {
		field[y] = make([]structureTensor, width)
		for x := 0; x < width; x++ {
			var t structureTensor
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					ix := gx[py][px]
					iy := gy[py][px]
					t.xx += ix * ix
					t.yy += iy * iy
					t.xy += ix * iy
				}
			}
			field[y][x] = t
		}
	}
	return field
}

// minEigenvalue is the Shi-Tomasi corner measure.
func (t structureTensor) minEigenvalue() float64 {
	diff := t.xx - t.yy
	return ((t.xx + t.yy) - math.Sqrt(diff*diff+4*t.xy*t.xy)) / 2
}

// harris is the Harris corner measure det(M) - k*trace(M)^2.
func (t structureTensor) harris(k float64) float64 {
	det := t.xx*t.yy - t.xy*t.xy
	trace := t.xx + t.yy
	return det - k*trace*trace
}

// GFTT is the good-features-to-track corner detector: Shi-Tomasi minimum
// eigenvalue of the structure tensor, a quality cut relative to the
// strongest corner, non-maximum suppression, and a cap on the corner count.
type GFTT struct {
	maxCorners int
	quality    float64
}

// NewGFTT returns a GFTTDetector with the supplied tuning.
func NewGFTT(p Params) Detector {
	return &GFTT{maxCorners: p.GFTTMaxCorners, quality: p.GFTTQuality}
}

func (d *GFTT) Name() string { return "GFTTDetector" }

func (d *GFTT) Detect(img *image.Gray) []Keypoint {
	m := matrix(img)
	field := tensorField(m)
	height := len(m)
	width := len(m[0])

	resp := make([][]float64, height)
	best := 0.0
	for y := 0; y < height; y++ {
		resp[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			v := field[y][x].minEigenvalue()
			if v > best {
				best = v
			}
			resp[y][x] = v
		}
	}
	if best <= 0 {
		return nil
	}

	cut := best * d.quality
	kps := make([]Keypoint, 0)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if resp[y][x] < cut || !localMax(resp, x, y) {
				continue
			}
			kps = append(kps, Keypoint{
				X:        float64(x),
				Y:        float64(y),
				Size:     3,
				Response: resp[y][x],
			})
		}
	}

	sort.Slice(kps, func(i, j int) bool { return kps[i].Response > kps[j].Response })
	if d.maxCorners > 0 && len(kps) > d.maxCorners {
		kps = kps[:d.maxCorners]
	}
	return kps
}
