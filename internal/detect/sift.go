package detect

import (
	"image"
	"math"
)

// SIFT approximates the scale-invariant feature transform's detection
// stage: a difference-of-Gaussians pyramid searched for 3D extrema across
// position and scale. The response is the absolute DoG contrast at the
// extremum. Orientation assignment and descriptors are out of scope, the
// statistics pipeline only consumes responses.
type SIFT struct {
	contrast float64
	octaves  int
}

// NewSIFT returns a SIFT detector with the supplied contrast threshold.
func NewSIFT(p Params) Detector {
	return &SIFT{contrast: p.SIFTContrast, octaves: 3}
}

func (d *SIFT) Name() string { return "SIFT" }

// Blur levels per octave. Five levels give four DoG planes and two
// scales at which a full 26-neighbor extremum test is possible.
var siftSigmas = []float64{1.6, 2.26, 3.2, 4.53, 6.4}

func (d *SIFT) Detect(img *image.Gray) []Keypoint {
	kps := make([]Keypoint, 0)

	level := img
	for octave := 0; octave < d.octaves; octave++ {
		scale := math.Pow(2, float64(octave))
		if level.Bounds().Dx() < 16 || level.Bounds().Dy() < 16 {
			break
		}

		blurred := make([][][]float64, len(siftSigmas))
		for i, sigma := range siftSigmas {
			blurred[i] = matrix(smooth(level, sigma))
		}

		dog := make([][][]float64, len(blurred)-1)
		height := len(blurred[0])
		width := len(blurred[0][0])
		for i := range dog {
			dog[i] = make([][]float64, height)
			for y := 0; y < height; y++ {
				dog[i][y] = make([]float64, width)
				for x := 0; x < width; x++ {
					dog[i][y][x] = blurred[i+1][y][x] - blurred[i][y][x]
				}
			}
		}

		for s := 1; s < len(dog)-1; s++ {
			for y := 1; y < height-1; y++ {
				for x := 1; x < width-1; x++ {
					v := dog[s][y][x]
					if math.Abs(v) < d.contrast {
						continue
					}
					if !scaleSpaceExtremum(dog, s, x, y, v) {
						continue
					}
					kps = append(kps, Keypoint{
						X:        float64(x) * scale,
						Y:        float64(y) * scale,
						Size:     siftSigmas[s] * 2 * scale,
						Response: math.Abs(v),
					})
				}
			}
		}

		next := pyramidHalve(level)
		level = next
	}
	return kps
}

// scaleSpaceExtremum checks v against its 26 neighbors in the DoG stack.
func scaleSpaceExtremum(dog [][][]float64, s, x, y int, v float64) bool {
	maximum := v > 0
	for ds := -1; ds <= 1; ds++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if ds == 0 && dy == 0 && dx == 0 {
					continue
				}
				n := dog[s+ds][y+dy][x+dx]
				if maximum && n >= v {
					return false
				}
				if !maximum && n <= v {
					return false
				}
			}
		}
	}
	return true
}

// pyramidHalve downsamples the image by two for the next octave.
func pyramidHalve(img *image.Gray) *image.Gray {
	b := img.Bounds()
	return resizeGray(img, b.Dx()/2, b.Dy()/2)
}
