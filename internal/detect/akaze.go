package detect

import (
	"image"
)

// AKAZE approximates the KAZE family's detection stage with a
// determinant-of-Hessian response over a Gaussian scale stack. The true
// algorithm diffuses the image nonlinearly; a Gaussian stack keeps the same
// response shape and is enough for response-distribution statistics.
type AKAZE struct {
	threshold float64
}

// NewAKAZE returns an AKAZE detector with the supplied response threshold.
func NewAKAZE(p Params) Detector {
	return &AKAZE{threshold: p.AKAZEThreshold}
}

func (d *AKAZE) Name() string { return "AKAZE" }

var akazeSigmas = []float64{1.2, 2.0, 3.2, 4.8}

func (d *AKAZE) Detect(img *image.Gray) []Keypoint {
	kps := make([]Keypoint, 0)

	for _, sigma := range akazeSigmas {
		m := matrix(smooth(img, sigma))
		height := len(m)
		width := len(m[0])

		// Scale-normalized determinant of the Hessian. Second derivatives
		// by central differences; the sigma^4 factor keeps responses
		// comparable across scales.
		norm := sigma * sigma * sigma * sigma
		resp := make([][]float64, height)
		for y := 0; y < height; y++ {
			resp[y] = make([]float64, width)
			if y == 0 || y == height-1 {
				continue
			}
			for x := 1; x < width-1; x++ {
				lxx := m[y][x-1] - 2*m[y][x] + m[y][x+1]
				lyy := m[y-1][x] - 2*m[y][x] + m[y+1][x]
				lxy := (m[y-1][x-1] + m[y+1][x+1] - m[y-1][x+1] - m[y+1][x-1]) / 4
				resp[y][x] = (lxx*lyy - lxy*lxy) * norm
			}
		}

		for y := 1; y < height-1; y++ {
			for x := 1; x < width-1; x++ {
				if resp[y][x] < d.threshold || !localMax(resp, x, y) {
					continue
				}
				kps = append(kps, Keypoint{
					X:        float64(x),
					Y:        float64(y),
					Size:     sigma * 2,
					Response: resp[y][x],
				})
			}
		}
	}
	return dedupeByDistance(kps)
}
