package detect

import (
	"image"
	"math"
)

// ORB runs the FAST segment test on an image pyramid and rescores the
// surviving corners with the Harris measure, which is what the response
// value reports. Descriptor extraction (the rBRIEF half of ORB) is out of
// scope for a response-statistics pipeline.
type ORB struct {
	threshold int
	harrisK   float64
	levels    int
	scale     float64
}

// NewORB returns an ORB detector with the supplied tuning.
func NewORB(p Params) Detector {
	return &ORB{
		threshold: p.FASTThreshold,
		harrisK:   p.HarrisK,
		levels:    p.PyramidLevels,
		scale:     p.PyramidScale,
	}
}

func (d *ORB) Name() string { return "ORB" }

func (d *ORB) Detect(img *image.Gray) []Keypoint {
	b := img.Bounds()
	kps := make([]Keypoint, 0)

	for level := 0; level < d.levels; level++ {
		w, h := pyramidLevelSize(b.Dx(), b.Dy(), d.scale, level)
		if w < 16 || h < 16 {
			break
		}
		scaled := img
		if level > 0 {
			scaled = resizeGray(img, w, h)
		}
		factor := math.Pow(d.scale, float64(level))

		m := matrix(scaled)
		scores := segmentScores(m, circle16, 9, 3, d.threshold)
		field := tensorField(m)

		for y := range scores {
			for x := range scores[y] {
				if scores[y][x] <= 0 || !localMax(scores, x, y) {
					continue
				}
				kps = append(kps, Keypoint{
					X:        float64(x) * factor,
					Y:        float64(y) * factor,
					Size:     31 * factor,
					Response: field[y][x].harris(d.harrisK),
				})
			}
		}
	}
	return kps
}
