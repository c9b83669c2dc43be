package detect

import (
	"image"
	"math"
)

// BRISK runs the AGAST 5-of-8 segment test across an image pyramid; the
// response is the corner's segment score at its own scale. As with ORB,
// only the detection stage matters here.
type BRISK struct {
	threshold int
	levels    int
	scale     float64
}

// NewBRISK returns a BRISK detector with the supplied tuning.
func NewBRISK(p Params) Detector {
	return &BRISK{
		threshold: p.AgastThreshold,
		levels:    p.PyramidLevels,
		scale:     p.PyramidScale,
	}
}

func (d *BRISK) Name() string { return "BRISK" }

func (d *BRISK) Detect(img *image.Gray) []Keypoint {
	b := img.Bounds()
	kps := make([]Keypoint, 0)

	for level := 0; level < d.levels; level++ {
		w, h := pyramidLevelSize(b.Dx(), b.Dy(), d.scale, level)
		if w < 12 || h < 12 {
			break
		}
		scaled := img
		if level > 0 {
			scaled = resizeGray(img, w, h)
		}
		factor := math.Pow(d.scale, float64(level))

		m := matrix(scaled)
		scores := segmentScores(m, diamond8, 5, 2, d.threshold)
		kps = append(kps, collectKeypoints(scores, 12, factor)...)
	}
	return kps
}
