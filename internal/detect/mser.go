package detect

import (
	"image"
	"math"
)

// MSER detects maximally stable extremal regions: dark regions whose area
// barely changes as the binarization threshold sweeps upward. The sweep is
// quantized to the delta step, and stability is measured by comparing a
// region's area against the enclosing/enclosed regions one step down and up.
// The response is 1 minus the relative area variation, so perfectly stable
// regions score close to 1.
type MSER struct {
	delta        int
	minArea      int
	maxArea      int
	maxVariation float64
}

// NewMSER returns an MSER detector with the supplied tuning.
func NewMSER(p Params) Detector {
	return &MSER{
		delta:        p.MSERDelta,
		minArea:      p.MSERMinArea,
		maxArea:      p.MSERMaxArea,
		maxVariation: p.MSERMaxVariation,
	}
}

func (d *MSER) Name() string { return "MSER" }

func (d *MSER) Detect(img *image.Gray) []Keypoint {
	m := matrix(img)

	// Label components at every threshold level in the sweep.
	var thresholds []int
	for t := d.delta; t <= 255-d.delta; t += d.delta {
		thresholds = append(thresholds, t)
	}
	if len(thresholds) < 3 {
		return nil
	}

	labels := make([][][]int32, len(thresholds))
	comps := make([][]component, len(thresholds))
	for i, t := range thresholds {
		labels[i], comps[i] = labelRegions(m, float64(t))
	}

	kps := make([]Keypoint, 0)
	for i := 1; i < len(thresholds)-1; i++ {
		for _, c := range comps[i] {
			if c.area < d.minArea || c.area > d.maxArea {
				continue
			}

			x := clamp(int(c.cx+0.5), 0, len(m[0])-1)
			y := clamp(int(c.cy+0.5), 0, len(m)-1)

			// The region one step down is nested inside this one, the
			// region one step up encloses it; both are found by probing
			// the centroid pixel.
			lower := labels[i-1][y][x]
			upper := labels[i+1][y][x]
			if upper < 0 {
				continue
			}
			lowerArea := 0
			if lower >= 0 {
				lowerArea = comps[i-1][lower].area
			}
			upperArea := comps[i+1][upper].area

			variation := float64(upperArea-lowerArea) / float64(c.area)
			if variation < 0 || variation > d.maxVariation {
				continue
			}

			kps = append(kps, Keypoint{
				X:        c.cx,
				Y:        c.cy,
				Size:     2 * math.Sqrt(float64(c.area)/math.Pi),
				Response: 1 - variation,
			})
		}
	}
	return dedupeByDistance(kps)
}

// dedupeByDistance drops keypoints whose centers fall inside an already
// accepted keypoint's radius, keeping the stronger response. Stable regions
// reappear at several threshold levels and would otherwise be reported once
// per level.
func dedupeByDistance(kps []Keypoint) []Keypoint {
	filtered := make([]Keypoint, 0, len(kps))
	for _, kp := range kps {
		duplicate := false
		for i, f := range filtered {
			dx := kp.X - f.X
			dy := kp.Y - f.Y
			if math.Sqrt(dx*dx+dy*dy) < (kp.Size+f.Size)/4 {
				if kp.Response > f.Response {
					filtered[i] = kp
				}
				duplicate = true
				break
			}
		}
		if !duplicate {
			filtered = append(filtered, kp)
		}
	}
	return filtered
}
