package detect

import (
	"image"
	"math"
)

// circle16 is the Bresenham circle of radius 3 used by the FAST 9-of-16
// segment test, starting at 12 o'clock and running clockwise.
var circle16 = [][2]int{
	{0, -3}, {1, -3}, {2, -2}, {3, -1},
	{3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
	{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// diamond8 is the 8-pixel diamond mask of the AGAST 5-of-8 variant.
var diamond8 = [][2]int{
	{0, -2}, {1, -1}, {2, 0}, {1, 1},
	{0, 2}, {-1, 1}, {-2, 0}, {-1, -1},
}

// segmentDetector is the machinery shared by FAST and AGAST: a corner is a
// pixel with a contiguous arc of ring pixels all brighter than center+t or
// all darker than center-t. The response is the arc's summed contrast above
// the threshold, and a 3x3 non-maximum suppression keeps one keypoint per
// corner.
type segmentDetector struct {
	name      string
	offsets   [][2]int
	arc       int // required contiguous run length
	margin    int // ring radius, keeps the mask inside the image
	threshold int
	size      float64 // reported keypoint diameter
}

// NewFAST returns the FAST 9-of-16 corner detector.
func NewFAST(p Params) Detector {
	return &segmentDetector{
		name:      "FAST",
		offsets:   circle16,
		arc:       9,
		margin:    3,
		threshold: p.FASTThreshold,
		size:      7,
	}
}

// NewAgast returns the AGAST 5-of-8 corner detector. It shares the segment
// test with FAST but runs it on the tighter diamond mask.
func NewAgast(p Params) Detector {
	return &segmentDetector{
		name:      "AgastFeatureDetector",
		offsets:   diamond8,
		arc:       5,
		margin:    2,
		threshold: p.AgastThreshold,
		size:      5,
	}
}

func (d *segmentDetector) Name() string { return d.name }

func (d *segmentDetector) Detect(img *image.Gray) []Keypoint {
	m := matrix(img)
	scores := segmentScores(m, d.offsets, d.arc, d.margin, d.threshold)
	return collectKeypoints(scores, d.size, 1)
}

// segmentScores runs the contiguous-arc test at every interior pixel and
// returns the corner score grid (zero where the test fails).
func segmentScores(m [][]float64, offsets [][2]int, arc, margin, threshold int) [][]float64 {
	height := len(m)
	width := len(m[0])
	t := float64(threshold)
	n := len(offsets)

	scores := make([][]float64, height)
	for y := range scores {
		scores[y] = make([]float64, width)
	}

	ring := make([]float64, n)
	for y := margin; y < height-margin; y++ {
		for x := margin; x < width-margin; x++ {
			c := m[y][x]
			for i, off := range offsets {
				ring[i] = m[y+off[1]][x+off[0]]
			}

			best := 0.0
			// Brighter and darker arcs are scored independently; the run
			// scan walks the ring twice to catch arcs that wrap around.
			for _, sign := range []float64{1, -1} {
				run := 0
				sum := 0.0
				for i := 0; i < 2*n; i++ {
					diff := sign * (ring[i%n] - c)
					if diff > t {
						run++
						sum += diff - t
						if run >= arc && sum > best {
							best = sum
						}
					} else {
						run = 0
						sum = 0
					}
				}
			}
			scores[y][x] = best
		}
	}
	return scores
}

// collectKeypoints applies 3x3 non-maximum suppression to a score grid and
// emits one keypoint per surviving maximum, with coordinates scaled back to
// the base image when the grid came from a pyramid level.
func collectKeypoints(scores [][]float64, size, scale float64) []Keypoint {
	height := len(scores)
	width := len(scores[0])

	kps := make([]Keypoint, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if scores[y][x] <= 0 || !localMax(scores, x, y) {
				continue
			}
			kps = append(kps, Keypoint{
				X:        float64(x) * scale,
				Y:        float64(y) * scale,
				Size:     size * scale,
				Response: scores[y][x],
			})
		}
	}
	return kps
}

// pyramidLevelSize computes the dimensions of pyramid level i for a
// geometric scale factor.
func pyramidLevelSize(width, height int, scale float64, level int) (int, int) {
	f := math.Pow(scale, float64(level))
	return int(float64(width)/f + 0.5), int(float64(height)/f + 0.5)
}
