package detect

import (
	"image"
	"math"
)

// component is one connected region of below-threshold pixels.
type component struct {
	area      int
	perimeter int
	cx, cy    float64 // centroid
}

// labelRegions labels the 8-connected components of pixels darker than
// thresh. The returned grid holds a component index per pixel, -1 for
// background. Flood fill is stack-based to stay safe on large regions.
func labelRegions(m [][]float64, thresh float64) ([][]int32, []component) {
	height := len(m)
	width := len(m[0])

	labels := make([][]int32, height)
	for y := range labels {
		labels[y] = make([]int32, width)
		for x := range labels[y] {
			labels[y][x] = -1
		}
	}

	comps := make([]component, 0)
	stack := make([][2]int, 0, 64)

	for sy := 0; sy < height; sy++ {
		for sx := 0; sx < width; sx++ {
			if m[sy][sx] >= thresh || labels[sy][sx] >= 0 {
				continue
			}

			id := int32(len(comps))
			var c component
			var sumX, sumY int
			stack = append(stack[:0], [2]int{sx, sy})

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				x, y := p[0], p[1]

				if x < 0 || x >= width || y < 0 || y >= height {
					continue
				}
				if labels[y][x] >= 0 || m[y][x] >= thresh {
					continue
				}

				labels[y][x] = id
				c.area++
				sumX += x
				sumY += y

				// A pixel on the image border or next to a background
				// 4-neighbor lies on the region boundary.
				if x == 0 || x == width-1 || y == 0 || y == height-1 ||
					m[y][x-1] >= thresh || m[y][x+1] >= thresh ||
					m[y-1][x] >= thresh || m[y+1][x] >= thresh {
					c.perimeter++
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						stack = append(stack, [2]int{x + dx, y + dy})
					}
				}
			}

			c.cx = float64(sumX) / float64(c.area)
			c.cy = float64(sumY) / float64(c.area)
			comps = append(comps, c)
		}
	}
	return labels, comps
}

// circularity is 4*pi*area / perimeter^2: 1.0 for a perfect disc, lower for
// elongated or ragged regions.
func (c component) circularity() float64 {
	if c.perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * float64(c.area) / float64(c.perimeter*c.perimeter)
}

// SimpleBlob detects dark blobs by binarizing the image at a ladder of
// thresholds, extracting connected components at each level, and keeping
// blob centers that repeat across levels. The response is the fraction of
// threshold levels at which the blob appeared.
type SimpleBlob struct {
	minArea int
	maxArea int
}

// NewSimpleBlob returns a SimpleBlobDetector with the supplied area bounds.
func NewSimpleBlob(p Params) Detector {
	return &SimpleBlob{minArea: p.BlobMinArea, maxArea: p.BlobMaxArea}
}

func (d *SimpleBlob) Name() string { return "SimpleBlobDetector" }

const (
	blobMinThreshold  = 50
	blobMaxThreshold  = 220
	blobThresholdStep = 10
	blobMinRepeats    = 2
	blobMergeDist     = 10.0
)

type blobGroup struct {
	sumX, sumY float64
	sumRadius  float64
	count      int
}

func (d *SimpleBlob) Detect(img *image.Gray) []Keypoint {
	m := matrix(img)

	groups := make([]blobGroup, 0)
	levels := 0
	for t := blobMinThreshold; t <= blobMaxThreshold; t += blobThresholdStep {
		levels++
		_, comps := labelRegions(m, float64(t))

		for _, c := range comps {
			if c.area < d.minArea || c.area > d.maxArea {
				continue
			}
			radius := math.Sqrt(float64(c.area) / math.Pi)

			merged := false
			for i := range groups {
				g := &groups[i]
				gx := g.sumX / float64(g.count)
				gy := g.sumY / float64(g.count)
				dx := c.cx - gx
				dy := c.cy - gy
				if math.Sqrt(dx*dx+dy*dy) < blobMergeDist {
					g.sumX += c.cx
					g.sumY += c.cy
					g.sumRadius += radius
					g.count++
					merged = true
					break
				}
			}
			if !merged {
				groups = append(groups, blobGroup{
					sumX: c.cx, sumY: c.cy, sumRadius: radius, count: 1,
				})
			}
		}
	}

	kps := make([]Keypoint, 0, len(groups))
	for _, g := range groups {
		if g.count < blobMinRepeats {
			continue
		}
		n := float64(g.count)
		kps = append(kps, Keypoint{
			X:        g.sumX / n,
			Y:        g.sumY / n,
			Size:     2 * g.sumRadius / n,
			Response: n / float64(levels),
		})
	}
	return kps
}
