// Package detect provides the feature detectors whose keypoint responses
// feed the statistics pipeline.
//
// Each detector implements the Detector interface: given a decoded grayscale
// image it returns the keypoints it found, each carrying a response value
// (the detector-assigned confidence/strength score for that keypoint).
// Detectors are deterministic for identical pixel data and never mutate the
// input image.
//
// The detector set mirrors the OpenCV lineup the statistics were designed
// around. The implementations here are simple pure-Go renditions; detection
// quality is not the point of this tool, which only measures how response
// distributions behave across an image corpus.
//
// # Detector groups
//
// Detectors that can extract descriptors: SIFT, BRISK, ORB, AKAZE.
// Detectors that cannot: MSER, FAST, SimpleBlobDetector,
// AgastFeatureDetector, GFTTDetector.
//
// Build resolves the same alias groups the original tool accepts: "desc"
// selects the descriptor-capable group, "all" selects everything, and
// "blob", "Agast", and "GFTT" are shorthands for the long names.
package detect

import (
	"fmt"
	"image"
)

// Keypoint is a single detected feature.
type Keypoint struct {
	// X and Y locate the keypoint center in pixel coordinates,
	// origin at the top-left.
	X float64
	Y float64

	// Size is the keypoint diameter in pixels.
	Size float64

	// Response is the detector's strength score for this keypoint.
	Response float64
}

// Detector finds keypoints in a grayscale image.
//
// Detect may be called any number of times, must be deterministic given the
// same pixel data, and must not mutate the input image.
type Detector interface {
	Name() string
	Detect(img *image.Gray) []Keypoint
}

// Params carries the tuning knobs shared by the detector constructors.
// Zero values are not meaningful; start from DefaultParams.
type Params struct {
	FASTThreshold    int     `yaml:"fast_threshold"`
	AgastThreshold   int     `yaml:"agast_threshold"`
	GFTTMaxCorners   int     `yaml:"gftt_max_corners"`
	GFTTQuality      float64 `yaml:"gftt_quality"`
	HarrisK          float64 `yaml:"harris_k"`
	BlobMinArea      int     `yaml:"blob_min_area"`
	BlobMaxArea      int     `yaml:"blob_max_area"`
	MSERDelta        int     `yaml:"mser_delta"`
	MSERMinArea      int     `yaml:"mser_min_area"`
	MSERMaxArea      int     `yaml:"mser_max_area"`
	MSERMaxVariation float64 `yaml:"mser_max_variation"`
	SIFTContrast     float64 `yaml:"sift_contrast"`
	AKAZEThreshold   float64 `yaml:"akaze_threshold"`
	PyramidLevels    int     `yaml:"pyramid_levels"`
	PyramidScale     float64 `yaml:"pyramid_scale"`
}

// DefaultParams returns the tuning used when no params file is supplied.
func DefaultParams() Params {
	return Params{
		FASTThreshold:    20,
		AgastThreshold:   20,
		GFTTMaxCorners:   1000,
		GFTTQuality:      0.01,
		HarrisK:          0.04,
		BlobMinArea:      25,
		BlobMaxArea:      5000,
		MSERDelta:        15,
		MSERMinArea:      30,
		MSERMaxArea:      14400,
		MSERMaxVariation: 0.25,
		SIFTContrast:     8.0,
		AKAZEThreshold:   40.0,
		PyramidLevels:    4,
		PyramidScale:     1.5,
	}
}

// Build constructs the detector list for a selector, which is either a
// detector name, one of the short aliases, or a group ("desc", "all").
// The returned order is fixed per selector, so output rows and aggregate
// rows always appear in the same detector order for a given run setup.
func Build(selector string, p Params) ([]Detector, error) {
	in := func(aliases ...string) bool {
		for _, a := range aliases {
			if selector == a {
				return true
			}
		}
		return false
	}

	var ds []Detector

	// Feature detectors that can extract descriptors.
	if in("SIFT", "desc", "all") {
		ds = append(ds, NewSIFT(p))
	}
	if in("BRISK", "desc", "all") {
		ds = append(ds, NewBRISK(p))
	}
	if in("ORB", "desc", "all") {
		ds = append(ds, NewORB(p))
	}
	if in("AKAZE", "desc", "all") {
		ds = append(ds, NewAKAZE(p))
	}

	// Feature detectors that cannot extract descriptors.
	if in("MSER", "all") {
		ds = append(ds, NewMSER(p))
	}
	if in("FAST", "all") {
		ds = append(ds, NewFAST(p))
	}
	if in("SimpleBlobDetector", "blob", "all") {
		ds = append(ds, NewSimpleBlob(p))
	}
	if in("AgastFeatureDetector", "Agast", "all") {
		ds = append(ds, NewAgast(p))
	}
	if in("GFTTDetector", "GFTT", "all") {
		ds = append(ds, NewGFTT(p))
	}

	if len(ds) == 0 {
		return nil, fmt.Errorf("unknown detector type: %s", selector)
	}
	return ds, nil
}

// Names returns the canonical names of the detectors, in order.
func Names(ds []Detector) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name()
	}
	return names
}
