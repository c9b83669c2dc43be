package detect

import (
	"testing"
)

func TestSIFT_TexturedImageYieldsExtrema(t *testing.T) {
	p := DefaultParams()
	p.SIFTContrast = 1.0

	img := texturedImage(64, 64)
	kps := NewSIFT(p).Detect(img)
	if len(kps) == 0 {
		t.Fatal("expected scale-space extrema in a textured image")
	}

	for _, kp := range kps {
		if kp.Response < p.SIFTContrast {
			t.Errorf("response %g below the contrast threshold", kp.Response)
		}
		if kp.Size <= 0 {
			t.Errorf("non-positive size %g", kp.Size)
		}
		// Octave scaling can only map coordinates back inside the base image.
		if kp.X < 0 || kp.X >= 64 || kp.Y < 0 || kp.Y >= 64 {
			t.Errorf("keypoint outside the image: (%g, %g)", kp.X, kp.Y)
		}
	}
}

func TestSIFT_ContrastThresholdMonotone(t *testing.T) {
	img := texturedImage(64, 64)

	low := DefaultParams()
	low.SIFTContrast = 1.0
	high := DefaultParams()
	high.SIFTContrast = 50.0

	nLow := len(NewSIFT(low).Detect(img))
	nHigh := len(NewSIFT(high).Detect(img))
	if nHigh > nLow {
		t.Errorf("raising the contrast threshold grew the keypoint count: %d -> %d", nLow, nHigh)
	}
}

func TestSIFT_TinyImageIsEmpty(t *testing.T) {
	img := texturedImage(8, 8)
	if kps := NewSIFT(DefaultParams()).Detect(img); len(kps) != 0 {
		t.Errorf("keypoints: got %d, want 0 below the minimum octave size", len(kps))
	}
}

func TestScaleSpaceExtremum(t *testing.T) {
	// Three flat DoG planes with a single spike in the middle one.
	dog := make([][][]float64, 3)
	for s := range dog {
		dog[s] = make([][]float64, 5)
		for y := range dog[s] {
			dog[s][y] = make([]float64, 5)
		}
	}
	dog[1][2][2] = 10

	if !scaleSpaceExtremum(dog, 1, 2, 2, 10) {
		t.Error("an isolated spike must be a maximum")
	}

	// A tie with any neighbor disqualifies the point.
	dog[2][2][2] = 10
	if scaleSpaceExtremum(dog, 1, 2, 2, 10) {
		t.Error("a tie across scales must not count as an extremum")
	}

	// Minima work symmetrically.
	dog[2][2][2] = 0
	dog[1][2][2] = -10
	if !scaleSpaceExtremum(dog, 1, 2, 2, -10) {
		t.Error("an isolated dip must be a minimum")
	}
}
