package detect

import (
	"math"
	"testing"
)

func TestGFTT_SingleCornerSurvivesSuppression(t *testing.T) {
	img := dotImage(32, 32, [2]int{16, 16})

	kps := NewGFTT(DefaultParams()).Detect(img)
	if len(kps) != 1 {
		t.Fatalf("keypoints: got %d, want exactly 1 after non-maximum suppression", len(kps))
	}
	kp := kps[0]
	if kp.X != 16 || kp.Y != 16 {
		t.Errorf("location: got (%g, %g), want (16, 16)", kp.X, kp.Y)
	}
	if kp.Size != 3 {
		t.Errorf("Size: got %g, want 3", kp.Size)
	}
	if kp.Response <= 0 {
		t.Errorf("Response: got %g, want > 0", kp.Response)
	}
}

func TestGFTT_MaxCornersCapsTheList(t *testing.T) {
	img := dotImage(32, 32, [2]int{8, 8}, [2]int{24, 24})

	full := NewGFTT(DefaultParams()).Detect(img)
	if len(full) != 2 {
		t.Fatalf("uncapped keypoints: got %d, want 2", len(full))
	}

	p := DefaultParams()
	p.GFTTMaxCorners = 1
	capped := NewGFTT(p).Detect(img)
	if len(capped) != 1 {
		t.Errorf("capped keypoints: got %d, want 1", len(capped))
	}
}

func TestGFTT_ResultsSortedByResponse(t *testing.T) {
	kps := NewGFTT(DefaultParams()).Detect(texturedImage(48, 48))
	for i := 1; i < len(kps); i++ {
		if kps[i].Response > kps[i-1].Response {
			t.Fatalf("keypoint %d outranks its predecessor: %g > %g",
				i, kps[i].Response, kps[i-1].Response)
		}
	}
}

func TestGFTT_FlatImageHasNoCorners(t *testing.T) {
	img := image32WithBackground(200)
	if kps := NewGFTT(DefaultParams()).Detect(img); len(kps) != 0 {
		t.Errorf("keypoints on a flat image: got %d, want 0", len(kps))
	}
}

func TestStructureTensor_Measures(t *testing.T) {
	// Equal eigenvalues: xx == yy, xy == 0.
	iso := structureTensor{xx: 4, yy: 4, xy: 0}
	if got := iso.minEigenvalue(); got != 4 {
		t.Errorf("minEigenvalue: got %g, want 4", got)
	}
	if got := iso.harris(0.04); math.Abs(got-(16-0.04*64)) > 1e-12 {
		t.Errorf("harris: got %g, want %g", got, 16-0.04*64)
	}

	// A pure edge has one zero eigenvalue.
	edge := structureTensor{xx: 9, yy: 0, xy: 0}
	if got := edge.minEigenvalue(); got != 0 {
		t.Errorf("edge minEigenvalue: got %g, want 0", got)
	}
}
