package detect

import (
	"bytes"
	"image"
	"math"
	"reflect"
	"strings"
	"testing"
)

// texturedImage builds a deterministic high-frequency pattern so every
// detector has structure to respond to.
func texturedImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = byte((x*x*3 + y*y*7 + x*y) % 251)
		}
	}
	return img
}

// image32WithBackground is a uniform 32x32 canvas.
func image32WithBackground(value byte) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

// dotImage is a black canvas with single bright pixels at the given centers,
// the simplest stimulus that exercises the corner tests.
func dotImage(width, height int, dots ...[2]int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for _, d := range dots {
		img.Pix[d[1]*img.Stride+d[0]] = 255
	}
	return img
}

func TestBuild_Aliases(t *testing.T) {
	tests := []struct {
		selector string
		want     []string
	}{
		{"desc", []string{"SIFT", "BRISK", "ORB", "AKAZE"}},
		{"all", []string{
			"SIFT", "BRISK", "ORB", "AKAZE",
			"MSER", "FAST", "SimpleBlobDetector", "AgastFeatureDetector", "GFTTDetector",
		}},
		{"blob", []string{"SimpleBlobDetector"}},
		{"Agast", []string{"AgastFeatureDetector"}},
		{"GFTT", []string{"GFTTDetector"}},
		{"FAST", []string{"FAST"}},
		{"MSER", []string{"MSER"}},
		{"SIFT", []string{"SIFT"}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			ds, err := Build(tt.selector, DefaultParams())
			if err != nil {
				t.Fatalf("Build(%q) failed: %v", tt.selector, err)
			}
			got := Names(ds)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Build(%q): got %v, want %v", tt.selector, got, tt.want)
			}
		})
	}
}

func TestBuild_UnknownSelector(t *testing.T) {
	_, err := Build("SURF", DefaultParams())
	if err == nil {
		t.Fatal("expected an error for an unknown selector")
	}
	if !strings.Contains(err.Error(), "SURF") {
		t.Errorf("error should name the selector: %v", err)
	}
}

func TestDetectors_DeterministicAndNonMutating(t *testing.T) {
	detectors, err := Build("all", DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	img := texturedImage(48, 48)
	before := append([]byte(nil), img.Pix...)

	for _, d := range detectors {
		t.Run(d.Name(), func(t *testing.T) {
			first := d.Detect(img)
			second := d.Detect(img)
			if !reflect.DeepEqual(first, second) {
				t.Errorf("two runs on identical pixels disagree: %d vs %d keypoints",
					len(first), len(second))
			}
			for _, kp := range first {
				if math.IsNaN(kp.Response) || math.IsInf(kp.Response, 0) {
					t.Errorf("non-finite response %v at (%g, %g)", kp.Response, kp.X, kp.Y)
				}
			}
		})
	}

	if !bytes.Equal(before, img.Pix) {
		t.Error("a detector mutated the input image")
	}
}
