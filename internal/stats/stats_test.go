package stats

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddDetection_CountsImagesNotSamples(t *testing.T) {
	agg := NewAggregate("train", "FAST")

	agg.AddDetection(Detection{Path: "a.jpg", Detector: "FAST", Responses: []float64{1, 2}})
	agg.AddDetection(Detection{Path: "b.jpg", Detector: "FAST", Responses: nil})

	if agg.Count != 2 {
		t.Errorf("Count: got %d, want 2", agg.Count)
	}
	if got := agg.Summary().FMean; got != 1 {
		t.Errorf("FMean: got %g, want 1 (2 samples over 2 detections)", got)
	}
}

func TestAddAggregate_CountCascades(t *testing.T) {
	child := NewAggregate(filepath.Join("train", "A"), "FAST")
	child.AddDetection(Detection{Path: "a.jpg", Detector: "FAST", Responses: []float64{5}})
	child.AddDetection(Detection{Path: "b.jpg", Detector: "FAST", Responses: []float64{7}})

	parent := NewAggregate("train", "FAST")
	parent.AddAggregate(child)

	if parent.Count != 2 {
		t.Errorf("Count: got %d, want 2 (child's count, not 1 per merge)", parent.Count)
	}
	if got := parent.Summary().RMean; got != 6 {
		t.Errorf("RMean: got %g, want 6", got)
	}
}

func TestMerge_OrderIndependent(t *testing.T) {
	detections := []Detection{
		{Path: "a.jpg", Detector: "X", Responses: []float64{1, 2}},
		{Path: "b.jpg", Detector: "X", Responses: []float64{3}},
		{Path: "c.jpg", Detector: "X", Responses: nil},
		// Values are exactly representable and partial sums stay exact, so
		// the summaries must match bit for bit across merge orders.
		{Path: "d.jpg", Detector: "X", Responses: []float64{0.5, 3.5}},
	}

	// Flat merge in forward order.
	forward := NewAggregate("dir", "X")
	for _, d := range detections {
		forward.AddDetection(d)
	}

	// Flat merge in reverse order.
	reverse := NewAggregate("dir", "X")
	for i := len(detections) - 1; i >= 0; i-- {
		reverse.AddDetection(detections[i])
	}

	// Grouped through intermediate aggregates.
	left := NewAggregate("dir", "X")
	left.AddDetection(detections[0])
	left.AddDetection(detections[1])
	right := NewAggregate("dir", "X")
	right.AddDetection(detections[2])
	right.AddDetection(detections[3])
	grouped := NewAggregate("dir", "X")
	grouped.AddAggregate(right)
	grouped.AddAggregate(left)

	want := forward.Summary()
	for name, agg := range map[string]*Aggregate{"reverse": reverse, "grouped": grouped} {
		got := agg.Summary()
		if got != want {
			t.Errorf("%s merge order changed the summary: got %+v, want %+v", name, got, want)
		}
	}
}

func TestAddDetection_DetectorMismatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic merging mismatched detectors")
		}
		if !strings.Contains(r.(string), "ORB") {
			t.Errorf("panic message should name the offending detector: %v", r)
		}
	}()

	agg := NewAggregate("dir", "FAST")
	agg.AddDetection(Detection{Path: "a.jpg", Detector: "ORB", Responses: []float64{1}})
}

func TestAddAggregate_DetectorMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic merging mismatched aggregates")
		}
	}()

	agg := NewAggregate("dir", "FAST")
	agg.AddAggregate(NewAggregate("dir", "ORB"))
}

func TestAggregate_MatchesRecomputationFromAllSamples(t *testing.T) {
	// Images A (responses 1.0, 2.0) and B (responses 3.0) in one directory.
	agg := NewAggregate("dir", "X")
	agg.AddDetection(Detection{Path: "A.jpg", Detector: "X", Responses: []float64{1, 2}})
	agg.AddDetection(Detection{Path: "B.jpg", Detector: "X", Responses: []float64{3}})

	s := agg.Summary()
	if s.DNum != 2 {
		t.Errorf("DNum: got %d, want 2", s.DNum)
	}
	if s.FMean != 1.5 {
		t.Errorf("FMean: got %g, want 1.5", s.FMean)
	}
	if s.RMin != 1 || s.RMax != 3 {
		t.Errorf("RMin/RMax: got %g/%g, want 1/3", s.RMin, s.RMax)
	}
	if s.RMean != 2 {
		t.Errorf("RMean: got %g, want 2", s.RMean)
	}
	// Population std: sqrt(((1-2)^2 + (2-2)^2 + (3-2)^2) / 3)
	want := math.Sqrt(2.0 / 3.0)
	if math.Abs(s.RStd-want) > 1e-12 {
		t.Errorf("RStd: got %.6f, want %.6f", s.RStd, want)
	}
	if math.Abs(s.RStd-0.8165) > 5e-5 {
		t.Errorf("RStd: got %.4f, want 0.8165", s.RStd)
	}
}

func TestScopePath_UsesMarkerSegment(t *testing.T) {
	agg := NewAggregate(filepath.Join("train", "A"), "FAST")
	want := filepath.Join("train", "A", ScopeMarker)
	if got := agg.ScopePath(); got != want {
		t.Errorf("ScopePath: got %q, want %q", got, want)
	}
}
