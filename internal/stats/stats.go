package stats

import (
	"fmt"
	"path/filepath"
)

// ScopeMarker is the reserved path segment appended to a directory path to
// mark a row as covering every file in that scope rather than a single image.
const ScopeMarker = "**"

// Detection holds one detector's full result set for one image: the response
// value of every keypoint the detector found. A Detection is created once per
// (image, detector) pair during traversal and never mutated afterwards.
type Detection struct {
	// Path is the image path as it should appear in output rows
	// (file name or full path, depending on configuration).
	Path string

	// Detector is the canonical name of the detector that produced this result.
	Detector string

	// Responses are the keypoint response values, in detection order.
	// An image with zero detected keypoints has an empty slice.
	Responses []float64
}

// Summary projects the detection into a single-image summary record.
// A Detection always counts as one image, even when it has no responses.
func (d Detection) Summary() Summary {
	return Summarize(d.Path, d.Detector, d.Responses, 1)
}

// Aggregate accumulates response samples and a detection count for one
// (scope, detector) pair. Every recursion level of the traversal owns its
// own Aggregate per detector and receives children's results as explicit
// return values, so no aggregate is ever shared across directory scopes.
//
// Count tracks the number of images that contributed, not the number of
// samples: an image with zero detected keypoints still increments Count but
// contributes no samples.
//
// Merging keeps every raw sample (concatenation, not a running mean), so
// statistics computed at any level of the tree are numerically identical to
// recomputing them from the full underlying sample set. The cost is
// O(total samples) memory per detector held transiently during traversal.
type Aggregate struct {
	// Scope is the directory this aggregate covers.
	Scope string

	// Detector is the canonical detector name. Only results from the same
	// detector may be merged in.
	Detector string

	// Count is the number of Detections merged, directly or through child
	// aggregates.
	Count int

	samples []float64
}

// NewAggregate returns an empty aggregate for one (scope, detector) pair.
func NewAggregate(scope, detector string) *Aggregate {
	return &Aggregate{Scope: scope, Detector: detector}
}

// AddDetection merges a single image's result into the aggregate.
//
// Panics if the detection was produced by a different detector: that is a
// contract violation in the composition logic, not a data problem.
func (a *Aggregate) AddDetection(d Detection) {
	if d.Detector != a.Detector {
		panic(fmt.Sprintf("stats: cannot merge %s detection into %s aggregate", d.Detector, a.Detector))
	}
	a.samples = append(a.samples, d.Responses...)
	a.Count++
}

// AddAggregate merges a child scope's aggregate into this one. The child's
// samples are concatenated and its Count is added, so grand totals reflect
// the true number of images rather than the number of merges.
//
// Merging is commutative and associative in its effect on the sample multiset
// and on Count. Panics on a detector mismatch, same as AddDetection.
func (a *Aggregate) AddAggregate(other *Aggregate) {
	if other.Detector != a.Detector {
		panic(fmt.Sprintf("stats: cannot merge %s aggregate into %s aggregate", other.Detector, a.Detector))
	}
	a.samples = append(a.samples, other.samples...)
	a.Count += other.Count
}

// ScopePath renders the aggregate's scope with the reserved ** marker
// appended as a path segment, distinguishing it from any real file.
func (a *Aggregate) ScopePath() string {
	return filepath.Join(a.Scope, ScopeMarker)
}

// Summary projects the aggregate into its summary record.
func (a *Aggregate) Summary() Summary {
	return Summarize(a.ScopePath(), a.Detector, a.samples, a.Count)
}
