// Package walker implements the recursive traversal that turns a directory
// tree of images into per-image and per-directory statistics.
//
// Each visited directory gets its own stats file. Per-image rows are
// streamed as images are processed; after every entry of the directory has
// been handled, one aggregate row per detector is written using the
// reserved ** scope marker, and the directory's aggregates are returned to
// the caller for merging into the parent scope. The top-level call's return
// value is the run total.
package walker

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/benthic-lab/feature-stats/internal/detect"
	"github.com/benthic-lab/feature-stats/internal/imaging"
	"github.com/benthic-lab/feature-stats/internal/stats"
)

// ImageSource decodes a file into the grayscale plane the detectors
// consume. Tests substitute their own source; the default is the real
// decoder.
type ImageSource func(path string) (*image.Gray, error)

// Options configures a traversal.
type Options struct {
	// Recurse enables descending into subdirectories. With recursion off,
	// subdirectories are skipped entirely, without side effects.
	Recurse bool

	// Annotate writes a <stem>_<detector>.jpg copy of each image with its
	// detected keypoints drawn on.
	Annotate bool

	// FullPaths writes the image's full path in per-image rows instead of
	// its file name. Aggregate rows always use the full directory path.
	FullPaths bool

	// Jobs is the number of images processed concurrently within a
	// directory. At 1 (or less) the traversal is strictly sequential and
	// every row is durable before the next image begins; above 1, rows are
	// buffered per directory and flushed in original entry order.
	Jobs int

	// StatsName is the per-directory output file name, default stats.csv.
	StatsName string

	// Extensions are the accepted image extensions, matched
	// case-insensitively. Default: .jpg only.
	Extensions []string

	// Source decodes images; nil means the real decoder.
	Source ImageSource
}

// Walker traverses a directory tree depth-first, running every configured
// detector on every accepted image.
type Walker struct {
	detectors []detect.Detector
	source    ImageSource
	opts      Options
	exts      map[string]bool
	markers   map[string]color.RGBA
}

// New builds a Walker over a fixed, ordered detector list. The detector set
// is fixed for the whole run, so every directory scope carries the same
// aggregate keys.
func New(detectors []detect.Detector, opts Options) *Walker {
	if opts.StatsName == "" {
		opts.StatsName = "stats.csv"
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".jpg"}
	}
	if opts.Source == nil {
		opts.Source = imaging.LoadGrayscale
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}

	markers := make(map[string]color.RGBA, len(detectors))
	for i, c := range imaging.MarkerPalette(len(detectors)) {
		markers[detectors[i].Name()] = c
	}

	return &Walker{
		detectors: detectors,
		source:    opts.Source,
		opts:      opts,
		exts:      exts,
		markers:   markers,
	}
}

// Run processes one directory and, with recursion enabled, its subtree.
//
// It returns the directory's aggregates, one per detector, after their rows
// have been written to the directory's own stats file. Failure to create or
// write that file is fatal for the subtree and propagates; a file that
// cannot be decoded is logged and skipped without aborting the run.
func (w *Walker) Run(dir string) (map[string]*stats.Aggregate, error) {
	statsPath := filepath.Join(dir, w.opts.StatsName)
	f, err := os.Create(statsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", statsPath, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := w.writeRow(cw, stats.Header()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", statsPath, err)
	}

	aggregates := make(map[string]*stats.Aggregate, len(w.detectors))
	for _, d := range w.detectors {
		aggregates[d.Name()] = stats.NewAggregate(dir, d.Name())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var images []string
	var subdirs []string
	for _, entry := range entries {
		switch {
		case entry.Type().IsRegular() && w.accepted(entry.Name()):
			images = append(images, filepath.Join(dir, entry.Name()))
		case entry.IsDir() && w.opts.Recurse:
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
		}
	}

	if w.opts.Jobs > 1 {
		// Parallel mode: detection results are buffered keyed by entry
		// order, then written and merged in order on this goroutine, so
		// merges stay serialized and row order stays reproducible.
		for _, detections := range w.processImagesParallel(images) {
			if err := w.emit(cw, detections, aggregates); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", statsPath, err)
			}
		}
	} else {
		// Sequential mode: every per-image row is durable before the next
		// image begins.
		for _, path := range images {
			if err := w.emit(cw, w.processImage(path), aggregates); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", statsPath, err)
			}
		}
	}

	for _, sub := range subdirs {
		child, err := w.Run(sub)
		if err != nil {
			return nil, err
		}
		// The child's rows were already written to its own stats file;
		// only its aggregates cascade upward.
		for _, d := range w.detectors {
			aggregates[d.Name()].AddAggregate(child[d.Name()])
		}
	}

	for _, d := range w.detectors {
		if err := w.writeRow(cw, aggregates[d.Name()].Summary().Record()); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", statsPath, err)
		}
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", statsPath, err)
	}
	return aggregates, nil
}

// emit streams one image's detections: each row is flushed before the
// detection is merged into the directory aggregates.
func (w *Walker) emit(cw *csv.Writer, detections []stats.Detection, aggregates map[string]*stats.Aggregate) error {
	for _, det := range detections {
		if err := w.writeRow(cw, det.Summary().Record()); err != nil {
			return err
		}
		aggregates[det.Detector].AddDetection(det)
	}
	return nil
}

// processImage decodes one image and runs every configured detector on it,
// in order. A decode failure is logged and yields no detections: the file
// contributes nothing to any aggregate and no detector runs on it.
func (w *Walker) processImage(path string) []stats.Detection {
	log.Printf("Open %s", path)
	img, err := w.source(path)
	if err != nil {
		log.Printf("Failed to load image %s: %v", path, err)
		return nil
	}

	rowPath := path
	if !w.opts.FullPaths {
		rowPath = filepath.Base(path)
	}

	detections := make([]stats.Detection, 0, len(w.detectors))
	for _, d := range w.detectors {
		keypoints := d.Detect(img)
		responses := make([]float64, len(keypoints))
		for i, kp := range keypoints {
			responses[i] = kp.Response
		}
		detections = append(detections, stats.Detection{
			Path:      rowPath,
			Detector:  d.Name(),
			Responses: responses,
		})

		if w.opts.Annotate {
			w.annotate(path, img, d.Name(), keypoints)
		}
	}
	return detections
}

// annotate saves a keypoint overlay next to the image. Annotation problems
// are diagnostics, never fatal.
func (w *Walker) annotate(path string, img *image.Gray, detector string, keypoints []detect.Keypoint) {
	out := imaging.Annotate(img, keypoints, w.markers[detector])
	dst := imaging.AnnotatedPath(path, detector)
	if err := imaging.SaveAnnotated(out, dst); err != nil {
		log.Printf("Failed to annotate %s: %v", path, err)
	}
}

// writeRow writes and flushes a single record so the row is durable before
// any further work happens.
func (w *Walker) writeRow(cw *csv.Writer, record []string) error {
	if err := cw.Write(record); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// accepted matches a file name against the configured image extensions,
// case-insensitively.
func (w *Walker) accepted(name string) bool {
	return w.exts[strings.ToLower(filepath.Ext(name))]
}
