package stats

import (
	"math"
	"strconv"
)

// Summary is the output projection of a Detection or an Aggregate into the
// six reportable statistics. It is derived on demand and never stored.
type Summary struct {
	// Path is the image path, or the directory path with the ** marker for
	// aggregate rows.
	Path string

	// Detector is the canonical detector name.
	Detector string

	// DNum is the number of images that contributed (individual files
	// processed), not the number of response samples.
	DNum int

	// FMean is the mean number of features per detection.
	FMean float64

	// RMin and RMax are the response extrema.
	RMin float64
	RMax float64

	// RMean is the arithmetic mean of the responses.
	RMean float64

	// RStd is the population standard deviation of the responses
	// (divide by N, not N-1).
	RStd float64
}

// Summarize computes the summary statistics for a sample set.
//
// count is the number of detections that produced the samples; FMean is
// len(samples)/count, so an image with zero keypoints in a count-1 summary
// yields FMean 0. With no samples at all, every float field is exactly zero:
// min/max/mean/std of an empty set is undefined and must never surface as
// NaN in output.
func Summarize(path, detector string, samples []float64, count int) Summary {
	s := Summary{Path: path, Detector: detector, DNum: count}
	if len(samples) == 0 {
		return s
	}

	s.FMean = float64(len(samples)) / float64(count)

	min, max := samples[0], samples[0]
	sum := 0.0
	for _, v := range samples {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(samples))

	sumSq := 0.0
	for _, v := range samples {
		diff := v - mean
		sumSq += diff * diff
	}

	s.RMin = min
	s.RMax = max
	s.RMean = mean
	s.RStd = math.Sqrt(sumSq / float64(len(samples)))
	return s
}

// Header returns the CSV column names, one output file per visited directory.
//
// Columns:
//
//	path       file path, ** indicates the row covers a whole directory
//	detector   name of the detector
//	d_num      number of detections (individual files processed)
//	f_mean     mean number of features per detection
//	r_min      minimum response value
//	r_max      maximum response value
//	r_mean     mean response value
//	r_std      population standard deviation of response values
func Header() []string {
	return []string{"path", "detector", "d_num", "f_mean", "r_min", "r_max", "r_mean", "r_std"}
}

// Record renders the summary as one CSV record matching Header.
func (s Summary) Record() []string {
	return []string{
		s.Path,
		s.Detector,
		strconv.Itoa(s.DNum),
		formatFloat(s.FMean),
		formatFloat(s.RMin),
		formatFloat(s.RMax),
		formatFloat(s.RMean),
		formatFloat(s.RStd),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
