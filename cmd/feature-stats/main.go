package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/benthic-lab/feature-stats/internal/config"
	"github.com/benthic-lab/feature-stats/internal/detect"
	"github.com/benthic-lab/feature-stats/internal/walker"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("feature-stats %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()

	fs := flag.NewFlagSet("feature-stats", flag.ExitOnError)
	recurse := fs.Bool("r", cfg.Recurse, "enter directories looking for images")
	annotate := fs.Bool("a", cfg.Annotate, "draw features on copies of the images")
	detector := fs.String("d", cfg.Detector,
		"detector type, choose from SIFT, BRISK, ORB, MSER, AKAZE, FAST, blob, Agast, GFTT, desc, all")
	jobs := fs.Int("jobs", cfg.Jobs, "images processed concurrently per directory")
	fullPaths := fs.Bool("full-paths", cfg.FullPaths, "write full image paths instead of file names")
	paramsFile := fs.String("params", cfg.ParamsFile, "YAML file with detector tuning parameters")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Gathers per-detector keypoint response statistics for every image\n")
		fmt.Fprintf(os.Stderr, "under a directory, writing one stats file per visited directory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	root := fs.Arg(0)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		log.Fatalf("path must be a directory: %s", root)
	}

	params, err := config.LoadParams(*paramsFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	detectors, err := detect.Build(*detector, params)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("FEATURE_STATS_LOG_LEVEL") == "debug" {
		log.Printf("feature-stats v%s (built %s, commit %s), detectors: %v",
			Version, BuildTime, GitCommit, detect.Names(detectors))
	}

	w := walker.New(detectors, walker.Options{
		Recurse:    *recurse,
		Annotate:   *annotate,
		FullPaths:  *fullPaths,
		Jobs:       *jobs,
		StatsName:  cfg.StatsName,
		Extensions: cfg.Extensions,
	})

	totals, err := w.Run(root)
	if err != nil {
		log.Fatalf("%v", err)
	}

	for _, d := range detectors {
		s := totals[d.Name()].Summary()
		log.Printf("total %s: d_num=%d f_mean=%g r_mean=%g", d.Name(), s.DNum, s.FMean, s.RMean)
	}
}
