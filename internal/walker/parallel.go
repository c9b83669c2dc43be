package walker

import (
	"sync"

	"github.com/benthic-lab/feature-stats/internal/stats"
)

// processImagesParallel distributes per-image decode+detect work across a
// bounded pool of goroutines. The result slice is indexed by the original
// entry order, so the caller can emit rows in the same order the sequential
// mode would. Merging is left entirely to the caller: detector merge is
// commutative and associative, but keeping all merges on one goroutine
// means no aggregate ever has concurrent mutators.
func (w *Walker) processImagesParallel(paths []string) [][]stats.Detection {
	results := make([][]stats.Detection, len(paths))
	sem := make(chan struct{}, w.opts.Jobs)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = w.processImage(path)
		}(i, path)
	}
	wg.Wait()
	return results
}
