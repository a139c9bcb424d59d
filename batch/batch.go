// Package batch runs the resize workflow over every JPEG file found in a
// list of directories.
package batch

import (
	"sync"

	"github.com/lepinkainen/jpegshrink/config"
	"github.com/lepinkainen/jpegshrink/picture"
)

// Observer receives progress events from a run. With more than one worker,
// FileStarted is called concurrently from the worker goroutines.
// FileFinished and DirectoryFailed are always called from the goroutine
// that called Run.
type Observer interface {
	BatchStarted(total, workers int)
	DirectoryFailed(dir string, err error)
	FileStarted(worker int, path string)
	FileFinished(worker int, result *picture.ResizeResult)
}

// Options controls how a batch is executed
type Options struct {
	// Workers is the number of files resized concurrently. Values <= 1
	// process files strictly one after another.
	Workers int

	Observer Observer

	// Resampler overrides the filter named in the config
	Resampler picture.Resampler

	MaxHashDistance int
}

// Summary totals the outcome of a run
type Summary struct {
	Directories       int
	DirectoryErrors   int
	Matched           int
	Resized           int
	Skipped           int
	Errors            int
	Warnings          int
	BytesBefore       int64
	BytesAfter        int64
	Failures          []*picture.ResizeResult
	FailedDirectories map[string]error
}

func (s *Summary) add(result *picture.ResizeResult) {
	s.Warnings += len(result.Warnings)

	switch {
	case result.Error != nil:
		s.Errors++
		s.Failures = append(s.Failures, result)
	case result.WasSkipped:
		s.Skipped++
	case result.WasResized:
		s.Resized++
		s.BytesBefore += result.OriginalSize
		s.BytesAfter += result.NewSize
	}
}

type nopObserver struct{}

func (nopObserver) BatchStarted(int, int) {}
func (nopObserver) DirectoryFailed(string, error) {}
func (nopObserver) FileStarted(int, string) {}
func (nopObserver) FileFinished(int, *picture.ResizeResult) {}

// Run resizes every matching file in dirs to cfg. Unreadable directories
// and failing files are reported through the observer and the summary;
// neither stops the run.
func Run(dirs config.DirectoryList, cfg config.ResizeConfig, opts Options) *Summary {
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	summary := &Summary{Directories: len(dirs)}

	files, failed := picture.FindJPEGFiles(dirs, cfg.Match)
	for _, dir := range dirs {
		if err, ok := failed[dir]; ok {
			obs.DirectoryFailed(dir, err)
		}
	}
	summary.DirectoryErrors = len(failed)
	summary.FailedDirectories = failed
	summary.Matched = len(files)

	workers := opts.Workers
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	obs.BatchStarted(len(files), workers)

	resizeOpts := picture.ResizeOptions{
		Resampler:       opts.Resampler,
		MaxHashDistance: opts.MaxHashDistance,
	}

	if workers == 1 {
		runSequential(files, cfg, resizeOpts, obs, summary)
	} else {
		runParallel(files, workers, cfg, resizeOpts, obs, summary)
	}

	return summary
}

func runSequential(files []string, cfg config.ResizeConfig, opts picture.ResizeOptions, obs Observer, summary *Summary) {
	for _, path := range files {
		obs.FileStarted(1, path)
		result := picture.ResizeFile(path, cfg, opts)
		summary.add(result)
		obs.FileFinished(1, result)
	}
}

type workerResult struct {
	worker int
	result *picture.ResizeResult
}

func runParallel(files []string, workers int, cfg config.ResizeConfig, opts picture.ResizeOptions, obs Observer, summary *Summary) {
	jobs := make(chan string, len(files))
	results := make(chan workerResult, len(files))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for path := range jobs {
				obs.FileStarted(workerID, path)
				results <- workerResult{worker: workerID, result: picture.ResizeFile(path, cfg, opts)}
			}
		}(i + 1)
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		summary.add(r.result)
		obs.FileFinished(r.worker, r.result)
	}
}
