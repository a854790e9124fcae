package index

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huefind/internal/colour"
	"github.com/jmylchreest/huefind/internal/image"
)

// BuildOptions configures an index build.
type BuildOptions struct {
	// Extractor produces palettes. Defaults to k-means with default options.
	Extractor colour.Extractor
	// Loader decodes image files. Defaults to image.NewFileLoader().
	Loader image.Loader
	// Workers is the number of images processed concurrently.
	// Defaults to runtime.NumCPU().
	Workers int
	// Logger receives per-image progress. Defaults to a null logger.
	Logger hclog.Logger
}

// BuildSummary reports the outcome of a build.
type BuildSummary struct {
	Scanned  int
	Indexed  int
	Failures []*DecodeError
	Duration time.Duration
}

// Failed returns the number of images skipped.
func (s *BuildSummary) Failed() int {
	return len(s.Failures)
}

type buildResult struct {
	palette colour.Palette
	err     error
}

// Build scans dir for eligible images and extracts a palette from each.
// Images that fail to load or extract are recorded in the summary and left
// out of the index. Extraction is independent per image, so the index is the
// same for any number of workers.
func Build(ctx context.Context, dir string, opts BuildOptions) (*Index, *BuildSummary, error) {
	start := time.Now()

	if opts.Extractor == nil {
		opts.Extractor = colour.NewKMeansExtractor(colour.DefaultExtractorOptions())
	}
	if opts.Loader == nil {
		opts.Loader = image.NewFileLoader()
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	logger := opts.Logger

	sources, err := image.Scan(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan dataset: %w", err)
	}
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("no supported image files found in directory: %s", dir)
	}
	logger.Info("scanning dataset", "dir", dir, "images", len(sources), "workers", opts.Workers)

	results := make([]buildResult, len(sources))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(opts.Workers, len(sources)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = extractOne(opts, sources[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range sources {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, nil, cancelled
	}

	idx := New()
	summary := &BuildSummary{Scanned: len(sources)}
	for i, src := range sources {
		res := results[i]
		if res.err == nil {
			res.err = idx.add(src.ID, res.palette)
		}
		if res.err != nil {
			decodeErr := &DecodeError{ID: src.ID, Err: res.err}
			summary.Failures = append(summary.Failures, decodeErr)
			logger.Warn("failed to process image", "id", src.ID, "error", res.err)
			continue
		}
		logger.Debug("processed image", "id", src.ID, "palette", res.palette.String())
	}

	summary.Indexed = idx.Len()
	summary.Duration = time.Since(start)
	logger.Info("index built", "indexed", summary.Indexed, "failed", summary.Failed(), "duration", summary.Duration)

	return idx, summary, nil
}

func extractOne(opts BuildOptions, src image.Source) buildResult {
	img, err := opts.Loader.Load(src.Path)
	if err != nil {
		return buildResult{err: err}
	}
	palette, err := opts.Extractor.Extract(img)
	if err != nil {
		return buildResult{err: fmt.Errorf("failed to extract palette: %w", err)}
	}
	return buildResult{palette: palette}
}
