package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/httpfn/httpfn/pkg/http"
	"github.com/httpfn/httpfn/pkg/log"
	"github.com/segmentio/ksuid"
)

// BatchInput will read every line from the file, stdin ("-"), or the literal input, and run the batch
func BatchInput(ctx context.Context, c *http.Client, in string, opts ...BatchOption) (http.Results, error) {
	lines, err := ParseInput(in)
	if err != nil {
		return nil, err
	}
	return Batch(ctx, c, lines, opts...)
}

// Batch renders one request per line and performs them with the client's worker pool.
// The results are written to the configured writer in input order. The returned error aggregates
// every failed row, and the results are always returned so callers can choose the exit status
func Batch(ctx context.Context, c *http.Client, lines []string, opts ...BatchOption) (http.Results, error) {
	o := NewDefaultBatchOptions()
	for _, v := range opts {
		if err := v(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	runID := ksuid.New()
	logger := log.With().Str("run", runID.String()).Logger()
	logger.Debug().Msgf("Options loaded: \n%s", o)

	tmpl, err := NewTemplate(o.URLTemplate, o.Method, o.Headers, o.Body)
	if err != nil {
		return nil, err
	}
	reqs := tmpl.Requests(lines)

	bopts := []http.BatchOption{
		http.Parallelism(o.Parallelism),
		http.FailFast(o.FailFast),
	}
	if o.Progress && len(reqs) > 0 {
		b := NewProgress(o.ProgressWriter, int64(len(reqs)))
		bopts = append(bopts, http.OnResult(func(http.Result) { b.Incr(1) }))
		defer b.Finish()
	}

	start := time.Now()
	logger.Info().Int("rows", len(reqs)).Int("parallelism", o.Parallelism).Msg("starting batch")
	results := c.DoBatch(ctx, reqs, bopts...)
	logger.Info().
		Int("rows", len(results)).
		Int("failed", results.Failed()).
		Dur("duration", time.Since(start)).
		Msg("batch complete")

	if err := WriteResults(o.Writer, o.Output, results); err != nil {
		return results, err
	}
	return results, results.Err()
}
