package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Result is the outcome of one request in a batch
type Result struct {
	Index    int
	Request  Request
	Response *Response // Response is set whenever a response was obtained, including for a *StatusError
	Err      error
}

// Body returns the response body as text, or an empty string if there was no response
func (r Result) Body() string {
	if r.Response == nil {
		return ""
	}
	return string(r.Response.Body)
}

// Results are ordered the same as the requests passed to DoBatch
type Results []Result

// Err aggregates every failed row into a multierror. Returns nil if every row succeeded
func (rr Results) Err() error {
	var merr *multierror.Error
	for _, r := range rr {
		if r.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("row %d: %w", r.Index, r.Err))
		}
	}
	return merr.ErrorOrNil()
}

// Failed returns the number of rows with an error
func (rr Results) Failed() int {
	n := 0
	for _, r := range rr {
		if r.Err != nil {
			n++
		}
	}
	return n
}

type BatchOptions struct {
	Parallelism int
	FailFast    bool
	OnResult    func(Result)
}

type BatchOption func(*BatchOptions)

// Parallelism sets how many requests are in flight at once. Values below 1 are treated as 1
func Parallelism(n int) BatchOption {
	return func(o *BatchOptions) {
		o.Parallelism = n
	}
}

// FailFast will cancel every request that has not started yet once any request fails.
// Requests already in flight run to completion. Rows that never started fail with ErrorCanceled
func FailFast(v bool) BatchOption {
	return func(o *BatchOptions) {
		o.FailFast = v
	}
}

// OnResult is called once for every row as it completes. It may be called from multiple goroutines
func OnResult(f func(Result)) BatchOption {
	return func(o *BatchOptions) {
		o.OnResult = f
	}
}

// DoBatch performs every request using a pool of workers. The results are in the same order as reqs and
// each row fails independently of its siblings unless FailFast is set.
func (c *Client) DoBatch(ctx context.Context, reqs []Request, opts ...BatchOption) Results {
	o := &BatchOptions{Parallelism: 1}
	for _, v := range opts {
		v(o)
	}
	if o.Parallelism < 1 {
		o.Parallelism = 1
	}

	// runCtx only gates starting new requests, so FailFast never interrupts a request mid flight
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		ret  = make(Results, len(reqs))
		jobs = make(chan int)
		wg   sync.WaitGroup
	)

	for w := 0; w < o.Parallelism && w < len(reqs); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := Result{Index: i, Request: reqs[i]}
				if err := runCtx.Err(); err != nil {
					r.Err = newTransportError(methodOf(reqs[i]), err)
				} else {
					r.Response, r.Err = c.Do(ctx, reqs[i])
				}
				if r.Err != nil && o.FailFast {
					cancel()
				}
				ret[i] = r
				if o.OnResult != nil {
					o.OnResult(r)
				}
			}
		}()
	}

	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return ret
}

func methodOf(r Request) string {
	if r.Method == "" {
		return MethodGet
	}
	return r.Method
}
