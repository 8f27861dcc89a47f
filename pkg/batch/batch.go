// Package batch runs groups of backend calls with explicit per-item outcomes:
// bounded fan-out, ordered fail-fast sequences and compensating sagas.
package batch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one item.
type Result[R any] struct {
	Key   string `json:"key"`
	OK    bool   `json:"ok"`
	Value R      `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
	err   error
}

// Err returns the underlying error of a failed item.
func (r Result[R]) Err() error { return r.err }

// Summary aggregates a fan-out.
type Summary[R any] struct {
	Results   []Result[R] `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

func (s Summary[R]) AllOK() bool { return s.Failed == 0 }

// Errors returns the failed items' errors keyed by item key.
func (s Summary[R]) Errors() map[string]error {
	out := map[string]error{}
	for _, r := range s.Results {
		if !r.OK {
			out[r.Key] = r.err
		}
	}
	return out
}

// FanOut runs fn for every item concurrently with at most limit in flight.
// A failing item never cancels its siblings. Results keep the input order.
func FanOut[T, R any](ctx context.Context, items []T, limit int, key func(T) string, fn func(context.Context, T) (R, error)) Summary[R] {
	results := make([]Result[R], len(items))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		i, item := i, item
		results[i].Key = key(item)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			v, err := safeCall(gctx, item, fn)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].OK = true
			results[i].Value = v
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary[R]{Results: results}
	for i := range results {
		if results[i].OK {
			summary.Succeeded++
			continue
		}
		results[i].Error = results[i].err.Error()
		summary.Failed++
	}
	getMetrics().observe("fanout", summary.Failed == 0)
	return summary
}

// Failure names the item that stopped a sequence.
type Failure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
	err   error
}

func (f *Failure) Err() error {
	if f == nil {
		return nil
	}
	return f.err
}

// SequenceReport is the outcome of Sequential.
type SequenceReport struct {
	Saved   []string `json:"saved"`
	Failed  *Failure `json:"failed,omitempty"`
	Skipped []string `json:"skipped"`
}

func (r SequenceReport) OK() bool { return r.Failed == nil }

// Sequential runs fn over items in order and stops at the first error.
// Items after the failure are reported as skipped, never attempted.
func Sequential[T any](ctx context.Context, items []T, key func(T) string, fn func(context.Context, T) error) SequenceReport {
	report := SequenceReport{Saved: []string{}, Skipped: []string{}}
	for i, item := range items {
		err := ctx.Err()
		if err == nil {
			_, err = safeCall(ctx, item, func(ctx context.Context, item T) (struct{}, error) {
				return struct{}{}, fn(ctx, item)
			})
		}
		if err != nil {
			report.Failed = &Failure{Key: key(item), Error: err.Error(), err: err}
			for _, rest := range items[i+1:] {
				report.Skipped = append(report.Skipped, key(rest))
			}
			break
		}
		report.Saved = append(report.Saved, key(item))
	}
	getMetrics().observe("sequential", report.Failed == nil)
	return report
}

func safeCall[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch: item panicked: %v", r)
		}
	}()
	return fn(ctx, item)
}

// Collector is a goroutine-safe slice used by callers that gather values
// from inside FanOut callbacks.
type Collector[V any] struct {
	mu     sync.Mutex
	values []V
}

func (c *Collector[V]) Add(v V) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
}

func (c *Collector[V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]V(nil), c.values...)
}
