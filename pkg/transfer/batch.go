package transfer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxItems bounds a single batch.
	DefaultMaxItems = 10

	// DefaultConcurrency caps concurrent transfers when the caller does
	// not configure a ceiling.
	DefaultConcurrency = 4
)

// Coordinator fans requests out over a Transferrer with bounded
// concurrency. Items are isolated: one failure never cancels or blocks
// the others, and output ordering always matches input ordering.
type Coordinator struct {
	tr             *Transferrer
	maxItems       int
	maxConcurrency int

	// OnResult, when set, is invoked as each item completes. It may be
	// called concurrently and out of input order.
	OnResult func(index int, r Result)
}

func NewCoordinator(tr *Transferrer, maxItems, maxConcurrency int) *Coordinator {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Coordinator{
		tr:             tr,
		maxItems:       maxItems,
		maxConcurrency: maxConcurrency,
	}
}

// UploadAll runs every upload request through the Transferrer. The
// whole batch is rejected before any execution when it exceeds the item
// limit.
func (c *Coordinator) UploadAll(ctx context.Context, reqs []Request) (BatchResult, error) {
	return c.run(ctx, len(reqs), func(ctx context.Context, i int) (Result, error) {
		return c.tr.Upload(ctx, reqs[i])
	})
}

// FetchAll runs every URL fetch through the Transferrer.
func (c *Coordinator) FetchAll(ctx context.Context, urls []string) (BatchResult, error) {
	return c.run(ctx, len(urls), func(ctx context.Context, i int) (Result, error) {
		return c.tr.FetchByURL(ctx, urls[i])
	})
}

func (c *Coordinator) run(ctx context.Context, n int, item func(ctx context.Context, i int) (Result, error)) (BatchResult, error) {
	if n == 0 {
		return BatchResult{}, fmt.Errorf("batch is empty")
	}
	if n > c.maxItems {
		return BatchResult{}, fmt.Errorf("%w: %d items (limit %d)", ErrBatchTooLarge, n, c.maxItems)
	}

	results := make([]Result, n)

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency(n))

	for i := 0; i < n; i++ {
		// Stop issuing new items once the host cancels; results already
		// produced stay intact.
		if ctx.Err() != nil {
			for j := i; j < n; j++ {
				results[j] = failed(results[j], ctx.Err())
			}
			break
		}

		i := i
		g.Go(func() error {
			r, err := item(ctx, i)
			if err != nil {
				// Validation errors are per-item data in a batch: the
				// isolation invariant outranks fail-fast here.
				r = failed(Result{}, err)
			}
			results[i] = r
			if c.OnResult != nil {
				c.OnResult(i, results[i])
			}
			return nil
		})
	}

	// Item failures are captured in results, never returned, so Wait
	// only joins.
	_ = g.Wait()

	return summarize(results), nil
}

func (c *Coordinator) concurrency(n int) int {
	limit := c.maxConcurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if n < limit {
		limit = n
	}
	return limit
}

// SplitURLList splits a semicolon-delimited URL list into trimmed
// tokens, skipping empties. Duplicates are kept: each occurrence is a
// legitimately separate request.
func SplitURLList(s string) []string {
	var urls []string
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		urls = append(urls, tok)
	}
	return urls
}
