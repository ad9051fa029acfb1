package pagination

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests
	// Recommendation: 10 workers keeps PokeAPI fair-use limits comfortable
	MaxConcurrency int
	// Timeout per item fetch
	Timeout time.Duration
	// ProgressEvery logs progress after this many completed items (0 disables)
	ProgressEvery int
}

// DefaultConfig returns safe default configuration for PokeAPI
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		Timeout:        15 * time.Second,
		ProgressEvery:  50,
	}
}

// Fetcher loads a single item by numeric identifier.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, id int) (T, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, id int) (T, error)

// Fetch calls f(ctx, id).
func (f FetcherFunc[T]) Fetch(ctx context.Context, id int) (T, error) {
	return f(ctx, id)
}

// ItemError identifies the item that failed a batch.
type ItemError struct {
	ID  int
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("fetch item %d: %v", e.ID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// BatchFetcher handles parallel fetching of a fixed set of items
type BatchFetcher[T any] struct {
	fetcher Fetcher[T]
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[T any](fetcher Fetcher[T], config Config) *BatchFetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 10
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	return &BatchFetcher[T]{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchRange fetches every ID in [first, last] and returns the results in ID order.
func (bf *BatchFetcher[T]) FetchRange(ctx context.Context, first, last int) ([]T, error) {
	if last < first {
		return []T{}, nil
	}
	ids := make([]int, 0, last-first+1)
	for id := first; id <= last; id++ {
		ids = append(ids, id)
	}
	return bf.FetchAll(ctx, ids)
}

// FetchAll fetches all ids in parallel and returns results in the order of ids.
// The batch is all-or-nothing: on the first failure the remaining fetches are
// cancelled and only the error is returned.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context, ids []int) ([]T, error) {
	start := time.Now()
	total := len(ids)

	log.Info().
		Int("total", total).
		Int("max_concurrency", bf.config.MaxConcurrency).
		Msg("Starting parallel fetch")

	results := make([]T, total)
	var fetched atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bf.config.MaxConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			itemCtx, cancel := context.WithTimeout(gctx, bf.config.Timeout)
			item, err := bf.fetcher.Fetch(itemCtx, id)
			cancel()

			if err != nil {
				log.Warn().
					Err(err).
					Int("id", id).
					Msg("Item fetch failed")
				return &ItemError{ID: id, Err: err}
			}

			// Each goroutine owns its own index.
			results[i] = item

			n := fetched.Add(1)
			if bf.config.ProgressEvery > 0 && n%int64(bf.config.ProgressEvery) == 0 {
				log.Info().
					Int64("fetched", n).
					Int("total", total).
					Float64("progress_pct", float64(n)/float64(total)*100).
					Msg("Fetch progress")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().
			Err(err).
			Int64("fetched", fetched.Load()).
			Int("total", total).
			Dur("duration", time.Since(start)).
			Msg("Batch failed - discarding partial results")
		return nil, fmt.Errorf("batch fetch (%d/%d fetched): %w", fetched.Load(), total, err)
	}

	log.Info().
		Int("items", total).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return results, nil
}
