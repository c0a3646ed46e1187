package embedding

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BatchOptions controls concurrency and request pacing for EmbedAll.
type BatchOptions struct {
	Workers        int     // concurrent requests, default 4
	RequestsPerSec float64 // 0 disables rate limiting
}

// EmbedAll embeds every text, preserving order. Work runs across a bounded
// worker pool behind a shared rate limiter; texts that exhaust the
// over-length retries come back as empty embeddings, while any other
// provider error cancels the batch.
func EmbedAll(ctx context.Context, e Provider, texts []string, opts BatchOptions) ([][]float32, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1)
	}

	out := make([][]float32, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
			}
			vec, err := e.Embed(ctx, text)
			if err != nil {
				return err
			}
			out[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
