// Package extractor computes independent feature-sets from a review corpus and a
// seller profile. Every extractor is a pure function of its arguments.
package extractor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"ReviewSentinel/internal/model"
)

// Features holds the output of every corpus extractor.
type Features struct {
	Patterns model.PatternFeatures
	Buyers   model.BuyerFeatures
	Ratings  model.RatingFeatures
	Timing   model.TimeFeatures
	Variants model.VariantFeatures
}

// Options tune ExtractAll.
type Options struct {
	// Location for calendar-day and hour bucketing. nil means UTC.
	Location *time.Location
	// Observe, when set, receives each extractor's name and run time.
	Observe func(name string, d time.Duration)
}

// ExtractAll runs the five corpus extractors in parallel and waits for all of them.
// The only error is cancellation of ctx.
func ExtractAll(ctx context.Context, reviews []model.Review, opts Options) (*Features, error) {
	g, ctx := errgroup.WithContext(ctx)
	f := &Features{}

	run := func(name string, fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			fn()
			if opts.Observe != nil {
				opts.Observe(name, time.Since(start))
			}
			return nil
		})
	}

	run("pattern", func() { f.Patterns = AnalyzePatterns(reviews) })
	run("buyer", func() { f.Buyers = AnalyzeBuyers(reviews) })
	run("rating", func() { f.Ratings = AnalyzeRatings(reviews, opts.Location) })
	run("time", func() { f.Timing = AnalyzeTiming(reviews, opts.Location) })
	run("variant", func() { f.Variants = AnalyzeVariants(reviews) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}
