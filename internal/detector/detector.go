// Package detector runs the end-to-end product analysis: collect the review corpus,
// extract features in parallel, score, and optionally rank alternative sellers.
package detector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ReviewSentinel/internal/collector"
	"ReviewSentinel/internal/extractor"
	"ReviewSentinel/internal/metrics"
	"ReviewSentinel/internal/model"
	"ReviewSentinel/internal/recorder"
	"ReviewSentinel/internal/strategy"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoReviews       = errors.New("no reviews found")
)

// Options tune how much data an analysis pulls.
type Options struct {
	FullPages             int
	QuickPages            int
	AlternativesThreshold int
	SearchRows            int
	MaxCandidates         int
	TopSellers            int
	SellerConcurrency     int
	Location              *time.Location
}

func (o *Options) applyDefaults() {
	if o.FullPages <= 0 {
		o.FullPages = 5
	}
	if o.QuickPages <= 0 {
		o.QuickPages = 2
	}
	if o.AlternativesThreshold <= 0 {
		o.AlternativesThreshold = strategy.DefaultAlternativesThreshold
	}
	if o.SearchRows <= 0 {
		o.SearchRows = 20
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = 10
	}
	if o.TopSellers <= 0 {
		o.TopSellers = 5
	}
	if o.SellerConcurrency <= 0 {
		o.SellerConcurrency = 3
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
}

// Detector wires the collector, the feature extractors, the scoring engine and
// the history recorder together.
type Detector struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics

	opts   Options
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Detector. rec and m may be nil.
func New(col *collector.Collector, rec recorder.Recorder, m *metrics.Metrics, opts Options, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	opts.applyDefaults()
	return &Detector{
		Collector: col,
		Recorder:  rec,
		Metrics:   m,
		opts:      opts,
		now:       time.Now,
		logger:    logger,
	}
}

func (d *Detector) pagesFor(mode model.AnalysisMode) int {
	if mode == model.ModeQuick {
		return d.opts.QuickPages
	}
	return d.opts.FullPages
}

// Analyze scores one product. Only ModeFull searches for trusted alternative
// sellers, and only when the fake score crosses the configured threshold.
func (d *Detector) Analyze(ctx context.Context, productURL string, mode model.AnalysisMode) (*model.Report, error) {
	if err := collector.ValidateProductURL(productURL); err != nil {
		return nil, err
	}
	start := d.now()
	log := d.logger.With(zap.String("product_url", productURL), zap.String("mode", string(mode)))

	corpus, err := d.Collector.Collect(ctx, productURL, d.pagesFor(mode))
	if err != nil {
		if errors.Is(err, collector.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", productURL, ErrProductNotFound)
		}
		return nil, fmt.Errorf("collect %s: %w", productURL, err)
	}
	if len(corpus.Reviews) == 0 {
		return nil, fmt.Errorf("%s: %w", productURL, ErrNoReviews)
	}

	features, err := extractor.ExtractAll(ctx, corpus.Reviews, extractor.Options{
		Location: d.opts.Location,
		Observe:  d.Metrics.ObserveExtractor,
	})
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	in := strategy.Input{
		Patterns: features.Patterns,
		Buyers:   features.Buyers,
		Ratings:  features.Ratings,
		Timing:   features.Timing,
		Variants: &features.Variants,
		Topics:   corpus.Topics,
	}
	report := &model.Report{
		RunID:        uuid.NewString(),
		ProductURL:   productURL,
		Product:      *corpus.Product,
		Mode:         mode,
		ReviewCount:  len(corpus.Reviews),
		Patterns:     features.Patterns,
		Buyers:       features.Buyers,
		Ratings:      features.Ratings,
		Timing:       features.Timing,
		Variants:     in.Variants,
		RatingTopics: corpus.Topics,
		Score:        strategy.Evaluate(in),
		Findings:     strategy.Findings(in),
		AnalyzedAt:   start,
	}

	if mode == model.ModeFull && strategy.ShouldSeekAlternatives(report.Score.Score, d.opts.AlternativesThreshold) {
		sellers, err := d.FindTrustedSellers(ctx, corpus.Product.Name, collector.ShopDomainFromProductURL(productURL))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("trusted seller search failed", zap.Error(err))
		}
		report.TrustedSellers = sellers
	}

	elapsed := d.now().Sub(start)
	d.Metrics.ObserveAnalysis(string(mode), string(report.Score.Risk), report.ReviewCount, elapsed)
	d.Metrics.SetFakeScore(productURL, report.Score.Score)

	if err := d.Recorder.RecordAnalysis(ctx, report); err != nil {
		log.Error("record analysis", zap.Error(err))
	}

	log.Info("analysis complete",
		zap.String("run_id", report.RunID),
		zap.Int("reviews", report.ReviewCount),
		zap.Int("fake_score", report.Score.Score),
		zap.String("risk", string(report.Score.Risk)),
		zap.Int("trusted_sellers", len(report.TrustedSellers)),
		zap.Duration("elapsed", elapsed),
	)
	return report, nil
}
