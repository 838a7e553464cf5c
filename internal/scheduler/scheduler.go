package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ReviewSentinel/internal/collector"
	"ReviewSentinel/internal/detector"
	"ReviewSentinel/internal/metrics"
	"ReviewSentinel/internal/model"
	"ReviewSentinel/internal/notifier"
	"ReviewSentinel/internal/watchlist"
)

const sendRetries = 3

// Analyzer runs product analyses.
type Analyzer interface {
	Analyze(ctx context.Context, productURL string, mode model.AnalysisMode) (*model.Report, error)
	FindTrustedSellers(ctx context.Context, productName, excludeShop string) ([]model.TrustedSeller, error)
}

// Sender delivers messages to the operator.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Detector  Analyzer
	Watchlist *watchlist.Manager
	Notifier  Sender
	Metrics   *metrics.Metrics
	Ctx       context.Context

	// watching is set while a watch task runs; cron ticks and RunWatchNow share it.
	watching atomic.Bool
	now      func() time.Time
	logger *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, det Analyzer, wl *watchlist.Manager, n Sender, m *metrics.Metrics, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Detector:  det,
		Watchlist: wl,
		Notifier:  n,
		Metrics:   m,
		Ctx:       ctx,
		now:       time.Now,
		logger:    logger,
	}
}

// RegisterAll registers the watchlist analysis and the digest.
func (s *Scheduler) RegisterAll(watchCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	if digestCron != "" {
		if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
			return fmt.Errorf("register digest task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunWatchNow executes the watch task immediately (for manual trigger / run on start).
func (s *Scheduler) RunWatchNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	if !s.watching.CompareAndSwap(false, true) {
		s.logger.Info("watch task already running, skipping")
		return
	}
	defer s.watching.Store(false)

	urls := s.Watchlist.URLs()
	s.logger.Info("running watch task", zap.Int("products", len(urls)))

	alerts := 0
	for _, u := range urls {
		if s.Ctx.Err() != nil {
			return
		}
		rep, err := s.Detector.Analyze(s.Ctx, u, model.ModeWatch)
		if err != nil {
			s.logger.Error("watch analysis failed", zap.String("product_url", u), zap.Error(err))
			continue
		}

		d := s.Watchlist.Observe(rep, s.now())
		if !d.Alert {
			continue
		}
		if s.trySend(notifier.FormatAlert(rep, d.ConsecutiveHigh)) {
			s.Watchlist.MarkAlerted(u, s.now())
			s.Metrics.IncAlerts()
			alerts++
		}
	}
	s.logger.Info("watch task complete", zap.Int("products", len(urls)), zap.Int("alerts", alerts))
}

func (s *Scheduler) digestTask() {
	products := s.Watchlist.Products()
	if len(products) == 0 {
		return
	}
	s.logger.Info("sending watchlist digest", zap.Int("products", len(products)))
	s.trySend(notifier.FormatDigest(products, s.now()))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	cmd, arg := parseCommand(text)
	switch cmd {
	case "/analyze", "/quick":
		if arg == "" {
			return fmt.Sprintf("Usage: %s &lt;product url&gt;", cmd)
		}
		mode := model.ModeFull
		if cmd == "/quick" {
			mode = model.ModeQuick
		}
		rep, err := s.Detector.Analyze(ctx, arg, mode)
		if err != nil {
			return analysisError(err)
		}
		return notifier.Pre(notifier.FormatReport(rep))
	case "/sellers":
		if arg == "" {
			return "Usage: /sellers &lt;product name&gt;"
		}
		sellers, err := s.Detector.FindTrustedSellers(ctx, arg, "")
		if err != nil {
			return "❌ Seller search failed: " + html.EscapeString(err.Error())
		}
		return notifier.Pre(notifier.FormatTrustedSellers(sellers))
	case "/watch":
		if err := collector.ValidateProductURL(arg); err != nil {
			return "Usage: /watch &lt;product url&gt;"
		}
		added, err := s.Watchlist.Add(arg)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		if !added {
			return "Already watching " + html.EscapeString(arg)
		}
		return "👀 Watching " + html.EscapeString(arg)
	case "/unwatch":
		removed, err := s.Watchlist.Remove(arg)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		if !removed {
			return "Not watching " + html.EscapeString(arg)
		}
		return "Stopped watching " + html.EscapeString(arg)
	case "/watchlist":
		return notifier.Pre(notifier.FormatWatchlist(s.Watchlist.Products()))
	default:
		return notifier.HelpText
	}
}

// parseCommand splits "/cmd@bot arg..." into "/cmd" and the trimmed argument.
func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	cmd, arg, _ = strings.Cut(text, " ")
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func analysisError(err error) string {
	switch {
	case errors.Is(err, detector.ErrProductNotFound):
		return "❌ Product not found."
	case errors.Is(err, detector.ErrNoReviews):
		return "No reviews found for this product."
	default:
		return "❌ Analysis failed: " + html.EscapeString(err.Error())
	}
}

func (s *Scheduler) trySend(text string) bool {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.logger.Error("send notification", zap.Error(err))
		return false
	}
	return true
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
