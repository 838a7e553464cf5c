package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewSentinel/internal/detector"
	"ReviewSentinel/internal/model"
	"ReviewSentinel/internal/watchlist"
)

const (
	urlHigh = "https://www.tokopedia.com/toko/palsu"
	urlLow  = "https://www.tokopedia.com/toko/asli"
	urlGone = "https://www.tokopedia.com/toko/hilang"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	scores  map[string]int
	modes   []model.AnalysisMode
	sellers []model.TrustedSeller

	// When set, Analyze signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeAnalyzer) Analyze(_ context.Context, u string, mode model.AnalysisMode) (*model.Report, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes = append(f.modes, mode)
	score, ok := f.scores[u]
	if !ok {
		return nil, fmt.Errorf("%s: %w", u, detector.ErrProductNotFound)
	}
	return &model.Report{
		ProductURL:  u,
		Product:     model.ProductInfo{Name: "Produk " + u[len(u)-4:]},
		Mode:        mode,
		ReviewCount: 100,
		Score:       model.FakeScore{Score: score, Risk: model.RiskHigh},
	}, nil
}

func (f *fakeAnalyzer) FindTrustedSellers(_ context.Context, _, _ string) ([]model.TrustedSeller, error) {
	return f.sellers, nil
}

type fakeSender struct {
	mu   sync.Mutex
	fail bool
	sent []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("telegram down")
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeAnalyzer, *fakeSender) {
	t.Helper()
	wl, err := watchlist.NewManager(filepath.Join(t.TempDir(), "watch.json"), 70, 24*time.Hour, nil)
	require.NoError(t, err)
	for _, u := range []string{urlHigh, urlLow, urlGone} {
		_, err := wl.Add(u)
		require.NoError(t, err)
	}
	an := &fakeAnalyzer{scores: map[string]int{urlHigh: 85, urlLow: 10}}
	snd := &fakeSender{}
	s := NewScheduler(context.Background(), an, wl, snd, nil, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, an, snd
}

func TestWatchTask_AlertsOncePerCooldown(t *testing.T) {
	s, an, snd := newTestScheduler(t)

	s.RunWatchNow()
	require.Len(t, snd.sent, 1)
	assert.Contains(t, snd.sent[0], "Fake review alert")
	assert.Contains(t, snd.sent[0], "85/100")
	for _, m := range an.modes {
		assert.Equal(t, model.ModeWatch, m)
	}

	s.RunWatchNow()
	assert.Len(t, snd.sent, 1, "cooldown suppresses the repeat alert")

	var high model.ProductWatch
	for _, p := range s.Watchlist.Products() {
		if p.URL == urlHigh {
			high = p
		}
	}
	assert.Equal(t, 2, high.ConsecutiveHigh)
	assert.Equal(t, []int{85, 85}, high.RecentScores)
}

func TestWatchTask_FailedSendRetriesNextRun(t *testing.T) {
	s, _, snd := newTestScheduler(t)
	snd.fail = true

	s.RunWatchNow()
	assert.Empty(t, snd.sent)

	snd.fail = false
	s.RunWatchNow()
	assert.Len(t, snd.sent, 1)
}

func TestWatchTask_SkipsWhileRunning(t *testing.T) {
	s, an, _ := newTestScheduler(t)
	an.entered = make(chan struct{}, 3)
	an.release = make(chan struct{})

	done := make(chan struct{})
	go func() {
		s.RunWatchNow()
		close(done)
	}()
	<-an.entered

	s.watchTask()
	assert.Len(t, an.entered, 0, "overlapping run did not analyze anything")

	close(an.release)
	<-done

	an.mu.Lock()
	assert.Len(t, an.modes, 3, "one run over three watched products")
	an.mu.Unlock()

	an.entered = nil
	s.RunWatchNow()
	assert.Len(t, an.modes, 6, "flag cleared after the run")
}

func TestDigestTask(t *testing.T) {
	s, _, snd := newTestScheduler(t)
	s.RunWatchNow()
	snd.sent = nil

	s.digestTask()
	require.Len(t, snd.sent, 1)
	assert.Contains(t, snd.sent[0], "Watchlist digest")
	assert.Contains(t, snd.sent[0], "2025-03-01")
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.RegisterAll("0 0 */6 * * *", "0 0 9 * * *"))
	assert.Len(t, s.Cron.Entries(), 2)

	assert.Error(t, s.RegisterAll("not a cron", ""))
}

func TestHandleCommand(t *testing.T) {
	s, an, _ := newTestScheduler(t)
	an.sellers = []model.TrustedSeller{{ShopName: "Toko Resmi", Trust: model.TrustFeatures{TrustScore: 60}}}
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/analyze "+urlHigh), "85/100")
	assert.Equal(t, model.ModeFull, an.modes[len(an.modes)-1])

	assert.Contains(t, s.HandleCommand(ctx, "/quick@SentinelBot "+urlLow), "10/100")
	assert.Equal(t, model.ModeQuick, an.modes[len(an.modes)-1])

	assert.Equal(t, "❌ Product not found.", s.HandleCommand(ctx, "/analyze "+urlGone+"x"))
	assert.Contains(t, s.HandleCommand(ctx, "/analyze"), "Usage")
	assert.Contains(t, s.HandleCommand(ctx, "/sellers sepatu lari"), "Toko Resmi")
	assert.Contains(t, s.HandleCommand(ctx, "/watchlist"), "<pre>")
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/analyze")
}

func TestHandleCommand_WatchUnwatch(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	ctx := context.Background()
	u := "https://www.tokopedia.com/toko/baru"

	assert.Contains(t, s.HandleCommand(ctx, "/watch "+u), "Watching")
	assert.Contains(t, s.HandleCommand(ctx, "/watch "+u), "Already watching")
	assert.Contains(t, s.HandleCommand(ctx, "/watch https://example.com/x"), "Usage")
	assert.Contains(t, s.Watchlist.URLs(), u)

	assert.Contains(t, s.HandleCommand(ctx, "/unwatch "+u), "Stopped watching")
	assert.Contains(t, s.HandleCommand(ctx, "/unwatch "+u), "Not watching")
}

func TestParseCommand(t *testing.T) {
	cmd, arg := parseCommand("  /Analyze@Bot   https://x  ")
	assert.Equal(t, "/analyze", cmd)
	assert.Equal(t, "https://x", arg)

	cmd, arg = parseCommand("/help")
	assert.Equal(t, "/help", cmd)
	assert.Empty(t, arg)
}
