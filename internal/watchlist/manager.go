// Package watchlist keeps the set of products watch mode re-analyzes and decides
// when a result is worth an alert.
package watchlist

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"ReviewSentinel/internal/model"
)

const maxRecentScores = 12

// Decision is the outcome of recording one analysis for a watched product.
type Decision struct {
	Alert           bool
	ConsecutiveHigh int
	Watch           model.ProductWatch
}

// Manager handles watchlist updates with concurrency safety.
type Manager struct {
	mu         sync.Mutex
	state      *model.WatchState
	filePath   string
	alertScore int
	cooldown   time.Duration
	logger     *zap.Logger
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string, alertScore int, cooldown time.Duration, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load watchlist %s: %w", filePath, err)
	}
	return &Manager{
		state:      state,
		filePath:   filePath,
		alertScore: alertScore,
		cooldown:   cooldown,
		logger:     logger,
	}, nil
}

// Add starts watching url. It reports false when url was already watched.
func (m *Manager) Add(url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.Products[url]; ok {
		return false, nil
	}
	m.state.Products[url] = &model.ProductWatch{URL: url}
	return true, m.save()
}

// Remove stops watching url. It reports false when url was not watched.
func (m *Manager) Remove(url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.Products[url]; !ok {
		return false, nil
	}
	delete(m.state.Products, url)
	return true, m.save()
}

// URLs returns the watched product URLs in sorted order.
func (m *Manager) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	urls := make([]string, 0, len(m.state.Products))
	for u := range m.state.Products {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// Products returns a copy of every watched product.
func (m *Manager) Products() []model.ProductWatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.ProductWatch, 0, len(m.state.Products))
	for _, p := range m.state.Products {
		out = append(out, copyWatch(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Observe records a new analysis of a watched product and decides whether it
// warrants an alert: the score must reach the alert threshold and the previous
// alert for the product must be older than the cooldown. A product that is not
// watched (for example removed while its analysis ran) is ignored and yields a
// zero Decision. Call MarkAlerted once the alert is delivered.
func (m *Manager) Observe(rep *model.Report, now time.Time) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.state.Products[rep.ProductURL]
	if !ok {
		return Decision{}
	}

	if rep.Product.Name != "" {
		w.Name = rep.Product.Name
	}
	w.LastScore = rep.Score.Score
	w.LastRisk = rep.Score.Risk
	w.LastCheckedAt = now
	w.RecentScores = append(w.RecentScores, rep.Score.Score)
	if len(w.RecentScores) > maxRecentScores {
		w.RecentScores = w.RecentScores[len(w.RecentScores)-maxRecentScores:]
	}

	high := rep.Score.Score >= m.alertScore
	if high {
		w.ConsecutiveHigh++
	} else {
		w.ConsecutiveHigh = 0
	}

	d := Decision{
		Alert:           high && (w.LastAlertedAt.IsZero() || now.Sub(w.LastAlertedAt) >= m.cooldown),
		ConsecutiveHigh: w.ConsecutiveHigh,
		Watch:           copyWatch(w),
	}

	if err := m.save(); err != nil {
		m.logger.Error("failed to save watchlist", zap.Error(err))
	}
	return d
}

// MarkAlerted records that an alert for url was delivered at now.
func (m *Manager) MarkAlerted(url string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.state.Products[url]
	if !ok {
		return
	}
	w.LastAlertedAt = now
	if err := m.save(); err != nil {
		m.logger.Error("failed to save watchlist after alert", zap.Error(err))
	}
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}

func copyWatch(p *model.ProductWatch) model.ProductWatch {
	c := *p
	c.RecentScores = append([]int(nil), p.RecentScores...)
	return c
}
