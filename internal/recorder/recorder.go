package recorder

import (
	"context"
	"time"

	"ReviewSentinel/internal/model"
)

// RunSummary is one stored analysis, without its feature detail.
type RunSummary struct {
	RunID       string
	ProductURL  string
	ProductName string
	Mode        model.AnalysisMode
	ReviewCount int
	Score       int
	Risk        model.RiskLevel
	HitCount    int
	AnalyzedAt  time.Time
}

// Recorder persists analysis history.
type Recorder interface {
	RecordAnalysis(ctx context.Context, report *model.Report) error
	// RecentRuns lists runs newest first. An empty productURL lists every product.
	RecentRuns(ctx context.Context, productURL string, limit int) ([]RunSummary, error)
	Close() error
}
