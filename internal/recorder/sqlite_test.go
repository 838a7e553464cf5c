package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewSentinel/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func report(url string, score int, at time.Time) *model.Report {
	return &model.Report{
		RunID:       uuid.NewString(),
		ProductURL:  url,
		Product:     model.ProductInfo{ID: "1", Name: "Sepatu Lari"},
		Mode:        model.ModeFull,
		ReviewCount: 40,
		Score: model.FakeScore{
			Score: score,
			Risk:  model.RiskMedium,
			Hits: []model.RuleHit{
				{Rule: "generic_reviews", Category: "Review Pattern", Points: 8, Detail: "6 generic reviews"},
				{Rule: "low_verified_buyers", Category: "Buyer Verification", Points: 10, Detail: "only 5.0% verified buyers"},
			},
		},
		TrustedSellers: []model.TrustedSeller{
			{ShopName: "Toko A", ShopDomain: "toko-a", Trust: model.TrustFeatures{TrustScore: 80}},
		},
		AnalyzedAt: at,
	}
}

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	r := openTestRecorder(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, r.RecordAnalysis(ctx, report("https://www.tokopedia.com/a/x", 40, base)))
	require.NoError(t, r.RecordAnalysis(ctx, report("https://www.tokopedia.com/a/x", 55, base.Add(time.Hour))))
	require.NoError(t, r.RecordAnalysis(ctx, report("https://www.tokopedia.com/b/y", 10, base.Add(2*time.Hour))))

	runs, err := r.RecentRuns(ctx, "https://www.tokopedia.com/a/x", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 55, runs[0].Score, "newest first")
	assert.Equal(t, 40, runs[1].Score)
	assert.Equal(t, 2, runs[0].HitCount)
	assert.Equal(t, model.ModeFull, runs[0].Mode)
	assert.Equal(t, "Sepatu Lari", runs[0].ProductName)
	assert.Equal(t, base.Add(time.Hour).Unix(), runs[0].AnalyzedAt.Unix())

	all, err := r.RecentRuns(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "https://www.tokopedia.com/b/y", all[0].ProductURL)
}

func TestSQLiteRecorder_DuplicateRunIDRollsBack(t *testing.T) {
	r := openTestRecorder(t)
	ctx := context.Background()
	rep := report("https://www.tokopedia.com/a/x", 40, time.Now())

	require.NoError(t, r.RecordAnalysis(ctx, rep))
	assert.Error(t, r.RecordAnalysis(ctx, rep))

	var hits int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM rule_hits WHERE run_id = ?`, rep.RunID).Scan(&hits))
	assert.Equal(t, 2, hits, "failed insert left no extra rule hits")
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	require.NoError(t, r.RecordAnalysis(context.Background(), report("https://www.tokopedia.com/a/x", 40, time.Now())))
	require.NoError(t, r.Close())

	r2, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	defer r2.Close()
	runs, err := r2.RecentRuns(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordAnalysis(context.Background(), &model.Report{}))
	runs, err := r.RecentRuns(context.Background(), "", 5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
