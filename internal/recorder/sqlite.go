package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"ReviewSentinel/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the history command can read while watch mode writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id         TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			product_url    TEXT NOT NULL,
			product_id     TEXT,
			product_name   TEXT,
			mode           TEXT,
			review_count   INTEGER,
			fake_score     INTEGER,
			risk           TEXT,
			generic_count  INTEGER,
			similar_pairs  INTEGER,
			anonymous_pct  REAL,
			verified_pct   REAL,
			average_rating REAL,
			night_pct      REAL,
			report_json    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_url_ts ON analysis_runs(product_url, timestamp)`,

		`CREATE TABLE IF NOT EXISTS rule_hits (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL REFERENCES analysis_runs(run_id),
			rule     TEXT,
			category TEXT,
			points   INTEGER,
			detail   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_run ON rule_hits(run_id)`,

		`CREATE TABLE IF NOT EXISTS trusted_sellers (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL REFERENCES analysis_runs(run_id),
			rank          INTEGER,
			shop_domain   TEXT,
			shop_name     TEXT,
			trust_score   INTEGER,
			product_url   TEXT,
			product_price TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sellers_run ON trusted_sellers(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(ctx context.Context, rep *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blob, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	ts := rep.AnalyzedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO analysis_runs
		(run_id, timestamp, product_url, product_id, product_name, mode, review_count,
		 fake_score, risk, generic_count, similar_pairs, anonymous_pct, verified_pct,
		 average_rating, night_pct, report_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rep.RunID, ts.Unix(), rep.ProductURL, rep.Product.ID, rep.Product.Name, string(rep.Mode), rep.ReviewCount,
		rep.Score.Score, string(rep.Score.Risk), rep.Patterns.GenericCount, len(rep.Patterns.SimilarPairs),
		rep.Buyers.AnonymousPct, rep.Buyers.VerifiedBuyerPct, rep.Ratings.Average, rep.Timing.NightPct,
		string(blob),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, h := range rep.Score.Hits {
		if _, err := tx.ExecContext(ctx, `INSERT INTO rule_hits (run_id, rule, category, points, detail) VALUES (?,?,?,?,?)`,
			rep.RunID, h.Rule, h.Category, h.Points, h.Detail); err != nil {
			return fmt.Errorf("insert rule hit: %w", err)
		}
	}

	for i, s := range rep.TrustedSellers {
		if _, err := tx.ExecContext(ctx, `INSERT INTO trusted_sellers
			(run_id, rank, shop_domain, shop_name, trust_score, product_url, product_price)
			VALUES (?,?,?,?,?,?,?)`,
			rep.RunID, i+1, s.ShopDomain, s.ShopName, s.Trust.TrustScore, s.ProductURL, s.ProductPrice); err != nil {
			return fmt.Errorf("insert trusted seller: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecentRuns(ctx context.Context, productURL string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT
			a.run_id, a.product_url, a.product_name, a.mode, a.review_count, a.fake_score, a.risk, a.timestamp,
			(SELECT COUNT(*) FROM rule_hits h WHERE h.run_id = a.run_id)
		FROM analysis_runs a
		WHERE ? = '' OR a.product_url = ?
		ORDER BY a.timestamp DESC, a.rowid DESC
		LIMIT ?`, productURL, productURL, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s    RunSummary
			mode string
			risk string
			ts   int64
		)
		if err := rows.Scan(&s.RunID, &s.ProductURL, &s.ProductName, &mode, &s.ReviewCount, &s.Score, &risk, &ts, &s.HitCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Mode = model.AnalysisMode(mode)
		s.Risk = model.RiskLevel(risk)
		s.AnalyzedAt = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
