package model

import "time"

// ProductWatch tracks the recent scores of one watched product.
type ProductWatch struct {
	URL             string    `json:"url"`
	Name            string    `json:"name"`
	LastScore       int       `json:"last_score"`
	LastRisk        RiskLevel `json:"last_risk"`
	RecentScores    []int     `json:"recent_scores"`
	ConsecutiveHigh int       `json:"consecutive_high"`
	LastCheckedAt   time.Time `json:"last_checked_at"`
	LastAlertedAt   time.Time `json:"last_alerted_at"`
}

// WatchState is the persisted watchlist.
type WatchState struct {
	Products  map[string]*ProductWatch `json:"products"`
	UpdatedAt time.Time                `json:"updated_at"`
}
