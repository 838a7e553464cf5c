package model

import "time"

// AnalysisMode selects how much data is fetched and whether alternatives are searched.
type AnalysisMode string

const (
	ModeFull  AnalysisMode = "FULL"
	ModeQuick AnalysisMode = "QUICK"
	ModeWatch AnalysisMode = "WATCH"
)

// RiskLevel labels a fake-score range.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RuleHit is one contribution to the fake-score ledger.
type RuleHit struct {
	Rule     string `json:"rule"`
	Category string `json:"category"`
	Points   int    `json:"points"`
	Detail   string `json:"detail"`
}

// FakeScore is the final output of the scoring engine.
type FakeScore struct {
	Score int       `json:"score"` // 0-100
	Risk  RiskLevel `json:"risk"`
	Hits  []RuleHit `json:"hits"`
}

// Severity of a finding shown to the user.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Finding is one human-readable detection line.
type Finding struct {
	Category string   `json:"category"`
	Detail   string   `json:"detail"`
	Severity Severity `json:"severity"`
}

// TrustedSeller is an alternative shop offering a similar product.
type TrustedSeller struct {
	ShopName      string        `json:"shop_name"`
	ShopDomain    string        `json:"shop_domain"`
	ShopTier      int           `json:"shop_tier"`
	ProductName   string        `json:"product_name"`
	ProductURL    string        `json:"product_url"`
	ProductPrice  string        `json:"product_price"`
	ProductRating float64       `json:"product_rating"`
	Trust         TrustFeatures `json:"trust"`
}

// Report bundles every output of one product analysis.
type Report struct {
	RunID          string           `json:"run_id"`
	ProductURL     string           `json:"product_url"`
	Product        ProductInfo      `json:"product"`
	Mode           AnalysisMode     `json:"mode"`
	ReviewCount    int              `json:"review_count"`
	Patterns       PatternFeatures  `json:"patterns"`
	Buyers         BuyerFeatures    `json:"buyers"`
	Ratings        RatingFeatures   `json:"ratings"`
	Timing         TimeFeatures     `json:"timing"`
	Variants       *VariantFeatures `json:"variants,omitempty"`
	RatingTopics   *RatingTopics    `json:"rating_topics,omitempty"`
	Score          FakeScore        `json:"score"`
	Findings       []Finding        `json:"findings"`
	TrustedSellers []TrustedSeller  `json:"trusted_sellers,omitempty"`
	AnalyzedAt     time.Time        `json:"analyzed_at"`
}
