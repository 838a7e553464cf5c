package model

// PhraseCount is a 3-word phrase and how often it appeared across messages.
type PhraseCount struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// SimilarPair references two reviews with near-identical text. IndexA and IndexB are
// positions in the full review slice handed to the extractor, counting reviews without
// text, not positions among the non-empty messages only.
type SimilarPair struct {
	IndexA int     `json:"index_a"`
	IndexB int     `json:"index_b"`
	Score  float64 `json:"score"`
}

// PatternFeatures is the text-pattern feature-set.
type PatternFeatures struct {
	DuplicatePhrases     []PhraseCount `json:"duplicate_phrases"`
	GenericCount         int           `json:"generic_count"`
	SimilarPairs         []SimilarPair `json:"similar_pairs"`
	ExcessivePraiseCount int           `json:"excessive_praise_count"`
	KeywordStuffingCount int           `json:"keyword_stuffing_count"`
}

// BuyerFeatures is the reviewer-behaviour feature-set.
type BuyerFeatures struct {
	TotalReviews         int            `json:"total_reviews"`
	AnonymousPct         float64        `json:"anonymous_pct"`
	NewAccountCount      int            `json:"new_account_count"`
	SingleReviewAccounts int            `json:"single_review_accounts"`
	BurstReviewerIDs     []string       `json:"burst_reviewer_ids"`
	VerifiedBuyerPct     float64        `json:"verified_buyer_pct"`
	LabelCounts          map[string]int `json:"label_counts"`
}

// DayCount is the number of reviews posted on one calendar day (YYYY-MM-DD).
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RatingFeatures is the star-rating feature-set.
type RatingFeatures struct {
	Distribution      map[int]int `json:"distribution"`
	RatedCount        int         `json:"rated_count"`
	Average           float64     `json:"average"`
	AllSameRating     bool        `json:"all_same_rating"`
	SuspiciousPattern bool        `json:"suspicious_pattern"`
	SuddenInfluxDays  []DayCount  `json:"sudden_influx_days"`
}

// TimeFeatures is the posting-time feature-set.
type TimeFeatures struct {
	HourHistogram   map[int]int `json:"hour_histogram"`
	SuspiciousHours []int       `json:"suspicious_hours"`
	WeekendPct      float64     `json:"weekend_pct"`
	NightPct        float64     `json:"night_pct"`
}

// VariantFeatures is the product-variant feature-set.
type VariantFeatures struct {
	Distribution    map[string]int `json:"distribution"`
	NoVariantPct    float64        `json:"no_variant_pct"`
	DominanceFlag   bool           `json:"dominance_flag"`
	DominantVariant string         `json:"dominant_variant,omitempty"`
	VariantCount    int            `json:"variant_count"`
}

// TrustFeatures is the seller trust feature-set. Reasons are in evaluation order.
type TrustFeatures struct {
	TrustScore      int      `json:"trust_score"`
	Reasons         []string `json:"reasons"`
	Badges          []string `json:"badges"`
	ShopScore       int      `json:"shop_score"`
	ShopScoreTier   string   `json:"shop_score_tier,omitempty"`
	ShopAgeCategory string   `json:"shop_age_category,omitempty"`
	OpenSince       string   `json:"open_since,omitempty"`
	TotalFavorites  int64    `json:"total_favorites"`
	RatingScore     float64  `json:"rating_score"`
	TotalReviews    int64    `json:"total_reviews"`
	IsOfficial      bool     `json:"is_official"`
	IsGold          bool     `json:"is_gold"`
}
