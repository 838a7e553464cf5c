package extractor

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"ReviewSentinel/internal/calculator"
	"ReviewSentinel/internal/model"
)

const (
	officialStoreBonus   = 30
	goldMerchantBonus    = 20
	maxTrustScore        = 100
	secondsPerDay        = 86400
	youngShopAgeCategory = "< 6 months"
)

// ShopScoreTiers map the platform reliability score (>=).
var ShopScoreTiers = calculator.Tiers{
	{Threshold: 95, Bonus: 25, Label: "Excellent"},
	{Threshold: 90, Bonus: 20, Label: "Very good"},
	{Threshold: 85, Bonus: 15, Label: "Good"},
	{Threshold: 80, Bonus: 10, Label: "Fair"},
}

// ShopAgeTiers map shop age in days (>).
var ShopAgeTiers = calculator.Tiers{
	{Threshold: 1095, Bonus: 15, Label: "> 3 years"},
	{Threshold: 730, Bonus: 12, Label: "> 2 years"},
	{Threshold: 365, Bonus: 10, Label: "> 1 year"},
	{Threshold: 180, Bonus: 5, Label: "> 6 months"},
}

// FavoriteTiers map the number of users following the shop (>).
var FavoriteTiers = calculator.Tiers{
	{Threshold: 10000, Bonus: 10},
	{Threshold: 5000, Bonus: 8},
	{Threshold: 1000, Bonus: 5},
}

// SellerRatingTiers map the shop-wide star rating (>=).
var SellerRatingTiers = calculator.Tiers{
	{Threshold: 4.8, Bonus: 15, Label: "Excellent"},
	{Threshold: 4.5, Bonus: 12, Label: "Very good"},
	{Threshold: 4.0, Bonus: 8, Label: "Good"},
}

// ReviewVolumeTiers map the shop-wide review count (>).
var ReviewVolumeTiers = calculator.Tiers{
	{Threshold: 10000, Bonus: 10},
	{Threshold: 5000, Bonus: 8},
	{Threshold: 1000, Bonus: 5},
}

// AnalyzeTrust scores a seller from its profile and optional rating summary.
// Shop age is measured against now. Missing sections contribute nothing.
func AnalyzeTrust(profile *model.SellerProfile, rating *model.SellerRatingSummary, now time.Time) model.TrustFeatures {
	out := model.TrustFeatures{
		Reasons: []string{},
		Badges:  []string{},
	}
	if profile == nil {
		return out
	}

	score := 0
	add := func(bonus int, reason string) {
		score += bonus
		out.Reasons = append(out.Reasons, reason)
	}

	out.IsOfficial = profile.IsOfficial
	out.IsGold = profile.IsGold
	if profile.Badge != "" {
		out.Badges = append(out.Badges, profile.Badge)
	}
	if profile.IsOfficial {
		add(officialStoreBonus, fmt.Sprintf("Official Store (+%d)", officialStoreBonus))
	}
	if profile.IsGold {
		add(goldMerchantBonus, fmt.Sprintf("Gold Merchant (+%d)", goldMerchantBonus))
	}

	out.ShopScore = profile.ShopScore
	if t, ok := ShopScoreTiers.AtLeast(float64(profile.ShopScore)); ok {
		out.ShopScoreTier = t.Label
		add(t.Bonus, fmt.Sprintf("%s shop score %d%% (+%d)", t.Label, profile.ShopScore, t.Bonus))
	}

	out.OpenSince = profile.OpenSince
	if profile.ShopCreatedEpoch > 0 {
		ageDays := float64(now.Unix()-profile.ShopCreatedEpoch) / secondsPerDay
		if t, ok := ShopAgeTiers.Above(ageDays); ok {
			out.ShopAgeCategory = t.Label
			add(t.Bonus, fmt.Sprintf("Store open %s (+%d)", t.Label, t.Bonus))
		} else {
			out.ShopAgeCategory = youngShopAgeCategory
		}
	}

	out.TotalFavorites = profile.TotalFavorites
	if t, ok := FavoriteTiers.Above(float64(profile.TotalFavorites)); ok {
		add(t.Bonus, fmt.Sprintf("%s favorites (+%d)", humanize.Comma(profile.TotalFavorites), t.Bonus))
	}

	if rating != nil {
		rs := rating.RatingScore.Float()
		if rs < 0 {
			rs = 0
		}
		out.RatingScore = rs
		out.TotalReviews = rating.TotalReviews

		if t, ok := SellerRatingTiers.AtLeast(rs); ok {
			add(t.Bonus, fmt.Sprintf("%s rating %.1f/5.0 (+%d)", t.Label, rs, t.Bonus))
		}
		if t, ok := ReviewVolumeTiers.Above(float64(rating.TotalReviews)); ok {
			add(t.Bonus, fmt.Sprintf("%s shop reviews (+%d)", humanize.Comma(rating.TotalReviews), t.Bonus))
		}
	}

	out.TrustScore = calculator.Clamp(score, 0, maxTrustScore)
	return out
}
