package strategy

import (
	"fmt"

	"ReviewSentinel/internal/calculator"
)

const (
	categoryPattern      = "Review Pattern"
	categoryBuyer        = "Buyer Analysis"
	categoryRating       = "Rating Analysis"
	categoryTime         = "Time Pattern"
	categoryRatingTopics = "Rating Summary"
	categoryVariant      = "Variant Analysis"
	categoryVerification = "Buyer Verification"
)

// Rule is one line of the fake-score ledger. Apply returns 0 points when the rule
// does not fire.
type Rule struct {
	Name     string
	Category string
	Apply    func(in *Input) (points int, detail string)
}

// tiered builds a rule that awards the first tier value strictly exceeds.
func tiered(name, category string, tiers calculator.Tiers, value func(in *Input) float64, format string) Rule {
	return Rule{
		Name:     name,
		Category: category,
		Apply: func(in *Input) (int, string) {
			v := value(in)
			t, ok := tiers.Above(v)
			if !ok {
				return 0, ""
			}
			return t.Bonus, fmt.Sprintf(format, v)
		},
	}
}

func single(above float64, bonus int) calculator.Tiers {
	return calculator.Tiers{{Threshold: above, Bonus: bonus}}
}

// Rules is the ordered fake-score ledger.
var Rules = []Rule{
	tiered("generic_reviews", categoryPattern,
		calculator.Tiers{{Threshold: 10, Bonus: 15}, {Threshold: 5, Bonus: 8}},
		func(in *Input) float64 { return float64(in.Patterns.GenericCount) },
		"%.0f generic reviews"),
	tiered("similar_reviews", categoryPattern,
		calculator.Tiers{{Threshold: 5, Bonus: 20}, {Threshold: 2, Bonus: 10}},
		func(in *Input) float64 { return float64(len(in.Patterns.SimilarPairs)) },
		"%.0f near-identical review pairs"),
	tiered("keyword_stuffing", categoryPattern, single(5, 10),
		func(in *Input) float64 { return float64(in.Patterns.KeywordStuffingCount) },
		"%.0f keyword stuffing cases"),
	tiered("excessive_praise", categoryPattern, single(8, 10),
		func(in *Input) float64 { return float64(in.Patterns.ExcessivePraiseCount) },
		"%.0f reviews with excessive praise"),
	tiered("anonymous_buyers", categoryBuyer,
		calculator.Tiers{{Threshold: 50, Bonus: 15}, {Threshold: 30, Bonus: 8}},
		func(in *Input) float64 { return in.Buyers.AnonymousPct },
		"%.1f%% anonymous buyers"),
	tiered("burst_reviewers", categoryBuyer, single(3, 15),
		func(in *Input) float64 { return float64(len(in.Buyers.BurstReviewerIDs)) },
		"%.0f burst reviewers"),
	{
		Name:     "rating_uniformity",
		Category: categoryRating,
		Apply: func(in *Input) (int, string) {
			switch {
			case in.Ratings.AllSameRating:
				return 20, "all reviews have the same rating"
			case in.Ratings.SuspiciousPattern:
				return 15, "more than 90% five-star ratings"
			}
			return 0, ""
		},
	},
	tiered("sudden_influx", categoryTime, single(2, 10),
		func(in *Input) float64 { return float64(len(in.Ratings.SuddenInfluxDays)) },
		"%.0f days with a review influx"),
	tiered("night_reviews", categoryTime, single(30, 10),
		func(in *Input) float64 { return in.Timing.NightPct },
		"%.1f%% reviews at night"),
	tiered("suspicious_hours", categoryTime, single(2, 10),
		func(in *Input) float64 { return float64(len(in.Timing.SuspiciousHours)) },
		"%.0f early-morning hours with clustered reviews"),
	{
		Name:     "five_star_share",
		Category: categoryRatingTopics,
		Apply: func(in *Input) (int, string) {
			five, ok := in.Topics.StarBucket(5)
			if !ok || five.Percentage <= 95 {
				return 0, ""
			}
			return 15, fmt.Sprintf("%.1f%% of all ratings are five stars", five.Percentage)
		},
	},
	{
		Name:     "no_one_star",
		Category: categoryRatingTopics,
		Apply: func(in *Input) (int, string) {
			one, ok := in.Topics.StarBucket(1)
			if !ok || one.TotalReviews != 0 || in.Topics.Rating.TotalRating <= 100 {
				return 0, ""
			}
			return 10, fmt.Sprintf("no one-star ratings out of %d", in.Topics.Rating.TotalRating)
		},
	},
	{
		Name:     "variant_dominance",
		Category: categoryVariant,
		Apply: func(in *Input) (int, string) {
			if in.Variants == nil || !in.Variants.DominanceFlag {
				return 0, ""
			}
			return 15, fmt.Sprintf("variant %q dominates", in.Variants.DominantVariant)
		},
	},
	{
		Name:     "low_verified_buyers",
		Category: categoryVerification,
		Apply: func(in *Input) (int, string) {
			if in.Buyers.TotalReviews == 0 || in.Buyers.VerifiedBuyerPct >= 20 {
				return 0, ""
			}
			return 10, fmt.Sprintf("only %.1f%% verified buyers", in.Buyers.VerifiedBuyerPct)
		},
	},
}
