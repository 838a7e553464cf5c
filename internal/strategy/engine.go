package strategy

import (
	"ReviewSentinel/internal/calculator"
	"ReviewSentinel/internal/model"
)

const (
	maxFakeScore = 100

	// DefaultAlternativesThreshold is the fake score above which trusted sellers are searched.
	DefaultAlternativesThreshold = 30
)

// Input carries the extractor outputs the aggregator combines.
// Variants and Topics are optional; nil means the data was not available.
type Input struct {
	Patterns model.PatternFeatures
	Buyers   model.BuyerFeatures
	Ratings  model.RatingFeatures
	Timing   model.TimeFeatures
	Variants *model.VariantFeatures
	Topics   *model.RatingTopics
}

// RiskTiers defines the risk mapping, highest first.
var RiskTiers = []struct {
	Above int
	Risk  model.RiskLevel
}{
	{70, model.RiskHigh},
	{40, model.RiskMedium},
}

// DefaultRisk applies when no tier matches.
var DefaultRisk = model.RiskLow

// mapRisk maps a fake score to a RiskLevel.
func mapRisk(score int) model.RiskLevel {
	for _, t := range RiskTiers {
		if score > t.Above {
			return t.Risk
		}
	}
	return DefaultRisk
}

// Evaluate runs every rule of the ledger against in and sums the points that fired.
func Evaluate(in Input) model.FakeScore {
	hits := make([]model.RuleHit, 0, len(Rules))
	total := 0
	for _, r := range Rules {
		points, detail := r.Apply(&in)
		if points == 0 {
			continue
		}
		total += points
		hits = append(hits, model.RuleHit{
			Rule:     r.Name,
			Category: r.Category,
			Points:   points,
			Detail:   detail,
		})
	}

	score := calculator.Clamp(total, 0, maxFakeScore)
	return model.FakeScore{
		Score: score,
		Risk:  mapRisk(score),
		Hits:  hits,
	}
}

// ShouldSeekAlternatives reports whether a score warrants searching for trusted sellers.
// A threshold <= 0 uses DefaultAlternativesThreshold.
func ShouldSeekAlternatives(score, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultAlternativesThreshold
	}
	return score > threshold
}
