package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ReviewSentinel/internal/model"
)

func TestAnalyzeBuyers_Percentages(t *testing.T) {
	reviews := []model.Review{
		{ReviewerID: "u1", IsAnonymous: true, ReviewerLabel: "Verified Buyer"},
		{ReviewerID: "u2", ReviewerLabel: "Verified Buyer"},
		{ReviewerID: "u3", ReviewerLabel: "Top Reviewer"},
		{ReviewerID: "u4"},
	}

	b := AnalyzeBuyers(reviews)

	assert.Equal(t, 4, b.TotalReviews)
	assert.Equal(t, 25.0, b.AnonymousPct)
	assert.Equal(t, 50.0, b.VerifiedBuyerPct)
	assert.Equal(t, map[string]int{"Verified Buyer": 2, "Top Reviewer": 1}, b.LabelCounts)
	assert.Equal(t, 4, b.SingleReviewAccounts)
	assert.Equal(t, 0, b.NewAccountCount)
	assert.Empty(t, b.BurstReviewerIDs)
}

func TestAnalyzeBuyers_Burst(t *testing.T) {
	reviews := []model.Review{
		{ReviewerID: "slow", CreatedAt: at(saturday)},
		{ReviewerID: "fast", CreatedAt: at(saturday + 1000)},
		{ReviewerID: "slow", CreatedAt: at(saturday + 1000)},
		{ReviewerID: "fast", CreatedAt: at(saturday + 1100)},
		{ReviewerID: "edge", CreatedAt: at(saturday)},
		{ReviewerID: "edge", CreatedAt: at(saturday + burstWindowSeconds)},
		{ReviewerID: "", CreatedAt: at(saturday)},
		{ReviewerID: "", CreatedAt: at(saturday + 1)},
	}

	b := AnalyzeBuyers(reviews)

	assert.Equal(t, []string{"fast"}, b.BurstReviewerIDs)
	assert.Equal(t, 0, b.SingleReviewAccounts)
}

func TestAnalyzeBuyers_BurstIgnoresInvalidTimestamps(t *testing.T) {
	reviews := []model.Review{
		{ReviewerID: "u1", CreatedAt: ""},
		{ReviewerID: "u1", CreatedAt: "not-a-number"},
		{ReviewerID: "u1", CreatedAt: at(saturday)},
	}

	b := AnalyzeBuyers(reviews)

	assert.Empty(t, b.BurstReviewerIDs)
}

func TestAnalyzeBuyers_BurstIsMonotonic(t *testing.T) {
	reviews := []model.Review{
		{ReviewerID: "u1", CreatedAt: at(saturday)},
		{ReviewerID: "u1", CreatedAt: at(saturday + 60)},
	}
	assert.Equal(t, []string{"u1"}, AnalyzeBuyers(reviews).BurstReviewerIDs)

	reviews = append(reviews, model.Review{ReviewerID: "u1", CreatedAt: at(saturday + 86400)})
	assert.Equal(t, []string{"u1"}, AnalyzeBuyers(reviews).BurstReviewerIDs)
}

func TestAnalyzeBuyers_Empty(t *testing.T) {
	b := AnalyzeBuyers(nil)

	assert.Equal(t, 0, b.TotalReviews)
	assert.Equal(t, 0.0, b.AnonymousPct)
	assert.Equal(t, 0.0, b.VerifiedBuyerPct)
	assert.NotNil(t, b.BurstReviewerIDs)
}
