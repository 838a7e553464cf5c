package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ReviewSentinel/internal/model"
)

func TestAnalyzeTiming_SuspiciousHours(t *testing.T) {
	threeAM := saturday + 3*3600
	fourAM := saturday + 4*3600
	reviews := append(
		repeatReview(model.Review{CreatedAt: at(threeAM)}, 6),
		repeatReview(model.Review{CreatedAt: at(fourAM)}, 5)...,
	)

	tf := AnalyzeTiming(reviews, nil)

	assert.Equal(t, []int{3}, tf.SuspiciousHours)
	assert.Equal(t, map[int]int{3: 6, 4: 5}, tf.HourHistogram)
}

func TestAnalyzeTiming_PercentagesOverWholeCorpus(t *testing.T) {
	monday := saturday + 2*86400
	reviews := []model.Review{
		{CreatedAt: at(saturday + 3600)},    // weekend, night
		{CreatedAt: at(saturday + 12*3600)}, // weekend
		{CreatedAt: at(monday + 2*3600)},    // night
		{CreatedAt: at(monday + 6*3600)},    // neither
		{CreatedAt: ""},
		{CreatedAt: "-5"},
		{CreatedAt: at(monday + 15*3600)},
		{CreatedAt: at(monday + 16*3600)},
		{CreatedAt: at(monday + 17*3600)},
		{CreatedAt: at(monday + 18*3600)},
	}

	tf := AnalyzeTiming(reviews, nil)

	assert.Equal(t, 20.0, tf.WeekendPct)
	assert.Equal(t, 20.0, tf.NightPct)
	assert.Empty(t, tf.SuspiciousHours)
}

func TestAnalyzeTiming_Location(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 20:00 UTC Friday is 03:00 Saturday in WIB.
	friday8pm := saturday - 4*3600
	reviews := repeatReview(model.Review{CreatedAt: at(friday8pm)}, 6)

	utc := AnalyzeTiming(reviews, nil)
	local := AnalyzeTiming(reviews, wib)

	assert.Equal(t, 0.0, utc.WeekendPct)
	assert.Equal(t, 0.0, utc.NightPct)
	assert.Equal(t, 100.0, local.WeekendPct)
	assert.Equal(t, 100.0, local.NightPct)
	assert.Equal(t, []int{3}, local.SuspiciousHours)
}

func TestAnalyzeTiming_Empty(t *testing.T) {
	tf := AnalyzeTiming(nil, nil)

	assert.Equal(t, 0.0, tf.WeekendPct)
	assert.Equal(t, 0.0, tf.NightPct)
	assert.NotNil(t, tf.SuspiciousHours)
}
