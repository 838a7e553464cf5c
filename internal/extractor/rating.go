package extractor

import (
	"sort"
	"time"

	"ReviewSentinel/internal/calculator"
	"ReviewSentinel/internal/model"
)

const (
	fiveStarSuspiciousPct = 90
	influxMinReviews      = 10 // more reviews than this on one day is an influx
	dayLayout             = "2006-01-02"
)

// AnalyzeRatings extracts star-rating signals. Calendar days are taken in loc;
// a nil loc means UTC.
func AnalyzeRatings(reviews []model.Review, loc *time.Location) model.RatingFeatures {
	if loc == nil {
		loc = time.UTC
	}
	out := model.RatingFeatures{
		Distribution:     map[int]int{},
		SuddenInfluxDays: []model.DayCount{},
	}

	var ratings []int
	perDay := make(map[string]int)
	for _, r := range reviews {
		if r.Rating > 0 {
			ratings = append(ratings, r.Rating)
			out.Distribution[r.Rating]++
		}
		if ts, ok := r.CreatedAt.Unix(); ok {
			perDay[time.Unix(ts, 0).In(loc).Format(dayLayout)]++
		}
	}

	if len(ratings) > 0 {
		out.RatedCount = len(ratings)
		out.Average = calculator.Mean(ratings)
		out.AllSameRating = len(out.Distribution) == 1
		out.SuspiciousPattern = calculator.Percent(out.Distribution[5], len(ratings)) > fiveStarSuspiciousPct
	}

	for day, count := range perDay {
		if count > influxMinReviews {
			out.SuddenInfluxDays = append(out.SuddenInfluxDays, model.DayCount{Date: day, Count: count})
		}
	}
	sort.Slice(out.SuddenInfluxDays, func(i, j int) bool {
		return out.SuddenInfluxDays[i].Date < out.SuddenInfluxDays[j].Date
	})

	return out
}
