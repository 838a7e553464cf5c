package extractor

import (
	"sort"
	"time"

	"ReviewSentinel/internal/calculator"
	"ReviewSentinel/internal/model"
)

const (
	nightEndHour          = 6 // [0, 6) is night
	suspiciousHourFrom    = 2
	suspiciousHourTo      = 5
	suspiciousHourMinHits = 5 // more reviews than this in one early hour is suspicious
)

// AnalyzeTiming extracts posting-time signals in loc; a nil loc means UTC.
// Weekend and night percentages are over the whole corpus, including reviews
// without a usable timestamp.
func AnalyzeTiming(reviews []model.Review, loc *time.Location) model.TimeFeatures {
	if loc == nil {
		loc = time.UTC
	}
	out := model.TimeFeatures{
		HourHistogram:   map[int]int{},
		SuspiciousHours: []int{},
	}

	weekend, night := 0, 0
	for _, r := range reviews {
		ts, ok := r.CreatedAt.Unix()
		if !ok {
			continue
		}
		t := time.Unix(ts, 0).In(loc)
		hour := t.Hour()
		out.HourHistogram[hour]++

		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend++
		}
		if hour < nightEndHour {
			night++
		}
	}

	for hour, count := range out.HourHistogram {
		if hour >= suspiciousHourFrom && hour <= suspiciousHourTo && count > suspiciousHourMinHits {
			out.SuspiciousHours = append(out.SuspiciousHours, hour)
		}
	}
	sort.Ints(out.SuspiciousHours)

	out.WeekendPct = calculator.Percent(weekend, len(reviews))
	out.NightPct = calculator.Percent(night, len(reviews))
	return out
}
