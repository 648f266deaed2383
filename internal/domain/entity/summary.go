package entity

import (
	"sort"
	"time"
)

// SummaryTopN is the number of countries listed on the summary image
const SummaryTopN = 5

// MetadataLastRefreshedAt is the metadata key holding the last successful refresh time
const MetadataLastRefreshedAt = "last_refreshed_at"

// TimestampLayout is the ISO-8601 layout used for refresh timestamps
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC with millisecond precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Summary captures what one refresh cycle produced
type Summary struct {
	Total       int
	RefreshedAt time.Time
	Top         []Country
}

// NewSummary builds the summary for a cycle. Countries without an estimate
// rank as zero and ties keep their input order.
func NewSummary(countries []Country, refreshedAt time.Time) Summary {
	ranked := make([]Country, len(countries))
	copy(ranked, countries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GDPOrZero() > ranked[j].GDPOrZero()
	})

	if len(ranked) > SummaryTopN {
		ranked = ranked[:SummaryTopN]
	}

	return Summary{
		Total:       len(countries),
		RefreshedAt: refreshedAt,
		Top:         ranked,
	}
}
