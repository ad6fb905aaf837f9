package model

import (
	"math"
	"time"
)

// AdherenceBucket summarizes dose events whose scheduled_at falls inside one
// sub-interval of a queried range. Counts are exact; the percentage is a
// display rounding of taken/(taken+missed). A bucket with no resolved events
// has a nil rate, which is different from 0%.
type AdherenceBucket struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Total     int       `json:"total"`
	Taken     int       `json:"taken"`
	Missed    int       `json:"missed"`
	Scheduled int       `json:"scheduled"`
	Snoozed   int       `json:"snoozed"`
}

// Resolved is the adherence denominator: events that reached a terminal
// status. Pending scheduled/snoozed events are excluded.
func (b *AdherenceBucket) Resolved() int {
	return b.Taken + b.Missed
}

// Rate returns the exact adherence fraction, or nil when no events resolved.
func (b *AdherenceBucket) Rate() *float64 {
	resolved := b.Resolved()
	if resolved == 0 {
		return nil
	}
	r := float64(b.Taken) / float64(resolved)
	return &r
}

// RatePercent returns the rate rounded to the nearest integer percentage, or
// nil when no events resolved. Rounding is for display only; aggregation must
// re-derive from the raw counts.
func (b *AdherenceBucket) RatePercent() *int {
	r := b.Rate()
	if r == nil {
		return nil
	}
	p := int(math.Round(*r * 100))
	return &p
}

// AdherenceReport is the computed view over a user's dose events for a time
// range, optionally partitioned into contiguous buckets.
type AdherenceReport struct {
	From    time.Time         `json:"from"`
	To      time.Time         `json:"to"`
	Overall AdherenceBucket   `json:"overall"`
	Buckets []AdherenceBucket `json:"buckets,omitempty"`
}
