package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdherenceBucketRate(t *testing.T) {
	b := &AdherenceBucket{Taken: 7, Missed: 3, Scheduled: 5}

	assert.Equal(t, 10, b.Resolved(), "pending events stay out of the denominator")
	require.NotNil(t, b.Rate())
	assert.InDelta(t, 0.7, *b.Rate(), 1e-9)
	require.NotNil(t, b.RatePercent())
	assert.Equal(t, 70, *b.RatePercent())
}

func TestAdherenceBucketNilRateWhenNothingResolved(t *testing.T) {
	b := &AdherenceBucket{Scheduled: 4, Snoozed: 1, Total: 5}
	assert.Nil(t, b.Rate())
	assert.Nil(t, b.RatePercent())

	zero := &AdherenceBucket{Taken: 0, Missed: 2}
	require.NotNil(t, zero.RatePercent())
	assert.Equal(t, 0, *zero.RatePercent(), "0% is a real rate, not absence of data")
}

func TestAdherenceRatePercentRounding(t *testing.T) {
	tests := []struct {
		taken, missed int
		want          int
	}{
		{1, 2, 33},
		{2, 1, 67},
		{1, 7, 13}, // 12.5 rounds half away from zero
		{5, 3, 63}, // 62.5
		{10, 0, 100},
	}
	for _, tt := range tests {
		b := &AdherenceBucket{Taken: tt.taken, Missed: tt.missed}
		require.NotNil(t, b.RatePercent())
		assert.Equal(t, tt.want, *b.RatePercent(), "taken=%d missed=%d", tt.taken, tt.missed)
	}
}
