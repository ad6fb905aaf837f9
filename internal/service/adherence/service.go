// Package adherence computes adherence reports over materialized dose
// events. Rates are derived from resolved events only: a range with nothing
// resolved reports no data, which is different from 0%.
package adherence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medpal/medpal-api/internal/config"
	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
	"github.com/medpal/medpal-api/pkg/metrics"
)

const (
	cacheTTL       = 30 * time.Second
	cacheSweep     = time.Minute
	maxBucketCount = 366
)

type Service struct {
	reminders repository.ReminderRepository
	cache     *gocache.Cache
	metrics   *metrics.Metrics
	logger    *logger.Logger
	grace     time.Duration
	now       func() time.Time
}

func NewService(reminders repository.ReminderRepository, m *metrics.Metrics, log *logger.Logger, policy config.ReminderConfig) *Service {
	grace := policy.GracePeriod
	if grace <= 0 {
		grace = time.Hour
	}
	return &Service{
		reminders: reminders,
		cache:     gocache.New(cacheTTL, cacheSweep),
		metrics:   m,
		logger:    log,
		grace:     grace,
		now:       time.Now,
	}
}

// WithNow overrides the service clock.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Report computes adherence over [from, to), optionally partitioned into
// bucketCount contiguous sub-intervals and optionally filtered to one
// medication. Events are judged with lazy-missed derivation at the current
// instant. Reports are briefly cached; the cache is a read-through
// optimization only and never the source of truth.
func (s *Service) Report(ctx context.Context, userID uuid.UUID, from, to time.Time, bucketCount int, medicationID *uuid.UUID) (*model.AdherenceReport, error) {
	if !from.Before(to) {
		return nil, apperrors.NewBadRequest("range start must precede range end", nil)
	}
	if bucketCount < 0 || bucketCount > maxBucketCount {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("bucket count must be between 0 and %d", maxBucketCount), nil)
	}

	key := cacheKey(userID, from, to, bucketCount, medicationID)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.AdherenceCacheHits.Inc()
		return cached.(*model.AdherenceReport), nil
	}
	s.metrics.AdherenceCacheMisses.Inc()

	filters := &model.ReminderFilters{MedicationID: medicationID, From: &from, To: &to}
	logs, err := s.reminders.List(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &model.AdherenceReport{
		From:    from,
		To:      to,
		Overall: model.AdherenceBucket{From: from, To: to},
	}

	if bucketCount > 0 {
		report.Buckets = make([]model.AdherenceBucket, bucketCount)
		width := to.Sub(from) / time.Duration(bucketCount)
		for i := range report.Buckets {
			report.Buckets[i].From = from.Add(time.Duration(i) * width)
			report.Buckets[i].To = from.Add(time.Duration(i+1) * width)
		}
		report.Buckets[bucketCount-1].To = to
	}

	for _, log := range logs {
		status := log.EffectiveStatus(now, s.grace)
		tally(&report.Overall, status)
		if bucketCount > 0 {
			i := bucketIndex(from, to, bucketCount, log.ScheduledAt)
			tally(&report.Buckets[i], status)
		}
	}

	s.cache.Set(key, report, gocache.DefaultExpiration)
	return report, nil
}

func tally(b *model.AdherenceBucket, status model.ReminderStatus) {
	b.Total++
	switch status {
	case model.ReminderStatusTaken:
		b.Taken++
	case model.ReminderStatusMissed:
		b.Missed++
	case model.ReminderStatusSnoozed:
		b.Snoozed++
	default:
		b.Scheduled++
	}
}

// bucketIndex assigns an event to a sub-interval by scheduledAt. Events
// landing exactly on the range end clamp into the last bucket.
func bucketIndex(from, to time.Time, count int, at time.Time) int {
	width := to.Sub(from) / time.Duration(count)
	if width <= 0 {
		return 0
	}
	i := int(at.Sub(from) / width)
	if i < 0 {
		i = 0
	}
	if i >= count {
		i = count - 1
	}
	return i
}

func cacheKey(userID uuid.UUID, from, to time.Time, bucketCount int, medicationID *uuid.UUID) string {
	med := "all"
	if medicationID != nil {
		med = medicationID.String()
	}
	return fmt.Sprintf("%s|%d|%d|%d|%s", userID, from.UnixNano(), to.UnixNano(), bucketCount, med)
}
