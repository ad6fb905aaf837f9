package adherence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpal/medpal-api/internal/config"
	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository/memory"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
	"github.com/medpal/medpal-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("adherence_service_test")

var (
	rangeFrom = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rangeTo   = time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
)

type env struct {
	svc       *Service
	reminders *memory.ReminderRepository
	userID    uuid.UUID
	medID     uuid.UUID
	now       time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		reminders: memory.NewReminderRepository(),
		userID:    uuid.New(),
		medID:     uuid.New(),
		now:       time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
	}
	policy := config.ReminderConfig{GracePeriod: time.Hour}
	e.svc = NewService(e.reminders, testMetrics, logger.NewLogger(nil), policy).
		WithNow(func() time.Time { return e.now })
	return e
}

func (e *env) seed(t *testing.T, scheduledAt time.Time, status model.ReminderStatus) {
	t.Helper()

	log := &model.ReminderLog{
		ID:           uuid.New(),
		MedicationID: e.medID,
		UserID:       e.userID,
		ScheduledAt:  scheduledAt,
		Status:       status,
		CreatedAt:    scheduledAt,
	}
	if status == model.ReminderStatusTaken {
		at := scheduledAt.Add(5 * time.Minute)
		log.TakenAt = &at
	}
	inserted, err := e.reminders.CreateBatch(context.Background(), []*model.ReminderLog{log})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
}

func dayAt(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestReportSeventyPercent(t *testing.T) {
	e := newEnv(t)
	for day := 1; day <= 7; day++ {
		e.seed(t, dayAt(day, 8), model.ReminderStatusTaken)
	}
	for day := 8; day <= 10; day++ {
		e.seed(t, dayAt(day, 8), model.ReminderStatusMissed)
	}

	report, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Overall.Total)
	assert.Equal(t, 7, report.Overall.Taken)
	assert.Equal(t, 3, report.Overall.Missed)
	assert.Equal(t, 10, report.Overall.Resolved())

	require.NotNil(t, report.Overall.Rate())
	assert.InDelta(t, 0.7, *report.Overall.Rate(), 1e-9)
	require.NotNil(t, report.Overall.RatePercent())
	assert.Equal(t, 70, *report.Overall.RatePercent())
}

func TestReportExcludesPendingFromDenominator(t *testing.T) {
	e := newEnv(t)
	e.seed(t, dayAt(1, 8), model.ReminderStatusTaken)
	e.seed(t, dayAt(2, 8), model.ReminderStatusMissed)
	// Future doses: still scheduled at the evaluation instant.
	e.seed(t, time.Date(2025, 3, 25, 8, 0, 0, 0, time.UTC), model.ReminderStatusScheduled)

	from := rangeFrom
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	report, err := e.svc.Report(context.Background(), e.userID, from, to, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Overall.Total)
	assert.Equal(t, 1, report.Overall.Scheduled)
	assert.Equal(t, 2, report.Overall.Resolved())
	require.NotNil(t, report.Overall.RatePercent())
	assert.Equal(t, 50, *report.Overall.RatePercent())
}

func TestReportNoResolvedEventsHasNilRate(t *testing.T) {
	e := newEnv(t)
	// One future dose, nothing resolved.
	e.seed(t, time.Date(2025, 3, 25, 8, 0, 0, 0, time.UTC), model.ReminderStatusScheduled)

	from := rangeFrom
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	report, err := e.svc.Report(context.Background(), e.userID, from, to, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Overall.Total)
	assert.Nil(t, report.Overall.Rate(), "no data is not the same as 0%")
	assert.Nil(t, report.Overall.RatePercent())
}

func TestReportDerivesLazyMissedAtEvaluationInstant(t *testing.T) {
	e := newEnv(t)
	// Scheduled in the past, never touched: overdue at the evaluation instant.
	e.seed(t, dayAt(5, 8), model.ReminderStatusScheduled)

	report, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Overall.Missed)
	assert.Equal(t, 0, report.Overall.Scheduled)
	require.NotNil(t, report.Overall.RatePercent())
	assert.Equal(t, 0, *report.Overall.RatePercent())
}

func TestReportBucketsPartitionByScheduledAt(t *testing.T) {
	e := newEnv(t)
	// First 5-day half: 2 taken. Second half: 1 taken, 1 missed.
	e.seed(t, dayAt(1, 8), model.ReminderStatusTaken)
	e.seed(t, dayAt(3, 8), model.ReminderStatusTaken)
	e.seed(t, dayAt(7, 8), model.ReminderStatusTaken)
	e.seed(t, dayAt(9, 8), model.ReminderStatusMissed)

	report, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 2, nil)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 2)

	first, second := report.Buckets[0], report.Buckets[1]
	assert.Equal(t, rangeFrom, first.From)
	assert.Equal(t, rangeTo, second.To)
	assert.Equal(t, first.To, second.From, "buckets are contiguous")

	assert.Equal(t, 2, first.Taken)
	assert.Equal(t, 0, first.Missed)
	require.NotNil(t, first.RatePercent())
	assert.Equal(t, 100, *first.RatePercent())

	assert.Equal(t, 1, second.Taken)
	assert.Equal(t, 1, second.Missed)
	require.NotNil(t, second.RatePercent())
	assert.Equal(t, 50, *second.RatePercent())

	// Overall re-derives from raw counts, not from bucket percentages.
	assert.Equal(t, 4, report.Overall.Total)
	assert.Equal(t, 75, *report.Overall.RatePercent())
}

func TestReportRangeEndBelongsToNextRange(t *testing.T) {
	e := newEnv(t)
	// One dose exactly at the shared boundary of two adjacent ranges.
	e.seed(t, rangeTo, model.ReminderStatusTaken)

	first, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Overall.Total)

	next := rangeTo.Add(10 * 24 * time.Hour)
	second, err := e.svc.Report(context.Background(), e.userID, rangeTo, next, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Overall.Total)
	assert.Equal(t, 1, second.Overall.Taken)
}

func TestReportEmptyBucketHasNilRate(t *testing.T) {
	e := newEnv(t)
	e.seed(t, dayAt(1, 8), model.ReminderStatusTaken)

	report, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 2, nil)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 2)

	assert.Nil(t, report.Buckets[1].Rate())
	assert.NotNil(t, report.Buckets[0].Rate())
}

func TestReportFiltersByMedication(t *testing.T) {
	e := newEnv(t)
	e.seed(t, dayAt(1, 8), model.ReminderStatusTaken)

	other := uuid.New()
	log := &model.ReminderLog{
		ID:           uuid.New(),
		MedicationID: other,
		UserID:       e.userID,
		ScheduledAt:  dayAt(2, 8),
		Status:       model.ReminderStatusMissed,
		CreatedAt:    dayAt(2, 8),
	}
	_, err := e.reminders.CreateBatch(context.Background(), []*model.ReminderLog{log})
	require.NoError(t, err)

	report, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 0, &e.medID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Overall.Total)
	assert.Equal(t, 1, report.Overall.Taken)
}

func TestReportIsolatesUsers(t *testing.T) {
	e := newEnv(t)
	e.seed(t, dayAt(1, 8), model.ReminderStatusTaken)

	report, err := e.svc.Report(context.Background(), uuid.New(), rangeFrom, rangeTo, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Overall.Total)
	assert.Nil(t, report.Overall.Rate())
}

func TestReportRejectsInvertedRange(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Report(context.Background(), e.userID, rangeTo, rangeFrom, 0, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestReportCachesByUserRangeAndFilter(t *testing.T) {
	e := newEnv(t)
	e.seed(t, dayAt(1, 8), model.ReminderStatusTaken)

	first, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 0, nil)
	require.NoError(t, err)

	// A write landing inside the TTL is invisible until the entry expires.
	e.seed(t, dayAt(2, 8), model.ReminderStatusMissed)
	second, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Overall.Total, second.Overall.Total)

	// A different range is a different key and sees the new event.
	wider, err := e.svc.Report(context.Background(), e.userID, rangeFrom, rangeTo.Add(time.Hour), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, wider.Overall.Total)
}
