package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository/memory"
	"github.com/medpal/medpal-api/pkg/logger"
	"github.com/medpal/medpal-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("worker_test")

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	failures  int
}

func (b *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) channels() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.published...)
}

func pendingEvent(t *testing.T, repo *memory.OutboxRepository, eventType string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &model.OutboxEvent{
		ID:        id,
		EventType: eventType,
		Payload:   json.RawMessage(`{"ok":true}`),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}))
	return id
}

func newProcessor(repo *memory.OutboxRepository, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{}
	pendingEvent(t, repo, model.EventReminderTaken)
	pendingEvent(t, repo, model.EventReminderMissed)

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.ElementsMatch(t, []string{model.EventReminderTaken, model.EventReminderMissed}, broker.channels())
	for _, event := range repo.Events() {
		assert.Equal(t, model.OutboxStatusProcessed, event.Status)
		assert.NotNil(t, event.ProcessedAt)
	}

	// No pending events left, second pass is a no-op.
	require.NoError(t, p.processEvents(context.Background()))
	assert.Len(t, broker.channels(), 2)
}

func TestProcessEventsRetriesTransientFailure(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{failures: 1}
	pendingEvent(t, repo, model.EventEmergencySOS)

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{model.EventEmergencySOS}, broker.channels())
	assert.Equal(t, model.OutboxStatusProcessed, repo.Events()[0].Status)
}

func TestProcessEventsMarksFailedAfterRetriesExhausted(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{failures: 10}
	pendingEvent(t, repo, model.EventFamilyInvite)

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Empty(t, broker.channels())
	event := repo.Events()[0]
	assert.Equal(t, model.OutboxStatusFailed, event.Status)
	require.NotNil(t, event.ErrorMessage)
	assert.Contains(t, *event.ErrorMessage, "broker unavailable")
}

func TestPruneProcessedRemovesOldEvents(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{}
	pendingEvent(t, repo, model.EventReminderTaken)

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	// Retention of zero is normalized to a week, so nothing is pruned yet.
	p.pruneProcessed(context.Background())
	assert.Len(t, repo.Events(), 1)

	p.config.Retention = -time.Hour
	p.pruneProcessed(context.Background())
	assert.Empty(t, repo.Events())
}
