package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/timesheet-service/internal/config"
	"github.com/spec-kit/timesheet-service/internal/events"
)

type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func (d *fakeDeduper) Once(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

func TestNotificationDedupe(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	dedupe := &fakeDeduper{}
	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{DedupeTTLHours: 1}, dedupe)
	svc.RegisterHandlers()

	event := events.Event{
		ID:          "evt-1",
		Type:        events.EventTimesheetApproved,
		TimesheetID: "ts-1",
		Timestamp:   time.Now(),
	}

	require.NoError(t, dispatcher.Publish(ctx, event))
	require.NoError(t, dispatcher.Publish(ctx, event))
	assert.Len(t, dedupe.seen, 1)
}

func TestNotificationDedupeUnavailable(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{}, &fakeDeduper{err: assert.AnError})
	svc.RegisterHandlers()

	// Delivery proceeds when the dedupe store is unreachable; publish
	// must stay error-free either way.
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		ID:   "evt-2",
		Type: events.EventTimesheetNeedsAttention,
	}))
}
