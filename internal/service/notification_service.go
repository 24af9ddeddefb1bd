package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/timesheet-service/internal/config"
	"github.com/spec-kit/timesheet-service/internal/events"
)

// Deduper marks a delivery key as consumed, reporting whether this
// call was the first to claim it within the TTL.
type Deduper interface {
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NotificationService turns domain events into delivery requests for
// the external channels. Delivery is best-effort: handler errors never
// reach the publisher, and a dedupe key per event keeps re-dispatched
// events from double-notifying.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	dedupe     Deduper
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, dedupe Deduper) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		dedupe:     dedupe,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTimesheetApproved, n.handleApproved)
	n.dispatcher.Subscribe(events.EventTimesheetNeedsAttention, n.handleNeedsAttention)
	n.dispatcher.Subscribe(events.EventUnsubmittedReminder, n.handleReminder)
}

func (n *NotificationService) handleApproved(ctx context.Context, event events.Event) error {
	if !n.claim(ctx, event) {
		return nil
	}
	n.logger.Info("TimesheetApproved", zap.String("timesheet_id", event.TimesheetID), zap.Any("payload", event.Payload))
	n.sendSMSStub(ctx, event)
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNeedsAttention(ctx context.Context, event events.Event) error {
	if !n.claim(ctx, event) {
		return nil
	}
	n.logger.Info("TimesheetNeedsAttention", zap.String("timesheet_id", event.TimesheetID), zap.Any("payload", event.Payload))
	n.sendSMSStub(ctx, event)
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReminder(ctx context.Context, event events.Event) error {
	if !n.claim(ctx, event) {
		return nil
	}
	n.logger.Info("UnsubmittedReminder", zap.Any("payload", event.Payload))
	n.sendSMSStub(ctx, event)
	return nil
}

// claim reports whether this event instance should be delivered.
// Dedupe failures deliver anyway; a duplicate SMS beats a lost one.
func (n *NotificationService) claim(ctx context.Context, event events.Event) bool {
	if n.dedupe == nil || event.ID == "" {
		return true
	}
	ttl := time.Duration(n.cfg.DedupeTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	first, err := n.dedupe.Once(ctx, fmt.Sprintf("notify:%s:%s", event.Type, event.ID), ttl)
	if err != nil {
		n.logger.Warn("notification dedupe unavailable", zap.Error(err))
		return true
	}
	return first
}

func (n *NotificationService) sendSMSStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.SMSFrom) == "" {
		return
	}
	n.logger.Debug("sendSMSStub",
		zap.String("from", n.cfg.SMSFrom),
		zap.String("timesheet_id", event.TimesheetID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("timesheet_id", event.TimesheetID),
		zap.String("event_type", string(event.Type)))
}
