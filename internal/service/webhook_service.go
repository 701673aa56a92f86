package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trackwire/notification-tracker/internal/domain"
	"github.com/trackwire/notification-tracker/internal/observability"
	"github.com/trackwire/notification-tracker/internal/repository"
	"github.com/trackwire/notification-tracker/internal/stream"
	"go.uber.org/zap"
)

// maxApplyAttempts bounds the re-read/re-evaluate loop when a checked update
// loses an optimistic-lock race against a concurrent callback.
const maxApplyAttempts = 3

// WebhookPayload is the provider's delivery-status callback body.
type WebhookPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
}

// WebhookService applies inbound delivery-status callbacks against the
// per-channel status ordering, tolerating duplicate and out-of-order
// delivery.
type WebhookService struct {
	notifications repository.NotificationRepository
	publisher     stream.Publisher
	topic         string
	logger        *zap.Logger
	metrics       *observability.Metrics
}

func NewWebhookService(
	notifications repository.NotificationRepository,
	publisher stream.Publisher,
	topic string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*WebhookService, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("events topic is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookService{
		notifications: notifications,
		publisher:     publisher,
		topic:         topic,
		logger:        logger,
		metrics:       metrics,
	}, nil
}

// Process validates and applies a single callback. It returns (nil, nil) for
// a stale callback: an event older than the record's last update is a
// harmless duplicate and must be acknowledged, not failed, so provider
// redelivery stays safe. Accepted transitions are republished on the event
// stream after the durable write.
func (s *WebhookService) Process(ctx context.Context, externalID string, payload WebhookPayload) (*domain.Notification, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.WithContextLogger(s.logger, ctx).With(zap.String("externalId", externalID))

	timestamp, newStatus, err := s.validatePayload(payload)
	if err != nil {
		logger.Warn("webhook payload rejected", zap.Error(err))
		if s.metrics != nil {
			s.metrics.IncWebhookEvent("", observability.WebhookOutcomeRejected)
		}
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		n, err := s.notifications.GetByExternalID(ctx, strings.TrimSpace(externalID))
		if err != nil {
			return nil, err
		}

		if timestamp.Before(n.UpdatedAt) {
			logger.Info("webhook ignored: event older than last update",
				zap.Time("eventTimestamp", timestamp),
				zap.Time("lastUpdated", n.UpdatedAt),
			)
			if s.metrics != nil {
				s.metrics.IncWebhookEvent(n.Channel.String(), observability.WebhookOutcomeStale)
			}
			return nil, nil
		}

		if !domain.CanTransition(n.Channel, n.Status, newStatus) {
			if s.metrics != nil {
				s.metrics.IncWebhookEvent(n.Channel.String(), observability.WebhookOutcomeConflict)
			}
			return nil, fmt.Errorf("%w: invalid transition %s -> %s for channel %s",
				domain.ErrConflict, n.Status, newStatus, n.Channel)
		}

		status := newStatus
		updated, err := s.notifications.UpdateChecked(ctx, n.ID, n.UpdatedAt, repository.UpdateFields{Status: &status})
		if errors.Is(err, domain.ErrConflict) && attempt < maxApplyAttempts {
			// Lost the race to a concurrent callback; re-read and re-evaluate
			// against the fresh state.
			logger.Info("webhook apply lost optimistic lock, retrying",
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			if errors.Is(err, domain.ErrConflict) && s.metrics != nil {
				s.metrics.IncWebhookEvent(n.Channel.String(), observability.WebhookOutcomeConflict)
			}
			return nil, err
		}

		logger.Info("webhook status applied",
			zap.String("notificationId", updated.ID),
			zap.String("fromStatus", n.Status.String()),
			zap.String("toStatus", updated.Status.String()),
		)
		if s.metrics != nil {
			s.metrics.IncWebhookEvent(updated.Channel.String(), observability.WebhookOutcomeApplied)
		}

		if err := s.publishEvent(ctx, updated); err != nil {
			logger.Error("transition event publish failed after persist",
				zap.String("notificationId", updated.ID),
				zap.Error(err),
			)
			return nil, err
		}

		return updated, nil
	}
}

func (s *WebhookService) validatePayload(payload WebhookPayload) (time.Time, domain.Status, error) {
	if strings.TrimSpace(payload.Timestamp) == "" || strings.TrimSpace(payload.Event) == "" {
		return time.Time{}, "", fmt.Errorf("%w: timestamp and event are required", domain.ErrValidation)
	}

	timestamp, err := time.Parse(time.RFC3339, strings.TrimSpace(payload.Timestamp))
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid timestamp format %q", domain.ErrValidation, payload.Timestamp)
	}

	// Membership in the global status set only; channel legality is checked
	// later against the looked-up record.
	status, err := domain.ParseStatusFromString(payload.Event)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, payload.Event)
	}

	return timestamp, status, nil
}

func (s *WebhookService) publishEvent(ctx context.Context, n *domain.Notification) error {
	err := s.publisher.Publish(ctx, s.topic, stream.EventFromNotification(n), n.ID)
	if s.metrics != nil {
		if err != nil {
			s.metrics.IncEventPublishFailure(s.topic)
		} else {
			s.metrics.IncEventPublished(s.topic)
		}
	}
	return err
}
