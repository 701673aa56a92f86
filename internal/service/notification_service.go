package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/trackwire/notification-tracker/internal/domain"
	"github.com/trackwire/notification-tracker/internal/observability"
	"github.com/trackwire/notification-tracker/internal/repository"
	"github.com/trackwire/notification-tracker/internal/sender"
	"github.com/trackwire/notification-tracker/internal/stream"
	"go.uber.org/zap"
)

// NotificationService orchestrates the notification lifecycle: creation with
// external-id deduplication, dispatch through the Sender, persistence, and
// event re-publication.
type NotificationService struct {
	notifications repository.NotificationRepository
	sender        sender.Sender
	publisher     stream.Publisher
	topic         string
	logger        *zap.Logger
	metrics       *observability.Metrics
}

type CreateParams struct {
	ExternalID string
	Channel    domain.Channel
	To         string
	Body       string
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	snd sender.Sender,
	publisher stream.Publisher,
	topic string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*NotificationService, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("events topic is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		notifications: notifications,
		sender:        snd,
		publisher:     publisher,
		topic:         topic,
		logger:        logger,
		metrics:       metrics,
	}, nil
}

// Create registers and dispatches a new notification. The external-id lookup
// runs before any side effect; a hit fails the whole call without touching
// the Sender, the store, or the stream. Sender failures propagate unchanged.
// The creation event is published only after the record is durably persisted;
// a publish failure therefore surfaces as an error even though the record
// exists (at-least-once gap, safe to retry thanks to the external-id guard).
func (s *NotificationService) Create(ctx context.Context, params CreateParams) (*domain.Notification, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	n := &domain.Notification{
		ExternalID: strings.TrimSpace(params.ExternalID),
		Channel:    params.Channel,
		To:         strings.TrimSpace(params.To),
		Body:       params.Body,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.notifications.GetByExternalID(ctx, n.ExternalID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: notification with externalId=%s already exists", domain.ErrDuplicate, n.ExternalID)
	}

	sent, err := s.sender.Send(ctx, sender.SendRequest{
		ExternalID: n.ExternalID,
		Channel:    n.Channel,
		To:         n.To,
		Body:       n.Body,
	})
	if err != nil {
		return nil, err
	}

	// The provider's own message id is informational; the store assigns the
	// authoritative id.
	logger := observability.WithContextLogger(s.logger, ctx)
	logger.Info("dispatched via sender, persisting",
		zap.String("externalId", n.ExternalID),
		zap.String("providerMessageId", sent.ProviderMessageID),
	)

	initial, ok := domain.InitialStatus(n.Channel)
	if !ok {
		return nil, fmt.Errorf("%w: invalid channel %q", domain.ErrValidation, n.Channel)
	}

	n.ID = uuid.NewString()
	n.Status = initial
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncNotificationCreated(n.Channel.String())
	}

	if err := s.publishEvent(ctx, n); err != nil {
		logger.Error("creation event publish failed after persist",
			zap.String("notificationId", n.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return n, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	return s.notifications.GetByID(ctx, strings.TrimSpace(id))
}

func (s *NotificationService) GetByExternalID(ctx context.Context, externalID string) (*domain.Notification, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, fmt.Errorf("%w: externalId is required", domain.ErrValidation)
	}
	return s.notifications.GetByExternalID(ctx, strings.TrimSpace(externalID))
}

// List returns all notifications, optionally filtered by channel. An
// unrecognized channel filter fails validation.
func (s *NotificationService) List(ctx context.Context, channelFilter string) ([]domain.Notification, error) {
	var channel *domain.Channel
	if strings.TrimSpace(channelFilter) != "" {
		parsed, err := domain.ParseChannelFromString(channelFilter)
		if err != nil {
			return nil, err
		}
		channel = &parsed
	}
	return s.notifications.List(ctx, channel)
}

// Update applies an administrative field edit. When status is among the
// fields it is written as-is: direct edits bypass the transition table by
// design, only the webhook path enforces it. The write is still conditional
// on the record's current updated_at.
func (s *NotificationService) Update(ctx context.Context, id string, fields repository.UpdateFields) (*domain.Notification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	if fields.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	existing, err := s.notifications.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	return s.notifications.UpdateChecked(ctx, existing.ID, existing.UpdatedAt, fields)
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	return s.notifications.Delete(ctx, strings.TrimSpace(id))
}

func (s *NotificationService) publishEvent(ctx context.Context, n *domain.Notification) error {
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
