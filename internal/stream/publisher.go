package stream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trackwire/notification-tracker/internal/domain"
)

// NotificationEvent is the message value published on every confirmed state
// change (creation and accepted webhook transitions alike).
type NotificationEvent struct {
	ID         string         `json:"id"`
	ExternalID string         `json:"externalId"`
	Status     domain.Status  `json:"status"`
	Channel    domain.Channel `json:"channel"`
	To         string         `json:"to"`
	Body       string         `json:"body"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func EventFromNotification(n *domain.Notification) NotificationEvent {
	if n == nil {
		return NotificationEvent{}
	}

	return NotificationEvent{
		ID:         n.ID,
		ExternalID: n.ExternalID,
		Status:     n.Status,
		Channel:    n.Channel,
		To:         n.To,
		Body:       n.Body,
		UpdatedAt:  n.UpdatedAt,
	}
}

func (e NotificationEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(e.ExternalID) == "" {
		return fmt.Errorf("event externalId is required")
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("invalid event status %q", e.Status)
	}
	if !e.Channel.IsValid() {
		return fmt.Errorf("invalid event channel %q", e.Channel)
	}
	return nil
}

// Publisher emits a domain event to the external stream. Implementations must
// make the message visible exactly once or not at all per attempt, and keep
// at most one send in flight so sequential publishes with the same key stay
// ordered. Failures wrap domain.ErrPublish.
type Publisher interface {
	Publish(ctx context.Context, topic string, event NotificationEvent, key string) error
	Close() error
}
