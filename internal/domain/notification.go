package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the delivery lifecycle state of a notification.
// The set is global; which values are reachable, and in what order,
// depends on the channel (see transitions.go).
type Status string

const (
	StatusProcessing Status = "processing"
	StatusRejected   Status = "rejected"
	StatusSent       Status = "sent"
	StatusDelivered  Status = "delivered"
	StatusViewed     Status = "viewed"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusRejected, StatusSent, StatusDelivered, StatusViewed:
		return true
	}
	return false
}

func ParseStatusFromString(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid status %q", ErrValidation, s)
	}
	return st, nil
}

// Channel represents the delivery medium and selects the status ordering.
type Channel string

const (
	ChannelSMS  Channel = "sms"
	ChannelChat Channel = "chat"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelSMS, ChannelChat:
		return true
	}
	return false
}

func ParseChannelFromString(s string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !ch.IsValid() {
		return "", fmt.Errorf("%w: invalid channel %q", ErrValidation, s)
	}
	return ch, nil
}

// Notification is the core domain entity tracked through its delivery lifecycle.
// ExternalID is the caller-supplied idempotency key, unique across the system.
// UpdatedAt doubles as the ordering token for out-of-order webhook rejection
// and as the optimistic-concurrency token for checked updates.
type Notification struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	ExternalID string  `gorm:"type:varchar(255);not null"`
	Channel    Channel `gorm:"type:varchar(10);not null"`
	To         string  `gorm:"type:varchar(255);not null"`
	Body       string  `gorm:"type:text;not null"`
	Status     Status  `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (n *Notification) Validate() error {
	if strings.TrimSpace(n.ExternalID) == "" {
		return fmt.Errorf("%w: externalId is required", ErrValidation)
	}
	if !n.Channel.IsValid() {
		return fmt.Errorf("%w: invalid channel %q", ErrValidation, n.Channel)
	}
	if strings.TrimSpace(n.To) == "" {
		return fmt.Errorf("%w: to is required", ErrValidation)
	}
	if strings.TrimSpace(n.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}
	return nil
}
