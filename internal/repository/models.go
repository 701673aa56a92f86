package repository

import (
	"time"

	"github.com/trackwire/notification-tracker/internal/domain"
)

// NotificationModel is the persistence model for the notifications table.
type NotificationModel struct {
	ID         string         `gorm:"type:uuid;primaryKey"`
	ExternalID string         `gorm:"type:varchar(255);not null"`
	Channel    domain.Channel `gorm:"type:varchar(10);not null"`
	To         string         `gorm:"column:to;type:varchar(255);not null"`
	Body       string         `gorm:"type:text;not null"`
	Status     domain.Status  `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:         n.ID,
		ExternalID: n.ExternalID,
		Channel:    n.Channel,
		To:         n.To,
		Body:       n.Body,
		Status:     n.Status,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}

	return &domain.Notification{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Channel:    m.Channel,
		To:         m.To,
		Body:       m.Body,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
