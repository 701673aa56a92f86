package stream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/trackwire/notification-tracker/internal/domain"
)

func TestEventFromNotification(t *testing.T) {
	t.Parallel()

	updatedAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	n := &domain.Notification{
		ID:         "n-1",
		ExternalID: "ext-1",
		Channel:    domain.ChannelChat,
		To:         "+5511999999999",
		Body:       "hello",
		Status:     domain.StatusDelivered,
		UpdatedAt:  updatedAt,
	}

	event := EventFromNotification(n)

	if event.ID != "n-1" {
		t.Fatalf("event id = %s, want n-1", event.ID)
	}
	if event.ExternalID != "ext-1" {
		t.Fatalf("event externalId = %s, want ext-1", event.ExternalID)
	}
	if event.Status != domain.StatusDelivered {
		t.Fatalf("event status = %s, want delivered", event.Status)
	}
	if !event.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("event updatedAt = %v, want %v", event.UpdatedAt, updatedAt)
	}

	if err := event.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	valid := NotificationEvent{
		ID:         "n-1",
		ExternalID: "ext-1",
		Status:     domain.StatusSent,
		Channel:    domain.ChannelSMS,
	}

	tests := []struct {
		name   string
		mutate func(e *NotificationEvent)
	}{
		{name: "missing id", mutate: func(e *NotificationEvent) { e.ID = "" }},
		{name: "missing external id", mutate: func(e *NotificationEvent) { e.ExternalID = " " }},
		{name: "invalid status", mutate: func(e *NotificationEvent) { e.Status = "queued" }},
		{name: "invalid channel", mutate: func(e *NotificationEvent) { e.Channel = "fax" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := valid
			tt.mutate(&e)
			if err := e.Validate(); err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
		})
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestEventJSONShape(t *testing.T) {
	t.Parallel()

	event := NotificationEvent{
		ID:         "n-1",
		ExternalID: "ext-1",
		Status:     domain.StatusProcessing,
		Channel:    domain.ChannelSMS,
		To:         "+5511999999999",
		Body:       "hello",
		UpdatedAt:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	for _, field := range []string{"id", "externalId", "status", "channel", "to", "body", "updatedAt"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("payload missing field %q", field)
		}
	}
}
