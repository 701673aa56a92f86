package domain

import (
	"errors"
	"testing"
)

func TestParseStatusFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "lowercase", input: "delivered", want: StatusDelivered},
		{name: "mixed case", input: "Sent", want: StatusSent},
		{name: "padded", input: "  viewed ", want: StatusViewed},
		{name: "unknown", input: "queued", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStatusFromString(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseStatusFromString(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseChannelFromString(t *testing.T) {
	t.Parallel()

	if _, err := ParseChannelFromString("email"); !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	ch, err := ParseChannelFromString("CHAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch != ChannelChat {
		t.Fatalf("channel = %s, want chat", ch)
	}
}

func TestNotificationValidate(t *testing.T) {
	t.Parallel()

	valid := Notification{
		ExternalID: "ext-1",
		Channel:    ChannelSMS,
		To:         "+5511999999999",
		Body:       "hello",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(n *Notification)
	}{
		{name: "missing external id", mutate: func(n *Notification) { n.ExternalID = " " }},
		{name: "invalid channel", mutate: func(n *Notification) { n.Channel = "fax" }},
		{name: "missing to", mutate: func(n *Notification) { n.To = "" }},
		{name: "missing body", mutate: func(n *Notification) { n.Body = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := valid
			tt.mutate(&n)
			if err := n.Validate(); !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}
