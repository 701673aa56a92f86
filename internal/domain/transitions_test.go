package domain

import "testing"

func TestCanTransitionForwardOnly(t *testing.T) {
	t.Parallel()

	for channel, order := range statusOrder {
		for i, from := range order {
			for j, to := range order {
				got := CanTransition(channel, from, to)
				want := j > i && from != StatusRejected
				if got != want {
					t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", channel, from, to, got, want)
				}
			}
		}
	}
}

func TestCanTransitionRejectedIsTerminal(t *testing.T) {
	t.Parallel()

	targets := []Status{StatusProcessing, StatusRejected, StatusSent, StatusDelivered, StatusViewed}
	for _, channel := range []Channel{ChannelSMS, ChannelChat} {
		for _, to := range targets {
			if CanTransition(channel, StatusRejected, to) {
				t.Errorf("CanTransition(%s, rejected, %s) = true, want false", channel, to)
			}
		}
	}
}

func TestCanTransitionUnknownInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		channel Channel
		from    Status
		to      Status
	}{
		{name: "unknown channel", channel: Channel("fax"), from: StatusProcessing, to: StatusSent},
		{name: "unknown from status", channel: ChannelSMS, from: Status("queued"), to: StatusSent},
		{name: "unknown to status", channel: ChannelSMS, from: StatusProcessing, to: Status("queued")},
		{name: "viewed not in sms ordering", channel: ChannelSMS, from: StatusDelivered, to: StatusViewed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if CanTransition(tt.channel, tt.from, tt.to) {
				t.Fatalf("CanTransition(%s, %s, %s) = true, want false", tt.channel, tt.from, tt.to)
			}
		})
	}
}

func TestCanTransitionSkipsIntermediate(t *testing.T) {
	t.Parallel()

	if !CanTransition(ChannelSMS, StatusProcessing, StatusDelivered) {
		t.Fatal("processing -> delivered should be allowed on sms (skipping is permitted)")
	}
	if !CanTransition(ChannelChat, StatusSent, StatusViewed) {
		t.Fatal("sent -> viewed should be allowed on chat")
	}
}

func TestStatusOrder(t *testing.T) {
	t.Parallel()

	sms := StatusOrder(ChannelSMS)
	if len(sms) != 4 {
		t.Fatalf("StatusOrder(sms) len = %d, want 4", len(sms))
	}
	chat := StatusOrder(ChannelChat)
	if len(chat) != 5 {
		t.Fatalf("StatusOrder(chat) len = %d, want 5", len(chat))
	}
	if chat[len(chat)-1] != StatusViewed {
		t.Fatalf("chat ordering should end with viewed, got %s", chat[len(chat)-1])
	}
	if StatusOrder(Channel("fax")) != nil {
		t.Fatal("unknown channel should return nil ordering")
	}

	// Returned slice must be a copy; mutating it must not poison the table.
	sms[0] = StatusViewed
	if got := StatusOrder(ChannelSMS)[0]; got != StatusProcessing {
		t.Fatalf("StatusOrder(sms)[0] = %s after caller mutation, want processing", got)
	}
}

func TestInitialStatus(t *testing.T) {
	t.Parallel()

	for _, channel := range []Channel{ChannelSMS, ChannelChat} {
		first, ok := InitialStatus(channel)
		if !ok {
			t.Fatalf("InitialStatus(%s) not found", channel)
		}
		if first != StatusProcessing {
			t.Fatalf("InitialStatus(%s) = %s, want processing", channel, first)
		}
	}

	if _, ok := InitialStatus(Channel("fax")); ok {
		t.Fatal("InitialStatus should not resolve an unknown channel")
	}
}
