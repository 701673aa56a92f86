package observability

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "info", level: "info"},
		{name: "debug", level: "debug"},
		{name: "warn with padding", level: " WARN "},
		{name: "empty defaults to info", level: ""},
		{name: "invalid", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("NewLogger() returned nil logger")
			}
		})
	}
}

func TestCorrelationIDContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithCorrelationID(context.Background(), "corr-123")

	got, ok := CorrelationIDFromContext(ctx)
	if !ok {
		t.Fatal("correlation id should be present")
	}
	if got != "corr-123" {
		t.Fatalf("correlation id = %q, want corr-123", got)
	}

	if _, ok := CorrelationIDFromContext(context.Background()); ok {
		t.Fatal("empty context should not carry a correlation id")
	}
}

func TestWithContextLogger(t *testing.T) {
	t.Parallel()

	base := zap.NewNop()

	if got := WithContextLogger(nil, context.Background()); got != nil {
		t.Fatal("nil logger should stay nil")
	}

	if got := WithContextLogger(base, context.Background()); got != base {
		t.Fatal("logger without correlation id should be returned unchanged")
	}

	ctx := WithCorrelationID(context.Background(), "corr-456")
	if got := WithContextLogger(base, ctx); got == base {
		t.Fatal("logger with correlation id should be decorated")
	}
}
