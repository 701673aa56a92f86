package observability

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsLifecycleCollectors(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()

	metrics.IncNotificationCreated("SMS")
	metrics.IncWebhookEvent("sms", WebhookOutcomeApplied)
	metrics.IncWebhookEvent("sms", WebhookOutcomeStale)
	metrics.IncEventPublished("notification-events")
	metrics.IncEventPublishFailure("notification-events")
	metrics.ObserveSenderRequestDuration("sms", 120*time.Millisecond)

	if got := testutil.ToFloat64(metrics.notificationsCreatedTotal.WithLabelValues("sms")); got != 1 {
		t.Fatalf("notifications_created_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.webhookEventsTotal.WithLabelValues("sms", "applied")); got != 1 {
		t.Fatalf("webhook_events_total{applied} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.webhookEventsTotal.WithLabelValues("sms", "stale")); got != 1 {
		t.Fatalf("webhook_events_total{stale} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.eventsPublishedTotal.WithLabelValues("notification-events")); got != 1 {
		t.Fatalf("events_published_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.eventPublishFailuresTotal.WithLabelValues("notification-events")); got != 1 {
		t.Fatalf("event_publish_failures_total = %v, want 1", got)
	}
}

func TestMetricsHTTPMiddlewareRecordsRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/livez", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/livez", "200")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}

func TestMetricsHTTPMiddlewareRecordsErrorStatus(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	_, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}
