package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/trackwire/notification-tracker/internal/domain"
	"github.com/trackwire/notification-tracker/internal/ratelimit"
	"github.com/trackwire/notification-tracker/internal/service"
)

type WebhookService interface {
	Process(ctx context.Context, externalID string, payload service.WebhookPayload) (*domain.Notification, error)
}

type WebhookHandler struct {
	service WebhookService
	limiter ratelimit.RateLimiter
}

func NewWebhookHandler(service WebhookService, limiter ratelimit.RateLimiter) (*WebhookHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("webhook service is required")
	}
	return &WebhookHandler{service: service, limiter: limiter}, nil
}

func RegisterWebhookRoutes(router fiber.Router, service WebhookService, limiter ratelimit.RateLimiter) error {
	h, err := NewWebhookHandler(service, limiter)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/webhook/:externalId", h.ReceiveWebhook)

	return nil
}

type webhookRequest struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
}

// ReceiveWebhook ingests a provider delivery-status callback. Stale events
// are acknowledged with 200 so the provider stops redelivering them.
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	var req webhookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.UserContext(), webhookLimiterKey(c))
		if err != nil {
			return err
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "webhook rate limit exceeded")
		}
	}

	result, err := h.service.Process(c.UserContext(), strings.TrimSpace(c.Params("externalId")), service.WebhookPayload{
		Timestamp: req.Timestamp,
		Event:     req.Event,
	})
	if err != nil {
		return toHTTPError(err)
	}

	if result == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":      true,
			"message": "older event ignored",
		})
	}

	return c.Status(fiber.StatusOK).JSON(notificationEnvelope{
		OK:           true,
		Notification: toNotificationResponse(result),
	})
}

// webhookLimiterKey buckets callbacks by declared channel when the provider
// supplies one, falling back to a shared bucket.
func webhookLimiterKey(c *fiber.Ctx) string {
	if channel := strings.TrimSpace(c.Query("channel")); channel != "" {
		return strings.ToLower(channel)
	}
	return "all"
}
