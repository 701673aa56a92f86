package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/trackwire/notification-tracker/internal/domain"
	"github.com/trackwire/notification-tracker/internal/repository"
	"github.com/trackwire/notification-tracker/internal/service"
)

type NotificationService interface {
	Create(ctx context.Context, params service.CreateParams) (*domain.Notification, error)
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Notification, error)
	List(ctx context.Context, channelFilter string) ([]domain.Notification, error)
	Update(ctx context.Context, id string, fields repository.UpdateFields) (*domain.Notification, error)
	Delete(ctx context.Context, id string) error
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{service: service}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService) error {
	h, err := NewNotificationHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/notifications", h.CreateNotification)
	v1.Get("/notifications/external/:externalId", h.GetNotificationByExternalID)
	v1.Get("/notifications/:id", h.GetNotification)
	v1.Get("/notifications", h.ListNotifications)
	v1.Patch("/notifications/:id", h.UpdateNotification)
	v1.Delete("/notifications/:id", h.DeleteNotification)

	return nil
}

type createNotificationRequest struct {
	ExternalID string `json:"externalId"`
	Channel    string `json:"channel"`
	To         string `json:"to"`
	Body       string `json:"body"`
}

type updateNotificationRequest struct {
	To   *string `json:"to"`
	Body *string `json:"body"`
}

type notificationResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"externalId"`
	Channel    string    `json:"channel"`
	To         string    `json:"to"`
	Body       string    `json:"body"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type notificationEnvelope struct {
	OK           bool                 `json:"ok"`
	Notification notificationResponse `json:"notification"`
}

type notificationListEnvelope struct {
	OK            bool                   `json:"ok"`
	Notifications []notificationResponse `json:"notifications"`
}

func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var req createNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	channel, err := domain.ParseChannelFromString(req.Channel)
	if err != nil {
		return toHTTPError(err)
	}

	created, err := h.service.Create(c.UserContext(), service.CreateParams{
		ExternalID: strings.TrimSpace(req.ExternalID),
		Channel:    channel,
		To:         strings.TrimSpace(req.To),
		Body:       req.Body,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(notificationEnvelope{
		OK:           true,
		Notification: toNotificationResponse(created),
	})
}

func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	notification, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(notificationEnvelope{
		OK:           true,
		Notification: toNotificationResponse(notification),
	})
}

func (h *NotificationHandler) GetNotificationByExternalID(c *fiber.Ctx) error {
	externalID := strings.TrimSpace(c.Params("externalId"))
	notification, err := h.service.GetByExternalID(c.UserContext(), externalID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(notificationEnvelope{
		OK:           true,
		Notification: toNotificationResponse(notification),
	})
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	notifications, err := h.service.List(c.UserContext(), c.Query("channel"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(notificationListEnvelope{
		OK:            true,
		Notifications: toNotificationResponses(notifications),
	})
}

func (h *NotificationHandler) UpdateNotification(c *fiber.Ctx) error {
	var req updateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	fields := repository.UpdateFields{To: req.To, Body: req.Body}
	if fields.IsEmpty() {
		return toHTTPError(fmt.Errorf("%w: at least one of to or body is required", domain.ErrValidation))
	}

	updated, err := h.service.Update(c.UserContext(), strings.TrimSpace(c.Params("id")), fields)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(notificationEnvelope{
		OK:           true,
		Notification: toNotificationResponse(updated),
	})
}

func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), strings.TrimSpace(c.Params("id"))); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toNotificationResponses(notifications []domain.Notification) []notificationResponse {
	responses := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		n := notification
		responses = append(responses, toNotificationResponse(&n))
	}
	return responses
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	if n == nil {
		return notificationResponse{}
	}

	return notificationResponse{
		ID:         n.ID,
		ExternalID: n.ExternalID,
		Channel:    n.Channel.String(),
		To:         n.To,
		Body:       n.Body,
		Status:     n.Status.String(),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPublish):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return err
	}
}
