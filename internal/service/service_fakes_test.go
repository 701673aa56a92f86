package service

import (
	"context"
	"time"

	"github.com/trackwire/notification-tracker/internal/domain"
	"github.com/trackwire/notification-tracker/internal/repository"
	"github.com/trackwire/notification-tracker/internal/sender"
	"github.com/trackwire/notification-tracker/internal/stream"
)

type fakeNotificationRepo struct {
	createFn          func(ctx context.Context, n *domain.Notification) error
	getByIDFn         func(ctx context.Context, id string) (*domain.Notification, error)
	getByExternalIDFn func(ctx context.Context, externalID string) (*domain.Notification, error)
	listFn            func(ctx context.Context, channel *domain.Channel) ([]domain.Notification, error)
	updateCheckedFn   func(ctx context.Context, id string, expectedUpdatedAt time.Time, fields repository.UpdateFields) (*domain.Notification, error)
	deleteFn          func(ctx context.Context, id string) error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, n)
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeNotificationRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Notification, error) {
	if f.getByExternalIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByExternalIDFn(ctx, externalID)
}

func (f *fakeNotificationRepo) List(ctx context.Context, channel *domain.Channel) ([]domain.Notification, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, channel)
}

func (f *fakeNotificationRepo) UpdateChecked(ctx context.Context, id string, expectedUpdatedAt time.Time, fields repository.UpdateFields) (*domain.Notification, error) {
	if f.updateCheckedFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.updateCheckedFn(ctx, id, expectedUpdatedAt, fields)
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

type fakeSender struct {
	sendFn func(ctx context.Context, req sender.SendRequest) (*sender.SendResponse, error)
	calls  int
}

func (f *fakeSender) Send(ctx context.Context, req sender.SendRequest) (*sender.SendResponse, error) {
	f.calls++
	if f.sendFn == nil {
		return &sender.SendResponse{ProviderMessageID: "provider-1", StatusCode: 200}, nil
	}
	return f.sendFn(ctx, req)
}

type fakePublisher struct {
	publishFn func(ctx context.Context, topic string, event stream.NotificationEvent, key string) error
	published []stream.NotificationEvent
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, event stream.NotificationEvent, key string) error {
	if f.publishFn != nil {
		if err := f.publishFn(ctx, topic, event, key); err != nil {
			return err
		}
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
