package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trackwire/notification-tracker/internal/domain"
	"gorm.io/gorm"
)

// UpdateFields is the partial field set for checked updates. Nil members are
// left untouched.
type UpdateFields struct {
	To     *string
	Body   *string
	Status *domain.Status
}

func (f UpdateFields) IsEmpty() bool {
	return f.To == nil && f.Body == nil && f.Status == nil
}

// NotificationRepository is the store contract consumed by the engines.
// UpdateChecked is conditional on the previously read updated_at value so two
// racing writers cannot both apply against the same stale snapshot.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Notification, error)
	List(ctx context.Context, channel *domain.Channel) ([]domain.Notification, error)
	UpdateChecked(ctx context.Context, id string, expectedUpdatedAt time.Time, fields UpdateFields) (*domain.Notification, error)
	Delete(ctx context.Context, id string) error
}

type GormNotificationRepo struct {
	db *gorm.DB
}

func NewGormNotificationRepo(db *gorm.DB) *GormNotificationRepo {
	return &GormNotificationRepo{db: db}
}

func (r *GormNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	model := notificationModelFromDomain(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolationError(err) {
			return fmt.Errorf("%w: externalId %q already exists", domain.ErrDuplicate, model.ExternalID)
		}
		return err
	}
	if n != nil {
		*n = *notificationModelToDomain(model)
	}
	return nil
}

func (r *GormNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: notification id=%s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return notificationModelToDomain(&model), nil
}

func (r *GormNotificationRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: notification externalId=%s", domain.ErrNotFound, externalID)
	}
	if err != nil {
		return nil, err
	}
	return notificationModelToDomain(&model), nil
}

func (r *GormNotificationRepo) List(ctx context.Context, channel *domain.Channel) ([]domain.Notification, error) {
	query := r.db.WithContext(ctx).Model(&NotificationModel{})
	if channel != nil {
		query = query.Where("channel = ?", *channel)
	}

	var models []NotificationModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, *notificationModelToDomain(&models[i]))
	}

	return notifications, nil
}

// UpdateChecked applies the given field subset iff the row's updated_at still
// equals expectedUpdatedAt. Zero rows affected is disambiguated into not-found
// vs lost-race conflict with a follow-up read.
func (r *GormNotificationRepo) UpdateChecked(
	ctx context.Context,
	id string,
	expectedUpdatedAt time.Time,
	fields UpdateFields,
) (*domain.Notification, error) {
	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if fields.To != nil {
		updates["to"] = *fields.To
	}
	if fields.Body != nil {
		updates["body"] = *fields.Body
	}
	if fields.Status != nil {
		updates["status"] = *fields.Status
	}

	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ? AND updated_at = ?", id, expectedUpdatedAt).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: notification id=%s was modified concurrently", domain.ErrConflict, id)
	}

	return r.GetByID(ctx, id)
}

func (r *GormNotificationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&NotificationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: notification id=%s", domain.ErrNotFound, id)
	}
	return nil
}

func isUniqueViolationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
