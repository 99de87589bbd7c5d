package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
	ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id uint64, userID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
	CountUnread(ctx context.Context, userID uint64) (int64, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateBatch(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]Notification, error) {
	var notifications []Notification
	scope := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		scope = scope.Where("is_read = false")
	}
	err := scope.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *RepositoryImpl) MarkRead(ctx context.Context, id uint64, userID uint64) error {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RepositoryImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}

func (r *RepositoryImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}
