package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
)

const (
	notificationDefaultPerPage = 20
	notificationMaxPerPage     = 100
)

// NotificationService exposes a user's notification feed.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db}, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, page, perPage int) ([]models.Notification, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage = normalisePage(page, perPage, notificationDefaultPerPage, notificationMaxPerPage)

	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id_pengguna = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("notification service: count: %w", err)
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("notification service: list: %w", err)
	}
	return notifications, total, nil
}

// CountUnread returns the number of unread notifications for the user.
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id_pengguna = ? AND sudah_dibaca = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("notification service: count unread: %w", err)
	}
	return count, nil
}

// MarkRead flags a single notification as read. Scoped to the owner so a
// foreign id behaves like a missing one.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	ctx = ensureContext(ctx)

	var notification models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND id_pengguna = ?", notificationID, userID).
		First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("notification service: load: %w", err)
	}

	if !notification.IsRead {
		notification.IsRead = true
		if err := s.db.WithContext(ctx).Save(&notification).Error; err != nil {
			return nil, fmt.Errorf("notification service: mark read: %w", err)
		}
	}
	return &notification, nil
}

// CleanupReadOlderThan deletes read notifications older than the retention
// window and returns the number removed.
func (s *NotificationService) CleanupReadOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	ctx = ensureContext(ctx)

	cutoff := time.Now().Add(-retention)
	result := s.db.WithContext(ctx).
		Where("sudah_dibaca = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: cleanup: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// MarkAllRead flags every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id_pengguna = ? AND sudah_dibaca = ?", userID, false).
		Update("sudah_dibaca", true)
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: mark all read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
