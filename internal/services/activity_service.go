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
	activityDefaultPerPage = 25
	activityMaxPerPage     = 100
)

// ActivityService records and exposes the append-only audit trail.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService constructs an ActivityService.
func NewActivityService(db *gorm.DB) (*ActivityService, error) {
	if db == nil {
		return nil, errors.New("activity service: db is required")
	}
	return &ActivityService{db: db}, nil
}

// Log appends an audit entry outside any transaction.
func (s *ActivityService) Log(ctx context.Context, userID *string, activity string, metadata map[string]any) error {
	ctx = ensureContext(ctx)
	if err := activityTx(s.db.WithContext(ctx), userID, activity, metadata); err != nil {
		return fmt.Errorf("activity service: log: %w", err)
	}
	return nil
}

// List returns audit entries, newest first.
func (s *ActivityService) List(ctx context.Context, page, perPage int) ([]models.ActivityLog, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage = normalisePage(page, perPage, activityDefaultPerPage, activityMaxPerPage)

	query := s.db.WithContext(ctx).Model(&models.ActivityLog{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("activity service: count: %w", err)
	}

	var entries []models.ActivityLog
	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("activity service: list: %w", err)
	}
	return entries, total, nil
}

// CleanupOlderThan deletes audit entries older than the retention window and
// returns the number removed.
func (s *ActivityService) CleanupOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	ctx = ensureContext(ctx)

	cutoff := time.Now().Add(-retention)
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ActivityLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("activity service: cleanup: %w", result.Error)
	}
	return result.RowsAffected, nil
}
