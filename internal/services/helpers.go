package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
)

// Actor identifies the authenticated user performing a service call.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// normalisePage clamps pagination inputs to sane bounds.
func normalisePage(page, perPage, defaultPerPage, maxPerPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

// notifyTx appends a notification row inside the caller's transaction so the
// fan-out commits or rolls back together with the triggering mutation.
func notifyTx(tx *gorm.DB, userID, title, message string) error {
	return tx.Create(&models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}).Error
}

// activityTx appends an activity log row inside the caller's transaction.
func activityTx(tx *gorm.DB, userID *string, activity string, metadata map[string]any) error {
	entry := models.ActivityLog{
		UserID:   userID,
		Activity: activity,
	}
	if metadata != nil {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		entry.Metadata = datatypes.JSON(encoded)
	}
	return tx.Create(&entry).Error
}
