package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLog is an append-only audit trail entry for privileged actions.
type ActivityLog struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    *string        `gorm:"column:id_pengguna;type:uuid;index" json:"id_pengguna"`
	User      *User          `gorm:"foreignKey:UserID" json:"pengguna,omitempty"`
	Activity  string         `gorm:"column:aktivitas;type:text;not null" json:"aktivitas"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
