package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileHistory records one changed profile field
type ProfileHistory struct {
	Base
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Field     string    `gorm:"size:32;not null" json:"field"`
	OldValue  string    `gorm:"type:text" json:"old_value"`
	NewValue  string    `gorm:"type:text" json:"new_value"`
	ChangedAt time.Time `gorm:"not null;index" json:"changed_at"`
}

func (ProfileHistory) TableName() string {
	return "profile_history"
}
