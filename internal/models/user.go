package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// UserProfile holds anthropometrics and the admin flag
type UserProfile struct {
	Base
	UserID    uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	FullName  string     `gorm:"size:255" json:"full_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    string     `gorm:"size:16" json:"gender"`
	HeightCm  float64    `json:"height_cm"`
	WeightKg  float64    `json:"weight_kg"`
	IsAdmin   bool       `gorm:"not null;default:false" json:"is_admin"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
