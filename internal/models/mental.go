package models

import (
	"time"

	"github.com/google/uuid"
)

// MoodEntry is one mood log
type MoodEntry struct {
	Base
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Mood       int       `gorm:"not null" json:"mood"`
	Emotion    string    `gorm:"size:64" json:"emotion"`
	Notes      string    `gorm:"type:text" json:"notes"`
	RecordedAt time.Time `gorm:"not null;index" json:"recorded_at"`
}

// BreathingSession is a completed guided breathing exercise
type BreathingSession struct {
	Base
	UserID          uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Technique       string    `gorm:"size:64;not null" json:"technique"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	CompletedAt     time.Time `gorm:"not null" json:"completed_at"`
}
