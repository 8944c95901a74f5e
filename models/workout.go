// models/workout.go
package models

import (
	"time"
)

// Workout represents one recorded activity session
type Workout struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Steps       int       `json:"steps" gorm:"default:0"`
	DurationSec int       `json:"duration_sec" gorm:"default:0"`
	DistanceM   float64   `json:"distance_m" gorm:"default:0"`
	RecordedAt  time.Time `json:"recorded_at" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Workout) TableName() string {
	return "workouts"
}
