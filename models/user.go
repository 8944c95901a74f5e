// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`

	// Activity stats
	TotalWorkouts  int        `gorm:"default:0" json:"total_workouts"`
	TotalSteps     int64      `gorm:"default:0" json:"total_steps"`
	BestDailySteps int        `gorm:"default:0" json:"best_daily_steps"`
	CurrentStreak  int        `gorm:"default:0" json:"current_streak"`
	BestStreak     int        `gorm:"default:0" json:"best_streak"`
	Wins           int        `gorm:"default:0" json:"wins"`
	LastWorkoutDay *time.Time `json:"last_workout_day,omitempty"`

	// Timestamps
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login"`
	LastActivity time.Time `json:"last_activity"`

	// Relationships
	Workouts []Workout `gorm:"foreignKey:UserID" json:"workouts,omitempty"`
}

func (User) TableName() string {
	return "users"
}
