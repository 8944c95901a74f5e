// models/storage.go - Key-value entries and analytics events
package models

import (
	"time"
)

// KVEntry backs the durable key-value store handed to the milestone engine.
type KVEntry struct {
	Key       string    `json:"key" gorm:"primaryKey;size:255"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnalyticsEvent is the durable copy of an outward notification.
type AnalyticsEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    string    `json:"event_id" gorm:"uniqueIndex;size:36"`
	UserID     uint      `json:"user_id" gorm:"index"`
	Name       string    `json:"name" gorm:"not null;size:100;index"`
	Properties string    `json:"properties" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
