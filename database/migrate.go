// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"paceline/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Workout{},
		&models.Friend{},
		&models.FriendRequest{},
		&models.Group{},
		&models.GroupMember{},
		&models.KVEntry{},
		&models.AnalyticsEvent{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes for core tables
func createIndexes() {
	db := GetDB()

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_streak ON users(current_streak DESC)")

	// Workout indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_workouts_user ON workouts(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_workouts_recorded ON workouts(recorded_at DESC)")

	// Social indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_friends_user ON friends(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_friends_friend ON friends(friend_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_friend_requests_to ON friend_requests(to_user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_friend_requests_from ON friend_requests(from_user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_group_members_group ON group_members(group_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)")

	// Analytics indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_analytics_events_user ON analytics_events(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_analytics_events_name ON analytics_events(name)")
}
