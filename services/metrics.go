// services/metrics.go - Metric snapshot builders for the milestone engine
package services

import (
	"time"

	"paceline/milestones"
	"paceline/models"

	"gorm.io/gorm"
)

// UserMetrics flattens a user's counters into the metric map the milestone
// engine evaluates. dailySteps is computed separately because it is an
// aggregate over today's workouts, not a column on the user.
func UserMetrics(user *models.User, dailySteps int, friendCount, groupCount int64) map[string]float64 {
	return map[string]float64{
		milestones.MetricWorkoutCount:   float64(user.TotalWorkouts),
		milestones.MetricTotalSteps:     float64(user.TotalSteps),
		milestones.MetricDailySteps:     float64(dailySteps),
		milestones.MetricBestDailySteps: float64(user.BestDailySteps),
		milestones.MetricCurrentStreak:  float64(user.CurrentStreak),
		milestones.MetricWins:           float64(user.Wins),
		milestones.MetricFriendCount:    float64(friendCount),
		milestones.MetricGroupCount:     float64(groupCount),
	}
}

// CountFriends counts accepted friendships in either direction.
func CountFriends(db *gorm.DB, userID uint) int64 {
	var count int64
	db.Model(&models.Friend{}).Where("user_id = ? OR friend_id = ?", userID, userID).Count(&count)
	return count
}

// CountGroups counts group memberships.
func CountGroups(db *gorm.DB, userID uint) int64 {
	var count int64
	db.Model(&models.GroupMember{}).Where("user_id = ?", userID).Count(&count)
	return count
}

// DailySteps sums the user's recorded steps for the day containing at.
func DailySteps(db *gorm.DB, userID uint, at time.Time) int {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var total int64
	db.Model(&models.Workout{}).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, dayStart, dayEnd).
		Select("COALESCE(SUM(steps), 0)").
		Scan(&total)
	return int(total)
}
