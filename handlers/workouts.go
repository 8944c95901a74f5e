// handlers/workouts.go
package handlers

import (
	"time"

	"paceline/database"
	"paceline/middleware"
	"paceline/milestones"
	"paceline/models"
	"paceline/services"

	"github.com/gofiber/fiber/v2"
)

type RecordWorkoutRequest struct {
	Steps       int     `json:"steps"`
	DurationSec int     `json:"duration_sec"`
	DistanceM   float64 `json:"distance_m"`
}

// RecordWorkout stores one activity session, updates the user's counters and
// streak, and evaluates the milestone registry against the before/after
// metric snapshots.
func RecordWorkout(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req RecordWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Steps < 0 || req.DurationSec < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Steps and duration must not be negative"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Snapshot the metrics before applying the workout.
	friendCount := services.CountFriends(db, userID)
	groupCount := services.CountGroups(db, userID)
	dailyBefore := services.DailySteps(db, userID, now)
	previous := services.UserMetrics(&user, dailyBefore, friendCount, groupCount)

	// Apply the workout.
	user.TotalWorkouts++
	user.TotalSteps += int64(req.Steps)

	switch {
	case user.LastWorkoutDay == nil:
		user.CurrentStreak = 1
	case user.LastWorkoutDay.Equal(today):
		// Second workout today, streak unchanged.
	case user.LastWorkoutDay.Equal(today.AddDate(0, 0, -1)):
		user.CurrentStreak++
	default:
		user.CurrentStreak = 1
	}
	user.LastWorkoutDay = &today
	if user.CurrentStreak > user.BestStreak {
		user.BestStreak = user.CurrentStreak
	}

	dailyAfter := dailyBefore + req.Steps
	if dailyAfter > user.BestDailySteps {
		user.BestDailySteps = dailyAfter
	}

	workout := models.Workout{
		UserID:      userID,
		Steps:       req.Steps,
		DurationSec: req.DurationSec,
		DistanceM:   req.DistanceM,
		RecordedAt:  now,
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&workout).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record workout"})
	}
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	current := services.UserMetrics(&user, dailyAfter, friendCount, groupCount)
	newAchievements := services.GetMilestoneEngine().Evaluate(milestones.Context{
		Current:  current,
		Previous: previous,
		UserID:   userID,
	})

	return c.JSON(fiber.Map{
		"success":          true,
		"workout":          workout,
		"total_steps":      user.TotalSteps,
		"daily_steps":      dailyAfter,
		"current_streak":   user.CurrentStreak,
		"best_streak":      user.BestStreak,
		"new_achievements": newAchievements,
	})
}

// GetWorkoutHistory returns the caller's workouts, newest first
func GetWorkoutHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := database.GetDB()
	var workouts []models.Workout
	if err := db.Where("user_id = ?", userID).Order("recorded_at DESC").Limit(limit).Find(&workouts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch workouts"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"workouts": workouts,
		"total":    len(workouts),
	})
}

// ReportWin records a challenge win reported by the competition service and
// evaluates the competition milestones.
func ReportWin(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	friendCount := services.CountFriends(db, userID)
	groupCount := services.CountGroups(db, userID)
	daily := services.DailySteps(db, userID, time.Now())
	previous := services.UserMetrics(&user, daily, friendCount, groupCount)

	user.Wins++
	if err := db.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	current := services.UserMetrics(&user, daily, friendCount, groupCount)
	newAchievements := services.GetMilestoneEngine().Evaluate(milestones.Context{
		Current:  current,
		Previous: previous,
		UserID:   userID,
	})

	return c.JSON(fiber.Map{
		"success":          true,
		"wins":             user.Wins,
		"new_achievements": newAchievements,
	})
}
