// handlers/users.go
package handlers

import (
	"paceline/database"
	"paceline/middleware"
	"paceline/models"
	"paceline/services"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser returns the authenticated user's profile
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userInfo(user),
	})
}

// GetUserStats returns the caller's counters plus achievement totals
func GetUserStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	engine := services.GetMilestoneEngine()
	achieved := engine.GetAchievedMilestones(userID)

	return c.JSON(fiber.Map{
		"success":          true,
		"total_workouts":   user.TotalWorkouts,
		"total_steps":      user.TotalSteps,
		"best_daily_steps": user.BestDailySteps,
		"current_streak":   user.CurrentStreak,
		"best_streak":      user.BestStreak,
		"wins":             user.Wins,
		"friend_count":     services.CountFriends(db, userID),
		"group_count":      services.CountGroups(db, userID),
		"achievements":     len(achieved),
		"milestones_total": len(engine.GetAllMilestones()),
	})
}
