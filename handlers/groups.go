// handlers/groups.go
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

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// GetGroups lists public groups plus the caller's memberships
func GetGroups(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var groups []models.Group
	if err := db.Where("is_public = ?", true).
		Or("id IN (SELECT group_id FROM group_members WHERE user_id = ?)", userID).
		Find(&groups).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch groups"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"groups":  groups,
		"total":   len(groups),
	})
}

// CreateGroup creates a group with the caller as owner. Owning a group counts
// as membership for the group milestones.
func CreateGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Group name required"})
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	db := database.GetDB()
	before := services.CountGroups(db, userID)

	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    isPublic,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&group).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create group"})
	}
	member := models.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		Role:     "owner",
		JoinedAt: time.Now(),
	}
	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to add owner"})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	newAchievements := evaluateGroupCount(userID, before)

	return c.JSON(fiber.Map{
		"success":          true,
		"group":            group,
		"new_achievements": newAchievements,
	})
}

// JoinGroup adds the caller to a group and evaluates the group milestones
func JoinGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	groupID, err := c.ParamsInt("id")
	if err != nil || groupID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	db := database.GetDB()
	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
	}
	if !group.IsPublic {
		return c.Status(403).JSON(fiber.Map{"error": "Group is private"})
	}

	var existing models.GroupMember
	if err := db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&existing).Error; err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Already a member"})
	}

	before := services.CountGroups(db, userID)

	member := models.GroupMember{
		GroupID:  uint(groupID),
		UserID:   userID,
		Role:     "member",
		JoinedAt: time.Now(),
	}
	if err := db.Create(&member).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to join group"})
	}

	newAchievements := evaluateGroupCount(userID, before)

	return c.JSON(fiber.Map{
		"success":          true,
		"group":            group,
		"new_achievements": newAchievements,
	})
}

// LeaveGroup removes the caller's membership
func LeaveGroup(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	groupID, err := c.ParamsInt("id")
	if err != nil || groupID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid group id"})
	}

	db := database.GetDB()
	result := db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.GroupMember{})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to leave group"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Not a member"})
	}

	return c.JSON(fiber.Map{"success": true})
}

func evaluateGroupCount(userID uint, before int64) []milestones.AchievedMilestone {
	after := services.CountGroups(database.GetDB(), userID)
	return services.GetMilestoneEngine().Evaluate(milestones.Context{
		Current:  map[string]float64{milestones.MetricGroupCount: float64(after)},
		Previous: map[string]float64{milestones.MetricGroupCount: float64(before)},
		UserID:   userID,
	})
}
